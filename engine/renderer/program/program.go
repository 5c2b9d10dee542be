package program

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
)

//go:embed assets/vertex.glsl
var vertexTemplate string

//go:embed assets/fragment.glsl
var fragmentTemplate string

// TexturesUniform is the sampler array every texture unit is bound to.
const TexturesUniform = "u_textures"

// header opens both shaders.
const header = "precision mediump float;\n"

// Kind is the return type of a material input, used as a registration mask.
type Kind int

const (
	// KindVertex inputs are evaluated in the vertex shader and return a vec3.
	KindVertex Kind = 1 << iota
	KindVec4
	KindFloat
)

// inputKinds maps material input uniforms to the kind of expression they accept.
var inputKinds = map[string]Kind{
	"u_baseColor":      KindVec4,
	"u_glossiness":     KindVec4,
	"u_normals":        KindVertex,
	"u_positionOffset": KindVertex,
	"u_metalness":      KindFloat,
}

// InputKind reports the kind of expression a material input accepts.
//
// Parameters:
//   - input: the input uniform, e.g. "u_baseColor"
//
// Returns:
//   - Kind: the expression kind
//   - bool: false if input is not a material input
func InputKind(input string) (Kind, bool) {
	k, ok := inputKinds[input]
	return k, ok
}

// attribute and varying declarations, in the order they are emitted.
var (
	attributes = [][2]string{{"vec3", "a_pos"}, {"vec2", "a_texCoord"}, {"vec3", "a_normals"}}
	varyings   = [][2]string{{"vec2", "v_textureCoordinate"}, {"vec3", "v_normal"}, {"vec3", "v_position"}, {"vec3", "v_eyeVector"}}
)

// baseUniforms returns the uniforms every program declares, with their defaults.
func baseUniforms() ([]string, []any) {
	names := []string{
		"u_perspective", "u_view", "u_resolution", "u_transform", "u_size", "u_time",
		"u_opacity", "u_metalness", "u_glossiness", "u_baseColor", "u_normals",
		"u_positionOffset", "u_lightPosition", "u_lightColor", "u_ambientLight",
		"u_flatShading", "u_numLights", "u_cutout",
	}
	values := []any{
		common.IdentityMatrix(), common.IdentityMatrix(), []float32{0, 0, 0}, common.IdentityMatrix(),
		[]float32{1, 1, 1}, float32(0), float32(1), float32(0), []float32{0, 0, 0, 0},
		[]float32{1, 1, 1, 1}, []float32{0, 0, 0}, []float32{0, 0, 0}, common.IdentityMatrix(),
		common.IdentityMatrix(), []float32{0, 0, 0}, float32(0), float32(0), float32(0),
	}
	return names, values
}

var (
	// ErrUnknownInput is returned when a material is registered for a uniform that is not a
	// material input.
	ErrUnknownInput = errors.New("program: unknown material input")

	// ErrTextureUnitsExhausted is returned when more textured materials are registered than
	// there are texture units.
	ErrTextureUnitsExhausted = errors.New("program: texture units exhausted")
)

// UniformTypeError reports a uniform value whose shape has no upload entry point.
type UniformTypeError struct {
	Name  string
	Value any
}

func (e *UniformTypeError) Error() string {
	if s, ok := floats(e.Value); ok {
		return fmt.Sprintf("program: uniform %q has unsupported length %d", e.Name, len(s))
	}
	return fmt.Sprintf("program: uniform %q has unsupported type %T", e.Name, e.Value)
}

// CheckUniform reports whether value has an upload entry point.
//
// Parameters:
//   - name: the uniform name, used in the error
//   - value: the uniform value
//
// Returns:
//   - error: a *UniformTypeError, or nil if SetUniforms accepts the value
func CheckUniform(name string, value any) error {
	if _, _, ok := shape(value); !ok {
		return &UniformTypeError{Name: name, Value: value}
	}
	return nil
}

// Floats returns the components of a uniform value, a single one for scalars. The result may
// share storage with value.
func Floats(value any) ([]float32, bool) {
	values, _, ok := shape(value)
	return values, ok
}

// program is the implementation of the Program interface.
type program struct {
	ctx         gl.Context
	cacheValues bool

	uniformNames  []string
	uniformValues []any

	definitions  map[Kind][]string
	applications map[Kind][]string
	registered   map[int]Kind
	textureUnits map[int]int

	handle         gl.Program
	vertexSource   string
	fragmentSource string
	locations      map[string]gl.UniformLocation
	attribs        map[string]int32
	cache          map[string][]float32
}

// Program assembles the single shader program every mesh is drawn with. Materials are
// spliced into the GLSL templates as functions selected by ID, so registering a material
// recompiles and relinks the whole program.
type Program interface {
	// RegisterMaterial compiles a material expression into the program for one input. A
	// material already registered for the input's kind is ignored.
	//
	// Parameters:
	//   - input: the material input uniform, e.g. "u_baseColor"
	//   - expr: the material expression
	//
	// Returns:
	//   - error: ErrUnknownInput, ErrTextureUnitsExhausted or a *UniformTypeError for an
	//     expression uniform of unsupported shape
	RegisterMaterial(input string, expr material.Expression) error

	// ResetProgram rebuilds both shaders from the templates and links a new program. A
	// compile or link failure is logged and leaves the program unusable until the next reset.
	ResetProgram()

	// SetUniforms uploads uniform values. Scalars upload with uniform1f; slices of length
	// 1, 2, 3, 4, 9 and 16 upload with the matching vector or matrix call.
	// No-op while the program is unusable.
	//
	// Parameters:
	//   - names: the uniform names
	//   - values: the values, parallel to names
	//
	// Returns:
	//   - error: a *UniformTypeError for a value of any other shape
	SetUniforms(names []string, values []any) error

	// AttributeLocation returns an attribute's location, or -1 if it is not active.
	AttributeLocation(name string) int32

	// TextureUnit returns the texture unit a textured material samples from.
	//
	// Parameters:
	//   - materialID: the material expression ID
	//
	// Returns:
	//   - int: the unit in [0, texture.Units)
	//   - bool: false if the material is not registered or has no texture
	TextureUnit(materialID int) (int, bool)

	// Valid reports whether the last reset produced a linked program.
	Valid() bool

	// Handle returns the linked program, or zero while the program is unusable.
	Handle() gl.Program

	// Sources returns the vertex and fragment sources of the last reset.
	Sources() (vertex, fragment string)
}

var _ Program = &program{}

// NewProgram creates a Program and links it with the base uniforms.
// Panics if ctx is nil.
//
// Parameters:
//   - ctx: the GL context the program lives in
//   - options: variadic list of ProgramBuilderOption functions
//
// Returns:
//   - Program: a new program
func NewProgram(ctx gl.Context, options ...ProgramBuilderOption) Program {
	if ctx == nil {
		panic("program: NewProgram requires a gl.Context")
	}
	names, values := baseUniforms()
	p := &program{
		ctx:           ctx,
		uniformNames:  names,
		uniformValues: values,
		definitions:   make(map[Kind][]string),
		applications:  make(map[Kind][]string),
		registered:    make(map[int]Kind),
		textureUnits:  make(map[int]int),
		locations:     make(map[string]gl.UniformLocation),
		attribs:       make(map[string]int32),
		cache:         make(map[string][]float32),
	}
	for _, opt := range options {
		opt(p)
	}
	p.ResetProgram()
	return p
}

func (p *program) RegisterMaterial(input string, expr material.Expression) error {
	kind, ok := inputKinds[input]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownInput, input)
	}
	id := expr.ID()
	if p.registered[id]&kind == kind {
		return nil
	}

	for _, u := range expr.Uniforms() {
		if glslType(u.Value) == "" {
			return &UniformTypeError{Name: u.Name, Value: u.Value}
		}
	}

	glsl := expr.GLSL()
	if expr.Texture() != nil {
		unit, ok := p.textureUnits[id]
		if !ok {
			if len(p.textureUnits) >= texture.Units {
				return fmt.Errorf("%w: material %d", ErrTextureUnitsExhausted, id)
			}
			unit = len(p.textureUnits)
			p.textureUnits[id] = unit
		}
		glsl = strings.ReplaceAll(glsl, material.ImageSampler, fmt.Sprintf("%s[%d]", TexturesUniform, unit))
	}

	for _, u := range expr.Uniforms() {
		if !slices.Contains(p.uniformNames, u.Name) {
			p.uniformNames = append(p.uniformNames, u.Name)
			p.uniformValues = append(p.uniformValues, slices.Clone(u.Value))
		}
	}

	p.registered[id] |= kind
	returnType, selector := "vec4", "ID.x"
	switch kind {
	case KindVertex:
		returnType = "vec3"
	case KindFloat:
		returnType, selector = "float", "ID"
	}
	p.definitions[kind] = append(p.definitions[kind], fmt.Sprintf("%s fa_%d() {\n %s \n}", returnType, id, glsl))
	p.applications[kind] = append(p.applications[kind], fmt.Sprintf("if (int(abs(%s)) == %d) return fa_%d();", selector, id, id))

	p.ResetProgram()
	return nil
}

func (p *program) ResetProgram() {
	p.vertexSource, p.fragmentSource = p.buildSources()

	if p.handle != 0 {
		p.ctx.DeleteProgram(p.handle)
		p.handle = 0
	}
	clear(p.locations)
	clear(p.attribs)
	clear(p.cache)

	handle, err := p.link()
	if err != nil {
		common.Logger().Error("shader program unavailable", "component", "program", "error", err)
		common.Logger().Debug("shader sources", "component", "program", "vertex", p.vertexSource, "fragment", p.fragmentSource)
		return
	}
	p.handle = handle
	p.ctx.UseProgram(handle)

	if err := p.SetUniforms(p.uniformNames, p.uniformValues); err != nil {
		common.Logger().Error("failed to upload default uniforms", "component", "program", "error", err)
	}
	units := make([]int32, texture.Units)
	for i := range units {
		units[i] = int32(i)
	}
	if loc := p.location(TexturesUniform); loc != gl.NoLocation {
		p.ctx.Uniform1iv(loc, units)
	}
}

func (p *program) buildSources() (string, string) {
	var uniforms strings.Builder
	for i, name := range p.uniformNames {
		fmt.Fprintf(&uniforms, "uniform %s %s;\n", glslType(p.uniformValues[i]), name)
	}
	var attrs, vary strings.Builder
	for _, a := range attributes {
		fmt.Fprintf(&attrs, "attribute %s %s;\n", a[0], a[1])
	}
	for _, v := range varyings {
		fmt.Fprintf(&vary, "varying %s %s;\n", v[0], v[1])
	}

	join := func(k Kind, list map[Kind][]string) string {
		return strings.Join(list[k], "\n")
	}
	vertexBody := strings.NewReplacer(
		"#vert_definitions", join(KindVertex, p.definitions),
		"#vert_applications", join(KindVertex, p.applications),
	).Replace(vertexTemplate)
	fragmentBody := strings.NewReplacer(
		"#vec4_definitions", join(KindVec4, p.definitions),
		"#vec4_applications", join(KindVec4, p.applications),
		"#float_definitions", join(KindFloat, p.definitions),
		"#float_applications", join(KindFloat, p.applications),
	).Replace(fragmentTemplate)

	vertex := p.ctx.ShaderPrelude(gl.VertexShader) + header + uniforms.String() + attrs.String() + vary.String() + vertexBody
	fragment := p.ctx.ShaderPrelude(gl.FragmentShader) + header +
		fmt.Sprintf("uniform sampler2D %s[%d];\n", TexturesUniform, texture.Units) +
		uniforms.String() + vary.String() + fragmentBody
	return vertex, fragment
}

func (p *program) link() (gl.Program, error) {
	vs, err := p.compile(gl.VertexShader, p.vertexSource)
	if err != nil {
		return 0, err
	}
	fs, err := p.compile(gl.FragmentShader, p.fragmentSource)
	if err != nil {
		p.ctx.DeleteShader(vs)
		return 0, err
	}

	handle := p.ctx.CreateProgram()
	p.ctx.AttachShader(handle, vs)
	p.ctx.AttachShader(handle, fs)
	p.ctx.LinkProgram(handle)
	p.ctx.DeleteShader(vs)
	p.ctx.DeleteShader(fs)
	if !p.ctx.ProgramLinked(handle) {
		info := p.ctx.ProgramInfoLog(handle)
		p.ctx.DeleteProgram(handle)
		return 0, fmt.Errorf("program: link failed: %s", info)
	}
	return handle, nil
}

func (p *program) compile(kind gl.Enum, source string) (gl.Shader, error) {
	s := p.ctx.CreateShader(kind)
	p.ctx.ShaderSource(s, source)
	p.ctx.CompileShader(s)
	if !p.ctx.ShaderCompiled(s) {
		info := p.ctx.ShaderInfoLog(s)
		p.ctx.DeleteShader(s)
		name := "vertex"
		if kind == gl.FragmentShader {
			name = "fragment"
		}
		return 0, fmt.Errorf("program: %s shader compile failed: %s", name, info)
	}
	return s, nil
}

func (p *program) SetUniforms(names []string, values []any) error {
	if p.handle == 0 {
		return nil
	}
	if len(names) != len(values) {
		return fmt.Errorf("program: %d uniform names for %d values", len(names), len(values))
	}
	for i, name := range names {
		v, scalar, ok := shape(values[i])
		if !ok {
			return &UniformTypeError{Name: name, Value: values[i]}
		}
		loc := p.location(name)
		if loc == gl.NoLocation {
			continue
		}
		if p.cacheValues {
			if cached, hit := p.cache[name]; hit && slices.Equal(cached, v) {
				continue
			}
			p.cache[name] = slices.Clone(v)
		}
		switch {
		case scalar:
			p.ctx.Uniform1f(loc, v[0])
		case len(v) == 1:
			p.ctx.Uniform1fv(loc, v)
		case len(v) == 2:
			p.ctx.Uniform2fv(loc, v)
		case len(v) == 3:
			p.ctx.Uniform3fv(loc, v)
		case len(v) == 4:
			p.ctx.Uniform4fv(loc, v)
		case len(v) == 9:
			p.ctx.UniformMatrix3fv(loc, v)
		case len(v) == 16:
			p.ctx.UniformMatrix4fv(loc, v)
		}
	}
	return nil
}

func (p *program) location(name string) gl.UniformLocation {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := p.ctx.GetUniformLocation(p.handle, name)
	p.locations[name] = loc
	return loc
}

func (p *program) AttributeLocation(name string) int32 {
	if p.handle == 0 {
		return -1
	}
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	loc := p.ctx.GetAttribLocation(p.handle, name)
	p.attribs[name] = loc
	return loc
}

func (p *program) TextureUnit(materialID int) (int, bool) {
	unit, ok := p.textureUnits[materialID]
	return unit, ok
}

func (p *program) Valid() bool {
	return p.handle != 0
}

func (p *program) Handle() gl.Program {
	return p.handle
}

func (p *program) Sources() (string, string) {
	return p.vertexSource, p.fragmentSource
}

// floats converts the slice shapes a uniform value may take.
func floats(v any) ([]float32, bool) {
	switch t := v.(type) {
	case []float32:
		return t, true
	case []float64:
		out := make([]float32, len(t))
		for i, f := range t {
			out[i] = float32(f)
		}
		return out, true
	case [2]float32:
		return t[:], true
	case [3]float32:
		return t[:], true
	case [4]float32:
		return t[:], true
	case [9]float32:
		return t[:], true
	case [16]float32:
		return t[:], true
	}
	return nil, false
}

// shape resolves a uniform value to its floats and whether it is a scalar. ok is false for
// values with no upload entry point.
func shape(v any) (values []float32, scalar bool, ok bool) {
	switch t := v.(type) {
	case float32:
		return []float32{t}, true, true
	case float64:
		return []float32{float32(t)}, true, true
	case int:
		return []float32{float32(t)}, true, true
	}
	s, ok := floats(v)
	if !ok {
		return nil, false, false
	}
	switch len(s) {
	case 1, 2, 3, 4, 9, 16:
		return s, false, true
	}
	return nil, false, false
}

// glslType returns the GLSL type a uniform value is declared with, or "" if it has none.
func glslType(v any) string {
	values, scalar, ok := shape(v)
	if !ok {
		return ""
	}
	if scalar {
		return "float"
	}
	switch len(values) {
	case 1:
		return "float"
	case 2:
		return "vec2"
	case 3:
		return "vec3"
	case 4:
		return "vec4"
	case 9:
		return "mat3"
	}
	return "mat4"
}
