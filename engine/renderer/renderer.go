package renderer

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/buffer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/command"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/program"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
)

// MaxLights is the number of point lights the shader program evaluates. Lights created after
// the first MaxLights are ignored.
const MaxLights = 4

// ErrNoPath is returned when a command arrives before any WITH selected a render path.
var ErrNoPath = errors.New("renderer: command before WITH")

// globalUniforms are uploaded once per frame before any mesh, in this order.
var globalUniforms = []string{
	"u_numLights", "u_ambientLight", "u_lightPosition", "u_lightColor",
	"u_perspective", "u_time", "u_view", "u_resolution",
}

// RenderState carries the per frame inputs that do not come from commands.
type RenderState struct {
	// Perspective is the projection matrix, column major.
	Perspective [16]float32
	// View is the camera's view matrix, column major.
	View [16]float32
	// Time is the frame time, uploaded to u_time in seconds.
	Time time.Duration
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	ctx      gl.Context
	backend  *rendererBackend
	program  program.Program
	buffers  buffer.Registry
	textures texture.Registry

	poolCapacity   int
	uniformCache   bool
	clearColor     [4]float32
	textureOptions []texture.RegistryBuilderOption

	path       string
	meshes     map[string]*meshRecord
	meshList   []*meshRecord
	cutouts    map[string]*cutoutRecord
	cutoutList []*cutoutRecord
	cutoutQuad geometry.Geometry

	lights         map[string]int
	lightCount     int
	lightPositions [16]float32
	lightColors    [16]float32
	ambient        [3]float32
	resolution     [3]float32

	programHandle gl.Program
}

// Renderer retains the scene described by the commands it receives and draws it with one
// shader program. Every method must be called on the thread that owns the GL context.
type Renderer interface {
	// Receive applies commands in order. A WITH command selects the render path every
	// following command applies to.
	//
	// Parameters:
	//   - cmds: the commands
	//
	// Returns:
	//   - error: ErrNoPath, or a wrapped buffer, program or uniform error; commands before
	//     the failing one stay applied
	Receive(cmds []command.Command) error

	// ReceiveStream decodes a flat untyped command stream and applies it.
	//
	// Parameters:
	//   - stream: the stream, see command.Decode
	//
	// Returns:
	//   - error: a decode error, or any error Receive returns
	ReceiveStream(stream []any) error

	// Draw renders one frame: pending buffer and texture uploads, the global uniforms, every
	// cutout and every visible mesh sorted back to front by depth.
	//
	// Parameters:
	//   - state: the frame's camera matrices and time
	//
	// Returns:
	//   - error: a uniform upload error
	Draw(state RenderState) error

	// Resize updates the viewport and the u_resolution uniform.
	//
	// Parameters:
	//   - width: the drawable width in pixels
	//   - height: the drawable height in pixels
	Resize(width, height int)

	// Program returns the shader program meshes are drawn with.
	Program() program.Program

	// Textures returns the texture registry.
	Textures() texture.Registry

	// Close stops background texture loading.
	Close()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing through ctx and compiles the initial program.
// Panics if ctx is nil.
//
// Parameters:
//   - ctx: the GL context
//   - options: variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: a new renderer
func NewRenderer(ctx gl.Context, options ...RendererBuilderOption) Renderer {
	if ctx == nil {
		panic("renderer: NewRenderer requires a gl.Context")
	}
	r := &renderer{
		ctx:          ctx,
		poolCapacity: buffer.DefaultPoolCapacity,
		meshes:       make(map[string]*meshRecord),
		cutouts:      make(map[string]*cutoutRecord),
		lights:       make(map[string]int),
	}
	for _, opt := range options {
		opt(r)
	}

	r.backend = newRendererBackend(ctx)
	r.backend.init(r.clearColor)
	r.buffers = buffer.NewRegistry(ctx, buffer.WithPoolCapacity(r.poolCapacity))
	r.textures = texture.NewRegistry(ctx, r.textureOptions...)
	r.program = program.NewProgram(ctx, program.WithUniformCache(r.uniformCache))
	r.programHandle = r.program.Handle()
	return r
}

func (r *renderer) Receive(cmds []command.Command) error {
	for _, cmd := range cmds {
		if err := r.apply(cmd); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) ReceiveStream(stream []any) error {
	cmds, err := command.Decode(stream)
	if err != nil {
		return err
	}
	return r.Receive(cmds)
}

func (r *renderer) apply(cmd command.Command) error {
	if with, ok := cmd.(command.With); ok {
		r.path = with.Path
		return nil
	}
	if r.path == "" {
		return fmt.Errorf("%w: %s", ErrNoPath, cmd.Opcode())
	}

	switch c := cmd.(type) {
	case command.SetDrawOptions:
		r.mesh().options = c.Options
	case command.AmbientLight:
		r.ambient = c.Color
	case command.LightPosition:
		if i, ok := r.light(); ok {
			copy(r.lightPositions[i*4:], c.Position[:])
		}
	case command.LightColor:
		if i, ok := r.light(); ok {
			copy(r.lightColors[i*4:], c.Color[:])
		}
	case command.MaterialInput:
		return r.materialInput(c)
	case command.SetGeometry:
		m := r.mesh()
		m.geometryID = c.GeometryID
		m.drawType = c.DrawType
		m.hasGeometry = true
	case command.Uniforms:
		if err := program.CheckUniform(c.Name, c.Value); err != nil {
			return fmt.Errorf("renderer: %s: %w", r.path, err)
		}
		r.mesh().set(c.Name, c.Value)
	case command.BufferData:
		if err := r.buffers.Allocate(c.GeometryID, c.Buffer, c.Values, c.Spacing, c.Dynamic); err != nil {
			return fmt.Errorf("renderer: %s: %w", r.path, err)
		}
	case command.CutoutState:
		r.cutout().enabled = c.Enabled
		if c.Enabled {
			return r.allocateCutoutQuad()
		}
	case command.MeshVisibility:
		r.mesh().visible = c.Visible
	case command.ChangeTransform:
		r.cutout().set("u_transform", slices.Clone(c.Transform[:]))
	case command.ChangeSize:
		r.cutout().set("u_size", []float32{c.Size[0], c.Size[1], 1})
	default:
		return fmt.Errorf("%w: %T", command.ErrUnknownOpcode, cmd)
	}
	return nil
}

// mesh returns the record for the current path, creating it on first use.
func (r *renderer) mesh() *meshRecord {
	m, ok := r.meshes[r.path]
	if !ok {
		m = newMeshRecord(r.path)
		r.meshes[r.path] = m
		r.meshList = append(r.meshList, m)
	}
	return m
}

func (r *renderer) cutout() *cutoutRecord {
	c, ok := r.cutouts[r.path]
	if !ok {
		c = newCutoutRecord(r.path)
		r.cutouts[r.path] = c
		r.cutoutList = append(r.cutoutList, c)
	}
	return c
}

// light returns the slot of the light at the current path, assigning the next free one on
// first use. ok is false once every slot is taken.
func (r *renderer) light() (int, bool) {
	i, ok := r.lights[r.path]
	if ok {
		return i, i >= 0
	}
	if r.lightCount >= MaxLights {
		common.Logger().Warn("light limit reached, ignoring light", "component", "renderer", "path", r.path, "max", MaxLights)
		r.lights[r.path] = -1
		return 0, false
	}
	i = r.lightCount
	r.lightCount++
	r.lights[r.path] = i
	return i, true
}

func (r *renderer) materialInput(c command.MaterialInput) error {
	if c.Material == nil {
		return fmt.Errorf("%w: %s MATERIAL_INPUT without material", command.ErrMalformed, r.path)
	}
	kind, known := program.InputKind(c.Input)
	if !known {
		return fmt.Errorf("renderer: %s: %w: %s", r.path, program.ErrUnknownInput, c.Input)
	}
	if err := r.program.RegisterMaterial(c.Input, c.Material); err != nil {
		return fmt.Errorf("renderer: %s %s: %w", r.path, c.Input, err)
	}

	m := r.mesh()
	if desc := c.Material.Texture(); desc != nil {
		if unit, ok := r.program.TextureUnit(c.Material.ID()); ok {
			m.bindTexture(r.textures.Register(*desc, unit), unit)
		}
	}

	// The input uniform carries the negated material ID in its first component; the shader
	// treats a negative first component as a material reference.
	id := float32(-c.Material.ID())
	if kind == program.KindFloat {
		m.set(c.Input, id)
		return nil
	}
	current, _ := m.get(c.Input)
	values, _ := program.Floats(current)
	values = slices.Clone(values)
	if len(values) == 0 {
		values = make([]float32, 3)
		if kind == program.KindVec4 {
			values = make([]float32, 4)
		}
	}
	values[0] = id
	m.set(c.Input, values)
	return nil
}

// allocateCutoutQuad uploads the quad every cutout is drawn with the first time one is
// enabled.
func (r *renderer) allocateCutoutQuad() error {
	if r.cutoutQuad != nil {
		return nil
	}
	quad := geometry.Plane()
	for _, b := range quad.Buffers() {
		if err := r.buffers.Allocate(quad.ID(), b.Name, b.Values, b.Size, false); err != nil {
			return fmt.Errorf("renderer: cutout quad: %w", err)
		}
	}
	quad.DrainInvalidations()
	r.cutoutQuad = quad
	return nil
}

func (r *renderer) Draw(state RenderState) error {
	r.buffers.Flush()
	r.backend.invalidateBuffers()
	r.textures.Update(state.Time)
	r.ctx.Clear(gl.ColorBufferBit | gl.DepthBufferBit)

	if !r.program.Valid() {
		return nil
	}
	if h := r.program.Handle(); h != r.programHandle {
		r.programHandle = h
		r.backend.invalidateAttributes()
	}

	meshes := RadixSort(r.meshList, (*meshRecord).depth)

	values := []any{
		float32(r.lightCount), r.ambient[:], r.lightPositions[:], r.lightColors[:],
		state.Perspective[:], float32(state.Time.Seconds()), state.View[:], r.resolution[:],
	}
	if err := r.program.SetUniforms(globalUniforms, values); err != nil {
		return fmt.Errorf("renderer: global uniforms: %w", err)
	}

	if err := r.drawCutouts(); err != nil {
		return err
	}
	return r.drawMeshes(meshes)
}

func (r *renderer) drawCutouts() error {
	if r.cutoutQuad == nil {
		return nil
	}
	entry, ok := r.buffers.Entry(r.cutoutQuad.ID())
	if !ok {
		return nil
	}

	started := false
	for _, c := range r.cutoutList {
		if !c.enabled {
			continue
		}
		if !started {
			started = true
			r.backend.setCapability(gl.Blend, true)
			r.backend.setBlendFunc(gl.Zero, gl.OneMinusSrcAlpha)
			r.backend.setDepthMask(true)
			r.backend.setCapability(gl.DepthTest, true)
			r.backend.setCapability(gl.CullFaceMode, false)
			if err := r.program.SetUniforms([]string{"u_cutout"}, []any{float32(1)}); err != nil {
				return err
			}
		}
		if err := r.program.SetUniforms(c.names, c.values); err != nil {
			return fmt.Errorf("renderer: cutout %s: %w", c.path, err)
		}
		r.drawGeometry(r.cutoutQuad.ID(), entry, gl.Triangles)
	}

	if started {
		r.backend.setBlendFunc(gl.SrcAlpha, gl.OneMinusSrcAlpha)
		return r.program.SetUniforms([]string{"u_cutout"}, []any{float32(0)})
	}
	return nil
}

func (r *renderer) drawMeshes(meshes []*meshRecord) error {
	for _, m := range meshes {
		if !m.visible || !m.hasGeometry {
			continue
		}
		entry, ok := r.buffers.Entry(m.geometryID)
		if !ok || len(entry.Keys) == 0 {
			continue
		}

		translucent := m.scalar("u_opacity", 1) < 1
		r.backend.setDepthMask(!translucent)
		r.backend.setCapability(gl.Blend, translucent || m.options.Blending)
		r.applyDrawOptions(m.options)

		for _, t := range m.textures {
			r.textures.Bind(t.id, t.unit)
		}
		if err := r.program.SetUniforms(m.names, m.values); err != nil {
			return fmt.Errorf("renderer: %s: %w", m.path, err)
		}
		r.drawGeometry(m.geometryID, entry, drawMode(m.drawType))
		for _, t := range m.textures {
			r.textures.Unbind(t.unit)
		}
	}
	return nil
}

func (r *renderer) applyDrawOptions(opts command.DrawOptions) {
	switch opts.Side {
	case command.SideDouble:
		r.backend.setCapability(gl.CullFaceMode, false)
	case command.SideBack:
		r.backend.setCapability(gl.CullFaceMode, true)
		r.backend.setCullFace(gl.Front)
	default:
		r.backend.setCapability(gl.CullFaceMode, true)
		r.backend.setCullFace(gl.Back)
	}
	r.backend.setCapability(gl.DepthTest, !opts.DisableDepthTest)
}

// drawGeometry binds a geometry's buffers and issues its draw call. Attribute pointers are
// only set up when the geometry differs from the one drawn last.
func (r *renderer) drawGeometry(geometryID uint64, entry *buffer.Entry, mode gl.Enum) {
	fresh := r.backend.needsPointers(geometryID)
	var used uint32
	indexed := false
	count, offset, vertices := 0, 0, -1

	for i, name := range entry.Keys {
		b := entry.Buffers[i]
		if b.IsIndex() {
			indexed = true
			count = entry.Length[i]
			offset = entry.Offset[i]
			r.backend.bindBuffer(gl.ElementArrayBuffer, b.Handle())
			continue
		}
		if name == geometry.BufferPositions || vertices < 0 {
			vertices = entry.Length[i]
		}
		loc := r.program.AttributeLocation(name)
		if loc < 0 {
			continue
		}
		used |= 1 << uint32(loc)
		if fresh {
			r.backend.bindBuffer(gl.ArrayBuffer, b.Handle())
			r.backend.enableAttribute(uint32(loc))
			r.ctx.VertexAttribPointer(uint32(loc), entry.Spacing[i], gl.Float, false, 0, 4*entry.Offset[i])
		}
	}
	if fresh {
		r.backend.retainAttributes(used)
	}

	if indexed {
		r.ctx.DrawElements(mode, count, gl.UnsignedShort, 2*offset)
	} else if vertices > 0 {
		r.ctx.DrawArrays(mode, 0, vertices)
	}
	r.backend.markDrawn(geometryID)
}

func (r *renderer) Resize(width, height int) {
	r.ctx.Viewport(0, 0, width, height)
	r.resolution = [3]float32{float32(width), float32(height), float32(max(width, height))}
}

func (r *renderer) Program() program.Program {
	return r.program
}

func (r *renderer) Textures() texture.Registry {
	return r.textures
}

func (r *renderer) Close() {
	r.textures.Close()
}

// drawMode maps a geometry draw type to its GL primitive.
func drawMode(t geometry.DrawType) gl.Enum {
	switch t {
	case geometry.DrawTriangleStrip:
		return gl.TriangleStrip
	case geometry.DrawTriangleFan:
		return gl.TriangleFan
	case geometry.DrawLines:
		return gl.Lines
	case geometry.DrawLineStrip:
		return gl.LineStrip
	case geometry.DrawLineLoop:
		return gl.LineLoop
	case geometry.DrawPoints:
		return gl.Points
	}
	return gl.Triangles
}
