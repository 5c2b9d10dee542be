// Package gltest provides a recording gl.Context for tests.
package gltest

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
)

// Call is one recorded GL call.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = fmt.Sprint(a)
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Recorder is a gl.Context that records every call and keeps just enough state to answer
// queries: buffer stores, shader sources and uniform locations.
type Recorder struct {
	Calls []Call

	// FailCompile makes every shader whose source contains the substring fail to compile.
	FailCompile string
	// FailLink makes LinkProgram fail.
	FailLink bool
	// Attributes maps attribute names to locations; unknown names report -1.
	Attributes map[string]int32
	// MissingUniforms lists uniform names reported as inactive.
	MissingUniforms []string

	nextHandle uint32
	nextLoc    int32
	locations  map[locationKey]gl.UniformLocation
	sources    map[gl.Shader]string
	attached   map[gl.Program][]gl.Shader
	stores     map[gl.Buffer][]byte
	bound      map[gl.Enum]gl.Buffer
}

type locationKey struct {
	program gl.Program
	name    string
}

var _ gl.Context = &Recorder{}

// NewRecorder creates a Recorder that knows the standard a_pos, a_texCoord and a_normals
// attributes at locations 0, 1 and 2.
//
// Returns:
//   - *Recorder: a new recorder
func NewRecorder() *Recorder {
	return &Recorder{
		Attributes: map[string]int32{"a_pos": 0, "a_texCoord": 1, "a_normals": 2},
		locations:  make(map[locationKey]gl.UniformLocation),
		sources:    make(map[gl.Shader]string),
		attached:   make(map[gl.Program][]gl.Shader),
		stores:     make(map[gl.Buffer][]byte),
		bound:      make(map[gl.Enum]gl.Buffer),
	}
}

// Reset forgets the recorded calls but keeps GL state.
func (r *Recorder) Reset() {
	r.Calls = nil
}

// Named returns the recorded calls with the given name, in order.
func (r *Recorder) Named(name string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many calls with the given name were recorded.
func (r *Recorder) Count(name string) int {
	return len(r.Named(name))
}

// Names returns the names of all recorded calls, in order.
func (r *Recorder) Names() []string {
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.Name
	}
	return out
}

// Store returns the contents of a buffer object as last written.
func (r *Recorder) Store(b gl.Buffer) []byte {
	return r.stores[b]
}

// Source returns the source passed to ShaderSource for a shader.
func (r *Recorder) Source(s gl.Shader) string {
	return r.sources[s]
}

// UniformName returns the uniform name behind a location handed out by GetUniformLocation.
func (r *Recorder) UniformName(loc gl.UniformLocation) string {
	for k, v := range r.locations {
		if v == loc {
			return k.name
		}
	}
	return ""
}

// UniformCalls returns the upload calls recorded for a named uniform.
func (r *Recorder) UniformCalls(name string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if !strings.HasPrefix(c.Name, "Uniform") || len(c.Args) == 0 {
			continue
		}
		if loc, ok := c.Args[0].(gl.UniformLocation); ok && r.UniformName(loc) == name {
			out = append(out, c)
		}
	}
	return out
}

func (r *Recorder) record(name string, args ...any) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

func (r *Recorder) handle() uint32 {
	r.nextHandle++
	return r.nextHandle
}

func (r *Recorder) ShaderPrelude(gl.Enum) string {
	return ""
}

func (r *Recorder) CreateBuffer() gl.Buffer {
	b := gl.Buffer(r.handle())
	r.record("CreateBuffer", b)
	return b
}

func (r *Recorder) BindBuffer(target gl.Enum, b gl.Buffer) {
	r.bound[target] = b
	r.record("BindBuffer", target, b)
}

func (r *Recorder) BufferData(target gl.Enum, data []byte, usage gl.Enum) {
	r.stores[r.bound[target]] = slices.Clone(data)
	r.record("BufferData", target, len(data), usage)
}

func (r *Recorder) BufferSubData(target gl.Enum, offset int, data []byte) {
	b := r.bound[target]
	store := r.stores[b]
	if offset+len(data) > len(store) {
		panic(fmt.Sprintf("gltest: BufferSubData writes [%d, %d) past store of %d bytes", offset, offset+len(data), len(store)))
	}
	copy(store[offset:], data)
	r.record("BufferSubData", target, offset, len(data))
}

func (r *Recorder) CreateShader(kind gl.Enum) gl.Shader {
	s := gl.Shader(r.handle())
	r.record("CreateShader", kind)
	return s
}

func (r *Recorder) ShaderSource(s gl.Shader, source string) {
	r.sources[s] = source
	r.record("ShaderSource", s)
}

func (r *Recorder) CompileShader(s gl.Shader) {
	r.record("CompileShader", s)
}

func (r *Recorder) ShaderCompiled(s gl.Shader) bool {
	return r.FailCompile == "" || !strings.Contains(r.sources[s], r.FailCompile)
}

func (r *Recorder) ShaderInfoLog(s gl.Shader) string {
	if r.ShaderCompiled(s) {
		return ""
	}
	return "ERROR: 0:1: syntax error"
}

func (r *Recorder) DeleteShader(s gl.Shader) {
	r.record("DeleteShader", s)
}

func (r *Recorder) CreateProgram() gl.Program {
	p := gl.Program(r.handle())
	r.record("CreateProgram", p)
	return p
}

func (r *Recorder) AttachShader(p gl.Program, s gl.Shader) {
	r.attached[p] = append(r.attached[p], s)
	r.record("AttachShader", p, s)
}

func (r *Recorder) LinkProgram(p gl.Program) {
	r.record("LinkProgram", p)
}

func (r *Recorder) ProgramLinked(gl.Program) bool {
	return !r.FailLink
}

func (r *Recorder) ProgramInfoLog(p gl.Program) string {
	if r.FailLink {
		return "ERROR: link failed"
	}
	return ""
}

func (r *Recorder) UseProgram(p gl.Program) {
	r.record("UseProgram", p)
}

func (r *Recorder) DeleteProgram(p gl.Program) {
	r.record("DeleteProgram", p)
}

func (r *Recorder) GetUniformLocation(p gl.Program, name string) gl.UniformLocation {
	r.record("GetUniformLocation", p, name)
	if slices.Contains(r.MissingUniforms, name) {
		return gl.NoLocation
	}
	key := locationKey{program: p, name: name}
	if loc, ok := r.locations[key]; ok {
		return loc
	}
	loc := gl.UniformLocation(r.nextLoc)
	r.nextLoc++
	r.locations[key] = loc
	return loc
}

func (r *Recorder) GetAttribLocation(p gl.Program, name string) int32 {
	if loc, ok := r.Attributes[name]; ok {
		return loc
	}
	return -1
}

func (r *Recorder) Uniform1f(loc gl.UniformLocation, v float32) {
	r.record("Uniform1f", loc, v)
}

func (r *Recorder) Uniform1fv(loc gl.UniformLocation, v []float32) {
	r.record("Uniform1fv", loc, slices.Clone(v))
}

func (r *Recorder) Uniform2fv(loc gl.UniformLocation, v []float32) {
	r.record("Uniform2fv", loc, slices.Clone(v))
}

func (r *Recorder) Uniform3fv(loc gl.UniformLocation, v []float32) {
	r.record("Uniform3fv", loc, slices.Clone(v))
}

func (r *Recorder) Uniform4fv(loc gl.UniformLocation, v []float32) {
	r.record("Uniform4fv", loc, slices.Clone(v))
}

func (r *Recorder) UniformMatrix3fv(loc gl.UniformLocation, v []float32) {
	r.record("UniformMatrix3fv", loc, slices.Clone(v))
}

func (r *Recorder) UniformMatrix4fv(loc gl.UniformLocation, v []float32) {
	r.record("UniformMatrix4fv", loc, slices.Clone(v))
}

func (r *Recorder) Uniform1iv(loc gl.UniformLocation, v []int32) {
	r.record("Uniform1iv", loc, slices.Clone(v))
}

func (r *Recorder) EnableVertexAttribArray(index uint32) {
	r.record("EnableVertexAttribArray", index)
}

func (r *Recorder) DisableVertexAttribArray(index uint32) {
	r.record("DisableVertexAttribArray", index)
}

func (r *Recorder) VertexAttribPointer(index uint32, size int, typ gl.Enum, normalized bool, stride, offset int) {
	r.record("VertexAttribPointer", index, size, typ, normalized, stride, offset)
}

func (r *Recorder) DrawArrays(mode gl.Enum, first, count int) {
	r.record("DrawArrays", mode, first, count)
}

func (r *Recorder) DrawElements(mode gl.Enum, count int, typ gl.Enum, offset int) {
	r.record("DrawElements", mode, count, typ, offset)
}

func (r *Recorder) Enable(capability gl.Enum) {
	r.record("Enable", capability)
}

func (r *Recorder) Disable(capability gl.Enum) {
	r.record("Disable", capability)
}

func (r *Recorder) BlendFunc(src, dst gl.Enum) {
	r.record("BlendFunc", src, dst)
}

func (r *Recorder) DepthMask(flag bool) {
	r.record("DepthMask", flag)
}

func (r *Recorder) DepthFunc(fn gl.Enum) {
	r.record("DepthFunc", fn)
}

func (r *Recorder) CullFace(mode gl.Enum) {
	r.record("CullFace", mode)
}

func (r *Recorder) ClearColor(red, green, blue, alpha float32) {
	r.record("ClearColor", red, green, blue, alpha)
}

func (r *Recorder) Clear(mask gl.Enum) {
	r.record("Clear", mask)
}

func (r *Recorder) Viewport(x, y, width, height int) {
	r.record("Viewport", x, y, width, height)
}

func (r *Recorder) CreateTexture() gl.Texture {
	t := gl.Texture(r.handle())
	r.record("CreateTexture", t)
	return t
}

func (r *Recorder) ActiveTexture(unit gl.Enum) {
	r.record("ActiveTexture", unit)
}

func (r *Recorder) BindTexture(target gl.Enum, t gl.Texture) {
	r.record("BindTexture", target, t)
}

func (r *Recorder) TexImage2D(target gl.Enum, width, height int, pixels []byte) {
	r.record("TexImage2D", target, width, height, len(pixels))
}

func (r *Recorder) TexParameteri(target, name, value gl.Enum) {
	r.record("TexParameteri", target, name, value)
}

func (r *Recorder) GenerateMipmap(target gl.Enum) {
	r.record("GenerateMipmap", target)
}
