//go:build js && wasm

package gl

import (
	"syscall/js"
)

// webglContext is the WebGL implementation of the Context interface. WebGL hands out objects
// instead of integer names, so each kind of object is kept in a table indexed by its handle.
type webglContext struct {
	gl js.Value

	buffers  []js.Value
	shaders  []js.Value
	programs []js.Value
	textures []js.Value
	uniforms []js.Value
}

var _ Context = &webglContext{}

// NewWebGLContext wraps a WebGL or WebGL2 rendering context obtained from a canvas.
// Panics if ctx is null or undefined.
//
// Parameters:
//   - ctx: the value returned by canvas.getContext("webgl") or ("webgl2")
//
// Returns:
//   - Context: the WebGL context
func NewWebGLContext(ctx js.Value) Context {
	if ctx.IsUndefined() || ctx.IsNull() {
		panic("gl: a WebGL rendering context is required")
	}
	// handle 0 is the null object in every table
	null := js.Null()
	return &webglContext{
		gl:       ctx,
		buffers:  []js.Value{null},
		shaders:  []js.Value{null},
		programs: []js.Value{null},
		textures: []js.Value{null},
	}
}

func (c *webglContext) ShaderPrelude(Enum) string {
	return ""
}

func (c *webglContext) CreateBuffer() Buffer {
	c.buffers = append(c.buffers, c.gl.Call("createBuffer"))
	return Buffer(len(c.buffers) - 1)
}

func (c *webglContext) BindBuffer(target Enum, b Buffer) {
	c.gl.Call("bindBuffer", int(target), c.buffers[b])
}

func (c *webglContext) BufferData(target Enum, data []byte, usage Enum) {
	c.gl.Call("bufferData", int(target), uint8Array(data), int(usage))
}

func (c *webglContext) BufferSubData(target Enum, offset int, data []byte) {
	c.gl.Call("bufferSubData", int(target), offset, uint8Array(data))
}

func (c *webglContext) CreateShader(kind Enum) Shader {
	c.shaders = append(c.shaders, c.gl.Call("createShader", int(kind)))
	return Shader(len(c.shaders) - 1)
}

func (c *webglContext) ShaderSource(s Shader, source string) {
	c.gl.Call("shaderSource", c.shaders[s], source)
}

func (c *webglContext) CompileShader(s Shader) {
	c.gl.Call("compileShader", c.shaders[s])
}

func (c *webglContext) ShaderCompiled(s Shader) bool {
	return c.gl.Call("getShaderParameter", c.shaders[s], c.gl.Get("COMPILE_STATUS")).Bool()
}

func (c *webglContext) ShaderInfoLog(s Shader) string {
	return c.gl.Call("getShaderInfoLog", c.shaders[s]).String()
}

func (c *webglContext) DeleteShader(s Shader) {
	c.gl.Call("deleteShader", c.shaders[s])
	c.shaders[s] = js.Null()
}

func (c *webglContext) CreateProgram() Program {
	c.programs = append(c.programs, c.gl.Call("createProgram"))
	return Program(len(c.programs) - 1)
}

func (c *webglContext) AttachShader(p Program, s Shader) {
	c.gl.Call("attachShader", c.programs[p], c.shaders[s])
}

func (c *webglContext) LinkProgram(p Program) {
	c.gl.Call("linkProgram", c.programs[p])
}

func (c *webglContext) ProgramLinked(p Program) bool {
	return c.gl.Call("getProgramParameter", c.programs[p], c.gl.Get("LINK_STATUS")).Bool()
}

func (c *webglContext) ProgramInfoLog(p Program) string {
	return c.gl.Call("getProgramInfoLog", c.programs[p]).String()
}

func (c *webglContext) UseProgram(p Program) {
	c.gl.Call("useProgram", c.programs[p])
}

func (c *webglContext) DeleteProgram(p Program) {
	c.gl.Call("deleteProgram", c.programs[p])
	c.programs[p] = js.Null()
}

func (c *webglContext) GetUniformLocation(p Program, name string) UniformLocation {
	loc := c.gl.Call("getUniformLocation", c.programs[p], name)
	if loc.IsNull() || loc.IsUndefined() {
		return NoLocation
	}
	c.uniforms = append(c.uniforms, loc)
	return UniformLocation(len(c.uniforms) - 1)
}

func (c *webglContext) GetAttribLocation(p Program, name string) int32 {
	return int32(c.gl.Call("getAttribLocation", c.programs[p], name).Int())
}

func (c *webglContext) Uniform1f(loc UniformLocation, v float32) {
	c.gl.Call("uniform1f", c.uniforms[loc], v)
}

func (c *webglContext) Uniform1fv(loc UniformLocation, v []float32) {
	c.gl.Call("uniform1fv", c.uniforms[loc], float32Array(v))
}

func (c *webglContext) Uniform2fv(loc UniformLocation, v []float32) {
	c.gl.Call("uniform2fv", c.uniforms[loc], float32Array(v))
}

func (c *webglContext) Uniform3fv(loc UniformLocation, v []float32) {
	c.gl.Call("uniform3fv", c.uniforms[loc], float32Array(v))
}

func (c *webglContext) Uniform4fv(loc UniformLocation, v []float32) {
	c.gl.Call("uniform4fv", c.uniforms[loc], float32Array(v))
}

func (c *webglContext) UniformMatrix3fv(loc UniformLocation, v []float32) {
	c.gl.Call("uniformMatrix3fv", c.uniforms[loc], false, float32Array(v))
}

func (c *webglContext) UniformMatrix4fv(loc UniformLocation, v []float32) {
	c.gl.Call("uniformMatrix4fv", c.uniforms[loc], false, float32Array(v))
}

func (c *webglContext) Uniform1iv(loc UniformLocation, v []int32) {
	arr := js.Global().Get("Int32Array").New(len(v))
	for i, x := range v {
		arr.SetIndex(i, x)
	}
	c.gl.Call("uniform1iv", c.uniforms[loc], arr)
}

func (c *webglContext) EnableVertexAttribArray(index uint32) {
	c.gl.Call("enableVertexAttribArray", index)
}

func (c *webglContext) DisableVertexAttribArray(index uint32) {
	c.gl.Call("disableVertexAttribArray", index)
}

func (c *webglContext) VertexAttribPointer(index uint32, size int, typ Enum, normalized bool, stride, offset int) {
	c.gl.Call("vertexAttribPointer", index, size, int(typ), normalized, stride, offset)
}

func (c *webglContext) DrawArrays(mode Enum, first, count int) {
	c.gl.Call("drawArrays", int(mode), first, count)
}

func (c *webglContext) DrawElements(mode Enum, count int, typ Enum, offset int) {
	c.gl.Call("drawElements", int(mode), count, int(typ), offset)
}

func (c *webglContext) Enable(capability Enum) {
	c.gl.Call("enable", int(capability))
}

func (c *webglContext) Disable(capability Enum) {
	c.gl.Call("disable", int(capability))
}

func (c *webglContext) BlendFunc(src, dst Enum) {
	c.gl.Call("blendFunc", int(src), int(dst))
}

func (c *webglContext) DepthMask(flag bool) {
	c.gl.Call("depthMask", flag)
}

func (c *webglContext) DepthFunc(fn Enum) {
	c.gl.Call("depthFunc", int(fn))
}

func (c *webglContext) CullFace(mode Enum) {
	c.gl.Call("cullFace", int(mode))
}

func (c *webglContext) ClearColor(r, g, b, a float32) {
	c.gl.Call("clearColor", r, g, b, a)
}

func (c *webglContext) Clear(mask Enum) {
	c.gl.Call("clear", int(mask))
}

func (c *webglContext) Viewport(x, y, width, height int) {
	c.gl.Call("viewport", x, y, width, height)
}

func (c *webglContext) CreateTexture() Texture {
	c.textures = append(c.textures, c.gl.Call("createTexture"))
	return Texture(len(c.textures) - 1)
}

func (c *webglContext) ActiveTexture(unit Enum) {
	c.gl.Call("activeTexture", int(unit))
}

func (c *webglContext) BindTexture(target Enum, t Texture) {
	c.gl.Call("bindTexture", int(target), c.textures[t])
}

func (c *webglContext) TexImage2D(target Enum, width, height int, pixels []byte) {
	c.gl.Call("texImage2D", int(target), 0, int(RGBA), width, height, 0, int(RGBA), int(UnsignedByte), uint8Array(pixels))
}

func (c *webglContext) TexParameteri(target, name, value Enum) {
	c.gl.Call("texParameteri", int(target), int(name), int(value))
}

func (c *webglContext) GenerateMipmap(target Enum) {
	c.gl.Call("generateMipmap", int(target))
}

func uint8Array(data []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(arr, data)
	return arr
}

func float32Array(data []float32) js.Value {
	arr := js.Global().Get("Float32Array").New(len(data))
	for i, v := range data {
		arr.SetIndex(i, v)
	}
	return arr
}
