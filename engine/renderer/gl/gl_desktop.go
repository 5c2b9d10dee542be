//go:build !js

package gl

import (
	"fmt"
	"strings"
	"unsafe"

	gogl "github.com/go-gl/gl/v3.3-core/gl"
)

const (
	vertexPrelude = "#version 330 core\n" +
		"#define attribute in\n" +
		"#define varying out\n"
	fragmentPrelude = "#version 330 core\n" +
		"#define varying in\n" +
		"#define texture2D texture\n" +
		"out vec4 oxy_FragColor;\n" +
		"#define gl_FragColor oxy_FragColor\n"
)

// desktopContext is the OpenGL 3.3 core implementation of the Context interface.
type desktopContext struct {
	vao uint32
}

var _ Context = &desktopContext{}

// NewDesktopContext loads the OpenGL function pointers for the context current on the calling
// thread and binds the single vertex array object core profiles require.
//
// Returns:
//   - Context: the desktop context
//   - error: an error if the GL functions could not be loaded
func NewDesktopContext() (Context, error) {
	if err := gogl.Init(); err != nil {
		return nil, fmt.Errorf("gl: init failed: %w", err)
	}
	c := &desktopContext{}
	gogl.GenVertexArrays(1, &c.vao)
	gogl.BindVertexArray(c.vao)
	return c, nil
}

func (c *desktopContext) ShaderPrelude(kind Enum) string {
	if kind == VertexShader {
		return vertexPrelude
	}
	return fragmentPrelude
}

func (c *desktopContext) CreateBuffer() Buffer {
	var b uint32
	gogl.GenBuffers(1, &b)
	return Buffer(b)
}

func (c *desktopContext) BindBuffer(target Enum, b Buffer) {
	gogl.BindBuffer(uint32(target), uint32(b))
}

func (c *desktopContext) BufferData(target Enum, data []byte, usage Enum) {
	gogl.BufferData(uint32(target), len(data), ptr(data), uint32(usage))
}

func (c *desktopContext) BufferSubData(target Enum, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gogl.BufferSubData(uint32(target), offset, len(data), gogl.Ptr(data))
}

func (c *desktopContext) CreateShader(kind Enum) Shader {
	return Shader(gogl.CreateShader(uint32(kind)))
}

func (c *desktopContext) ShaderSource(s Shader, source string) {
	csources, free := gogl.Strs(source + "\x00")
	gogl.ShaderSource(uint32(s), 1, csources, nil)
	free()
}

func (c *desktopContext) CompileShader(s Shader) {
	gogl.CompileShader(uint32(s))
}

func (c *desktopContext) ShaderCompiled(s Shader) bool {
	var status int32
	gogl.GetShaderiv(uint32(s), gogl.COMPILE_STATUS, &status)
	return status != gogl.FALSE
}

func (c *desktopContext) ShaderInfoLog(s Shader) string {
	var length int32
	gogl.GetShaderiv(uint32(s), gogl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(length+1))
	gogl.GetShaderInfoLog(uint32(s), length, nil, gogl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (c *desktopContext) DeleteShader(s Shader) {
	gogl.DeleteShader(uint32(s))
}

func (c *desktopContext) CreateProgram() Program {
	return Program(gogl.CreateProgram())
}

func (c *desktopContext) AttachShader(p Program, s Shader) {
	gogl.AttachShader(uint32(p), uint32(s))
}

func (c *desktopContext) LinkProgram(p Program) {
	gogl.LinkProgram(uint32(p))
}

func (c *desktopContext) ProgramLinked(p Program) bool {
	var status int32
	gogl.GetProgramiv(uint32(p), gogl.LINK_STATUS, &status)
	return status != gogl.FALSE
}

func (c *desktopContext) ProgramInfoLog(p Program) string {
	var length int32
	gogl.GetProgramiv(uint32(p), gogl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(length+1))
	gogl.GetProgramInfoLog(uint32(p), length, nil, gogl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (c *desktopContext) UseProgram(p Program) {
	gogl.UseProgram(uint32(p))
}

func (c *desktopContext) DeleteProgram(p Program) {
	gogl.DeleteProgram(uint32(p))
}

func (c *desktopContext) GetUniformLocation(p Program, name string) UniformLocation {
	return UniformLocation(gogl.GetUniformLocation(uint32(p), gogl.Str(name+"\x00")))
}

func (c *desktopContext) GetAttribLocation(p Program, name string) int32 {
	return gogl.GetAttribLocation(uint32(p), gogl.Str(name+"\x00"))
}

func (c *desktopContext) Uniform1f(loc UniformLocation, v float32) {
	gogl.Uniform1f(int32(loc), v)
}

func (c *desktopContext) Uniform1fv(loc UniformLocation, v []float32) {
	gogl.Uniform1fv(int32(loc), int32(len(v)), &v[0])
}

func (c *desktopContext) Uniform2fv(loc UniformLocation, v []float32) {
	gogl.Uniform2fv(int32(loc), int32(len(v)/2), &v[0])
}

func (c *desktopContext) Uniform3fv(loc UniformLocation, v []float32) {
	gogl.Uniform3fv(int32(loc), int32(len(v)/3), &v[0])
}

func (c *desktopContext) Uniform4fv(loc UniformLocation, v []float32) {
	gogl.Uniform4fv(int32(loc), int32(len(v)/4), &v[0])
}

func (c *desktopContext) UniformMatrix3fv(loc UniformLocation, v []float32) {
	gogl.UniformMatrix3fv(int32(loc), int32(len(v)/9), false, &v[0])
}

func (c *desktopContext) UniformMatrix4fv(loc UniformLocation, v []float32) {
	gogl.UniformMatrix4fv(int32(loc), int32(len(v)/16), false, &v[0])
}

func (c *desktopContext) Uniform1iv(loc UniformLocation, v []int32) {
	gogl.Uniform1iv(int32(loc), int32(len(v)), &v[0])
}

func (c *desktopContext) EnableVertexAttribArray(index uint32) {
	gogl.EnableVertexAttribArray(index)
}

func (c *desktopContext) DisableVertexAttribArray(index uint32) {
	gogl.DisableVertexAttribArray(index)
}

func (c *desktopContext) VertexAttribPointer(index uint32, size int, typ Enum, normalized bool, stride, offset int) {
	gogl.VertexAttribPointerWithOffset(index, int32(size), uint32(typ), normalized, int32(stride), uintptr(offset))
}

func (c *desktopContext) DrawArrays(mode Enum, first, count int) {
	gogl.DrawArrays(uint32(mode), int32(first), int32(count))
}

func (c *desktopContext) DrawElements(mode Enum, count int, typ Enum, offset int) {
	gogl.DrawElementsWithOffset(uint32(mode), int32(count), uint32(typ), uintptr(offset))
}

func (c *desktopContext) Enable(capability Enum) {
	gogl.Enable(uint32(capability))
}

func (c *desktopContext) Disable(capability Enum) {
	gogl.Disable(uint32(capability))
}

func (c *desktopContext) BlendFunc(src, dst Enum) {
	gogl.BlendFunc(uint32(src), uint32(dst))
}

func (c *desktopContext) DepthMask(flag bool) {
	gogl.DepthMask(flag)
}

func (c *desktopContext) DepthFunc(fn Enum) {
	gogl.DepthFunc(uint32(fn))
}

func (c *desktopContext) CullFace(mode Enum) {
	gogl.CullFace(uint32(mode))
}

func (c *desktopContext) ClearColor(r, g, b, a float32) {
	gogl.ClearColor(r, g, b, a)
}

func (c *desktopContext) Clear(mask Enum) {
	gogl.Clear(uint32(mask))
}

func (c *desktopContext) Viewport(x, y, width, height int) {
	gogl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (c *desktopContext) CreateTexture() Texture {
	var t uint32
	gogl.GenTextures(1, &t)
	return Texture(t)
}

func (c *desktopContext) ActiveTexture(unit Enum) {
	gogl.ActiveTexture(uint32(unit))
}

func (c *desktopContext) BindTexture(target Enum, t Texture) {
	gogl.BindTexture(uint32(target), uint32(t))
}

func (c *desktopContext) TexImage2D(target Enum, width, height int, pixels []byte) {
	gogl.TexImage2D(uint32(target), 0, gogl.RGBA8, int32(width), int32(height), 0, gogl.RGBA, gogl.UNSIGNED_BYTE, ptr(pixels))
}

func (c *desktopContext) TexParameteri(target, name, value Enum) {
	gogl.TexParameteri(uint32(target), uint32(name), int32(value))
}

func (c *desktopContext) GenerateMipmap(target Enum) {
	gogl.GenerateMipmap(uint32(target))
}

// ptr returns a pointer to the first byte of data, or nil for an empty slice.
func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gogl.Ptr(data)
}
