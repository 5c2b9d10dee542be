package gl

// Enum is a GL enumerant. Values match the OpenGL ES 2.0 / WebGL constants, so desktop
// backends pass them through unchanged.
type Enum uint32

// Object handles. Zero is the null object.
type (
	Buffer  uint32
	Shader  uint32
	Program uint32
	Texture uint32
)

// UniformLocation identifies a uniform of a linked program. NoLocation means the uniform is
// not active in the program.
type UniformLocation int32

// NoLocation is returned for uniforms that were optimized out or never declared.
const NoLocation UniformLocation = -1

const (
	Points        Enum = 0x0000
	Lines         Enum = 0x0001
	LineLoop      Enum = 0x0002
	LineStrip     Enum = 0x0003
	Triangles     Enum = 0x0004
	TriangleStrip Enum = 0x0005
	TriangleFan   Enum = 0x0006

	Zero             Enum = 0
	One              Enum = 1
	SrcAlpha         Enum = 0x0302
	OneMinusSrcAlpha Enum = 0x0303

	Front        Enum = 0x0404
	Back         Enum = 0x0405
	FrontAndBack Enum = 0x0408

	CullFaceMode Enum = 0x0B44
	DepthTest    Enum = 0x0B71
	Blend        Enum = 0x0BE2

	Never   Enum = 0x0200
	Less    Enum = 0x0201
	Equal   Enum = 0x0202
	LEqual  Enum = 0x0203
	Greater Enum = 0x0204
	Always  Enum = 0x0207

	Texture2D Enum = 0x0DE1

	UnsignedByte  Enum = 0x1401
	UnsignedShort Enum = 0x1403
	Float         Enum = 0x1406

	RGBA Enum = 0x1908

	Nearest            Enum = 0x2600
	Linear             Enum = 0x2601
	LinearMipmapLinear Enum = 0x2703
	TextureMagFilter   Enum = 0x2800
	TextureMinFilter   Enum = 0x2801
	TextureWrapS       Enum = 0x2802
	TextureWrapT       Enum = 0x2803
	Repeat             Enum = 0x2901
	ClampToEdge        Enum = 0x812F
	MirroredRepeat     Enum = 0x8370
	Texture0           Enum = 0x84C0
	ArrayBuffer        Enum = 0x8892
	ElementArrayBuffer Enum = 0x8893
	StaticDraw         Enum = 0x88E4
	DynamicDraw        Enum = 0x88E8
	FragmentShader     Enum = 0x8B30
	VertexShader       Enum = 0x8B31
	DepthBufferBit     Enum = 0x0100
	ColorBufferBit     Enum = 0x4000
)

// Context is the subset of the WebGL 1 / OpenGL ES 2.0 API the renderer issues. Every call
// must happen on the thread that owns the context.
type Context interface {
	// ShaderPrelude returns source text prepended to every shader of the given kind before
	// compilation. Shaders are written against GLSL ES 1.00; desktop backends use the prelude
	// to map that dialect onto their own GLSL version.
	//
	// Parameters:
	//   - kind: VertexShader or FragmentShader
	//
	// Returns:
	//   - string: the prelude, possibly empty
	ShaderPrelude(kind Enum) string

	CreateBuffer() Buffer
	BindBuffer(target Enum, b Buffer)
	// BufferData allocates the bound buffer's store and fills it with data.
	BufferData(target Enum, data []byte, usage Enum)
	// BufferSubData writes data into the bound buffer's store at a byte offset.
	BufferSubData(target Enum, offset int, data []byte)

	CreateShader(kind Enum) Shader
	ShaderSource(s Shader, source string)
	CompileShader(s Shader)
	ShaderCompiled(s Shader) bool
	ShaderInfoLog(s Shader) string
	DeleteShader(s Shader)

	CreateProgram() Program
	AttachShader(p Program, s Shader)
	LinkProgram(p Program)
	ProgramLinked(p Program) bool
	ProgramInfoLog(p Program) string
	UseProgram(p Program)
	DeleteProgram(p Program)

	// GetUniformLocation returns NoLocation for uniforms that are not active.
	GetUniformLocation(p Program, name string) UniformLocation
	// GetAttribLocation returns -1 for attributes that are not active.
	GetAttribLocation(p Program, name string) int32

	Uniform1f(loc UniformLocation, v float32)
	Uniform1fv(loc UniformLocation, v []float32)
	Uniform2fv(loc UniformLocation, v []float32)
	Uniform3fv(loc UniformLocation, v []float32)
	Uniform4fv(loc UniformLocation, v []float32)
	UniformMatrix3fv(loc UniformLocation, v []float32)
	UniformMatrix4fv(loc UniformLocation, v []float32)
	Uniform1iv(loc UniformLocation, v []int32)

	EnableVertexAttribArray(index uint32)
	DisableVertexAttribArray(index uint32)
	// VertexAttribPointer points an attribute at the bound array buffer; offset is in bytes.
	VertexAttribPointer(index uint32, size int, typ Enum, normalized bool, stride, offset int)

	DrawArrays(mode Enum, first, count int)
	// DrawElements draws from the bound element buffer; offset is in bytes.
	DrawElements(mode Enum, count int, typ Enum, offset int)

	Enable(capability Enum)
	Disable(capability Enum)
	BlendFunc(src, dst Enum)
	DepthMask(flag bool)
	DepthFunc(fn Enum)
	CullFace(mode Enum)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	Viewport(x, y, width, height int)

	CreateTexture() Texture
	ActiveTexture(unit Enum)
	BindTexture(target Enum, t Texture)
	// TexImage2D uploads tightly packed 8-bit RGBA pixels to the bound texture's level 0.
	TexImage2D(target Enum, width, height int, pixels []byte)
	TexParameteri(target, name, value Enum)
	GenerateMipmap(target Enum)
}
