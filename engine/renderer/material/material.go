package material

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
)

// ImageSampler is the token an expression's GLSL uses to sample its texture. The program
// replaces it with the texture unit the expression was assigned.
const ImageSampler = "u_image"

// Uniform is a uniform an expression declares, with its default value. The value's length
// decides the GLSL type: 1 float, 2 vec2, 3 vec3, 4 vec4, 9 mat3, 16 mat4.
type Uniform struct {
	Name  string
	Value []float32
}

// expression is the implementation of the Expression interface.
type expression struct {
	id       int
	glsl     string
	uniforms []Uniform
	texture  *texture.Descriptor
}

// Expression is a shader snippet bound to one of a mesh's material inputs (base color,
// glossiness, metalness, normals, position offset). A program compiles every registered
// expression into its own function and dispatches to it by ID at run time.
type Expression interface {
	// ID retrieves the expression's unique identifier. Mesh inputs reference the expression
	// by uploading -ID into the input's uniform.
	//
	// Returns:
	//   - int: the positive expression ID
	ID() int

	// GLSL retrieves the body of the function the program generates for this expression.
	// The body must end in a return statement of the input's type.
	//
	// Returns:
	//   - string: the GLSL function body
	GLSL() string

	// Uniforms retrieves the uniforms the body references, in declaration order.
	//
	// Returns:
	//   - []Uniform: the uniforms and their default values
	Uniforms() []Uniform

	// Texture retrieves the texture sampled through ImageSampler, or nil.
	//
	// Returns:
	//   - *texture.Descriptor: the texture descriptor, or nil if none is sampled
	Texture() *texture.Descriptor
}

var _ Expression = &expression{}

var nextID atomic.Int64

// NewExpression creates an Expression with a fresh ID.
// Panics if glsl is empty.
//
// Parameters:
//   - glsl: the function body, ending in a return statement
//   - options: variadic list of ExpressionBuilderOption functions
//
// Returns:
//   - Expression: a new expression
func NewExpression(glsl string, options ...ExpressionBuilderOption) Expression {
	if strings.TrimSpace(glsl) == "" {
		panic("material: NewExpression requires a GLSL body")
	}
	e := &expression{
		id:   int(nextID.Add(1)),
		glsl: glsl,
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// Color creates an expression returning a constant RGBA color.
//
// Parameters:
//   - r, g, b, a: the color components in [0, 1]
//
// Returns:
//   - Expression: a vec4 expression
func Color(r, g, b, a float32) Expression {
	return NewExpression(fmt.Sprintf("return vec4(%s, %s, %s, %s);",
		glslFloat(r), glslFloat(g), glslFloat(b), glslFloat(a)))
}

// Image creates an expression sampling a texture at the mesh's texture coordinates.
//
// Parameters:
//   - desc: the texture to sample
//
// Returns:
//   - Expression: a vec4 expression
func Image(desc texture.Descriptor) Expression {
	return NewExpression("return texture2D("+ImageSampler+", v_textureCoordinate);", WithTexture(desc))
}

// Value creates an expression returning a uniform, so that the input can be changed with
// uniform updates instead of recompiling the program.
// Panics if value does not have 1, 3 or 4 components.
//
// Parameters:
//   - name: the uniform name
//   - value: the default value
//
// Returns:
//   - Expression: a float, vec3 or vec4 expression depending on len(value)
func Value(name string, value ...float32) Expression {
	switch len(value) {
	case 1, 3, 4:
	default:
		panic(fmt.Sprintf("material: Value %q needs 1, 3 or 4 components, got %d", name, len(value)))
	}
	return NewExpression("return "+name+";", WithUniform(name, value...))
}

// glslFloat formats v as a GLSL ES float literal, which must contain a decimal point.
func glslFloat(v float32) string {
	s := strconv.FormatFloat(float64(v), 'f', -1, 32)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (e *expression) ID() int {
	return e.id
}

func (e *expression) GLSL() string {
	return e.glsl
}

func (e *expression) Uniforms() []Uniform {
	return e.uniforms
}

func (e *expression) Texture() *texture.Descriptor {
	return e.texture
}
