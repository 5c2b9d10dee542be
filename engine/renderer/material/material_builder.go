package material

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
)

// ExpressionBuilderOption is a function that configures an expression during construction.
type ExpressionBuilderOption func(*expression)

// WithUniform is an option builder that declares a uniform used by the expression body.
// Declaring the same name twice keeps the last value.
//
// Parameters:
//   - name: the uniform name
//   - value: the default value
//
// Returns:
//   - ExpressionBuilderOption: a function that applies the uniform to an expression
func WithUniform(name string, value ...float32) ExpressionBuilderOption {
	return func(e *expression) {
		v := slices.Clone(value)
		for i := range e.uniforms {
			if e.uniforms[i].Name == name {
				e.uniforms[i].Value = v
				return
			}
		}
		e.uniforms = append(e.uniforms, Uniform{Name: name, Value: v})
	}
}

// WithTexture is an option builder that attaches the texture sampled through ImageSampler.
//
// Parameters:
//   - desc: the texture descriptor
//
// Returns:
//   - ExpressionBuilderOption: a function that applies the texture to an expression
func WithTexture(desc texture.Descriptor) ExpressionBuilderOption {
	return func(e *expression) {
		e.texture = &desc
	}
}
