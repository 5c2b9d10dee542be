package renderer

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPoolCapacity sets how many floats each shared static buffer holds before a new one is
// started.
//
// Parameters:
//   - capacity: the pool buffer capacity in elements
//
// Returns:
//   - RendererBuilderOption: a function that applies the pool capacity option to a renderer
func WithPoolCapacity(capacity int) RendererBuilderOption {
	return func(r *renderer) {
		if capacity > 0 {
			r.poolCapacity = capacity
		}
	}
}

// WithUniformCache makes the program skip uniform uploads whose value has not changed since
// the last upload. Off by default.
//
// Parameters:
//   - enabled: whether to cache uniform values
//
// Returns:
//   - RendererBuilderOption: a function that applies the uniform cache option to a renderer
func WithUniformCache(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.uniformCache = enabled
	}
}

// WithClearColor sets the color the canvas is cleared to each frame. The default is
// transparent black.
//
// Parameters:
//   - red, green, blue, alpha: the clear color components in [0, 1]
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(red, green, blue, alpha float32) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = [4]float32{red, green, blue, alpha}
	}
}

// WithTextureOptions forwards options to the renderer's texture registry.
//
// Parameters:
//   - options: texture registry options, such as texture.WithWorkers
//
// Returns:
//   - RendererBuilderOption: a function that applies the texture options to a renderer
func WithTextureOptions(options ...texture.RegistryBuilderOption) RendererBuilderOption {
	return func(r *renderer) {
		r.textureOptions = append(r.textureOptions, options...)
	}
}
