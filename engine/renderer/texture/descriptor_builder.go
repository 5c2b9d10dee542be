package texture

import (
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
)

// DescriptorBuilderOption is a function that configures a Descriptor during construction.
type DescriptorBuilderOption func(*Descriptor)

// WithFilter is an option builder that sets the minification and magnification filters.
//
// Parameters:
//   - min: the minification filter, e.g. gl.LinearMipmapLinear
//   - mag: the magnification filter, gl.Linear or gl.Nearest
//
// Returns:
//   - DescriptorBuilderOption: a function that applies the filters
func WithFilter(min, mag gl.Enum) DescriptorBuilderOption {
	return func(d *Descriptor) {
		d.Options.MinFilter = min
		d.Options.MagFilter = mag
	}
}

// WithWrap is an option builder that sets the S and T wrap modes.
//
// Parameters:
//   - s: the horizontal wrap mode
//   - t: the vertical wrap mode
//
// Returns:
//   - DescriptorBuilderOption: a function that applies the wrap modes
func WithWrap(s, t gl.Enum) DescriptorBuilderOption {
	return func(d *Descriptor) {
		d.Options.WrapS = s
		d.Options.WrapT = t
	}
}

// WithMipmaps is an option builder that enables mipmap generation. The minification filter
// switches to gl.LinearMipmapLinear.
//
// Returns:
//   - DescriptorBuilderOption: a function that enables mipmaps
func WithMipmaps() DescriptorBuilderOption {
	return func(d *Descriptor) {
		d.Options.Mipmaps = true
		d.Options.MinFilter = gl.LinearMipmapLinear
	}
}

// WithResampleRate is an option builder that sets how often a Stream source is polled.
// Non-positive values keep DefaultResampleRate.
//
// Parameters:
//   - rate: the polling interval
//
// Returns:
//   - DescriptorBuilderOption: a function that applies the rate
func WithResampleRate(rate time.Duration) DescriptorBuilderOption {
	return func(d *Descriptor) {
		if rate > 0 {
			d.Options.ResampleRate = rate
		}
	}
}
