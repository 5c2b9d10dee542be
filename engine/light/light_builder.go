package light

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithColor is an option builder that sets the color of the light. The default is white.
//
// Parameters:
//   - c: the color, possibly animated
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(c Color) LightBuilderOption {
	return func(l *lightImpl) {
		if c != nil {
			l.color = c
		}
	}
}

// WithIntensity is an option builder that sets the multiplier applied to the color.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float64) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithEnabled is an option builder that sets whether the light is active for rendering.
//
// Parameters:
//   - enabled: true to enable the light
//
// Returns:
//   - LightBuilderOption: a function that applies the enabled option to a lightImpl
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}

// WithPosition is an option builder that sets the initial position of a point light, used
// until the node's first transform change.
//
// Parameters:
//   - x, y, z: the position components
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = [3]float32{x, y, z}
	}
}
