package transitionable

import (
	"math"

	"github.com/Carmen-Shannon/oxy-gl/common"
)

// Curve maps normalized elapsed time in [0, 1) onto interpolation progress.
// Progress may overshoot [0, 1] for curves such as outBack.
type Curve func(t float64) float64

// Curves is the table of named easing curves understood by Transition.Curve.
var Curves = map[string]Curve{
	"linear": func(t float64) float64 { return t },
	"easeIn": func(t float64) float64 { return t * t },
	"easeOut": func(t float64) float64 {
		return t * (2 - t)
	},
	"easeInOut": func(t float64) float64 {
		if t <= 0.5 {
			return 2 * t * t
		}
		return -2*t*t + 4*t - 1
	},
	"outBack": func(t float64) float64 {
		const s = 1.70158
		t--
		return t*t*((s+1)*t+s) + 1
	},
	"outBounce": func(t float64) float64 {
		switch {
		case t < 1/2.75:
			return 7.5625 * t * t
		case t < 2/2.75:
			t -= 1.5 / 2.75
			return 7.5625*t*t + 0.75
		case t < 2.5/2.75:
			t -= 2.25 / 2.75
			return 7.5625*t*t + 0.9375
		default:
			t -= 2.625 / 2.75
			return 7.5625*t*t + 0.984375
		}
	},
	"spring": func(t float64) float64 {
		return (1-t)*math.Sin(6*math.Pi*t) + t
	},
}

// CurveFor resolves a curve by name. The empty name resolves to linear; unknown names also
// resolve to linear and are reported at warn level.
//
// Parameters:
//   - name: the curve name
//
// Returns:
//   - Curve: the resolved curve, never nil
func CurveFor(name string) Curve {
	if name == "" {
		return Curves["linear"]
	}
	if c, ok := Curves[name]; ok {
		return c
	}
	common.Logger().Warn("unknown curve, using linear", "component", "transitionable", "curve", name)
	return Curves["linear"]
}
