package main

import (
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/transitionable"
)

// animatedColor is an RGB value driven by a transitionable, usable wherever a mesh or light
// takes a color.
type animatedColor struct {
	t transitionable.Transitionable
}

func newAnimatedColor(clock transitionable.Clock, rgb [3]float64) *animatedColor {
	return &animatedColor{t: transitionable.NewTransitionable(clock, rgb[:])}
}

func (c *animatedColor) NormalizedRGB() [3]float64 {
	v := c.t.Get()
	return [3]float64{v[0], v[1], v[2]}
}

func (c *animatedColor) IsActive() bool {
	return c.t.IsActive()
}

// loop fades to rgb and back, forever.
func (c *animatedColor) loop(rgb [3]float64, period time.Duration) {
	start := c.t.PendingTarget()
	tr := &transitionable.Transition{Duration: period / 2, Curve: "easeInOut"}
	c.t.Set(rgb[:], tr, nil)
	c.t.Set(start, tr, func() { c.loop(rgb, period) })
}
