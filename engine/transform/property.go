package transform

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Carmen-Shannon/oxy-gl/engine/transitionable"
)

// Partial is a vector write where nil components are left untouched.
type Partial [3]*float64

// XYZ builds a Partial that writes all three components.
//
// Parameters:
//   - x, y, z: the component values
//
// Returns:
//   - Partial: a full write
func XYZ(x, y, z float64) Partial {
	return Partial{&x, &y, &z}
}

// X builds a Partial that only writes the x component.
func X(v float64) Partial { return Partial{&v, nil, nil} }

// Y builds a Partial that only writes the y component.
func Y(v float64) Partial { return Partial{nil, &v, nil} }

// Z builds a Partial that only writes the z component.
func Z(v float64) Partial { return Partial{nil, nil, &v} }

// VectorProperty groups three independently animated scalar channels that form one semantic
// transform component such as position or scale.
type VectorProperty struct {
	channels [3]transitionable.Transitionable
	dirty    bool
}

// NewVectorProperty creates a settled property seeded from initial.
//
// Parameters:
//   - clock: the scheduler clock
//   - initial: the seed value, normally the node's authoritative value
//
// Returns:
//   - *VectorProperty: a new property
func NewVectorProperty(clock transitionable.Clock, initial [3]float64) *VectorProperty {
	p := &VectorProperty{}
	for i := range p.channels {
		p.channels[i] = transitionable.NewTransitionable(clock, []float64{initial[i]})
	}
	return p
}

// Set appends a segment to every channel named by v. The callback is attached to the last
// written channel in z, y, x order so it fires exactly once.
//
// Parameters:
//   - v: the components to write
//   - t: the transition configuration, or nil to apply without animation
//   - callback: optional completion callback
func (p *VectorProperty) Set(v Partial, t *transitionable.Transition, callback func()) {
	last := -1
	for i := 2; i >= 0; i-- {
		if v[i] != nil {
			last = i
			break
		}
	}
	if last < 0 {
		return
	}
	for i, c := range v {
		if c == nil {
			continue
		}
		var cb func()
		if i == last {
			cb = callback
		}
		p.channels[i].Set([]float64{*c}, t, cb)
	}
	p.dirty = true
}

// Get samples all three channels.
//
// Returns:
//   - [3]float64: the current value
func (p *VectorProperty) Get() [3]float64 {
	return [3]float64{p.channels[0].Get()[0], p.channels[1].Get()[0], p.channels[2].Get()[0]}
}

// Pending returns the end value of each channel's last queued segment.
//
// Returns:
//   - [3]float64: the intended end state
func (p *VectorProperty) Pending() [3]float64 {
	return [3]float64{p.channels[0].PendingTarget()[0], p.channels[1].PendingTarget()[0], p.channels[2].PendingTarget()[0]}
}

// IsActive reports whether any channel is animating.
func (p *VectorProperty) IsActive() bool {
	return p.channels[0].IsActive() || p.channels[1].IsActive() || p.channels[2].IsActive()
}

// IsDirty reports whether the property has values not yet pushed to its node.
func (p *VectorProperty) IsDirty() bool {
	return p.dirty
}

func (p *VectorProperty) Pause() {
	for _, c := range p.channels {
		c.Pause()
	}
}

func (p *VectorProperty) Resume() {
	for _, c := range p.channels {
		c.Resume()
	}
}

func (p *VectorProperty) Halt() {
	for _, c := range p.channels {
		c.Halt()
	}
}

// RotationProperty is a single 4-component channel holding a unit quaternion stored as
// (x, y, z, w). It always interpolates with slerp.
type RotationProperty struct {
	channel transitionable.Transitionable
	dirty   bool
}

// NewRotationProperty creates a settled rotation seeded from initial.
//
// Parameters:
//   - clock: the scheduler clock
//   - initial: the seed quaternion as (x, y, z, w)
//
// Returns:
//   - *RotationProperty: a new property
func NewRotationProperty(clock transitionable.Clock, initial [4]float64) *RotationProperty {
	return &RotationProperty{
		channel: transitionable.NewTransitionable(clock, initial[:], transitionable.WithMethod(transitionable.MethodSlerp)),
	}
}

// Set appends a slerp segment towards q.
//
// Parameters:
//   - q: the target quaternion, normalized on entry
//   - t: the transition configuration, or nil to apply without animation
//   - callback: optional completion callback
func (p *RotationProperty) Set(q mgl64.Quat, t *transitionable.Transition, callback func()) {
	p.channel.Set([]float64{q.V[0], q.V[1], q.V[2], q.W}, t, callback)
	p.dirty = true
}

// Get samples the channel.
//
// Returns:
//   - [4]float64: the current quaternion as (x, y, z, w)
func (p *RotationProperty) Get() [4]float64 {
	v := p.channel.Get()
	return [4]float64{v[0], v[1], v[2], v[3]}
}

// Pending returns the end value of the last queued segment.
//
// Returns:
//   - mgl64.Quat: the intended end orientation
func (p *RotationProperty) Pending() mgl64.Quat {
	v := p.channel.PendingTarget()
	return mgl64.Quat{W: v[3], V: mgl64.Vec3{v[0], v[1], v[2]}}
}

func (p *RotationProperty) IsActive() bool {
	return p.channel.IsActive()
}

func (p *RotationProperty) IsDirty() bool {
	return p.dirty
}

func (p *RotationProperty) Pause() {
	p.channel.Pause()
}

func (p *RotationProperty) Resume() {
	p.channel.Resume()
}

func (p *RotationProperty) Halt() {
	p.channel.Halt()
}
