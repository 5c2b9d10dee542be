package transform

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Carmen-Shannon/oxy-gl/engine/transitionable"
)

// Node is the scene graph node a Transform drives. The node owns the authoritative values;
// the Transform seeds its properties from the getters and pushes settled values through the
// setters.
type Node interface {
	// Origin returns the node's origin.
	Origin() [3]float64
	// MountPoint returns the node's mount point.
	MountPoint() [3]float64
	// Align returns the node's alignment.
	Align() [3]float64
	// Scale returns the node's scale.
	Scale() [3]float64
	// Position returns the node's position.
	Position() [3]float64
	// Rotation returns the node's rotation as an (x, y, z, w) quaternion.
	Rotation() [4]float64

	SetOrigin(x, y, z float64)
	SetMountPoint(x, y, z float64)
	SetAlign(x, y, z float64)
	SetScale(x, y, z float64)
	SetPosition(x, y, z float64)
	SetRotation(x, y, z, w float64)

	// AddComponent registers a component with the node's scheduler.
	//
	// Parameters:
	//   - component: the component to register
	//
	// Returns:
	//   - int: the slot id used for update requests
	AddComponent(component any) int

	// RequestUpdate schedules the component's Clean for the current tick.
	//
	// Parameters:
	//   - id: the slot id returned by AddComponent
	RequestUpdate(id int)

	// RequestUpdateOnNextTick schedules the component's Clean for the following tick.
	//
	// Parameters:
	//   - id: the slot id returned by AddComponent
	RequestUpdateOnNextTick(id int)
}

// Transform animates the transform components of a Node. Properties are created lazily on
// first write and the node stays subscribed to the scheduler for as long as any channel is
// animating.
//
// Rotation is exposed through two named entry points per operation: the Euler variants take
// three angles in radians, the Quaternion variants take an (x, y, z, w) quaternion.
type Transform interface {
	// SetOrigin writes the origin.
	//
	// Parameters:
	//   - v: the components to write
	//   - t: the transition configuration, or nil to apply without animation
	//   - callback: optional completion callback, fired once
	SetOrigin(v Partial, t *transitionable.Transition, callback func())

	// SetMountPoint writes the mount point. See SetOrigin for parameters.
	SetMountPoint(v Partial, t *transitionable.Transition, callback func())

	// SetAlign writes the alignment. See SetOrigin for parameters.
	SetAlign(v Partial, t *transitionable.Transition, callback func())

	// SetScale writes the scale. See SetOrigin for parameters.
	SetScale(v Partial, t *transitionable.Transition, callback func())

	// SetPosition writes the position. See SetOrigin for parameters.
	SetPosition(v Partial, t *transitionable.Transition, callback func())

	// SetRotationEuler writes the rotation from Euler angles applied in x, y, z order.
	//
	// Parameters:
	//   - x, y, z: the angles in radians
	//   - t: the transition configuration, or nil to apply without animation
	//   - callback: optional completion callback
	SetRotationEuler(x, y, z float64, t *transitionable.Transition, callback func())

	// SetRotationQuaternion writes the rotation from a quaternion.
	//
	// Parameters:
	//   - x, y, z, w: the quaternion components, normalized on entry
	//   - t: the transition configuration, or nil to apply without animation
	//   - callback: optional completion callback
	SetRotationQuaternion(x, y, z, w float64, t *transitionable.Transition, callback func())

	// Translate moves the position relative to its pending end value.
	//
	// Parameters:
	//   - d: the deltas to apply; nil components are left untouched
	//   - t: the transition configuration, or nil to apply without animation
	//   - callback: optional completion callback
	Translate(d Partial, t *transitionable.Transition, callback func())

	// RotateEuler composes the pending rotation with a delta built from Euler angles.
	//
	// Parameters:
	//   - x, y, z: the delta angles in radians
	//   - t: the transition configuration, or nil to apply without animation
	//   - callback: optional completion callback
	RotateEuler(x, y, z float64, t *transitionable.Transition, callback func())

	// RotateQuaternion composes the pending rotation with a delta quaternion.
	//
	// Parameters:
	//   - x, y, z, w: the delta quaternion
	//   - t: the transition configuration, or nil to apply without animation
	//   - callback: optional completion callback
	RotateQuaternion(x, y, z, w float64, t *transitionable.Transition, callback func())

	// Clean pushes the current value of every dirty property to the node. While any
	// property is still animating the transform re-requests an update for the next tick.
	//
	// Returns:
	//   - bool: true while any property is animating
	Clean() bool

	// Halt stops every instantiated property at its current value.
	Halt()

	// Pause freezes every instantiated property.
	Pause()

	// Resume unfreezes every instantiated property.
	Resume()

	// IsDirty reports whether the transform is subscribed to the scheduler.
	IsDirty() bool

	// ID returns the slot id the node assigned to the transform.
	ID() int
}

type vectorSlot int

const (
	slotOrigin vectorSlot = iota
	slotMountPoint
	slotAlign
	slotScale
	slotPosition
	slotCount
)

// transform is the implementation of the Transform interface.
type transform struct {
	node  Node
	clock transitionable.Clock
	id    int

	vectors  [slotCount]*VectorProperty
	rotation *RotationProperty

	dirty bool
}

var _ Transform = &transform{}

// NewTransform creates a Transform for node and registers it as one of the node's components.
// Panics if clock or node is nil.
//
// Parameters:
//   - clock: the scheduler clock shared by every channel
//   - node: the node to drive
//
// Returns:
//   - Transform: a new transform
func NewTransform(clock transitionable.Clock, node Node) Transform {
	if clock == nil || node == nil {
		panic("transform: NewTransform requires a clock and a node")
	}
	t := &transform{node: node, clock: clock}
	t.id = node.AddComponent(t)
	return t
}

func (t *transform) SetOrigin(v Partial, tr *transitionable.Transition, callback func()) {
	t.vector(slotOrigin).Set(v, tr, callback)
	t.requestUpdate()
}

func (t *transform) SetMountPoint(v Partial, tr *transitionable.Transition, callback func()) {
	t.vector(slotMountPoint).Set(v, tr, callback)
	t.requestUpdate()
}

func (t *transform) SetAlign(v Partial, tr *transitionable.Transition, callback func()) {
	t.vector(slotAlign).Set(v, tr, callback)
	t.requestUpdate()
}

func (t *transform) SetScale(v Partial, tr *transitionable.Transition, callback func()) {
	t.vector(slotScale).Set(v, tr, callback)
	t.requestUpdate()
}

func (t *transform) SetPosition(v Partial, tr *transitionable.Transition, callback func()) {
	t.vector(slotPosition).Set(v, tr, callback)
	t.requestUpdate()
}

func (t *transform) SetRotationEuler(x, y, z float64, tr *transitionable.Transition, callback func()) {
	t.rotationProperty().Set(eulerToQuat(x, y, z), tr, callback)
	t.requestUpdate()
}

func (t *transform) SetRotationQuaternion(x, y, z, w float64, tr *transitionable.Transition, callback func()) {
	t.rotationProperty().Set(mgl64.Quat{W: w, V: mgl64.Vec3{x, y, z}}, tr, callback)
	t.requestUpdate()
}

func (t *transform) Translate(d Partial, tr *transitionable.Transition, callback func()) {
	p := t.vector(slotPosition)
	pending := p.Pending()
	var target Partial
	for i, delta := range d {
		if delta != nil {
			v := pending[i] + *delta
			target[i] = &v
		}
	}
	p.Set(target, tr, callback)
	t.requestUpdate()
}

func (t *transform) RotateEuler(x, y, z float64, tr *transitionable.Transition, callback func()) {
	t.rotate(eulerToQuat(x, y, z), tr, callback)
}

func (t *transform) RotateQuaternion(x, y, z, w float64, tr *transitionable.Transition, callback func()) {
	t.rotate(mgl64.Quat{W: w, V: mgl64.Vec3{x, y, z}}.Normalize(), tr, callback)
}

func (t *transform) rotate(delta mgl64.Quat, tr *transitionable.Transition, callback func()) {
	r := t.rotationProperty()
	r.Set(r.Pending().Mul(delta), tr, callback)
	t.requestUpdate()
}

func (t *transform) Clean() bool {
	setters := [slotCount]func(x, y, z float64){
		slotOrigin:     t.node.SetOrigin,
		slotMountPoint: t.node.SetMountPoint,
		slotAlign:      t.node.SetAlign,
		slotScale:      t.node.SetScale,
		slotPosition:   t.node.SetPosition,
	}
	for i, p := range t.vectors {
		if p == nil || !p.dirty {
			continue
		}
		v := p.Get()
		setters[i](v[0], v[1], v[2])
		p.dirty = p.IsActive()
	}
	if r := t.rotation; r != nil && r.dirty {
		q := r.Get()
		t.node.SetRotation(q[0], q[1], q[2], q[3])
		r.dirty = r.IsActive()
	}

	// completion callbacks may have armed properties that were already visited
	active := t.anyDirty()
	if active {
		t.node.RequestUpdateOnNextTick(t.id)
	} else {
		t.dirty = false
	}
	return active
}

func (t *transform) Halt() {
	t.each(func(p property) { p.Halt() })
}

func (t *transform) Pause() {
	t.each(func(p property) { p.Pause() })
}

func (t *transform) Resume() {
	t.each(func(p property) { p.Resume() })
}

func (t *transform) IsDirty() bool {
	return t.dirty
}

func (t *transform) ID() int {
	return t.id
}

func (t *transform) requestUpdate() {
	if t.dirty {
		return
	}
	t.dirty = true
	t.node.RequestUpdate(t.id)
}

func (t *transform) vector(slot vectorSlot) *VectorProperty {
	if p := t.vectors[slot]; p != nil {
		return p
	}
	var seed [3]float64
	switch slot {
	case slotOrigin:
		seed = t.node.Origin()
	case slotMountPoint:
		seed = t.node.MountPoint()
	case slotAlign:
		seed = t.node.Align()
	case slotScale:
		seed = t.node.Scale()
	case slotPosition:
		seed = t.node.Position()
	}
	p := NewVectorProperty(t.clock, seed)
	t.vectors[slot] = p
	return p
}

func (t *transform) rotationProperty() *RotationProperty {
	if t.rotation == nil {
		t.rotation = NewRotationProperty(t.clock, t.node.Rotation())
	}
	return t.rotation
}

func (t *transform) anyDirty() bool {
	for _, p := range t.vectors {
		if p != nil && p.dirty {
			return true
		}
	}
	return t.rotation != nil && t.rotation.dirty
}

// property is the playback control shared by vector and rotation properties.
type property interface {
	Halt()
	Pause()
	Resume()
}

func (t *transform) each(fn func(p property)) {
	for _, p := range t.vectors {
		if p != nil {
			fn(p)
		}
	}
	if t.rotation != nil {
		fn(t.rotation)
	}
}

// eulerToQuat converts x, y, z Euler angles, applied in that order, to a quaternion.
func eulerToQuat(x, y, z float64) mgl64.Quat {
	return mgl64.AnglesToQuat(x, y, z, mgl64.XYZ)
}
