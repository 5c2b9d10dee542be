package scene

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Carmen-Shannon/oxy-gl/engine/registry"
	"github.com/Carmen-Shannon/oxy-gl/engine/transform"
)

// TransformObserver is implemented by components that follow the node's world transform,
// such as meshes and point lights.
type TransformObserver interface {
	// OnTransformChange receives the world matrix of the node's center, column major.
	OnTransformChange(m [16]float32)
}

// SizeObserver is implemented by components that follow the node's resolved size.
type SizeObserver interface {
	// OnSizeChange receives the resolved size in pixels.
	OnSizeChange(x, y, z float64)
}

// Node is a scene graph node. It owns the authoritative transform values that a
// transform.Transform animates, resolves its size against its parent and hands its world
// matrix to the components that observe it.
//
// Coordinates follow the screen: the root's top-left corner is the origin and y grows
// downward. Align positions the node inside its parent, mount point picks the node's own
// anchor, and origin is the pivot for rotation and scale. All three are fractions of a size.
type Node interface {
	transform.Node

	// Path returns the node's render path, unique within the engine.
	Path() string

	// Parent returns the parent node, or nil for a scene root.
	Parent() Node

	// Children returns the mounted children in creation order.
	Children() []Node

	// AddChild mounts a new child node.
	//
	// Returns:
	//   - Node: the new child
	AddChild() Node

	// Remove unmounts the node and its subtree and kills their components. Has no effect
	// on a scene root.
	Remove()

	// Mounted reports whether the node is attached to its scene.
	Mounted() bool

	// Transform returns the node's animator, created on first use.
	//
	// Returns:
	//   - transform.Transform: the node's transform
	Transform() transform.Transform

	// SetAbsoluteSize fixes the node's size in pixels.
	SetAbsoluteSize(x, y, z float64)

	// SetProportionalSize sizes the node as a fraction of its parent. New nodes fill their
	// parent.
	SetProportionalSize(x, y, z float64)

	// Size returns the size resolved by the last scene update.
	Size() [3]float64

	// WorldTransform returns the world matrix of the node's top-left corner resolved by the
	// last scene update, column major.
	WorldTransform() [16]float32
}

type sizeMode int

const (
	sizeProportional sizeMode = iota
	sizeAbsolute
)

// node is the implementation of the Node interface.
type node struct {
	scene    *scene
	parent   *node
	children []*node
	path     string
	nextID   int
	mounted  bool

	origin, mountPoint, align, position [3]float64
	scale                               [3]float64
	rotation                            [4]float64

	mode         sizeMode
	sizeRequest  [3]float64
	size         [3]float64
	world        mgl64.Mat4
	center       [16]float32
	observers    []any
	transform    transform.Transform
	dirty        bool
	resolved     bool
	notifyAlways bool
}

var _ Node = &node{}

func newNode(s *scene, parent *node, path string) *node {
	n := &node{
		scene:       s,
		parent:      parent,
		path:        path,
		mounted:     true,
		scale:       [3]float64{1, 1, 1},
		rotation:    [4]float64{0, 0, 0, 1},
		sizeRequest: [3]float64{1, 1, 1},
		world:       mgl64.Ident4(),
		dirty:       true,
	}
	return n
}

func (n *node) Origin() [3]float64     { return n.origin }
func (n *node) MountPoint() [3]float64 { return n.mountPoint }
func (n *node) Align() [3]float64      { return n.align }
func (n *node) Scale() [3]float64      { return n.scale }
func (n *node) Position() [3]float64   { return n.position }
func (n *node) Rotation() [4]float64   { return n.rotation }

func (n *node) SetOrigin(x, y, z float64) {
	n.origin = [3]float64{x, y, z}
	n.dirty = true
}

func (n *node) SetMountPoint(x, y, z float64) {
	n.mountPoint = [3]float64{x, y, z}
	n.dirty = true
}

func (n *node) SetAlign(x, y, z float64) {
	n.align = [3]float64{x, y, z}
	n.dirty = true
}

func (n *node) SetScale(x, y, z float64) {
	n.scale = [3]float64{x, y, z}
	n.dirty = true
}

func (n *node) SetPosition(x, y, z float64) {
	n.position = [3]float64{x, y, z}
	n.dirty = true
}

func (n *node) SetRotation(x, y, z, w float64) {
	n.rotation = [4]float64{x, y, z, w}
	n.dirty = true
}

func (n *node) AddComponent(component any) int {
	id := n.scene.registry.RequestSlot()
	n.scene.registry.RegisterAt(id, component)
	_, t := component.(TransformObserver)
	_, s := component.(SizeObserver)
	if t || s {
		n.observers = append(n.observers, component)
		// the newcomer needs the current values even if nothing moves
		n.notifyAlways = true
		n.dirty = true
	}
	return id
}

func (n *node) RequestUpdate(id int) {
	if !n.mounted {
		return
	}
	n.scene.registry.MarkDirty(id)
}

func (n *node) RequestUpdateOnNextTick(id int) {
	if !n.mounted {
		return
	}
	n.scene.nextTick = append(n.scene.nextTick, id)
}

func (n *node) Path() string {
	return n.path
}

func (n *node) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *node) Children() []Node {
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *node) AddChild() Node {
	c := newNode(n.scene, n, n.path+"/"+strconv.Itoa(n.nextID))
	n.nextID++
	c.mounted = n.mounted
	n.children = append(n.children, c)
	return c
}

func (n *node) Remove() {
	if n.parent == nil || !n.mounted {
		return
	}
	siblings := n.parent.children
	for i, c := range siblings {
		if c == n {
			n.parent.children = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	n.unmount(true)
}

// unmount detaches the subtree from the scheduler. The registry kills components itself when
// it is cleared, so kill is false in that case.
func (n *node) unmount(kill bool) {
	n.mounted = false
	if n.transform != nil {
		n.transform.Halt()
	}
	if kill {
		for _, o := range n.observers {
			if k, ok := o.(registry.Killer); ok {
				k.Kill()
			}
		}
	}
	for _, c := range n.children {
		c.unmount(kill)
	}
}

func (n *node) Mounted() bool {
	return n.mounted
}

func (n *node) Transform() transform.Transform {
	if n.transform == nil {
		n.transform = transform.NewTransform(n.scene.clock, n)
	}
	return n.transform
}

func (n *node) SetAbsoluteSize(x, y, z float64) {
	n.mode = sizeAbsolute
	n.sizeRequest = [3]float64{x, y, z}
	n.dirty = true
}

func (n *node) SetProportionalSize(x, y, z float64) {
	n.mode = sizeProportional
	n.sizeRequest = [3]float64{x, y, z}
	n.dirty = true
}

func (n *node) Size() [3]float64 {
	return n.size
}

func (n *node) WorldTransform() [16]float32 {
	return toFloat32(n.world)
}

// update resolves the node and its subtree. A subtree is only revisited when the node or an
// ancestor changed since the last update.
func (n *node) update(parentWorld mgl64.Mat4, parentSize [3]float64, parentChanged bool) {
	changed := n.dirty || parentChanged || !n.resolved
	if changed {
		size := n.resolveSize(parentSize)
		world := parentWorld.Mul4(n.localMatrix(parentSize, size))
		sizeChanged := !n.resolved || size != n.size
		worldChanged := !n.resolved || world != n.world
		n.size = size
		n.world = world
		n.resolved = true
		n.dirty = false

		// the center matrix depends on both world and size
		centerChanged := worldChanged || sizeChanged || n.notifyAlways
		sizeNotify := sizeChanged || n.notifyAlways
		n.notifyAlways = false
		if centerChanged {
			n.center = toFloat32(world.Mul4(mgl64.Translate3D(size[0]/2, size[1]/2, size[2]/2)))
			n.notify(sizeNotify)
		}
		changed = worldChanged || sizeChanged
	}
	for _, c := range n.children {
		c.update(n.world, n.size, changed)
	}
}

func (n *node) notify(sizeChanged bool) {
	for _, o := range n.observers {
		if t, ok := o.(TransformObserver); ok {
			t.OnTransformChange(n.center)
		}
		if s, ok := o.(SizeObserver); ok && sizeChanged {
			s.OnSizeChange(n.size[0], n.size[1], n.size[2])
		}
	}
}

func (n *node) resolveSize(parentSize [3]float64) [3]float64 {
	if n.mode == sizeAbsolute {
		return n.sizeRequest
	}
	return [3]float64{
		parentSize[0] * n.sizeRequest[0],
		parentSize[1] * n.sizeRequest[1],
		parentSize[2] * n.sizeRequest[2],
	}
}

// localMatrix places the node's top-left corner in its parent's frame:
// T(align*parent - mountPoint*size + position + pivot) * R * S * T(-pivot).
func (n *node) localMatrix(parentSize, size [3]float64) mgl64.Mat4 {
	var offset, pivot mgl64.Vec3
	for i := 0; i < 3; i++ {
		pivot[i] = n.origin[i] * size[i]
		offset[i] = n.align[i]*parentSize[i] - n.mountPoint[i]*size[i] + n.position[i] + pivot[i]
	}
	q := mgl64.Quat{W: n.rotation[3], V: mgl64.Vec3{n.rotation[0], n.rotation[1], n.rotation[2]}}
	return mgl64.Translate3D(offset[0], offset[1], offset[2]).
		Mul4(q.Mat4()).
		Mul4(mgl64.Scale3D(n.scale[0], n.scale[1], n.scale[2])).
		Mul4(mgl64.Translate3D(-pivot[0], -pivot[1], -pivot[2]))
}

func toFloat32(m mgl64.Mat4) [16]float32 {
	var out [16]float32
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}
