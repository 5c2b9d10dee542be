package transform

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-gl/engine/clock"
	"github.com/Carmen-Shannon/oxy-gl/engine/transitionable"
)

type fakeNode struct {
	origin, mountPoint, align, scale, position [3]float64
	rotation                                   [4]float64

	positionSets [][3]float64
	rotationSets [][4]float64
	updates      int
	nextTick     int
}

func newFakeNode() *fakeNode {
	return &fakeNode{scale: [3]float64{1, 1, 1}, rotation: [4]float64{0, 0, 0, 1}}
}

func (n *fakeNode) Origin() [3]float64     { return n.origin }
func (n *fakeNode) MountPoint() [3]float64 { return n.mountPoint }
func (n *fakeNode) Align() [3]float64      { return n.align }
func (n *fakeNode) Scale() [3]float64      { return n.scale }
func (n *fakeNode) Position() [3]float64   { return n.position }
func (n *fakeNode) Rotation() [4]float64   { return n.rotation }

func (n *fakeNode) SetOrigin(x, y, z float64)     { n.origin = [3]float64{x, y, z} }
func (n *fakeNode) SetMountPoint(x, y, z float64) { n.mountPoint = [3]float64{x, y, z} }
func (n *fakeNode) SetAlign(x, y, z float64)      { n.align = [3]float64{x, y, z} }
func (n *fakeNode) SetScale(x, y, z float64)      { n.scale = [3]float64{x, y, z} }
func (n *fakeNode) SetPosition(x, y, z float64) {
	n.position = [3]float64{x, y, z}
	n.positionSets = append(n.positionSets, n.position)
}
func (n *fakeNode) SetRotation(x, y, z, w float64) {
	n.rotation = [4]float64{x, y, z, w}
	n.rotationSets = append(n.rotationSets, n.rotation)
}

func (n *fakeNode) AddComponent(any) int        { return 7 }
func (n *fakeNode) RequestUpdate(int)           { n.updates++ }
func (n *fakeNode) RequestUpdateOnNextTick(int) { n.nextTick++ }

func TestSetPositionWithoutTransitionPushesOnce(t *testing.T) {
	c := clock.NewManualClock()
	node := newFakeNode()
	tr := NewTransform(c, node)
	assert.Equal(t, 7, tr.ID())

	tr.SetPosition(XYZ(10, 20, 30), nil, nil)
	assert.True(t, tr.IsDirty())
	assert.Equal(t, 1, node.updates)

	assert.False(t, tr.Clean())
	assert.Equal(t, [][3]float64{{10, 20, 30}}, node.positionSets)
	assert.False(t, tr.IsDirty())
	assert.Zero(t, node.nextTick)

	tr.Clean()
	assert.Len(t, node.positionSets, 1, "a settled property is not pushed again")
}

func TestRequestUpdateOncePerDirtyPeriod(t *testing.T) {
	node := newFakeNode()
	tr := NewTransform(clock.NewManualClock(), node)

	tr.SetPosition(X(1), nil, nil)
	tr.SetScale(XYZ(2, 2, 2), nil, nil)
	tr.SetRotationEuler(0, 1, 0, nil, nil)
	assert.Equal(t, 1, node.updates)

	tr.Clean()
	tr.SetPosition(X(5), nil, nil)
	assert.Equal(t, 2, node.updates)
}

func TestAnimatedPositionMidpoint(t *testing.T) {
	c := clock.NewManualClock()
	node := newFakeNode()
	tr := NewTransform(c, node)

	tr.SetPosition(XYZ(0, 0, 0), nil, nil)
	tr.SetPosition(XYZ(100, 0, 0), &transitionable.Transition{Duration: time.Second, Curve: "linear"}, nil)

	c.Set(500 * time.Millisecond)
	assert.True(t, tr.Clean())
	assert.InDeltaSlice(t, []float64{50, 0, 0}, node.position[:], 1e-9)
	assert.Equal(t, 1, node.nextTick)
	assert.True(t, tr.IsDirty())

	c.Set(time.Second)
	assert.False(t, tr.Clean())
	assert.Equal(t, [3]float64{100, 0, 0}, node.position)
	assert.False(t, tr.IsDirty())
}

func TestPartialSetLeavesOtherChannelsAlone(t *testing.T) {
	c := clock.NewManualClock()
	node := newFakeNode()
	node.position = [3]float64{1, 2, 3}
	tr := NewTransform(c, node)

	tr.SetPosition(Y(9), nil, nil)
	tr.Clean()
	assert.Equal(t, [3]float64{1, 9, 3}, node.position)
}

func TestCallbackFiresOnceOnLastWrittenChannel(t *testing.T) {
	c := clock.NewManualClock()
	node := newFakeNode()
	tr := NewTransform(c, node)

	calls := 0
	y := 5.0
	tr.SetPosition(Partial{nil, &y, nil}, &transitionable.Transition{Duration: 100 * time.Millisecond}, func() { calls++ })
	tr.SetScale(XYZ(2, 3, 4), &transitionable.Transition{Duration: 100 * time.Millisecond}, func() { calls++ })

	c.Set(time.Second)
	tr.Clean()
	assert.Equal(t, 2, calls)
}

func TestTranslateComposesAgainstPendingTarget(t *testing.T) {
	c := clock.NewManualClock()
	node := newFakeNode()
	tr := NewTransform(c, node)

	tr.SetPosition(XYZ(10, 0, 0), &transitionable.Transition{Duration: time.Second}, nil)
	c.Set(100 * time.Millisecond)
	tr.Translate(XYZ(5, 1, 0), &transitionable.Transition{Duration: time.Second}, nil)

	c.Set(3 * time.Second)
	tr.Clean()
	assert.Equal(t, [3]float64{15, 1, 0}, node.position)
}

func quatOf(v [4]float64) mgl64.Quat {
	return mgl64.Quat{W: v[3], V: mgl64.Vec3{v[0], v[1], v[2]}}
}

func TestRotateQuaternionIsAssociativeAgainstIntent(t *testing.T) {
	a := mgl64.QuatRotate(0.7, mgl64.Vec3{1, 0, 0})
	b := mgl64.QuatRotate(-1.3, mgl64.Vec3{0, 1, 1}.Normalize())
	ab := a.Mul(b)
	cfg := &transitionable.Transition{Duration: time.Second}

	c1 := clock.NewManualClock()
	n1 := newFakeNode()
	t1 := NewTransform(c1, n1)
	t1.RotateQuaternion(a.V[0], a.V[1], a.V[2], a.W, cfg, nil)
	c1.Set(300 * time.Millisecond)
	t1.Clean()
	t1.RotateQuaternion(b.V[0], b.V[1], b.V[2], b.W, cfg, nil)
	c1.Set(5 * time.Second)
	t1.Clean()

	c2 := clock.NewManualClock()
	n2 := newFakeNode()
	t2 := NewTransform(c2, n2)
	t2.RotateQuaternion(ab.V[0], ab.V[1], ab.V[2], ab.W, cfg, nil)
	c2.Set(5 * time.Second)
	t2.Clean()

	require.True(t, quatOf(n1.rotation).OrientationEqualThreshold(quatOf(n2.rotation), 1e-9))
}

func TestRotationStaysUnitWhileAnimating(t *testing.T) {
	c := clock.NewManualClock()
	node := newFakeNode()
	tr := NewTransform(c, node)

	tr.SetRotationEuler(0.3, 2.0, -1.1, &transitionable.Transition{Duration: time.Second, Curve: "easeIn"}, nil)
	for ms := 0; ms <= 1000; ms += 100 {
		c.Set(time.Duration(ms) * time.Millisecond)
		tr.Clean()
		assert.InDelta(t, 1, quatOf(node.rotation).Len(), 1e-9)
	}
	assert.False(t, tr.IsDirty())
}

func TestSetRotationEulerMatchesAxisRotations(t *testing.T) {
	node := newFakeNode()
	tr := NewTransform(clock.NewManualClock(), node)

	tr.SetRotationEuler(0, math.Pi/2, 0, nil, nil)
	tr.Clean()
	want := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})
	assert.True(t, quatOf(node.rotation).OrientationEqualThreshold(want, 1e-9))
}

func TestHaltStopsAllProperties(t *testing.T) {
	c := clock.NewManualClock()
	node := newFakeNode()
	tr := NewTransform(c, node)

	called := false
	tr.SetPosition(XYZ(100, 0, 0), &transitionable.Transition{Duration: time.Second}, func() { called = true })
	c.Set(250 * time.Millisecond)
	tr.Halt()

	c.Set(2 * time.Second)
	assert.False(t, tr.Clean())
	assert.InDelta(t, 25, node.position[0], 1e-9)
	assert.False(t, called)
}
