package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeComponent struct {
	cleans    int
	stayDirty bool
	killed    bool
	onClean   func()
}

func (f *fakeComponent) Clean() bool {
	f.cleans++
	if f.onClean != nil {
		f.onClean()
	}
	return f.stayDirty
}

func (f *fakeComponent) Kill() { f.killed = true }

func register(r Registry, n int) []*fakeComponent {
	out := make([]*fakeComponent, n)
	for i := range out {
		out[i] = &fakeComponent{}
		r.RegisterAt(r.RequestSlot(), out[i])
	}
	return out
}

func TestRequestSlotIsDense(t *testing.T) {
	r := NewRegistry()
	for want := 0; want < 5; want++ {
		assert.Equal(t, want, r.RequestSlot())
	}
	assert.Equal(t, 5, r.Len())
}

func TestCleanVisitsOnlyDirtySlots(t *testing.T) {
	r := NewRegistry()
	cs := register(r, 3)

	r.MarkDirty(1)
	r.Clean()

	assert.Equal(t, 0, cs[0].cleans)
	assert.Equal(t, 1, cs[1].cleans)
	assert.Equal(t, 0, cs[2].cleans)
	assert.False(t, r.IsDirty(1))
}

func TestCleanReturnValueControlsRedirty(t *testing.T) {
	r := NewRegistry()
	cs := register(r, 2)
	cs[0].stayDirty = true

	r.MarkDirty(0)
	r.MarkDirty(1)
	r.Clean()
	assert.True(t, r.IsDirty(0))
	assert.False(t, r.IsDirty(1))

	r.Clean()
	assert.Equal(t, 2, cs[0].cleans)
	assert.Equal(t, 1, cs[1].cleans)

	cs[0].stayDirty = false
	r.Clean()
	assert.False(t, r.IsDirty(0))
	r.Clean()
	assert.Equal(t, 3, cs[0].cleans)
}

func TestComponentWithoutCleanIsCleanAfterOneVisit(t *testing.T) {
	r := NewRegistry()
	r.RegisterAt(r.RequestSlot(), "plain")
	r.MarkDirty(0)
	r.Clean()
	assert.False(t, r.IsDirty(0))
}

func TestMarkDirtyIsIdempotent(t *testing.T) {
	r := NewRegistry()
	cs := register(r, 1)
	r.MarkDirty(0)
	r.MarkDirty(0)
	r.Clean()
	assert.Equal(t, 1, cs[0].cleans)
}

func TestCleanToleratesCrossSlotDirtying(t *testing.T) {
	r := NewRegistry()
	cs := register(r, 3)
	cs[1].onClean = func() {
		r.MarkDirty(0)
		r.MarkDirty(2)
	}

	r.MarkDirty(1)
	r.Clean()
	assert.Equal(t, 0, cs[0].cleans, "lower slot waits for the next pass")
	assert.Equal(t, 1, cs[2].cleans, "higher slot is reached in the same pass")
	assert.True(t, r.IsDirty(0))

	r.Clean()
	assert.Equal(t, 1, cs[0].cleans)
}

func TestClearKillsAndResetsIndices(t *testing.T) {
	r := NewRegistry()
	cs := register(r, 3)
	r.MarkDirty(2)

	r.Clear()
	for _, c := range cs {
		assert.True(t, c.killed)
	}
	assert.Zero(t, r.Len())
	assert.Equal(t, 0, r.RequestSlot())
	assert.False(t, r.IsDirty(0))
	assert.Nil(t, r.At(0))
}

func TestOutOfRangePanics(t *testing.T) {
	r := NewRegistry()
	require.Panics(t, func() { r.MarkDirty(0) })
	require.Panics(t, func() { r.RegisterAt(-1, nil) })
}
