package transitionable

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Clock supplies the scheduler time used to evaluate transitions.
// The engine's frame clock is frozen for the duration of a frame so every channel
// sampled within one tick observes the same instant.
type Clock interface {
	// Now returns the current scheduler time measured from an arbitrary origin.
	//
	// Returns:
	//   - time.Duration: the current time
	Now() time.Duration
}

// Method selects how a transition interpolates between its start and end values.
type Method int

const (
	// MethodLinear interpolates each component independently.
	MethodLinear Method = iota

	// MethodSlerp interpolates a 4-component (x, y, z, w) unit quaternion along the great arc.
	// Intermediate values are always unit quaternions.
	MethodSlerp
)

// Transition configures a single animated segment. A nil *Transition means the value is
// applied with a zero duration.
type Transition struct {
	// Duration is how long the segment takes once it becomes the head of the queue.
	Duration time.Duration
	// Curve names an entry of Curves. Empty or unknown names use linear.
	Curve string
}

type segment struct {
	from     []float64
	end      []float64
	duration time.Duration
	curve    Curve
	callback func()
}

// transitionable is the implementation of the Transitionable interface.
type transitionable struct {
	clock  Clock
	method Method

	state []float64
	queue []*segment

	startedAt time.Duration
	pausedAt  time.Duration
	paused    bool

	// draining counts the completion callbacks running, nested ones included, so segments
	// appended from a callback start at the end of the segment that just completed.
	draining int
}

// Transitionable is an animated channel: a fixed-size numeric value with a FIFO queue of
// pending transitions. Segments run back to back, each one starting when its predecessor's
// duration has elapsed, and completion callbacks fire in queue order as the channel is sampled.
//
// A Transitionable is not safe for concurrent use; it is owned by the render thread.
type Transitionable interface {
	// Set appends a segment that moves the channel to target. A nil transition applies the
	// value with a zero duration, still respecting the order of previously queued segments.
	// The callback, if any, fires once when the segment completes. Set may be called from
	// within a completion callback.
	//
	// Parameters:
	//   - target: the end value, which must have the channel's dimension
	//   - t: the transition configuration, or nil for an immediate segment
	//   - callback: optional completion callback
	Set(target []float64, t *Transition, callback func())

	// Get samples the channel at the clock's current time. Completed segments are popped
	// and their callbacks invoked as a side effect.
	//
	// Returns:
	//   - []float64: a copy of the interpolated value
	Get() []float64

	// IsActive reports whether any segment is pending or in progress.
	//
	// Returns:
	//   - bool: true while the queue is non-empty
	IsActive() bool

	// PendingTarget returns the end value of the last queued segment, or the current settled
	// state when nothing is queued. Relative operations compose against this value.
	//
	// Returns:
	//   - []float64: a copy of the pending target
	PendingTarget() []float64

	// Pause freezes elapsed time without discarding queued segments.
	Pause()

	// Resume unfreezes elapsed time; queued segments continue where they left off.
	Resume()

	// IsPaused reports whether the channel is paused.
	//
	// Returns:
	//   - bool: true while paused
	IsPaused() bool

	// Halt stops the channel at its current interpolated value. All queued segments are
	// dropped and their callbacks are never invoked.
	Halt()

	// Reset drops every queued segment without invoking callbacks and jumps to state.
	//
	// Parameters:
	//   - state: the new settled value
	Reset(state []float64)

	// Delay appends a segment that holds the pending target for the given duration.
	//
	// Parameters:
	//   - d: how long to hold
	//   - callback: optional completion callback
	Delay(d time.Duration, callback func())

	// Dimension returns the number of components of the channel's value.
	//
	// Returns:
	//   - int: the value length
	Dimension() int
}

var _ Transitionable = &transitionable{}

// NewTransitionable creates a channel settled at initial.
// Panics if clock is nil or initial is empty, or if the slerp method is requested for a
// value that is not 4 components long.
//
// Parameters:
//   - clock: the scheduler clock used to sample the channel
//   - initial: the initial settled value, copied
//   - options: variadic list of TransitionableBuilderOption functions
//
// Returns:
//   - Transitionable: a new channel
func NewTransitionable(clock Clock, initial []float64, options ...TransitionableBuilderOption) Transitionable {
	if clock == nil {
		panic("transitionable: NewTransitionable requires a non-nil Clock")
	}
	if len(initial) == 0 {
		panic("transitionable: NewTransitionable requires a non-empty initial value")
	}
	t := &transitionable{
		clock: clock,
		state: clone(initial),
	}
	for _, opt := range options {
		opt(t)
	}
	if t.method == MethodSlerp && len(t.state) != 4 {
		panic(fmt.Sprintf("transitionable: slerp requires 4 components, got %d", len(t.state)))
	}
	return t
}

func (t *transitionable) Set(target []float64, tr *Transition, callback func()) {
	if len(target) != len(t.state) {
		panic(fmt.Sprintf("transitionable: Set expects %d components, got %d", len(t.state), len(target)))
	}
	seg := &segment{
		end:      clone(target),
		curve:    CurveFor(""),
		callback: callback,
	}
	if tr != nil {
		seg.duration = max(tr.Duration, 0)
		seg.curve = CurveFor(tr.Curve)
	}
	if t.method == MethodSlerp {
		seg.end = normalizeQuat(seg.end)
	}

	if len(t.queue) == 0 {
		seg.from = clone(t.state)
		if t.draining == 0 {
			t.startedAt = t.now()
		}
	}
	t.queue = append(t.queue, seg)
}

func (t *transitionable) Get() []float64 {
	now := t.now()
	for len(t.queue) > 0 {
		head := t.queue[0]
		elapsed := now - t.startedAt
		if elapsed < head.duration {
			progress := head.curve(float64(elapsed) / float64(head.duration))
			return t.interpolate(head.from, head.end, progress)
		}

		t.state = clone(head.end)
		t.startedAt += head.duration
		t.queue[0] = nil
		t.queue = t.queue[1:]
		if len(t.queue) > 0 {
			t.queue[0].from = clone(t.state)
		}
		if head.callback != nil {
			t.draining++
			head.callback()
			t.draining--
		}
	}
	return clone(t.state)
}

func (t *transitionable) IsActive() bool {
	return len(t.queue) > 0
}

func (t *transitionable) PendingTarget() []float64 {
	if n := len(t.queue); n > 0 {
		return clone(t.queue[n-1].end)
	}
	return clone(t.state)
}

func (t *transitionable) Pause() {
	if t.paused {
		return
	}
	t.pausedAt = t.clock.Now()
	t.paused = true
}

func (t *transitionable) Resume() {
	if !t.paused {
		return
	}
	t.startedAt += t.clock.Now() - t.pausedAt
	t.paused = false
}

func (t *transitionable) IsPaused() bool {
	return t.paused
}

func (t *transitionable) Halt() {
	if t.draining > 0 {
		// inside a completion callback the settled state is the current value
		t.queue = nil
		return
	}
	current := t.Get()
	t.queue = nil
	t.state = current
}

func (t *transitionable) Reset(state []float64) {
	if len(state) != len(t.state) {
		panic(fmt.Sprintf("transitionable: Reset expects %d components, got %d", len(t.state), len(state)))
	}
	t.queue = nil
	t.state = clone(state)
	if t.method == MethodSlerp {
		t.state = normalizeQuat(t.state)
	}
}

func (t *transitionable) Delay(d time.Duration, callback func()) {
	t.Set(t.PendingTarget(), &Transition{Duration: d}, callback)
}

func (t *transitionable) Dimension() int {
	return len(t.state)
}

// now returns the effective time, which stands still while the channel is paused.
func (t *transitionable) now() time.Duration {
	if t.paused {
		return t.pausedAt
	}
	return t.clock.Now()
}

func (t *transitionable) interpolate(from, to []float64, progress float64) []float64 {
	if t.method == MethodSlerp {
		q := mgl64.QuatSlerp(toQuat(from), toQuat(to), progress)
		return []float64{q.V[0], q.V[1], q.V[2], q.W}
	}
	out := make([]float64, len(from))
	for i := range from {
		out[i] = from[i] + (to[i]-from[i])*progress
	}
	return out
}

func toQuat(v []float64) mgl64.Quat {
	return mgl64.Quat{W: v[3], V: mgl64.Vec3{v[0], v[1], v[2]}}
}

// normalizeQuat returns v scaled to unit length; a zero quaternion becomes the identity.
func normalizeQuat(v []float64) []float64 {
	q := toQuat(v).Normalize()
	return []float64{q.V[0], q.V[1], q.V[2], q.W}
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
