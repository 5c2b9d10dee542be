package registry

import "fmt"

// Cleaner is implemented by components that want to be visited by the clean pass.
type Cleaner interface {
	// Clean flushes the component's pending state.
	//
	// Returns:
	//   - bool: true if the component must be visited again on the next pass
	Clean() bool
}

// Killer is implemented by components that need teardown when the registry is cleared.
type Killer interface {
	// Kill releases the component's resources.
	Kill()
}

// Registry is an indexed store of components with a parallel dirty flag per slot.
// Slot indices are dense, assigned in request order and stable until Clear.
//
// A Registry is not safe for concurrent use; it is owned by the scheduler thread.
type Registry interface {
	// RequestSlot reserves the next slot index.
	//
	// Returns:
	//   - int: the registry length at the time of the call
	RequestSlot() int

	// RegisterAt binds a component to a slot. The slot starts clean.
	// Panics if index has not been reserved.
	//
	// Parameters:
	//   - index: a slot returned by RequestSlot
	//   - component: the component to bind
	RegisterAt(index int, component any)

	// MarkDirty flags a slot for the next clean pass. Idempotent.
	// Panics if index has not been reserved.
	//
	// Parameters:
	//   - index: the slot to mark
	MarkDirty(index int)

	// CleanAt visits one slot. A Cleaner decides whether the slot stays dirty; any other
	// component is treated as clean after the visit.
	//
	// Parameters:
	//   - index: the slot to visit
	CleanAt(index int)

	// Clean visits every dirty slot in ascending index order. Slots dirtied by a component
	// during the pass are visited in the same pass only if their index is greater than the
	// current one.
	Clean()

	// Clear kills every component that implements Killer, then empties the registry and
	// restarts index assignment at zero.
	Clear()

	// Len returns the number of reserved slots.
	//
	// Returns:
	//   - int: the slot count
	Len() int

	// IsDirty reports whether a slot is flagged for the next clean pass.
	//
	// Parameters:
	//   - index: the slot to query
	//
	// Returns:
	//   - bool: the slot's dirty flag
	IsDirty(index int) bool

	// At returns the component bound to a slot, or nil if none is bound yet.
	//
	// Parameters:
	//   - index: the slot to query
	//
	// Returns:
	//   - any: the bound component
	At(index int) any
}

// registry is the implementation of the Registry interface.
type registry struct {
	components []any
	dirty      []bool
}

var _ Registry = &registry{}

// NewRegistry creates an empty Registry.
//
// Returns:
//   - Registry: a new registry
func NewRegistry() Registry {
	return &registry{}
}

func (r *registry) RequestSlot() int {
	index := len(r.components)
	r.components = append(r.components, nil)
	r.dirty = append(r.dirty, false)
	return index
}

func (r *registry) RegisterAt(index int, component any) {
	r.check(index)
	r.components[index] = component
	r.dirty[index] = false
}

func (r *registry) MarkDirty(index int) {
	r.check(index)
	r.dirty[index] = true
}

func (r *registry) CleanAt(index int) {
	r.check(index)
	if c, ok := r.components[index].(Cleaner); ok {
		r.dirty[index] = c.Clean()
		return
	}
	r.dirty[index] = false
}

func (r *registry) Clean() {
	// Clear may be called from a component; re-read the length every iteration.
	for i := 0; i < len(r.dirty); i++ {
		if r.dirty[i] {
			r.CleanAt(i)
		}
	}
}

func (r *registry) Clear() {
	for _, c := range r.components {
		if k, ok := c.(Killer); ok {
			k.Kill()
		}
	}
	r.components = r.components[:0]
	r.dirty = r.dirty[:0]
}

func (r *registry) Len() int {
	return len(r.components)
}

func (r *registry) IsDirty(index int) bool {
	r.check(index)
	return r.dirty[index]
}

func (r *registry) At(index int) any {
	r.check(index)
	return r.components[index]
}

func (r *registry) check(index int) {
	if index < 0 || index >= len(r.components) {
		panic(fmt.Sprintf("registry: slot %d out of range [0, %d)", index, len(r.components)))
	}
}
