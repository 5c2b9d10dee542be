package buffer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
)

// DefaultPoolCapacity is the element capacity that bounds reuse of a pooled buffer.
const DefaultPoolCapacity = 30000

// IndicesName is the buffer name that selects an element array buffer.
const IndicesName = "indices"

// ErrReservationExceeded is returned when a rewrite of a pooled buffer entry is larger than the
// range reserved for it. Pooled neighbours cannot be moved, so the data is rejected.
var ErrReservationExceeded = errors.New("buffer: write exceeds pooled reservation")

// Entry records, per buffer name of one geometry, where its data lives. The slices are
// parallel and indexed by the order in which names were first allocated.
type Entry struct {
	Keys    []string
	Buffers []*Buffer
	Spacing []int
	// Offset is the element offset of the data inside its buffer.
	Offset []int
	// Length is the element count for indices and the vertex count otherwise.
	Length []int

	reserved []int
}

// Index returns the position of name in Keys, or -1.
func (e *Entry) Index(name string) int {
	for i, k := range e.Keys {
		if k == name {
			return i
		}
	}
	return -1
}

// Registry allocates GPU buffers for geometry data. Static data is packed into shared pool
// buffers while dynamic data gets dedicated buffers that may grow.
type Registry interface {
	// Allocate writes data for one buffer of a geometry. The first call for a (geometry, name)
	// pair picks a backing buffer; later calls write in place at the recorded offset and never
	// create a second backing buffer.
	//
	// Parameters:
	//   - geometryID: the owning geometry
	//   - name: the buffer name; IndicesName selects an index buffer
	//   - data: the values, copied
	//   - spacing: components per vertex, used for attribute setup
	//   - dynamic: whether the data may later grow
	//
	// Returns:
	//   - error: ErrReservationExceeded if a pooled entry is rewritten with more data than
	//     it was first allocated with
	Allocate(geometryID uint64, name string, data []float32, spacing int, dynamic bool) error

	// Flush uploads every pending write to the GPU. Must be called on the render thread
	// before buffers are bound for drawing.
	Flush()

	// Entry returns the allocation record of a geometry.
	//
	// Parameters:
	//   - geometryID: the geometry to look up
	//
	// Returns:
	//   - *Entry: the record, owned by the registry
	//   - bool: false if nothing was allocated for the geometry
	Entry(geometryID uint64) (*Entry, bool)

	// PoolBuffers returns the pooled buffers in creation order.
	PoolBuffers() []*Buffer
}

// registry is the implementation of the Registry interface.
type registry struct {
	ctx          gl.Context
	poolCapacity int

	entries map[uint64]*Entry
	pool    []*Buffer
	all     []*Buffer
}

var _ Registry = &registry{}

// NewRegistry creates a buffer registry for a GL context.
// Panics if ctx is nil.
//
// Parameters:
//   - ctx: the GL context buffers are created on
//   - options: variadic list of RegistryBuilderOption functions
//
// Returns:
//   - Registry: a new buffer registry
func NewRegistry(ctx gl.Context, options ...RegistryBuilderOption) Registry {
	if ctx == nil {
		panic("buffer: NewRegistry requires a gl.Context")
	}
	r := &registry{
		ctx:          ctx,
		poolCapacity: DefaultPoolCapacity,
		entries:      make(map[uint64]*Entry),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *registry) Allocate(geometryID uint64, name string, data []float32, spacing int, dynamic bool) error {
	if spacing <= 0 {
		spacing = 1
	}
	isIndex := name == IndicesName
	length := len(data)
	if !isIndex {
		length = len(data) / spacing
	}

	e, ok := r.entries[geometryID]
	if !ok {
		e = &Entry{}
		r.entries[geometryID] = e
	}

	if i := e.Index(name); i >= 0 {
		b := e.Buffers[i]
		if len(data) > e.reserved[i] {
			if b.pooled {
				return fmt.Errorf("%w: geometry %d %q needs %d elements, reserved %d",
					ErrReservationExceeded, geometryID, name, len(data), e.reserved[i])
			}
			e.reserved[i] = len(data)
		}
		b.write(e.Offset[i], data)
		e.Spacing[i] = spacing
		e.Length[i] = length
		return nil
	}

	var b *Buffer
	offset := 0
	if !dynamic {
		for _, candidate := range r.pool {
			if candidate.isIndex != isIndex {
				continue
			}
			if candidate.offset+len(data) < r.poolCapacity {
				b = candidate
				offset = candidate.offset
				break
			}
		}
	}
	if b == nil {
		b = newBuffer(isIndex, !dynamic, dynamic)
		r.all = append(r.all, b)
		if !dynamic {
			r.pool = append(r.pool, b)
			common.Logger().Debug("new pool buffer", "component", "buffer", "index", isIndex, "pool", len(r.pool))
		}
	}
	b.write(offset, data)
	b.offset = offset + len(data)

	e.Keys = append(e.Keys, name)
	e.Buffers = append(e.Buffers, b)
	e.Spacing = append(e.Spacing, spacing)
	e.Offset = append(e.Offset, offset)
	e.Length = append(e.Length, length)
	e.reserved = append(e.reserved, len(data))
	return nil
}

func (r *registry) Flush() {
	for _, b := range r.all {
		b.flush(r.ctx)
	}
}

func (r *registry) Entry(geometryID uint64) (*Entry, bool) {
	e, ok := r.entries[geometryID]
	return e, ok
}

func (r *registry) PoolBuffers() []*Buffer {
	return r.pool
}
