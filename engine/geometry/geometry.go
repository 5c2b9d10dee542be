package geometry

import (
	"slices"
	"sync/atomic"
)

// DrawType is the primitive topology a geometry is drawn with.
type DrawType int

const (
	DrawTriangles DrawType = iota
	DrawTriangleStrip
	DrawTriangleFan
	DrawLines
	DrawLineStrip
	DrawLineLoop
	DrawPoints
)

func (d DrawType) String() string {
	switch d {
	case DrawTriangles:
		return "TRIANGLES"
	case DrawTriangleStrip:
		return "TRIANGLE_STRIP"
	case DrawTriangleFan:
		return "TRIANGLE_FAN"
	case DrawLines:
		return "LINES"
	case DrawLineStrip:
		return "LINE_STRIP"
	case DrawLineLoop:
		return "LINE_LOOP"
	case DrawPoints:
		return "POINTS"
	}
	return "UNKNOWN"
}

// ParseDrawType returns the DrawType whose String is name.
func ParseDrawType(name string) (DrawType, bool) {
	for d := DrawTriangles; d <= DrawPoints; d++ {
		if d.String() == name {
			return d, true
		}
	}
	return 0, false
}

// Well known buffer names. The index buffer is recognized by name.
const (
	BufferPositions = "a_pos"
	BufferTexCoords = "a_texCoord"
	BufferNormals   = "a_normals"
	BufferIndices   = "indices"
)

// Buffer is one named vertex attribute or index buffer of a geometry.
type Buffer struct {
	Name   string
	Values []float32
	// Size is the number of components per element: 3 for positions, 2 for texture
	// coordinates, 1 for indices.
	Size int
}

var lastID atomic.Uint64

// Geometry is a named set of vertex and index buffers plus the draw type used to render them.
// Every buffer whose GPU copy is stale is listed as an invalidation until drained.
type Geometry interface {
	// ID returns the geometry's process-unique id. Ids increase monotonically.
	ID() uint64

	// DrawType returns the primitive topology.
	DrawType() DrawType

	// Dynamic reports whether the geometry's buffers may be rewritten or grow.
	Dynamic() bool

	// Buffers returns the geometry's buffers in declaration order.
	//
	// Returns:
	//   - []Buffer: the buffers, sharing storage with the geometry
	Buffers() []Buffer

	// Buffer looks up a buffer by name.
	//
	// Parameters:
	//   - name: the buffer name
	//
	// Returns:
	//   - Buffer: the buffer
	//   - bool: false if the geometry has no such buffer
	Buffer(name string) (Buffer, bool)

	// SetBuffer replaces the named buffer, or appends it if absent, and records an invalidation.
	//
	// Parameters:
	//   - name: the buffer name
	//   - values: the new contents
	//   - size: components per element
	SetBuffer(name string, values []float32, size int)

	// Length returns the number of vertices, derived from the position buffer.
	//
	// Returns:
	//   - int: the vertex count, or 0 without positions
	Length() int

	// DrainInvalidations returns the indices of stale buffers and clears the list.
	//
	// Returns:
	//   - []int: indices into Buffers()
	DrainInvalidations() []int

	// Invalidations returns the indices of stale buffers without clearing them.
	Invalidations() []int
}

// geometry is the implementation of the Geometry interface.
type geometry struct {
	id            uint64
	drawType      DrawType
	dynamic       bool
	buffers       []Buffer
	invalidations []int
}

var _ Geometry = &geometry{}

// NewGeometry creates a geometry with a fresh id. Every buffer passed through WithBuffer is
// recorded as an invalidation so it is uploaded on the first draw.
//
// Parameters:
//   - options: variadic list of GeometryBuilderOption functions
//
// Returns:
//   - Geometry: a new geometry
func NewGeometry(options ...GeometryBuilderOption) Geometry {
	g := &geometry{
		id:       lastID.Add(1),
		drawType: DrawTriangles,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

func (g *geometry) ID() uint64 {
	return g.id
}

func (g *geometry) DrawType() DrawType {
	return g.drawType
}

func (g *geometry) Dynamic() bool {
	return g.dynamic
}

func (g *geometry) Buffers() []Buffer {
	return g.buffers
}

func (g *geometry) Buffer(name string) (Buffer, bool) {
	i := g.indexOf(name)
	if i < 0 {
		return Buffer{}, false
	}
	return g.buffers[i], true
}

func (g *geometry) SetBuffer(name string, values []float32, size int) {
	i := g.indexOf(name)
	if i < 0 {
		g.buffers = append(g.buffers, Buffer{Name: name, Values: values, Size: size})
		i = len(g.buffers) - 1
	} else {
		g.buffers[i] = Buffer{Name: name, Values: values, Size: size}
	}
	if !slices.Contains(g.invalidations, i) {
		g.invalidations = append(g.invalidations, i)
	}
}

func (g *geometry) Length() int {
	b, ok := g.Buffer(BufferPositions)
	if !ok || b.Size == 0 {
		return 0
	}
	return len(b.Values) / b.Size
}

func (g *geometry) DrainInvalidations() []int {
	out := g.invalidations
	g.invalidations = nil
	return out
}

func (g *geometry) Invalidations() []int {
	return slices.Clone(g.invalidations)
}

func (g *geometry) indexOf(name string) int {
	for i, b := range g.buffers {
		if b.Name == name {
			return i
		}
	}
	return -1
}
