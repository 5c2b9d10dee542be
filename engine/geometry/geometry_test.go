package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDsAreMonotonic(t *testing.T) {
	a := NewGeometry()
	b := NewGeometry()
	assert.Greater(t, b.ID(), a.ID())
}

func TestConstructionInvalidatesEveryBuffer(t *testing.T) {
	g := NewGeometry(
		WithBuffer(BufferPositions, []float32{0, 0, 0, 1, 1, 1}, 3),
		WithBuffer(BufferIndices, []float32{0, 1}, 1),
		WithDrawType(DrawLines),
	)
	assert.Equal(t, DrawLines, g.DrawType())
	assert.False(t, g.Dynamic())
	assert.Equal(t, 2, g.Length())
	assert.Equal(t, []int{0, 1}, g.DrainInvalidations())
	assert.Empty(t, g.DrainInvalidations())
}

func TestSetBufferRecordsInvalidationOnce(t *testing.T) {
	g := NewGeometry(WithDynamic(true), WithBuffer(BufferPositions, []float32{0, 0, 0}, 3))
	g.DrainInvalidations()

	g.SetBuffer(BufferPositions, []float32{1, 2, 3, 4, 5, 6}, 3)
	g.SetBuffer(BufferPositions, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}, 3)
	g.SetBuffer(BufferNormals, []float32{0, 0, 1}, 3)

	assert.Equal(t, []int{0, 1}, g.Invalidations())
	b, ok := g.Buffer(BufferPositions)
	require.True(t, ok)
	assert.Len(t, b.Values, 9)
	assert.Equal(t, 3, g.Length())
}

func TestLibraryResolve(t *testing.T) {
	l := DefaultLibrary()

	box, err := l.Resolve("Box")
	require.NoError(t, err)
	again, err := l.Resolve("Box")
	require.NoError(t, err)
	assert.Same(t, box, again)
	assert.Equal(t, 24, box.Length())

	_, err = l.Resolve("Teapot")
	assert.ErrorIs(t, err, ErrUnknownGeometry)
}

func TestPlaneIndicesAddressVertices(t *testing.T) {
	p := Plane()
	idx, ok := p.Buffer(BufferIndices)
	require.True(t, ok)
	for _, i := range idx.Values {
		assert.Less(t, int(i), p.Length())
	}
}

func TestParseDrawType(t *testing.T) {
	for d := DrawTriangles; d <= DrawPoints; d++ {
		parsed, ok := ParseDrawType(d.String())
		assert.True(t, ok)
		assert.Equal(t, d, parsed)
	}
	_, ok := ParseDrawType("QUADS")
	assert.False(t, ok)
}
