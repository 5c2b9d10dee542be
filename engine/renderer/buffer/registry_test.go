package buffer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl/gltest"
)

func floats(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(i)
	}
	return out
}

func TestRepeatedAllocateKeepsBackingBuffer(t *testing.T) {
	rec := gltest.NewRecorder()
	r := NewRegistry(rec)

	require.NoError(t, r.Allocate(1, "a_pos", floats(9), 3, false))
	r.Flush()
	e, ok := r.Entry(1)
	require.True(t, ok)
	first := e.Buffers[0]
	handle := first.Handle()

	for i := 0; i < 5; i++ {
		require.NoError(t, r.Allocate(1, "a_pos", []float32{9, 9, 9, 8, 8, 8, 7, 7, 7}, 3, false))
		r.Flush()
	}
	e, _ = r.Entry(1)
	assert.Same(t, first, e.Buffers[0])
	assert.Equal(t, handle, e.Buffers[0].Handle())
	assert.Len(t, e.Keys, 1)
	assert.Equal(t, 1, rec.Count("CreateBuffer"))
	assert.Equal(t, 1, rec.Count("BufferData"))
	assert.Equal(t, 5, rec.Count("BufferSubData"))
}

func TestInPlaceWriteLandsAtRecordedOffset(t *testing.T) {
	rec := gltest.NewRecorder()
	r := NewRegistry(rec)

	require.NoError(t, r.Allocate(1, "a_pos", floats(6), 3, false))
	require.NoError(t, r.Allocate(2, "a_pos", floats(6), 3, false))
	r.Flush()

	e2, _ := r.Entry(2)
	assert.Equal(t, 6, e2.Offset[0])
	assert.Equal(t, 2, e2.Length[0])

	require.NoError(t, r.Allocate(2, "a_pos", []float32{-1, -2, -3, -4, -5, -6}, 3, false))
	rec.Reset()
	r.Flush()

	calls := rec.Named("BufferSubData")
	require.Len(t, calls, 1)
	assert.Equal(t, 6*4, calls[0].Args[1])
	store := rec.Store(e2.Buffers[0].Handle())
	assert.Equal(t, float32(-1), math.Float32frombits(binary.LittleEndian.Uint32(store[24:])))
	assert.Equal(t, float32(5), math.Float32frombits(binary.LittleEndian.Uint32(store[20:])), "neighbour untouched")
}

func TestPoolCapacityBoundary(t *testing.T) {
	const capacity = 30000
	cases := []struct {
		name      string
		second    int
		wantReuse bool
	}{
		{name: "cap-1", second: 2, wantReuse: true},
		{name: "cap", second: 3, wantReuse: false},
		{name: "cap+1", second: 4, wantReuse: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRegistry(gltest.NewRecorder())
			require.NoError(t, r.Allocate(1, "a_pos", floats(capacity-3), 3, false))
			require.NoError(t, r.Allocate(2, "a_pos", floats(tc.second), 3, false))

			e1, _ := r.Entry(1)
			e2, _ := r.Entry(2)
			if tc.wantReuse {
				assert.Same(t, e1.Buffers[0], e2.Buffers[0])
				assert.Equal(t, capacity-3, e2.Offset[0])
				assert.Equal(t, capacity-3+tc.second, e2.Buffers[0].Offset())
				assert.Len(t, r.PoolBuffers(), 1)
			} else {
				assert.NotSame(t, e1.Buffers[0], e2.Buffers[0])
				assert.Equal(t, 0, e2.Offset[0])
				assert.Len(t, r.PoolBuffers(), 2)
			}
		})
	}
}

func TestSpillWhenPoolFull(t *testing.T) {
	r := NewRegistry(gltest.NewRecorder())
	require.NoError(t, r.Allocate(1, "a_pos", floats(29999), 3, false))
	require.NoError(t, r.Allocate(2, "a_pos", floats(2), 3, false))

	e2, _ := r.Entry(2)
	assert.Equal(t, 0, e2.Offset[0])
	assert.Equal(t, 2, e2.Buffers[0].Offset())
}

func TestIndexAndVertexPoolsAreSeparate(t *testing.T) {
	r := NewRegistry(gltest.NewRecorder(), WithPoolCapacity(100))
	require.NoError(t, r.Allocate(1, "a_pos", floats(12), 3, false))
	require.NoError(t, r.Allocate(1, IndicesName, []float32{0, 1, 2, 2, 1, 3}, 1, false))
	require.NoError(t, r.Allocate(2, IndicesName, []float32{0, 1, 2}, 1, false))

	e1, _ := r.Entry(1)
	e2, _ := r.Entry(2)
	assert.False(t, e1.Buffers[0].IsIndex())
	assert.True(t, e1.Buffers[1].IsIndex())
	assert.Equal(t, gl.ElementArrayBuffer, e1.Buffers[1].Target())
	assert.Same(t, e1.Buffers[1], e2.Buffers[0])
	assert.Equal(t, 6, e2.Offset[0])
	assert.Equal(t, 6, e1.Length[1], "index length counts elements")
	assert.Equal(t, 4, e1.Length[0], "vertex length counts vertices")
}

func TestDynamicBuffersAreDedicatedAndGrow(t *testing.T) {
	rec := gltest.NewRecorder()
	r := NewRegistry(rec, WithPoolCapacity(10))

	require.NoError(t, r.Allocate(1, "a_pos", floats(3), 3, true))
	require.NoError(t, r.Allocate(2, "a_pos", floats(3), 3, true))
	r.Flush()
	e1, _ := r.Entry(1)
	e2, _ := r.Entry(2)
	dedicated := e1.Buffers[0]
	assert.NotSame(t, dedicated, e2.Buffers[0])
	assert.Empty(t, r.PoolBuffers())

	require.NoError(t, r.Allocate(1, "a_pos", floats(300), 3, true))
	rec.Reset()
	r.Flush()
	assert.Same(t, dedicated, e1.Buffers[0])
	assert.Equal(t, 100, e1.Length[0])
	calls := rec.Named("BufferData")
	require.Len(t, calls, 1)
	assert.Equal(t, 300*4, calls[0].Args[1])
	assert.Equal(t, gl.DynamicDraw, calls[0].Args[2])
}

func TestPooledRewriteBeyondReservationFails(t *testing.T) {
	r := NewRegistry(gltest.NewRecorder())
	require.NoError(t, r.Allocate(1, "a_pos", floats(6), 3, false))
	err := r.Allocate(1, "a_pos", floats(9), 3, false)
	assert.ErrorIs(t, err, ErrReservationExceeded)

	require.NoError(t, r.Allocate(1, "a_pos", floats(3), 3, false))
	e, _ := r.Entry(1)
	assert.Equal(t, 1, e.Length[0])
}

func TestIndicesUploadAsUint16(t *testing.T) {
	rec := gltest.NewRecorder()
	r := NewRegistry(rec)
	require.NoError(t, r.Allocate(1, IndicesName, []float32{0, 1, 65535}, 1, false))
	r.Flush()

	e, _ := r.Entry(1)
	store := rec.Store(e.Buffers[0].Handle())
	require.Len(t, store, 6)
	assert.Equal(t, uint16(65535), binary.LittleEndian.Uint16(store[4:]))
}
