package buffer

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
)

// Buffer is a GPU buffer object with a CPU shadow copy of its contents. Writes land in the
// shadow copy and are pushed to the GPU by Registry.Flush.
type Buffer struct {
	handle  gl.Buffer
	target  gl.Enum
	usage   gl.Enum
	isIndex bool
	pooled  bool

	data []float32
	// offset is the next free element for pooled buffers.
	offset int

	uploaded      int
	dirtyLo       int
	dirtyHi       int
	reallocNeeded bool
}

func newBuffer(isIndex, pooled, dynamic bool) *Buffer {
	b := &Buffer{
		target:  gl.ArrayBuffer,
		usage:   gl.StaticDraw,
		isIndex: isIndex,
		pooled:  pooled,
		dirtyLo: -1,
	}
	if isIndex {
		b.target = gl.ElementArrayBuffer
	}
	if dynamic {
		b.usage = gl.DynamicDraw
	}
	return b
}

// Handle returns the GL buffer object, or zero before the first flush.
func (b *Buffer) Handle() gl.Buffer {
	return b.handle
}

// Target returns gl.ArrayBuffer or gl.ElementArrayBuffer.
func (b *Buffer) Target() gl.Enum {
	return b.target
}

// IsIndex reports whether the buffer holds 16-bit indices.
func (b *Buffer) IsIndex() bool {
	return b.isIndex
}

// Pooled reports whether the buffer is shared by several static geometries.
func (b *Buffer) Pooled() bool {
	return b.pooled
}

// Offset returns the next free element of a pooled buffer.
func (b *Buffer) Offset() int {
	return b.offset
}

// Len returns the number of elements in the shadow copy.
func (b *Buffer) Len() int {
	return len(b.data)
}

// write copies values into the shadow copy at an element offset, growing it if needed.
func (b *Buffer) write(at int, values []float32) {
	if end := at + len(values); end > len(b.data) {
		b.data = append(b.data, make([]float32, end-len(b.data))...)
	}
	copy(b.data[at:], values)
	if len(b.data) != b.uploaded {
		b.reallocNeeded = true
	}
	if b.dirtyLo < 0 || at < b.dirtyLo {
		b.dirtyLo = at
	}
	b.dirtyHi = max(b.dirtyHi, at+len(values))
}

func (b *Buffer) pending() bool {
	return b.reallocNeeded || b.dirtyLo >= 0
}

// flush pushes pending writes to the GPU. A first upload or a size change reallocates the
// store; anything else is a sub-upload of the dirty range.
func (b *Buffer) flush(ctx gl.Context) {
	if !b.pending() {
		return
	}
	if b.handle == 0 {
		b.handle = ctx.CreateBuffer()
		b.reallocNeeded = true
	}
	ctx.BindBuffer(b.target, b.handle)
	if b.reallocNeeded {
		ctx.BufferData(b.target, b.bytes(b.data), b.usage)
		b.uploaded = len(b.data)
	} else if lo, hi := b.dirtyLo, b.dirtyHi; hi > lo {
		ctx.BufferSubData(b.target, lo*b.elementSize(), b.bytes(b.data[lo:hi]))
	}
	b.reallocNeeded = false
	b.dirtyLo, b.dirtyHi = -1, 0
}

func (b *Buffer) elementSize() int {
	if b.isIndex {
		return 2
	}
	return 4
}

func (b *Buffer) bytes(values []float32) []byte {
	if !b.isIndex {
		return common.SliceToBytes(values)
	}
	indices := make([]uint16, len(values))
	for i, v := range values {
		indices[i] = uint16(v)
	}
	return common.SliceToBytes(indices)
}
