package renderer

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
)

// rendererBackend caches GL binding and capability state so redundant calls are skipped.
// The cache is only correct while every change to this state goes through it; code that
// touches the context directly must be followed by the matching invalidate call.
type rendererBackend struct {
	ctx gl.Context

	arrayBuffer   gl.Buffer
	elementBuffer gl.Buffer

	lastDrawn uint64
	drawn     bool
	// attributes is a bit set of enabled vertex attribute locations.
	attributes uint32

	capabilities map[gl.Enum]bool
	depthMask    bool
	depthMaskSet bool
	blendSrc     gl.Enum
	blendDst     gl.Enum
	blendSet     bool
	cullFace     gl.Enum
}

func newRendererBackend(ctx gl.Context) *rendererBackend {
	return &rendererBackend{
		ctx:          ctx,
		capabilities: make(map[gl.Enum]bool),
	}
}

// init puts the context into the renderer's baseline state.
func (b *rendererBackend) init(clear [4]float32) {
	b.ctx.ClearColor(clear[0], clear[1], clear[2], clear[3])
	b.ctx.DepthFunc(gl.LEqual)
	b.setCapability(gl.DepthTest, true)
	b.setCapability(gl.CullFaceMode, true)
	b.setCullFace(gl.Back)
	b.setBlendFunc(gl.SrcAlpha, gl.OneMinusSrcAlpha)
	b.setDepthMask(true)
}

func (b *rendererBackend) bindBuffer(target gl.Enum, buf gl.Buffer) {
	bound := &b.arrayBuffer
	if target == gl.ElementArrayBuffer {
		bound = &b.elementBuffer
	}
	if *bound == buf {
		return
	}
	*bound = buf
	b.ctx.BindBuffer(target, buf)
}

// invalidateBuffers forgets the bound buffers after the buffer registry bound its own.
func (b *rendererBackend) invalidateBuffers() {
	b.arrayBuffer = 0
	b.elementBuffer = 0
}

// invalidateAttributes forgets attribute pointers and enabled arrays after a relink, since
// attribute locations may have moved.
func (b *rendererBackend) invalidateAttributes() {
	b.drawn = false
	for loc := uint32(0); b.attributes != 0; loc++ {
		if b.attributes&(1<<loc) != 0 {
			b.ctx.DisableVertexAttribArray(loc)
			b.attributes &^= 1 << loc
		}
	}
}

// needsPointers reports whether attribute pointers must be set up for a geometry.
func (b *rendererBackend) needsPointers(geometryID uint64) bool {
	return !b.drawn || b.lastDrawn != geometryID
}

func (b *rendererBackend) markDrawn(geometryID uint64) {
	b.lastDrawn = geometryID
	b.drawn = true
}

func (b *rendererBackend) enableAttribute(loc uint32) {
	if b.attributes&(1<<loc) != 0 {
		return
	}
	b.attributes |= 1 << loc
	b.ctx.EnableVertexAttribArray(loc)
}

// retainAttributes disables every enabled attribute array outside used.
func (b *rendererBackend) retainAttributes(used uint32) {
	stale := b.attributes &^ used
	for loc := uint32(0); stale != 0; loc++ {
		if stale&(1<<loc) != 0 {
			b.ctx.DisableVertexAttribArray(loc)
			stale &^= 1 << loc
		}
	}
	b.attributes &= used
}

func (b *rendererBackend) setCapability(capability gl.Enum, on bool) {
	if current, known := b.capabilities[capability]; known && current == on {
		return
	}
	b.capabilities[capability] = on
	if on {
		b.ctx.Enable(capability)
	} else {
		b.ctx.Disable(capability)
	}
}

func (b *rendererBackend) setDepthMask(on bool) {
	if b.depthMaskSet && b.depthMask == on {
		return
	}
	b.depthMask = on
	b.depthMaskSet = true
	b.ctx.DepthMask(on)
}

func (b *rendererBackend) setBlendFunc(src, dst gl.Enum) {
	if b.blendSet && b.blendSrc == src && b.blendDst == dst {
		return
	}
	b.blendSrc = src
	b.blendDst = dst
	b.blendSet = true
	b.ctx.BlendFunc(src, dst)
}

func (b *rendererBackend) setCullFace(face gl.Enum) {
	if b.cullFace == face {
		return
	}
	b.cullFace = face
	b.ctx.CullFace(face)
}
