package texture

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
)

// Registry owns the GL textures of one context. Every texture shows a checkerboard from the
// moment it is registered; real pixels replace it once they are available. Decoding happens
// on a worker pool, uploads only ever happen on the render thread inside Register and Update.
type Registry interface {
	// Register creates the texture for desc if it does not exist yet and binds it to a unit.
	// Callers never block on loading: the placeholder is bound until the pixels arrive.
	//
	// Parameters:
	//   - desc: the texture descriptor; descriptors with an ID already registered reuse it
	//   - unit: the texture unit to bind to, in [0, Units)
	//
	// Returns:
	//   - uint64: the texture ID
	Register(desc Descriptor, unit int) uint64

	// Bind binds a registered texture to a unit. Binds that would not change GL state are
	// skipped.
	//
	// Parameters:
	//   - id: the texture ID
	//   - unit: the texture unit, in [0, Units)
	Bind(id uint64, unit int)

	// Unbind clears a texture unit.
	//
	// Parameters:
	//   - unit: the texture unit, in [0, Units)
	Unbind(unit int)

	// Update uploads decoded images that completed since the last call and resamples
	// Stream sources that are due. Call once per frame before drawing.
	//
	// Parameters:
	//   - now: the frame time
	Update(now time.Duration)

	// Ready reports whether a texture shows its real pixels rather than the placeholder.
	Ready(id uint64) bool

	// Wait blocks until every decode submitted so far has finished. Completions still need
	// an Update to reach the GPU.
	Wait()

	// Close stops the decode workers.
	Close()
}

type entry struct {
	handle     gl.Texture
	desc       Descriptor
	ready      bool
	sampledAt  time.Duration
	wasSampled bool
}

type completion struct {
	id   uint64
	data common.TextureStagingData
	err  error
}

// registry is the implementation of the Registry interface.
type registry struct {
	ctx gl.Context

	workers   int
	queueSize int
	pool      worker.DynamicWorkerPool
	taskID    int
	wg        sync.WaitGroup

	mu        sync.Mutex
	completed []completion

	textures map[uint64]*entry
	order    []uint64

	activeUnit int
	bound      [Units]gl.Texture
}

var _ Registry = &registry{}

// NewRegistry creates a texture registry for a GL context. The decode worker pool is started
// on the first asynchronous load.
// Panics if ctx is nil.
//
// Parameters:
//   - ctx: the GL context textures are created on
//   - options: variadic list of RegistryBuilderOption functions
//
// Returns:
//   - Registry: a new texture registry
func NewRegistry(ctx gl.Context, options ...RegistryBuilderOption) Registry {
	if ctx == nil {
		panic("texture: NewRegistry requires a gl.Context")
	}
	r := &registry{
		ctx:        ctx,
		workers:    2,
		queueSize:  64,
		textures:   make(map[uint64]*entry),
		activeUnit: -1,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *registry) Register(desc Descriptor, unit int) uint64 {
	if _, ok := r.textures[desc.ID]; ok {
		r.Bind(desc.ID, unit)
		return desc.ID
	}

	e := &entry{handle: r.ctx.CreateTexture(), desc: desc}
	r.textures[desc.ID] = e
	r.order = append(r.order, desc.ID)
	r.Bind(desc.ID, unit)

	switch src := desc.Source.(type) {
	case Pixels:
		if src.Data.Valid() {
			r.upload(e, src.Data)
			e.ready = true
			return desc.ID
		}
		common.Logger().Warn("invalid pixel data, keeping placeholder", "component", "texture", "id", desc.ID,
			"width", src.Data.Width, "height", src.Data.Height, "bytes", len(src.Data.Pixels))
		r.upload(e, Checkerboard())
	case Encoded, File:
		r.upload(e, Checkerboard())
		r.load(desc.ID, desc.Source, desc.Options.Mipmaps)
	default:
		r.upload(e, Checkerboard())
	}
	return desc.ID
}

func (r *registry) load(id uint64, src Source, mipmaps bool) {
	if r.pool == nil {
		r.pool = worker.NewDynamicWorkerPool(r.workers, r.queueSize, time.Second)
	}
	r.wg.Add(1)
	r.taskID++
	r.pool.SubmitTask(worker.Task{
		ID:      r.taskID,
		Payload: id,
		Do: func() (any, error) {
			defer r.wg.Done()
			data, err := decode(src)
			if err == nil && mipmaps {
				data = toPowerOfTwo(data)
			}
			r.mu.Lock()
			r.completed = append(r.completed, completion{id: id, data: data, err: err})
			r.mu.Unlock()
			return data, err
		},
	})
}

func (r *registry) Bind(id uint64, unit int) {
	e, ok := r.textures[id]
	if !ok {
		return
	}
	r.activate(unit)
	if r.bound[unit] == e.handle {
		return
	}
	r.ctx.BindTexture(gl.Texture2D, e.handle)
	r.bound[unit] = e.handle
}

func (r *registry) Unbind(unit int) {
	r.activate(unit)
	if r.bound[unit] == 0 {
		return
	}
	r.ctx.BindTexture(gl.Texture2D, 0)
	r.bound[unit] = 0
}

func (r *registry) activate(unit int) {
	if unit < 0 || unit >= Units {
		panic(fmt.Sprintf("texture: unit %d out of range [0, %d)", unit, Units))
	}
	if r.activeUnit == unit {
		return
	}
	r.ctx.ActiveTexture(gl.Texture0 + gl.Enum(unit))
	r.activeUnit = unit
}

func (r *registry) Update(now time.Duration) {
	r.mu.Lock()
	done := r.completed
	r.completed = nil
	r.mu.Unlock()

	for _, c := range done {
		e, ok := r.textures[c.id]
		if !ok {
			continue
		}
		if c.err != nil {
			common.Logger().Warn("texture load failed, keeping placeholder", "component", "texture", "id", c.id, "error", c.err)
			continue
		}
		r.rebind(c.id)
		r.upload(e, c.data)
		e.ready = true
	}

	for _, id := range r.order {
		e := r.textures[id]
		stream, ok := e.desc.Source.(Stream)
		if !ok || stream.Frames == nil {
			continue
		}
		if e.wasSampled && now-e.sampledAt < e.desc.Options.ResampleRate {
			continue
		}
		e.sampledAt, e.wasSampled = now, true
		frame, ok := stream.Frames.Frame()
		if !ok || !frame.Valid() {
			continue
		}
		if e.desc.Options.Mipmaps {
			frame = toPowerOfTwo(frame)
		}
		r.rebind(id)
		r.upload(e, frame)
		e.ready = true
	}
}

// rebind binds a texture on the active unit so it can be uploaded to.
func (r *registry) rebind(id uint64) {
	r.Bind(id, max(r.activeUnit, 0))
}

// upload writes pixels to the texture bound on the active unit and applies its sampler
// options. Non power of two textures are clamped and never mipmapped.
func (r *registry) upload(e *entry, data common.TextureStagingData) {
	opts := e.desc.Options
	r.ctx.TexImage2D(gl.Texture2D, data.Width, data.Height, data.Pixels)

	minFilter, wrapS, wrapT := opts.MinFilter, opts.WrapS, opts.WrapT
	pot := data.PowerOfTwo()
	if !pot {
		minFilter = gl.Linear
		wrapS, wrapT = gl.ClampToEdge, gl.ClampToEdge
	}
	r.ctx.TexParameteri(gl.Texture2D, gl.TextureMinFilter, minFilter)
	r.ctx.TexParameteri(gl.Texture2D, gl.TextureMagFilter, opts.MagFilter)
	r.ctx.TexParameteri(gl.Texture2D, gl.TextureWrapS, wrapS)
	r.ctx.TexParameteri(gl.Texture2D, gl.TextureWrapT, wrapT)
	if opts.Mipmaps && pot {
		r.ctx.GenerateMipmap(gl.Texture2D)
	}
}

func (r *registry) Ready(id uint64) bool {
	e, ok := r.textures[id]
	return ok && e.ready
}

func (r *registry) Wait() {
	r.wg.Wait()
}

func (r *registry) Close() {
	if r.pool != nil {
		r.pool.Stop()
		r.pool = nil
	}
}
