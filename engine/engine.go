// Package engine drives the frame loop: it steps the frame clock, runs the scheduler of every
// active scene, flushes the commands the scenes produced into the renderer and draws.
package engine

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/clock"
	"github.com/Carmen-Shannon/oxy-gl/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
)

// engine implements the Engine interface.
type engine struct {
	renderer renderer.Renderer
	window   window.Window
	camera   camera.Camera
	clock    clock.FrameClock

	quitChannel chan struct{}
	quitOnce    sync.Once

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback func(now time.Duration)

	scenes map[int]scene.Scene
	width  int
	height int

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the engine. Everything it owns runs on the thread that
// owns the GL context: one Frame steps the clock, calls the tick callback, updates every
// active scene, hands their commands to the renderer and draws.
type Engine interface {
	// Window returns the window, or nil for a headless engine.
	Window() window.Window

	// Renderer returns the renderer frames are drawn with.
	Renderer() renderer.Renderer

	// Camera returns the camera supplying the projection and view matrices.
	Camera() camera.Camera

	// Clock returns the frame clock every scene samples.
	Clock() clock.FrameClock

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers the function called at the start of each frame, after the
	// clock has stepped. Use it for input handling and to start transitions.
	//
	// Parameters:
	//   - callback: function receiving the frame time
	SetTickCallback(callback func(now time.Duration))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// NewScene creates a scene on the engine clock, sized to the viewport, and registers it.
	//
	// Parameters:
	//   - key: the z-index determining update order (lower first)
	//   - name: the scene name, used as the root render path
	//
	// Returns:
	//   - scene.Scene: the new scene
	NewScene(key int, name string) scene.Scene

	// AddScene registers a scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index determining update order (lower first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene clears and removes the scene at the given key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given key, or nil.
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	Scenes() map[int]scene.Scene

	// Resize propagates a new framebuffer size to the renderer, the camera and every scene.
	//
	// Parameters:
	//   - width, height: the framebuffer size in pixels
	Resize(width, height int)

	// Frame runs one frame.
	//
	// Returns:
	//   - error: the joined command and draw errors of the frame; the frame still completes
	Frame() error

	// Run drives Frame from the window's message loop until the window closes or Quit is
	// called, then stops the renderer. Panics if the engine has no window.
	Run()

	// Quit stops Run. Safe to call multiple times.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates an Engine drawing with r. A window passed with WithWindow is wired so its
// resizes reach the renderer, the camera and the scenes. Panics if r is nil.
//
// Parameters:
//   - r: the renderer
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(r renderer.Renderer, options ...EngineBuilderOption) Engine {
	if r == nil {
		panic("engine: NewEngine requires a renderer")
	}
	e := &engine{
		renderer:    r,
		quitChannel: make(chan struct{}),
		scenes:      make(map[int]scene.Scene),
	}
	for _, opt := range options {
		opt(e)
	}
	if e.clock == nil {
		e.clock = clock.NewFrameClock()
	}
	if e.camera == nil {
		e.camera = camera.NewCamera()
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.Resize)
		e.Resize(e.window.Width(), e.window.Height())
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Clock() clock.FrameClock {
	return e.clock
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickCallback(callback func(now time.Duration)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) NewScene(key int, name string) scene.Scene {
	s := scene.NewScene(name, e.clock, scene.WithSize(e.width, e.height))
	e.AddScene(key, s)
	return s
}

func (e *engine) AddScene(key int, s scene.Scene) {
	if old, ok := e.scenes[key]; ok && old != s {
		old.Clear()
		e.flush(old)
	}
	if e.width > 0 || e.height > 0 {
		s.Resize(e.width, e.height)
	}
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	s, ok := e.scenes[key]
	if !ok {
		return
	}
	// the kill commands still reach the renderer so its meshes are hidden
	s.Clear()
	e.flush(s)
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}

func (e *engine) Resize(width, height int) {
	e.width, e.height = width, height
	e.renderer.Resize(width, height)
	e.camera.Resize(width, height)
	for _, s := range e.scenes {
		s.Resize(width, height)
	}
}

func (e *engine) Frame() error {
	now := e.clock.Step()
	if e.tickCallback != nil {
		e.tickCallback(now)
	}

	var errs []error
	for _, s := range e.orderedScenes() {
		if !s.Active() {
			continue
		}
		s.Update()
		if err := e.flush(s); err != nil {
			errs = append(errs, err)
		}
	}

	e.camera.Update()
	if err := e.renderer.Draw(e.camera.RenderState(now)); err != nil {
		errs = append(errs, fmt.Errorf("draw: %w", err))
	}

	if e.profilingEnabled {
		if len(errs) > 0 {
			e.profiler.RecordDrawError()
		}
		e.profiler.Tick()
	}
	return errors.Join(errs...)
}

func (e *engine) Run() {
	if e.window == nil {
		panic("engine: Run requires a window")
	}
	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			if err := e.window.Close(); err != nil {
				common.Logger().Warn("window close failed", "component", "engine", "error", err)
			}
			return
		default:
		}

		start := time.Now()
		if err := e.Frame(); err != nil {
			common.Logger().Warn("frame failed", "component", "engine", "error", err)
		}
		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(start); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	})
	e.window.ProcessMessages()
	e.renderer.Close()
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// flush hands the scene's queued commands to the renderer.
func (e *engine) flush(s scene.Scene) error {
	cmds := s.Queue().Drain()
	if len(cmds) == 0 {
		return nil
	}
	if err := e.renderer.Receive(cmds); err != nil {
		return fmt.Errorf("scene %q: %w", s.Name(), err)
	}
	return nil
}

// orderedScenes returns the registered scenes in ascending key order.
func (e *engine) orderedScenes() []scene.Scene {
	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([]scene.Scene, len(keys))
	for i, k := range keys {
		out[i] = e.scenes[k]
	}
	return out
}
