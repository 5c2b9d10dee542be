// Package scene provides the scene graph: nodes with animated transforms whose components are
// scheduled through a dirty registry and emit draw commands into the scene's queue.
package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/registry"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/command"
	"github.com/Carmen-Shannon/oxy-gl/engine/transitionable"
)

// scene is the implementation of the Scene interface.
type scene struct {
	name     string
	active   bool
	clock    transitionable.Clock
	queue    command.Queue
	registry registry.Registry
	root     *node
	nextTick []int
	width    int
	height   int
}

// Scene owns a node tree, the component registry that schedules it and the command queue its
// components write to. A scene is single-threaded: every method must be called from the
// thread driving the frame loop.
type Scene interface {
	// Name returns the scene's identifier, also the path of its root.
	Name() string

	// Active returns whether the engine updates this scene.
	Active() bool

	// SetActive sets whether the engine updates this scene.
	SetActive(active bool)

	// Root returns the root node, sized to the viewport.
	Root() Node

	// Queue returns the queue components push commands to.
	Queue() command.Queue

	// Clock returns the clock transforms created by this scene's nodes sample.
	Clock() transitionable.Clock

	// Update runs one scheduler tick: components that asked for the next tick are marked
	// dirty, dirty components are cleaned, changed nodes resolve their world transforms and
	// notify their observers, and the observers that reacted are cleaned in a second pass.
	Update()

	// Resize sizes the root to the viewport.
	//
	// Parameters:
	//   - width, height: the viewport size in pixels
	Resize(width, height int)

	// Clear kills every component and replaces the root with an empty one.
	Clear()

	// Components returns the number of registered components.
	Components() int
}

var _ Scene = &scene{}

// NewScene creates an active scene with an empty root. Panics if clock is nil.
//
// Parameters:
//   - name: the scene name, used as the root path
//   - clock: the clock transforms sample
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the new scene
func NewScene(name string, clock transitionable.Clock, options ...SceneBuilderOption) Scene {
	if clock == nil {
		panic("scene: NewScene requires a clock")
	}
	s := &scene{
		name:     name,
		active:   true,
		clock:    clock,
		registry: registry.NewRegistry(),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.queue == nil {
		s.queue = command.NewQueue()
	}
	s.root = s.newRoot()
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Active() bool {
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.active = active
}

func (s *scene) Root() Node {
	return s.root
}

func (s *scene) Queue() command.Queue {
	return s.queue
}

func (s *scene) Clock() transitionable.Clock {
	return s.clock
}

func (s *scene) Update() {
	pending := s.nextTick
	s.nextTick = nil
	for _, id := range pending {
		if id < s.registry.Len() {
			s.registry.MarkDirty(id)
		}
	}

	s.registry.Clean()
	s.root.update(mgl64.Ident4(), s.root.size, false)
	s.registry.Clean()
}

func (s *scene) Resize(width, height int) {
	s.width, s.height = width, height
	s.root.SetAbsoluteSize(float64(width), float64(height), 0)
}

func (s *scene) Clear() {
	s.root.unmount(false)
	s.registry.Clear()
	s.nextTick = nil
	s.root = s.newRoot()
	common.Logger().Debug("scene cleared", "component", "scene", "scene", s.name)
}

func (s *scene) Components() int {
	return s.registry.Len()
}

func (s *scene) newRoot() *node {
	root := newNode(s, nil, s.name)
	root.SetAbsoluteSize(float64(s.width), float64(s.height), 0)
	return root
}
