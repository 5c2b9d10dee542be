package scene

import "github.com/Carmen-Shannon/oxy-gl/engine/renderer/command"

// SceneBuilderOption is a functional option for configuring a Scene.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the engine updates the scene.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithQueue makes the scene's components write to an existing queue.
//
// Parameters:
//   - q: the queue to share
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithQueue(q command.Queue) SceneBuilderOption {
	return func(s *scene) {
		s.queue = q
	}
}

// WithSize sets the initial viewport size the root is sized to.
func WithSize(width, height int) SceneBuilderOption {
	return func(s *scene) {
		s.width, s.height = width, height
	}
}
