package mesh

import "github.com/Carmen-Shannon/oxy-gl/engine/geometry"

// MeshBuilderOption is a function that configures a mesh during construction.
type MeshBuilderOption func(*mesh)

// WithLibrary sets the library SetGeometryName resolves names in. Meshes sharing a library
// share the GPU buffers of equally named geometries. Without it each mesh gets its own
// geometry.DefaultLibrary.
//
// Parameters:
//   - library: the geometry library
//
// Returns:
//   - MeshBuilderOption: a function that applies the library option to a mesh
func WithLibrary(library *geometry.Library) MeshBuilderOption {
	return func(m *mesh) {
		m.library = library
	}
}

// WithHidden creates the mesh hidden.
//
// Returns:
//   - MeshBuilderOption: a function that hides the mesh
func WithHidden() MeshBuilderOption {
	return func(m *mesh) {
		m.visible = false
	}
}
