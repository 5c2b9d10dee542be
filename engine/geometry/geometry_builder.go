package geometry

// GeometryBuilderOption is a function that configures a geometry during construction.
type GeometryBuilderOption func(*geometry)

// WithBuffer is an option builder that adds a named buffer to the geometry.
//
// Parameters:
//   - name: the buffer name, e.g. BufferPositions
//   - values: the buffer contents
//   - size: components per element
//
// Returns:
//   - GeometryBuilderOption: a function that applies the buffer option to a geometry
func WithBuffer(name string, values []float32, size int) GeometryBuilderOption {
	return func(g *geometry) {
		g.SetBuffer(name, values, size)
	}
}

// WithDrawType is an option builder that sets the primitive topology.
//
// Parameters:
//   - drawType: the draw type
//
// Returns:
//   - GeometryBuilderOption: a function that applies the draw type option to a geometry
func WithDrawType(drawType DrawType) GeometryBuilderOption {
	return func(g *geometry) {
		g.drawType = drawType
	}
}

// WithDynamic is an option builder that marks the geometry as dynamic. Dynamic geometries get
// dedicated GPU buffers that may grow.
//
// Parameters:
//   - dynamic: whether the geometry is dynamic
//
// Returns:
//   - GeometryBuilderOption: a function that applies the dynamic option to a geometry
func WithDynamic(dynamic bool) GeometryBuilderOption {
	return func(g *geometry) {
		g.dynamic = dynamic
	}
}
