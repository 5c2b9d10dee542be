package buffer

// RegistryBuilderOption is a function that configures a buffer registry during construction.
type RegistryBuilderOption func(*registry)

// WithPoolCapacity is an option builder that sets the element capacity bounding reuse of
// pooled buffers. Non-positive values keep DefaultPoolCapacity.
//
// Parameters:
//   - capacity: the capacity in elements
//
// Returns:
//   - RegistryBuilderOption: a function that applies the capacity option to a registry
func WithPoolCapacity(capacity int) RegistryBuilderOption {
	return func(r *registry) {
		if capacity > 0 {
			r.poolCapacity = capacity
		}
	}
}
