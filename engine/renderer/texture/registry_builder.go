package texture

// RegistryBuilderOption is a function that configures a texture registry during construction.
type RegistryBuilderOption func(*registry)

// WithWorkers is an option builder that sets how many goroutines decode images.
// Non-positive values keep the default of 2.
//
// Parameters:
//   - n: the number of decode workers
//
// Returns:
//   - RegistryBuilderOption: a function that applies the worker count
func WithWorkers(n int) RegistryBuilderOption {
	return func(r *registry) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithQueueSize is an option builder that sets how many decodes may wait for a worker
// before Register blocks. Non-positive values keep the default of 64.
//
// Parameters:
//   - n: the queue length
//
// Returns:
//   - RegistryBuilderOption: a function that applies the queue size
func WithQueueSize(n int) RegistryBuilderOption {
	return func(r *registry) {
		if n > 0 {
			r.queueSize = n
		}
	}
}
