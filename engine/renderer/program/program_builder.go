package program

// ProgramBuilderOption is a function that configures a program during construction.
type ProgramBuilderOption func(*program)

// WithUniformCache is an option builder that skips uploads of uniform values equal to the
// last value uploaded under the same name. Off by default.
//
// Parameters:
//   - enabled: whether to cache uniform values
//
// Returns:
//   - ProgramBuilderOption: a function that applies the cache option to a program
func WithUniformCache(enabled bool) ProgramBuilderOption {
	return func(p *program) {
		p.cacheValues = enabled
	}
}
