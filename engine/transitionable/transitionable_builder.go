package transitionable

// TransitionableBuilderOption is a function that configures a transitionable during construction.
type TransitionableBuilderOption func(*transitionable)

// WithMethod is an option builder that sets the interpolation method of the channel.
// MethodSlerp requires a 4-component value and normalizes the initial state.
//
// Parameters:
//   - method: the interpolation method
//
// Returns:
//   - TransitionableBuilderOption: a function that applies the method option to a transitionable
func WithMethod(method Method) TransitionableBuilderOption {
	return func(t *transitionable) {
		t.method = method
		if method == MethodSlerp && len(t.state) == 4 {
			t.state = normalizeQuat(t.state)
		}
	}
}
