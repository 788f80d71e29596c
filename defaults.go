package goacornflow

// DefaultOptions returns the recommended set of options for production use.
// Currently this includes panic recovery and dispatch IDs; additional
// defaults may be added in future versions.
func DefaultOptions() []Option {
	return []Option{
		WithRecovery(),
		WithDispatchID(),
	}
}
