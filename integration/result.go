// Package integration holds types shared by the side integrations the agent
// notifies after changing tasks.
package integration

// Result reports the outcome of a best-effort integration call. Integrations
// return failures as values so a broken side channel never aborts the task
// operation that triggered it.
type Result struct {
	// Value is the integration's identifier for what it created, if any.
	Value string

	// Err is non-nil when the call failed.
	Err error
}

// Success returns a successful result carrying value.
func Success(value string) Result {
	return Result{Value: value}
}

// Failure returns a failed result.
func Failure(err error) Result {
	return Result{Err: err}
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}
