package dynamo

import "errors"

// Domain errors for integration and grid operations.
var (
	// ErrInvalidArgument indicates a precondition violation such as a
	// non-positive step count, a non-positive cube side, or a degenerate region.
	ErrInvalidArgument = errors.New("dynamo: invalid argument")
)

// ArgumentError names the offending argument of a rejected call.
type ArgumentError struct {
	Name   string
	Value  any
	Reason string
}

func (e *ArgumentError) Error() string {
	return "dynamo: invalid argument " + e.Name + ": " + e.Reason
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// InvalidArgument returns an *ArgumentError that matches ErrInvalidArgument
// under errors.Is.
func InvalidArgument(name string, value any, reason string) error {
	return &ArgumentError{Name: name, Value: value, Reason: reason}
}
