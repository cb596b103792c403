package datastore

// Status classifies the outcome of a store operation.
type Status int

const (
	// StatusOK means the operation succeeded and Value is valid.
	StatusOK Status = iota
	// StatusNotFound means the targeted row does not exist.
	StatusNotFound
	// StatusInvalid means the input was rejected before the store was touched.
	StatusInvalid
	// StatusFault means the store failed; the transaction was rolled back.
	StatusFault
)

// String returns the status name used in logs and metrics.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not_found"
	case StatusInvalid:
		return "invalid"
	case StatusFault:
		return "fault"
	default:
		return "unknown"
	}
}

// Result carries the payload of a store operation together with its outcome.
// Err is set for StatusInvalid and StatusFault.
type Result[T any] struct {
	Value  T
	Status Status
	Err    error
}

// OK reports whether the operation succeeded.
func (r Result[T]) OK() bool { return r.Status == StatusOK }

// NotFound reports whether the target was missing.
func (r Result[T]) NotFound() bool { return r.Status == StatusNotFound }

// Invalid reports whether the input was rejected.
func (r Result[T]) Invalid() bool { return r.Status == StatusInvalid }

// Fault reports whether the store failed.
func (r Result[T]) Fault() bool { return r.Status == StatusFault }

func ok[T any](v T) Result[T] {
	return Result[T]{Value: v, Status: StatusOK}
}

func invalid[T any](err error) Result[T] {
	return Result[T]{Status: StatusInvalid, Err: err}
}
