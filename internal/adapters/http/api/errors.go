package api

import (
	"errors"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)

// opError annotates an error with the operation that produced it and its kind.
type opError struct {
	op   string
	kind error
	err  error
}

func (e *opError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return e.kind.Error()
}

func (e *opError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.kind != nil {
		out = append(out, e.kind)
	}
	if e.err != nil {
		out = append(out, e.err)
	}
	return out
}

// WrapKind tags err with kind and op. The message stays err's own so it can be shown to clients.
func WrapKind(op string, kind, err error) error {
	return &opError{op: op, kind: kind, err: err}
}
