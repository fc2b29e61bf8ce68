package wordpress

import (
	"errors"
	"fmt"
)

type Status int

const (
	StatusOK Status = iota
	// StatusNotFound means the request succeeded but matched nothing.
	StatusNotFound
	// StatusUnavailable covers transport failures, non-2xx responses and
	// undecodable bodies.
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not found"
	case StatusUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result carries an operation's value together with how it was obtained.
// Value is the operation's empty value unless Status is StatusOK.
type Result[T any] struct {
	Value  T
	Status Status
	Err    error
}

func (r Result[T]) OK() bool {
	return r.Status == StatusOK
}

var ErrNotFound = errors.New("wordpress: no matching resource")

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Op         string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("wordpress %s: unexpected status %s", e.Op, e.Status)
}

func ok[T any](v T) Result[T] {
	return Result[T]{Value: v, Status: StatusOK}
}

func unavailable[T any](empty T, err error) Result[T] {
	return Result[T]{Value: empty, Status: StatusUnavailable, Err: err}
}
