package caddy

import (
	"errors"
	"fmt"
)

// Result is the outcome of one admin API call. Exactly one branch is
// populated: a success carries Data and an empty Message, a failure
// carries Message and Data's zero value. Results are produced only by
// this package; callers treat them as read-only.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func fail[T any](format string, args ...any) Result[T] {
	return Result[T]{Message: fmt.Sprintf(format, args...)}
}

// Failed reports whether the call did not succeed.
func (r Result[T]) Failed() bool {
	return !r.Success
}

// Err returns nil on success, or an error carrying the failure message.
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	if r.Message == "" {
		return errors.New("request failed")
	}
	return errors.New(r.Message)
}

// Unwrap returns the value and a conventional error, for call sites that
// prefer Go's two-value form over branching on the Result.
func (r Result[T]) Unwrap() (T, error) {
	return r.Data, r.Err()
}
