package model

import "encoding/json"

// Result is the outcome of a best-effort sub-operation: either a value that
// was actually checked (Ok) or a reason why the check could not run (Skipped).
// It lets callers tell "checked and false" apart from "could not check".
type Result[T any] struct {
	value   T
	skipped bool
	reason  string
}

// Ok returns a Result holding a checked value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Skipped returns a Result for a check that could not run.
// The value is the zero value of T.
func Skipped[T any](reason string) Result[T] {
	return Result[T]{skipped: true, reason: reason}
}

// IsOk reports whether the check ran.
func (r Result[T]) IsOk() bool {
	return !r.skipped
}

// Value returns the checked value, or the zero value if the check was skipped.
func (r Result[T]) Value() T {
	return r.value
}

// Reason returns why the check was skipped. Empty for Ok results.
func (r Result[T]) Reason() string {
	return r.reason
}

// Is reports whether the check ran and produced want.
func (r Result[T]) Is(want func(T) bool) bool {
	return !r.skipped && want(r.value)
}

// resultJSON is the wire form of a Result.
type resultJSON[T any] struct {
	Value   T      `json:"value"`
	Skipped bool   `json:"skipped,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// MarshalJSON encodes the result as {"value": ..., "skipped": ..., "reason": ...}.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON[T]{Value: r.value, Skipped: r.skipped, Reason: r.reason})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (r *Result[T]) UnmarshalJSON(data []byte) error {
	var wire resultJSON[T]
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	r.value = wire.Value
	r.skipped = wire.Skipped
	r.reason = wire.Reason
	return nil
}
