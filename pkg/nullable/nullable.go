// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package nullable distinguishes an absent JSON field from an explicit null.
//
// PATCH bodies use it so that only the fields a client sends are written.
package nullable

import (
	"bytes"
	"encoding/json"
)

// Field is a JSON field that may be absent, null, or carry a value.
type Field[T any] struct {
	// Set is true when the key appeared in the payload.
	Set bool
	// Null is true when the key appeared with a null value.
	Null  bool
	Value T
}

// Of returns a Field set to value.
func Of[T any](value T) Field[T] {
	return Field[T]{Set: true, Value: value}
}

// Null returns a Field explicitly set to null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// UnmarshalJSON implements [json.Unmarshaler]. It only runs for keys present in the payload.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

// Ptr returns nil when the field is null or absent, otherwise a pointer to the value.
func (f Field[T]) Ptr() *T {
	if !f.Set || f.Null {
		return nil
	}
	value := f.Value
	return &value
}

// Any returns the value to write to a database column: nil for null.
func (f Field[T]) Any() any {
	if f.Null {
		return nil
	}
	return f.Value
}
