// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice holds generic helpers the standard [slices] package lacks.
package slice

// Map converts every element of input with convert, keeping order.
// A nil input yields nil.
func Map[T, U any](input []T, convert func(T) U) []U {
	if input == nil {
		return nil
	}
	out := make([]U, len(input))
	for i, v := range input {
		out[i] = convert(v)
	}
	return out
}
