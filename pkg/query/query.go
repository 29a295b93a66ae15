// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package query builds URL query strings that leave out unset values.

	q := query.New().
	    Int64("language_id", 3).
	    String("sort_option", "").   // omitted
	    Int("page", 2)
	q.Encode() // "language_id=3&page=2"
*/
package query

import (
	"net/url"
	"strconv"
)

// Builder accumulates query parameters. The zero value is not usable; call [New].
type Builder struct {
	values url.Values
}

// New creates an empty Builder.
func New() *Builder {
	return &Builder{values: url.Values{}}
}

// String sets key when value is not empty.
func (b *Builder) String(key, value string) *Builder {
	if value != "" {
		b.values.Set(key, value)
	}
	return b
}

// Int sets key when value is not zero.
func (b *Builder) Int(key string, value int) *Builder {
	if value != 0 {
		b.values.Set(key, strconv.Itoa(value))
	}
	return b
}

// Int64 sets key when value is not zero.
func (b *Builder) Int64(key string, value int64) *Builder {
	if value != 0 {
		b.values.Set(key, strconv.FormatInt(value, 10))
	}
	return b
}

// Bool sets key when value is non-nil.
func (b *Builder) Bool(key string, value *bool) *Builder {
	if value != nil {
		b.values.Set(key, strconv.FormatBool(*value))
	}
	return b
}

// Values returns the accumulated parameters.
func (b *Builder) Values() url.Values {
	return b.values
}

// Encode returns the parameters in "URL encoded" form sorted by key.
func (b *Builder) Encode() string {
	return b.values.Encode()
}
