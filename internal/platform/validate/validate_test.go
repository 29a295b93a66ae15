// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/flute/internal/platform/apperr"
	"github.com/taibuivan/flute/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "English", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Numbers checks the numeric rules used by request payloads.
*/
func TestValidator_Numbers(t *testing.T) {
	tests := []struct {
		name    string
		apply   func(v *validate.Validator)
		isValid bool
	}{
		{"status_in_range", func(v *validate.Validator) { v.Range("status", 2, 1, 3) }, true},
		{"status_too_high", func(v *validate.Validator) { v.Range("status", 4, 1, 3) }, false},
		{"stage_too_low", func(v *validate.Validator) { v.Range("learning_stage", 0, 1, 5) }, false},
		{"positive_id", func(v *validate.Validator) { v.Positive("language_id", 7) }, true},
		{"zero_id", func(v *validate.Validator) { v.Positive("language_id", 0) }, false},
		{"no_chapters", func(v *validate.Validator) { v.NotEmpty("chapters", 0) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			tt.apply(v)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("title", "Moby Dick").
		MinLen("title", "Moby Dick", 3).
		MaxLen("title", "Moby Dick", 255).
		OneOf("sort_order", "asc", "asc", "desc").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("title", "").                           // Fails
		MaxLen("parser_type", "a-very-long-parser-name", 20). // Fails
		OneOf("sort_order", "sideways", "asc", "desc").      // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}

func TestValidator_ErrIsUnprocessable(t *testing.T) {
	err := (&validate.Validator{}).Required("title", "").Err()
	assert.True(t, apperr.HasStatus(err, 422))
}
