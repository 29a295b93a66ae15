// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/flute/internal/platform/apperr"
	"github.com/taibuivan/flute/internal/platform/dberr"
)

/*
TestWrap verifies the mapping from driver errors to HTTP statuses.
*/
func TestWrap(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"no_rows", pgx.ErrNoRows, http.StatusNotFound},
		{"unique", &pgconn.PgError{Code: dberr.CodeUniqueViolation}, http.StatusConflict},
		{"foreign_key", &pgconn.PgError{Code: dberr.CodeForeignKeyViolation}, http.StatusBadRequest},
		{"check", &pgconn.PgError{Code: dberr.CodeCheckViolation, ConstraintName: "terms_status_check"}, http.StatusUnprocessableEntity},
		{"other", errors.New("connection reset"), http.StatusInternalServerError},
		{"already_classified", apperr.NotFound("Book 1 not found"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(tt.err, "test")
			assert.True(t, apperr.HasStatus(wrapped, tt.status))
		})
	}

	assert.Nil(t, dberr.Wrap(nil, "noop"))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, dberr.IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, dberr.IsUniqueViolation(errors.New("x")))
}
