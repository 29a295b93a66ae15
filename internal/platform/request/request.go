// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/flute/internal/platform/apperr"
	"github.com/taibuivan/flute/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Int64Param parses a named URL parameter as a positive integer.

Returns:
  - int64: The parsed value
  - error: apperr.NotFound carrying notFoundMsg when the value is not a positive integer
*/
func Int64Param(request *http.Request, name, notFoundMsg string) (int64, error) {
	raw := chi.URLParam(request, name)
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 1 {
		return 0, apperr.NotFound(notFoundMsg)
	}
	return value, nil
}

/*
Int64Query parses a query parameter as an integer.

Returns:
  - int64: The parsed value (0 when absent)
  - bool: Whether the parameter was present
  - error: apperr.ValidationError if present but not an integer
*/
func Int64Query(request *http.Request, name string) (int64, bool, error) {
	raw := request.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, true, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   name,
			Message: fmt.Sprintf("Not a valid integer: '%s'", raw),
		})
	}
	return value, true, nil
}

/*
BoolQuery parses a query parameter as a boolean, returning false when absent or invalid.
*/
func BoolQuery(request *http.Request, name string) bool {
	value, err := strconv.ParseBool(request.URL.Query().Get(name))
	return err == nil && value
}
