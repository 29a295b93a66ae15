// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/flute/pkg/pagination"
)

/*
TestFromRequest covers defaults, valid values and rejected bounds.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		want       pagination.Params
		wantFields []string
	}{
		{"defaults", "", pagination.Params{Page: 1, PerPage: 10}, nil},
		{"explicit", "?page=3&per_page=25", pagination.Params{Page: 3, PerPage: 25}, nil},
		{"max_per_page", "?per_page=100", pagination.Params{Page: 1, PerPage: 100}, nil},
		{"zero_page", "?page=0", pagination.Params{}, []string{"page"}},
		{"per_page_too_big", "?per_page=101", pagination.Params{}, []string{"per_page"}},
		{"not_numbers", "?page=x&per_page=y", pagination.Params{}, []string{"page", "per_page"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/api/books"+tt.query, nil)
			params, errs := pagination.FromRequest(request)

			if tt.wantFields == nil {
				assert.Empty(t, errs)
				assert.Equal(t, tt.want, params)
				return
			}

			var fields []string
			for _, fe := range errs {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, PerPage: 10}.Offset())
	assert.Equal(t, 20, pagination.Params{Page: 3, PerPage: 10}.Offset())
	assert.Equal(t, math.MaxInt, pagination.Params{Page: math.MaxInt, PerPage: 100}.Offset())
	assert.Equal(t, math.MaxInt, pagination.Params{Page: math.MaxInt/10 + 2, PerPage: 10}.Offset())
}

func TestFromRequest_HugePage(t *testing.T) {
	request := httptest.NewRequest("GET", "/api/books?page=9223372036854775807&per_page=100", nil)
	params, errs := pagination.FromRequest(request)
	assert.Empty(t, errs)
	assert.GreaterOrEqual(t, params.Offset(), 0)
}
