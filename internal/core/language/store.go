// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package language

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a [Repository] when no language matches.
var ErrNotFound = errors.New("language: not found")

// Repository defines the data access contract.
type Repository interface {
	List(ctx context.Context, withBooks bool) ([]Summary, error)
	FindByID(ctx context.Context, id int64) (*Language, error)
	FindByName(ctx context.Context, name string) (*Language, error)
	Create(ctx context.Context, lang *Language) (int64, error)
	// Update writes the given column values; an empty map only checks existence.
	Update(ctx context.Context, id int64, changes map[string]any) error
}
