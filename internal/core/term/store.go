// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package term

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a [Repository] when no term matches.
var ErrNotFound = errors.New("term: not found")

// BatchSize caps the rows written or read per bulk statement.
const BatchSize = 500

// Repository defines the data access contract.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Term, error)

	// Upsert inserts t unless (language_id, norm) exists, in which case the
	// display is overwritten only when updateDisplay is set. Returns the id.
	Upsert(ctx context.Context, t *Term, updateDisplay bool) (int64, error)
	UpdateDisplay(ctx context.Context, id int64, display string) error
	UpsertProgress(ctx context.Context, progress Progress) error

	// EnsureTerms inserts the missing terms and leaves existing ones untouched.
	EnsureTerms(ctx context.Context, languageID int64, terms []Term) error
	// ResolveIDs maps each norm to its term id.
	ResolveIDs(ctx context.Context, languageID int64, norms []string) (map[string]int64, error)

	// ListWithProgress returns the language's terms that have a progress row.
	ListWithProgress(ctx context.Context, languageID int64) ([]WithProgress, error)
	ListIDs(ctx context.Context, languageID int64) ([]int64, error)
	SetProgressBulk(ctx context.Context, ids []int64, status Status, stage int) error
}
