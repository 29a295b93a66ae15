// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package term manages vocabulary terms and the reader's progress on them.

A term is identified by its normalized form (the parser's lowercase of the
text) within one language. Terms are created implicitly when a book is
uploaded; progress rows appear once the reader marks a term.

Statuses:

  - Learning (1): carries a learning stage from 1 to 5.
  - Known (2)
  - Ignore (3): never counted as unknown.
*/
package term

// Status is the reader's learning status for a term.
type Status int16

const (
	StatusLearning Status = 1
	StatusKnown    Status = 2
	StatusIgnore   Status = 3
)

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	return s >= StatusLearning && s <= StatusIgnore
}

func (s Status) String() string {
	switch s {
	case StatusLearning:
		return "learning"
	case StatusKnown:
		return "known"
	case StatusIgnore:
		return "ignore"
	default:
		return "unknown"
	}
}

// Learning stage bounds.
const (
	MinLearningStage     = 1
	MaxLearningStage     = 5
	DefaultLearningStage = 1
)

// Term is a vocabulary entry of a language.
type Term struct {
	ID         int64  `json:"id" db:"id"`
	LanguageID int64  `json:"language_id" db:"language_id"`
	Norm       string `json:"norm" db:"norm"`
	Display    string `json:"display" db:"display"`
	TokenCount int    `json:"token_count" db:"token_count"`
}

// Progress is the reader's state for one term.
type Progress struct {
	TermID        int64
	Status        Status
	LearningStage int
	// Translation is left untouched on upsert when nil.
	Translation *string
}

// WithProgress is a term joined with its progress row.
type WithProgress struct {
	ID            int64  `db:"id"`
	Norm          string `db:"norm"`
	Display       string `db:"display"`
	Status        Status `db:"status"`
	LearningStage *int   `db:"learning_stage"`
}

// # Input

// UpdateInput is the body of PATCH /terms/{id}.
type UpdateInput struct {
	Status        Status  `json:"status"`
	LearningStage *int    `json:"learning_stage"`
	Display       *string `json:"display"`
	Translation   *string `json:"translation"`
}

// CreateInput is the body of POST /terms.
type CreateInput struct {
	Term       string `json:"term"`
	LanguageID int64  `json:"language_id"`
	UpdateInput
}

// Stage returns the requested learning stage or the default.
func (input UpdateInput) Stage() int {
	if input.LearningStage == nil {
		return DefaultLearningStage
	}
	return *input.LearningStage
}

// CreateResult is the response of POST /terms.
type CreateResult struct {
	TermID int64 `json:"term_id"`
}
