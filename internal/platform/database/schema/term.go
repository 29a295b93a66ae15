package schema

// TermTable represents the 'terms' table
type TermTable struct {
	Table      string
	ID         string
	LanguageID string
	Norm       string
	Display    string
	TokenCount string
}

// Term is the schema definition for terms
var Term = TermTable{
	Table:      "terms",
	ID:         "id",
	LanguageID: "language_id",
	Norm:       "norm",
	Display:    "display",
	TokenCount: "token_count",
}

// TermProgressTable represents the 'term_progress' table
type TermProgressTable struct {
	Table         string
	TermID        string
	Status        string
	LearningStage string
	Translation   string
	UpdatedAt     string
}

// TermProgress is the schema definition for term_progress
var TermProgress = TermProgressTable{
	Table:         "term_progress",
	TermID:        "term_id",
	Status:        "status",
	LearningStage: "learning_stage",
	Translation:   "translation",
	UpdatedAt:     "updated_at",
}
