package schema

// BookTable represents the 'books' table
type BookTable struct {
	Table                string
	ID                   string
	LanguageID           string
	Title                string
	CoverArtFilepath     string
	Source               string
	IsArchived           string
	LastVisitedChapter   string
	LastVisitedWordIndex string
	LastRead             string
	CreatedAt            string
	UpdatedAt            string
}

// Book is the schema definition for books
var Book = BookTable{
	Table:                "books",
	ID:                   "id",
	LanguageID:           "language_id",
	Title:                "title",
	CoverArtFilepath:     "cover_art_filepath",
	Source:               "source",
	IsArchived:           "is_archived",
	LastVisitedChapter:   "last_visited_chapter",
	LastVisitedWordIndex: "last_visited_word_index",
	LastRead:             "last_read",
	CreatedAt:            "created_at",
	UpdatedAt:            "updated_at",
}
