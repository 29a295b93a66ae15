package schema

// ChapterTable represents the 'chapters' table
type ChapterTable struct {
	Table         string
	ID            string
	BookID        string
	ChapterNumber string
	Content       string
	WordCount     string
}

// Chapter is the schema definition for chapters
var Chapter = ChapterTable{
	Table:         "chapters",
	ID:            "id",
	BookID:        "book_id",
	ChapterNumber: "chapter_number",
	Content:       "content",
	WordCount:     "word_count",
}

func (t ChapterTable) Columns() []string {
	return []string{t.ID, t.ChapterNumber, t.WordCount, t.Content}
}
