package schema

// BookVocabTable represents the 'book_vocab' inverted index
type BookVocabTable struct {
	Table     string
	BookID    string
	TermID    string
	TermCount string
}

// BookVocab is the schema definition for book_vocab
var BookVocab = BookVocabTable{
	Table:     "book_vocab",
	BookID:    "book_id",
	TermID:    "term_id",
	TermCount: "term_count",
}

// BookTotalsTable represents the 'book_totals' table
type BookTotalsTable struct {
	Table      string
	BookID     string
	TotalTerms string
	TotalTypes string
}

// BookTotals is the schema definition for book_totals
var BookTotals = BookTotalsTable{
	Table:      "book_totals",
	BookID:     "book_id",
	TotalTerms: "total_terms",
	TotalTypes: "total_types",
}
