package schema

// LanguageTable represents the 'languages' table
type LanguageTable struct {
	Table                    string
	ID                       string
	Name                     string
	FlagImageFilepath        string
	CharacterSubstitutions   string
	RegexpSplitSentences     string
	ExceptionsSplitSentences string
	WordCharacters           string
	RightToLeft              string
	ShowRomanization         string
	ParserType               string
	CreatedAt                string
	UpdatedAt                string
}

// Language is the schema definition for languages
var Language = LanguageTable{
	Table:                    "languages",
	ID:                       "id",
	Name:                     "name",
	FlagImageFilepath:        "flag_image_filepath",
	CharacterSubstitutions:   "character_substitutions",
	RegexpSplitSentences:     "regexp_split_sentences",
	ExceptionsSplitSentences: "exceptions_split_sentences",
	WordCharacters:           "word_characters",
	RightToLeft:              "right_to_left",
	ShowRomanization:         "show_romanization",
	ParserType:               "parser_type",
	CreatedAt:                "created_at",
	UpdatedAt:                "updated_at",
}

// Columns lists the columns read into a full language record.
func (t LanguageTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.FlagImageFilepath, t.CharacterSubstitutions, t.RegexpSplitSentences,
		t.ExceptionsSplitSentences, t.WordCharacters, t.RightToLeft, t.ShowRomanization, t.ParserType,
	}
}
