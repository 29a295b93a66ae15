// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package language manages the languages books are written in.

A language carries the parsing configuration used to tokenize its books:
the parser type, character substitutions, sentence split characters and
their exceptions, and the characters that make up a word.
*/
package language

import (
	"github.com/taibuivan/flute/internal/text/parse"
	"github.com/taibuivan/flute/pkg/nullable"
	"github.com/taibuivan/flute/pkg/pointer"
)

// # Defaults

const (
	DefaultCharacterSubstitutions   = "´='|`='|'='|'='|...=…|..=‥"
	DefaultRegexpSplitSentences     = ".!?"
	DefaultExceptionsSplitSentences = "Mr.|Mrs.|Dr.|[A-Z].|Vd.|Vds."
	DefaultWordCharacters           = "a-zA-ZÀ-ÖØ-öø-ȳáéíóúÁÉÍÓÚñÑ"
	DefaultParserType               = "spacedel"
)

// # Limits

const (
	MaxNameLength       = 40
	MaxParserTypeLength = 20
	MaxSettingLength    = 500
)

// Language is a full language record.
type Language struct {
	ID                       int64   `json:"id" db:"id"`
	Name                     string  `json:"name" db:"name"`
	FlagImageFilepath        *string `json:"flag_image_filepath" db:"flag_image_filepath"`
	CharacterSubstitutions   string  `json:"character_substitutions" db:"character_substitutions"`
	RegexpSplitSentences     string  `json:"regexp_split_sentences" db:"regexp_split_sentences"`
	ExceptionsSplitSentences string  `json:"exceptions_split_sentences" db:"exceptions_split_sentences"`
	WordCharacters           string  `json:"word_characters" db:"word_characters"`
	RightToLeft              bool    `json:"right_to_left" db:"right_to_left"`
	ShowRomanization         bool    `json:"show_romanization" db:"show_romanization"`
	ParserType               string  `json:"parser_type" db:"parser_type"`
}

// ParseSettings returns the parser configuration of the language.
func (l *Language) ParseSettings() parse.Settings {
	return parse.Settings{
		CharacterSubstitutions:   l.CharacterSubstitutions,
		RegexpSplitSentences:     l.RegexpSplitSentences,
		ExceptionsSplitSentences: l.ExceptionsSplitSentences,
		WordCharacters:           l.WordCharacters,
	}
}

// Summary is the list representation of a language.
type Summary struct {
	ID                int64   `json:"id" db:"id"`
	Name              string  `json:"name" db:"name"`
	FlagImageFilepath *string `json:"flag_image_filepath" db:"flag_image_filepath"`
}

// ListResult is the response of GET /languages.
type ListResult struct {
	Languages []Summary `json:"languages"`
}

// CreateResult is the response of POST /languages.
type CreateResult struct {
	LanguageID int64 `json:"language_id"`
}

// # Input

// CreateInput is the body of POST /languages. Absent settings take the defaults.
type CreateInput struct {
	Name                     string  `json:"name" yaml:"name"`
	FlagImageFilepath        *string `json:"flag_image_filepath" yaml:"flag_image_filepath"`
	CharacterSubstitutions   *string `json:"character_substitutions" yaml:"character_substitutions"`
	RegexpSplitSentences     *string `json:"regexp_split_sentences" yaml:"regexp_split_sentences"`
	ExceptionsSplitSentences *string `json:"exceptions_split_sentences" yaml:"exceptions_split_sentences"`
	WordCharacters           *string `json:"word_characters" yaml:"word_characters"`
	RightToLeft              bool    `json:"right_to_left" yaml:"right_to_left"`
	ShowRomanization         bool    `json:"show_romanization" yaml:"show_romanization"`
	ParserType               *string `json:"parser_type" yaml:"parser_type"`
}

// Language materializes the input with defaults applied.
func (input CreateInput) Language() *Language {
	return &Language{
		Name:                     input.Name,
		FlagImageFilepath:        input.FlagImageFilepath,
		CharacterSubstitutions:   pointer.Fallback(input.CharacterSubstitutions, DefaultCharacterSubstitutions),
		RegexpSplitSentences:     pointer.Fallback(input.RegexpSplitSentences, DefaultRegexpSplitSentences),
		ExceptionsSplitSentences: pointer.Fallback(input.ExceptionsSplitSentences, DefaultExceptionsSplitSentences),
		WordCharacters:           pointer.Fallback(input.WordCharacters, DefaultWordCharacters),
		RightToLeft:              input.RightToLeft,
		ShowRomanization:         input.ShowRomanization,
		ParserType:               pointer.Fallback(input.ParserType, DefaultParserType),
	}
}

// UpdateInput is the body of PATCH /languages/{id}. Only present keys are written.
type UpdateInput struct {
	Name                     nullable.Field[string] `json:"name"`
	FlagImageFilepath        nullable.Field[string] `json:"flag_image_filepath"`
	CharacterSubstitutions   nullable.Field[string] `json:"character_substitutions"`
	RegexpSplitSentences     nullable.Field[string] `json:"regexp_split_sentences"`
	ExceptionsSplitSentences nullable.Field[string] `json:"exceptions_split_sentences"`
	WordCharacters           nullable.Field[string] `json:"word_characters"`
	RightToLeft              nullable.Field[bool]   `json:"right_to_left"`
	ShowRomanization         nullable.Field[bool]   `json:"show_romanization"`
	ParserType               nullable.Field[string] `json:"parser_type"`
}
