// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package parse

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// ClassicalChinese emits one token per character.
type ClassicalChinese struct{}

// NewClassicalChinese returns the single-character parser.
func NewClassicalChinese() *ClassicalChinese { return &ClassicalChinese{} }

func (ClassicalChinese) Name() string                 { return "Classical Chinese" }
func (ClassicalChinese) IsSupported() bool            { return true }
func (ClassicalChinese) Lowercase(text string) string { return strings.ToLower(text) }

var bracketSubstitutions = []substitution{
	{from: []rune("{"), to: []rune("[")},
	{from: []rune("}"), to: []rune("]")},
}

// Tokens drops spaces and tabs, then classifies every remaining character.
func (ClassicalChinese) Tokens(_ context.Context, text string, settings Settings) ([]Token, error) {
	wordChars := settings.WordCharacters
	if strings.TrimSpace(wordChars) == "" {
		wordChars = defaultWordCharacters
	}
	word, err := regexp.Compile("^[" + wordChars + "]$")
	if err != nil {
		return nil, fmt.Errorf("parse: invalid word characters %q: %w", settings.WordCharacters, err)
	}

	mapped := newMappedText(text).
		drop(func(r rune) bool { return r == ' ' || r == '\t' }).
		replace(parseSubstitutions(settings.CharacterSubstitutions)).
		replace(append(append([]substitution{}, paragraphSubstitutions...), bracketSubstitutions...)).
		trim()

	tokens := make([]Token, 0, len(mapped.runes))
	for i, r := range mapped.runes {
		char := string(r)
		isEOS := char == ParagraphMark || strings.ContainsRune(settings.RegexpSplitSentences, r)
		tokens = append(tokens, mapped.token(i, i+1, word.MatchString(char), isEOS))
	}
	return tokens, nil
}
