// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package parse splits chapter text into tokens for a given language.

Every parser reports token boundaries as rune offsets into the ORIGINAL text,
even when it rewrites characters on the way (substitutions, paragraph marks,
stripped spaces). Highlighting relies on those offsets to point back into the
stored chapter content.

Parsers:

  - spacedel: languages that separate words with spaces.
  - turkish: spacedel with dotted/dotless i lowercasing.
  - classicalchinese: one token per character.
  - japanese: MeCab morphological analysis (requires the mecab binary).
*/
package parse

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// ParagraphMark is the token text standing in for a line break.
const ParagraphMark = "¶"

// Token is a single parsed piece of text.
type Token struct {
	// Text is the token as the parser sees it, after substitutions.
	Text            string
	IsWord          bool
	IsEndOfSentence bool
	// Start and End are rune offsets into the original text, End exclusive.
	Start int
	End   int
}

// IsEndOfParagraph reports whether the token is a paragraph mark.
func (t Token) IsEndOfParagraph() bool {
	return strings.TrimSpace(t.Text) == ParagraphMark
}

// Settings are the per-language knobs a parser consults.
type Settings struct {
	CharacterSubstitutions   string
	RegexpSplitSentences     string
	ExceptionsSplitSentences string
	WordCharacters           string
}

// Parser turns text into tokens.
type Parser interface {
	// Name is the display name.
	Name() string
	// IsSupported reports whether the parser can run on this system.
	IsSupported() bool
	Tokens(ctx context.Context, text string, settings Settings) ([]Token, error)
	// Lowercase returns the normalized form used as a term's identity.
	Lowercase(text string) string
}

// WordCount returns the number of word tokens in tokens.
func WordCount(tokens []Token) int {
	count := 0
	for _, token := range tokens {
		if token.IsWord {
			count++
		}
	}
	return count
}

// TokenCount parses text and returns its number of word tokens.
func TokenCount(ctx context.Context, parser Parser, text string, settings Settings) (int, error) {
	tokens, err := parser.Tokens(ctx, text, settings)
	if err != nil {
		return 0, err
	}
	return WordCount(tokens), nil
}

// # Registry

// LookupError is returned by [Registry.Get] for unknown or unusable parsers.
type LookupError struct {
	Name string
	// Known is true when the parser exists but is unsupported on this system.
	Known bool
}

func (e *LookupError) Error() string {
	if e.Known {
		return fmt.Sprintf("Unsupported parser type '%s'", e.Name)
	}
	return fmt.Sprintf("Unknown parser type '%s'", e.Name)
}

// Registry maps parser_type values to parsers.
type Registry struct {
	parsers map[string]Parser
}

// Option customizes a [Registry] built by [NewRegistry].
type Option func(*options)

type options struct {
	mecabPath string
	runner    MecabRunner
}

// WithMecabPath points the Japanese parser at a specific mecab binary.
func WithMecabPath(path string) Option {
	return func(o *options) { o.mecabPath = path }
}

// WithMecabRunner replaces the process execution of the Japanese parser.
func WithMecabRunner(runner MecabRunner) Option {
	return func(o *options) { o.runner = runner }
}

// NewRegistry returns a registry holding the built-in parsers.
func NewRegistry(opts ...Option) *Registry {
	cfg := &options{}
	for _, opt := range opts {
		opt(cfg)
	}

	registry := &Registry{parsers: make(map[string]Parser)}
	registry.Register("spacedel", NewSpaceDelimited())
	registry.Register("turkish", NewTurkish())
	registry.Register("classicalchinese", NewClassicalChinese())
	registry.Register("japanese", NewJapanese(cfg.mecabPath, cfg.runner))
	return registry
}

// Register adds or replaces the parser for a parser_type.
func (registry *Registry) Register(parserType string, parser Parser) {
	registry.parsers[parserType] = parser
}

// Get returns the supported parser registered under parserType.
func (registry *Registry) Get(parserType string) (Parser, error) {
	parser, ok := registry.parsers[parserType]
	if !ok {
		return nil, &LookupError{Name: parserType}
	}
	if !parser.IsSupported() {
		return nil, &LookupError{Name: parserType, Known: true}
	}
	return parser, nil
}

// Has reports whether parserType is registered, usable or not.
func (registry *Registry) Has(parserType string) bool {
	_, ok := registry.parsers[parserType]
	return ok
}

// IsSupported reports whether parserType is present and usable.
func (registry *Registry) IsSupported(parserType string) bool {
	_, err := registry.Get(parserType)
	return err == nil
}

// Supported lists the usable parser types, sorted.
func (registry *Registry) Supported() []string {
	var names []string
	for name, parser := range registry.parsers {
		if parser.IsSupported() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
