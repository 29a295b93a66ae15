// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package parse

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// defaultWordCharacters is used when a language leaves word_characters empty.
const defaultWordCharacters = `\p{L}\p{M}`

// SpaceDelimited parses languages whose words are separated by spaces.
//
// Runs of word characters become word tokens, everything between them becomes
// non-word tokens, and line breaks become standalone paragraph marks. A
// non-word token ends a sentence when it holds a split character, unless the
// preceding text matched one of the language's exceptions (e.g. "Mr.").
type SpaceDelimited struct {
	name  string
	lower func(string) string

	mu       sync.Mutex
	compiled map[Settings]*compiledSettings
}

type compiledSettings struct {
	word       *regexp.Regexp
	exceptions *regexp.Regexp
	subs       []substitution
	splits     string
}

// NewSpaceDelimited returns the default space-delimited parser.
func NewSpaceDelimited() *SpaceDelimited {
	return &SpaceDelimited{name: "Space Delimited", lower: strings.ToLower}
}

// NewTurkish returns a space-delimited parser with Turkish casing rules.
func NewTurkish() *SpaceDelimited {
	caser := cases.Lower(language.Turkish)
	return &SpaceDelimited{name: "Turkish", lower: caser.String}
}

func (parser *SpaceDelimited) Name() string      { return parser.name }
func (parser *SpaceDelimited) IsSupported() bool { return true }

// Lowercase folds case and composes the text to NFC.
func (parser *SpaceDelimited) Lowercase(text string) string {
	return norm.NFC.String(parser.lower(text))
}

func (parser *SpaceDelimited) compile(settings Settings) (*compiledSettings, error) {
	parser.mu.Lock()
	defer parser.mu.Unlock()

	if compiled, ok := parser.compiled[settings]; ok {
		return compiled, nil
	}

	wordChars := settings.WordCharacters
	if strings.TrimSpace(wordChars) == "" {
		wordChars = defaultWordCharacters
	}
	word, err := regexp.Compile("^[" + wordChars + "]$")
	if err != nil {
		return nil, fmt.Errorf("parse: invalid word characters %q: %w", settings.WordCharacters, err)
	}

	compiled := &compiledSettings{
		word:   word,
		subs:   append(parseSubstitutions(settings.CharacterSubstitutions), paragraphSubstitutions...),
		splits: settings.RegexpSplitSentences,
	}

	if pattern := exceptionPattern(settings.ExceptionsSplitSentences); pattern != "" {
		exceptions, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("parse: invalid sentence exceptions %q: %w", settings.ExceptionsSplitSentences, err)
		}
		compiled.exceptions = exceptions
	}

	if parser.compiled == nil {
		parser.compiled = make(map[Settings]*compiledSettings)
	}
	parser.compiled[settings] = compiled
	return compiled, nil
}

// exceptionPattern turns "Mr.|[A-Z].|etc." into an alternation where the
// periods are literal and bracketed classes are kept.
func exceptionPattern(raw string) string {
	var alternatives []string
	for _, exception := range strings.Split(raw, "|") {
		exception = strings.TrimSpace(exception)
		if exception == "" {
			continue
		}

		var builder strings.Builder
		for exception != "" {
			open := strings.IndexByte(exception, '[')
			if open < 0 {
				builder.WriteString(regexp.QuoteMeta(exception))
				break
			}
			closing := strings.IndexByte(exception[open:], ']')
			if closing < 0 {
				builder.WriteString(regexp.QuoteMeta(exception))
				break
			}
			builder.WriteString(regexp.QuoteMeta(exception[:open]))
			builder.WriteString(exception[open : open+closing+1])
			exception = exception[open+closing+1:]
		}
		alternatives = append(alternatives, builder.String())
	}

	if len(alternatives) == 0 {
		return ""
	}
	return "(?:" + strings.Join(alternatives, "|") + ")"
}

// Tokens parses text into word and non-word tokens.
func (parser *SpaceDelimited) Tokens(_ context.Context, text string, settings Settings) ([]Token, error) {
	compiled, err := parser.compile(settings)
	if err != nil {
		return nil, err
	}

	mapped := newMappedText(text).replace(compiled.subs)
	runes := mapped.runes

	seen := make(map[rune]bool)
	isWord := func(r rune) bool {
		if known, ok := seen[r]; ok {
			return known
		}
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], r)
		match := compiled.word.Match(buf[:n])
		seen[r] = match
		return match
	}

	exceptionEnd := parser.exceptionSpans(compiled, runes, isWord)

	var tokens []Token
	for i := 0; i < len(runes); {
		switch {
		case string(runes[i]) == ParagraphMark:
			tokens = append(tokens, mapped.token(i, i+1, false, true))
			i++

		case exceptionEnd[i] > 0:
			end := exceptionEnd[i]
			tokens = append(tokens, mapped.token(i, end, true, false))
			i = end

		case isWord(runes[i]):
			end := i + 1
			for end < len(runes) && isWord(runes[end]) && exceptionEnd[end] == 0 {
				end++
			}
			tokens = append(tokens, mapped.token(i, end, true, false))
			i = end

		default:
			end := i + 1
			for end < len(runes) && !isWord(runes[end]) && exceptionEnd[end] == 0 &&
				string(runes[end]) != ParagraphMark {
				end++
			}
			chunk := string(runes[i:end])
			isEOS := compiled.splits != "" && strings.ContainsAny(chunk, compiled.splits)
			tokens = append(tokens, mapped.token(i, end, false, isEOS))
			i = end
		}
	}

	return tokens, nil
}

// exceptionSpans marks every rune index where a sentence-split exception
// starts at a word boundary; the value is the exclusive end of the match.
func (parser *SpaceDelimited) exceptionSpans(compiled *compiledSettings, runes []rune, isWord func(rune) bool) []int {
	spans := make([]int, len(runes)+1)
	if compiled.exceptions == nil {
		return spans
	}

	text := string(runes)
	matches := compiled.exceptions.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return spans
	}

	// Byte offsets from the regexp are converted to rune offsets in one sweep.
	byteToRune := make([]int, len(text)+1)
	runeIndex := 0
	for byteIndex := range text {
		byteToRune[byteIndex] = runeIndex
		runeIndex++
	}
	byteToRune[len(text)] = len(runes)

	for _, match := range matches {
		start, end := byteToRune[match[0]], byteToRune[match[1]]
		if start == end {
			continue
		}
		if start > 0 && isWord(runes[start-1]) {
			continue
		}
		if end < len(runes) && isWord(runes[end]) && isWord(runes[end-1]) {
			continue
		}
		spans[start] = end
	}
	return spans
}
