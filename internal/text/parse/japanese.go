// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package parse

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"sync"
)

// MecabRunner feeds input to MeCab and returns its raw output.
type MecabRunner func(ctx context.Context, input string) (string, error)

// mecabArgs selects the node, unknown-word and end-of-paragraph formats:
// surface, character type and part-of-speech id, tab separated.
var mecabArgs = []string{
	"-F", `%m\t%t\t%h\n`,
	"-U", `%m\t%t\t%h\n`,
	"-E", `EOP\t3\t7\n`,
}

// wordCharTypes are the MeCab character types counted as words.
const wordCharTypes = "2678"

// repeatMark is sometimes reported as a symbol although it is part of a word.
const repeatMark = "々"

var horizontalSpace = regexp.MustCompile(`[ \t]+`)

// Japanese tokenizes with the MeCab binary.
type Japanese struct {
	path   string
	runner MecabRunner

	once      sync.Once
	supported bool
}

// NewJapanese builds the MeCab-backed parser. An empty path means "mecab" on
// $PATH; a nil runner executes the binary.
func NewJapanese(path string, runner MecabRunner) *Japanese {
	if path == "" {
		path = "mecab"
	}
	return &Japanese{path: path, runner: runner}
}

func (parser *Japanese) Name() string                 { return "Japanese" }
func (parser *Japanese) Lowercase(text string) string { return strings.ToLower(text) }

// IsSupported reports whether a runner was injected or the binary is present.
func (parser *Japanese) IsSupported() bool {
	if parser.runner != nil {
		return true
	}
	parser.once.Do(func() {
		_, err := exec.LookPath(parser.path)
		parser.supported = err == nil
	})
	return parser.supported
}

func (parser *Japanese) run(ctx context.Context, input string) (string, error) {
	if parser.runner != nil {
		return parser.runner(ctx, input)
	}

	cmd := exec.CommandContext(ctx, parser.path, mecabArgs...)
	cmd.Stdin = strings.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("parse: mecab failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Tokens sends one paragraph per line to MeCab and maps every node back onto
// the original text.
func (parser *Japanese) Tokens(ctx context.Context, text string, settings Settings) ([]Token, error) {
	cleaned := strings.TrimSpace(horizontalSpace.ReplaceAllString(strings.ReplaceAll(text, "\r\n", "\n"), " "))

	output, err := parser.run(ctx, cleaned+"\n")
	if err != nil {
		return nil, err
	}

	original := []rune(text)
	cursor := 0
	var tokens []Token

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			continue
		}
		term, nodeType, posID := fields[0], fields[1], fields[2]

		isEOS := containsAllRunes(settings.RegexpSplitSentences, term)
		if term == "EOP" && posID == "7" {
			term = ParagraphMark
		}
		isWord := (nodeType != "" && strings.Contains(wordCharTypes, nodeType)) || term == repeatMark

		var start, end int
		if term == ParagraphMark {
			start, end = locate(original, []rune("\n"), cursor)
		} else {
			start, end = locate(original, []rune(term), cursor)
		}
		cursor = end

		tokens = append(tokens, Token{
			Text:            term,
			IsWord:          isWord,
			IsEndOfSentence: isEOS || term == ParagraphMark,
			Start:           start,
			End:             end,
		})
	}

	return tokens, nil
}

// locate finds needle at or after cursor. When it is absent (the trailing
// paragraph mark) the token collapses to an empty span at the cursor.
func locate(haystack, needle []rune, cursor int) (int, int) {
	for i := cursor; i+len(needle) <= len(haystack); i++ {
		if hasRunePrefix(haystack[i:], needle) {
			return i, i + len(needle)
		}
	}
	return cursor, cursor
}

func containsAllRunes(set, text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if !strings.ContainsRune(set, r) {
			return false
		}
	}
	return true
}
