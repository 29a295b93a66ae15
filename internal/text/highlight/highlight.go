// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package highlight locates the reader's marked terms inside a parsed chapter.

Matching works on whole word tokens, so a term never matches inside a longer
word. A multi-word term matches consecutive word tokens whose separators are
whitespace only. When matches overlap, the longest wins, then the earliest.
*/
package highlight

import (
	"context"
	"sort"
	"strings"

	"github.com/taibuivan/flute/internal/core/term"
	"github.com/taibuivan/flute/internal/text/parse"
)

// Highlight is one term occurrence in the chapter content.
type Highlight struct {
	TermID        int64       `json:"term_id"`
	Display       string      `json:"display"`
	Status        term.Status `json:"status"`
	LearningStage *int        `json:"learning_stage"`
	// StartPos and EndPos are rune offsets into the content, EndPos exclusive.
	StartPos int `json:"start_pos"`
	EndPos   int `json:"end_pos"`
}

type pattern struct {
	term  term.WithProgress
	words []string
}

type match struct {
	pattern *pattern
	// first and last index into the word-position slice.
	first int
	last  int
}

// Find returns the highlights for terms within tokens, sorted by start.
//
// Term norms are tokenized with the same parser and settings as the chapter
// so both sides agree on word boundaries.
func Find(ctx context.Context, parser parse.Parser, settings parse.Settings, tokens []parse.Token, terms []term.WithProgress) ([]Highlight, error) {
	highlights := []Highlight{}
	if len(tokens) == 0 || len(terms) == 0 {
		return highlights, nil
	}

	index, err := buildIndex(ctx, parser, settings, terms)
	if err != nil {
		return nil, err
	}

	// positions[i] is the token index of the i-th word token.
	var positions []int
	var norms []string
	for i, token := range tokens {
		if token.IsWord {
			positions = append(positions, i)
			norms = append(norms, parser.Lowercase(token.Text))
		}
	}

	var candidates []match
	for i, norm := range norms {
		for _, p := range index[norm] {
			if last, ok := matchAt(tokens, positions, norms, i, p.words); ok {
				candidates = append(candidates, match{pattern: p, first: i, last: last})
			}
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		lenA := candidates[a].last - candidates[a].first
		lenB := candidates[b].last - candidates[b].first
		if lenA != lenB {
			return lenA > lenB
		}
		return candidates[a].first < candidates[b].first
	})

	taken := make([]bool, len(norms))
	var accepted []match
	for _, candidate := range candidates {
		if overlaps(taken, candidate) {
			continue
		}
		for i := candidate.first; i <= candidate.last; i++ {
			taken[i] = true
		}
		accepted = append(accepted, candidate)
	}

	sort.Slice(accepted, func(a, b int) bool { return accepted[a].first < accepted[b].first })

	for _, m := range accepted {
		found := m.pattern.term
		var stage *int
		if found.Status == term.StatusLearning {
			stage = found.LearningStage
		}
		highlights = append(highlights, Highlight{
			TermID:        found.ID,
			Display:       found.Display,
			Status:        found.Status,
			LearningStage: stage,
			StartPos:      tokens[positions[m.first]].Start,
			EndPos:        tokens[positions[m.last]].End,
		})
	}
	return highlights, nil
}

/*
buildIndex groups term patterns by their first word.

All norms go through the parser in one call, one per line, and the result is
split back apart at paragraph marks. Parsers backed by an external process
then run once per chapter instead of once per term. Norms that could break
the line layout, or a split that does not come back with one group per line,
fall back to tokenizing each norm on its own.
*/
func buildIndex(ctx context.Context, parser parse.Parser, settings parse.Settings, terms []term.WithProgress) (map[string][]*pattern, error) {
	index := make(map[string][]*pattern, len(terms))
	add := func(t term.WithProgress, words []string) {
		if len(words) > 0 {
			index[words[0]] = append(index[words[0]], &pattern{term: t, words: words})
		}
	}

	var batch []term.WithProgress
	for _, t := range terms {
		norm := strings.TrimSpace(t.Norm)
		if norm == "" {
			continue
		}
		if !strings.ContainsAny(norm, "\r\n"+parse.ParagraphMark) {
			batch = append(batch, t)
			continue
		}
		words, err := termWords(ctx, parser, settings, t.Norm)
		if err != nil {
			return nil, err
		}
		add(t, words)
	}
	if len(batch) == 0 {
		return index, nil
	}

	groups, err := batchWords(ctx, parser, settings, batch)
	if err != nil {
		return nil, err
	}
	for i, t := range batch {
		if groups == nil {
			words, err := termWords(ctx, parser, settings, t.Norm)
			if err != nil {
				return nil, err
			}
			add(t, words)
			continue
		}
		add(t, groups[i])
	}
	return index, nil
}

// batchWords tokenizes the norms of terms together and returns their words
// in order, or nil when the paragraphs do not line up with the terms.
func batchWords(ctx context.Context, parser parse.Parser, settings parse.Settings, terms []term.WithProgress) ([][]string, error) {
	lines := make([]string, len(terms))
	for i, t := range terms {
		lines[i] = strings.TrimSpace(t.Norm)
	}
	tokens, err := parser.Tokens(ctx, strings.Join(lines, "\n"), settings)
	if err != nil {
		return nil, err
	}

	groups := [][]string{nil}
	for _, token := range tokens {
		switch {
		case token.IsEndOfParagraph():
			groups = append(groups, nil)
		case token.IsWord:
			last := len(groups) - 1
			groups[last] = append(groups[last], parser.Lowercase(token.Text))
		}
	}
	// Some parsers close the last line with a mark of its own.
	if len(groups) == len(terms)+1 && len(groups[len(terms)]) == 0 {
		groups = groups[:len(terms)]
	}
	if len(groups) != len(terms) {
		return nil, nil
	}
	return groups, nil
}

// termWords returns the lowercased words of a single norm.
func termWords(ctx context.Context, parser parse.Parser, settings parse.Settings, norm string) ([]string, error) {
	tokens, err := parser.Tokens(ctx, norm, settings)
	if err != nil {
		return nil, err
	}
	var words []string
	for _, token := range tokens {
		if token.IsWord {
			words = append(words, parser.Lowercase(token.Text))
		}
	}
	return words, nil
}

// matchAt reports whether words match the chapter starting at word start,
// returning the index of the last matched word.
func matchAt(tokens []parse.Token, positions []int, norms []string, start int, words []string) (int, bool) {
	last := start + len(words) - 1
	if last >= len(norms) {
		return 0, false
	}
	for offset, word := range words {
		i := start + offset
		if norms[i] != word {
			return 0, false
		}
		if offset > 0 && !whitespaceBetween(tokens, positions[i-1], positions[i]) {
			return 0, false
		}
	}
	return last, true
}

// whitespaceBetween reports whether every token strictly between from and to is blank.
func whitespaceBetween(tokens []parse.Token, from, to int) bool {
	for _, token := range tokens[from+1 : to] {
		if strings.TrimSpace(token.Text) != "" {
			return false
		}
	}
	return true
}

func overlaps(taken []bool, m match) bool {
	for i := m.first; i <= m.last; i++ {
		if taken[i] {
			return true
		}
	}
	return false
}
