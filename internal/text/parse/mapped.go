// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package parse

import (
	"strings"
	"unicode"
)

// mappedText is text under rewrite that remembers where every rune came from.
// offsets[i] is the original rune offset of runes[i]; the final entry is the
// original length so that offsets[end] works for exclusive ends.
type mappedText struct {
	runes   []rune
	offsets []int
}

func newMappedText(text string) mappedText {
	runes := []rune(text)
	offsets := make([]int, len(runes)+1)
	for i := range offsets {
		offsets[i] = i
	}
	return mappedText{runes: runes, offsets: offsets}
}

type substitution struct {
	from []rune
	to   []rune
}

// parseSubstitutions reads the "a=b|c=d" language setting.
func parseSubstitutions(raw string) []substitution {
	var subs []substitution
	for _, replacement := range strings.Split(raw, "|") {
		fromTo := strings.Split(strings.TrimSpace(replacement), "=")
		if len(fromTo) < 2 {
			continue
		}
		from, to := strings.TrimSpace(fromTo[0]), strings.TrimSpace(fromTo[1])
		if from == "" {
			continue
		}
		subs = append(subs, substitution{from: []rune(from), to: []rune(to)})
	}
	return subs
}

// replace applies subs in a single left-to-right pass; at each position the
// first listed substitution that matches wins.
func (m mappedText) replace(subs []substitution) mappedText {
	if len(subs) == 0 {
		return m
	}

	out := mappedText{
		runes:   make([]rune, 0, len(m.runes)),
		offsets: make([]int, 0, len(m.offsets)),
	}

	for i := 0; i < len(m.runes); {
		matched := false
		for _, sub := range subs {
			if hasRunePrefix(m.runes[i:], sub.from) {
				for _, r := range sub.to {
					out.runes = append(out.runes, r)
					out.offsets = append(out.offsets, m.offsets[i])
				}
				i += len(sub.from)
				matched = true
				break
			}
		}
		if !matched {
			out.runes = append(out.runes, m.runes[i])
			out.offsets = append(out.offsets, m.offsets[i])
			i++
		}
	}

	out.offsets = append(out.offsets, m.offsets[len(m.runes)])
	return out
}

// drop removes every rune for which fn is true.
func (m mappedText) drop(fn func(rune) bool) mappedText {
	out := mappedText{
		runes:   make([]rune, 0, len(m.runes)),
		offsets: make([]int, 0, len(m.offsets)),
	}
	for i, r := range m.runes {
		if !fn(r) {
			out.runes = append(out.runes, r)
			out.offsets = append(out.offsets, m.offsets[i])
		}
	}
	out.offsets = append(out.offsets, m.offsets[len(m.runes)])
	return out
}

// trim strips leading and trailing Unicode whitespace.
func (m mappedText) trim() mappedText {
	start, end := 0, len(m.runes)
	for start < end && unicode.IsSpace(m.runes[start]) {
		start++
	}
	for end > start && unicode.IsSpace(m.runes[end-1]) {
		end--
	}
	return mappedText{runes: m.runes[start:end], offsets: m.offsets[start : end+1]}
}

// token builds a Token from the half-open rune range [from, to).
func (m mappedText) token(from, to int, isWord, isEndOfSentence bool) Token {
	return Token{
		Text:            string(m.runes[from:to]),
		IsWord:          isWord,
		IsEndOfSentence: isEndOfSentence,
		Start:           m.offsets[from],
		End:             m.offsets[to],
	}
}

func hasRunePrefix(runes, prefix []rune) bool {
	if len(prefix) > len(runes) {
		return false
	}
	for i, r := range prefix {
		if runes[i] != r {
			return false
		}
	}
	return true
}

// paragraphSubstitutions normalizes line endings into paragraph marks.
var paragraphSubstitutions = []substitution{
	{from: []rune("\r\n"), to: []rune(ParagraphMark)},
	{from: []rune("\n"), to: []rune(ParagraphMark)},
}
