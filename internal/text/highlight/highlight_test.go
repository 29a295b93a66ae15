// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package highlight_test

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/flute/internal/core/term"
	"github.com/taibuivan/flute/internal/text/highlight"
	"github.com/taibuivan/flute/internal/text/parse"
	"github.com/taibuivan/flute/pkg/pointer"
)

var english = parse.Settings{
	CharacterSubstitutions:   "´='|`='|'='|'='|...=…|..=‥",
	RegexpSplitSentences:     ".!?",
	ExceptionsSplitSentences: "Mr.|Mrs.|Dr.|[A-Z].|Vd.|Vds.",
	WordCharacters:           "a-zA-ZÀ-ÖØ-öø-ȳ",
}

func find(t *testing.T, content string, terms ...term.WithProgress) []highlight.Highlight {
	t.Helper()
	parser := parse.NewSpaceDelimited()
	tokens, err := parser.Tokens(context.Background(), content, english)
	require.NoError(t, err)

	highlights, err := highlight.Find(context.Background(), parser, english, tokens, terms)
	require.NoError(t, err)
	return highlights
}

func known(id int64, norm, display string) term.WithProgress {
	return term.WithProgress{ID: id, Norm: norm, Display: display, Status: term.StatusKnown, LearningStage: pointer.To(1)}
}

func learning(id int64, norm, display string, stage int) term.WithProgress {
	return term.WithProgress{ID: id, Norm: norm, Display: display, Status: term.StatusLearning, LearningStage: pointer.To(stage)}
}

/*
TestFind_SingleTokens verifies offsets and stage handling per status.
*/
func TestFind_SingleTokens(t *testing.T) {
	ignored := term.WithProgress{ID: 3, Norm: "happy", Display: "happy", Status: term.StatusIgnore}

	got := find(t, "The quick brown fox jumps over the lazy dog. The fox was very happy.",
		known(1, "the", "the"),
		learning(2, "fox", "Fox", 2),
		ignored,
	)

	want := []highlight.Highlight{
		{TermID: 1, Display: "the", Status: term.StatusKnown, StartPos: 0, EndPos: 3},
		{TermID: 2, Display: "Fox", Status: term.StatusLearning, LearningStage: pointer.To(2), StartPos: 16, EndPos: 19},
		{TermID: 1, Display: "the", Status: term.StatusKnown, StartPos: 31, EndPos: 34},
		{TermID: 1, Display: "the", Status: term.StatusKnown, StartPos: 45, EndPos: 48},
		{TermID: 2, Display: "Fox", Status: term.StatusLearning, LearningStage: pointer.To(2), StartPos: 49, EndPos: 52},
		{TermID: 3, Display: "happy", Status: term.StatusIgnore, StartPos: 62, EndPos: 67},
	}
	assert.Equal(t, want, got)
}

/*
TestFind_Boundaries verifies that terms only match whole tokens.
*/
func TestFind_Boundaries(t *testing.T) {
	got := find(t, "Pancakes do belong, but waffles do not.",
		learning(1, "cake", "cake", 1),
		learning(2, "long", "Long", 3),
		known(3, "belong bob", "Belong Bob"),
		term.WithProgress{ID: 4, Norm: "but waffle", Display: "but waffle", Status: term.StatusIgnore},
		known(5, "not", "Not"),
	)

	assert.Equal(t, []highlight.Highlight{
		{TermID: 5, Display: "Not", Status: term.StatusKnown, StartPos: 35, EndPos: 38},
	}, got)
}

/*
TestFind_MultiToken verifies that longer terms win and results never overlap.
*/
func TestFind_MultiToken(t *testing.T) {
	got := find(t, "I like ice cream. Ice cream is cold.",
		learning(1, "ice cream", "ice cream", 2),
		known(2, "ice", "ice"),
		known(3, "cream is cold", "cream is cold"),
	)

	require.Len(t, got, 3)
	assert.Equal(t, [][2]int{{7, 16}, {18, 21}, {22, 35}}, spans(got))
	assert.Equal(t, []int64{1, 2, 3}, ids(got))
}

/*
TestFind_PrefersPhraseOverWords mirrors a reader who knows "New York" and is learning "new".
*/
func TestFind_PrefersPhraseOverWords(t *testing.T) {
	got := find(t, "New York is a big city. I love New York very much.",
		learning(1, "new", "New", 1),
		known(2, "new york", "New York"),
		learning(3, "big city", "big city", 3),
	)

	assert.Equal(t, []int64{2, 3, 2}, ids(got))
	assert.Equal(t, [][2]int{{0, 8}, {14, 22}, {31, 39}}, spans(got))
}

/*
TestFind_SeparatorMustBeWhitespace verifies that punctuation breaks a phrase.
*/
func TestFind_SeparatorMustBeWhitespace(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{name: "space", content: "ice cream", want: 1},
		{name: "multiple spaces", content: "ice   cream", want: 1},
		{name: "comma", content: "ice, cream", want: 0},
		{name: "paragraph", content: "ice\ncream", want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := find(t, tc.content, known(1, "ice cream", "ice cream"))
			assert.Len(t, got, tc.want)
		})
	}
}

/*
TestFind_LongPhrase verifies a seven word term spans the whole phrase.
*/
func TestFind_LongPhrase(t *testing.T) {
	content := "The President of the United States of America spoke yesterday."
	got := find(t, content,
		learning(1, "president of the united states of america", "President of the United States of America", 2),
	)

	require.Len(t, got, 1)
	runes := []rune(content)
	assert.Equal(t, "President of the United States of America", string(runes[got[0].StartPos:got[0].EndPos]))
	assert.Equal(t, 2, *got[0].LearningStage)
}

/*
TestFind_Empty returns an empty, non-nil slice.
*/
func TestFind_Empty(t *testing.T) {
	got := find(t, "Some random text without progress.")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func spans(highlights []highlight.Highlight) [][2]int {
	out := make([][2]int, len(highlights))
	for i, h := range highlights {
		out[i] = [2]int{h.StartPos, h.EndPos}
	}
	return out
}

func ids(highlights []highlight.Highlight) []int64 {
	out := make([]int64, len(highlights))
	for i, h := range highlights {
		out[i] = h.TermID
	}
	return out
}

// lineMecab answers like MeCab with each input line as one word.
func lineMecab(calls *atomic.Int32) parse.MecabRunner {
	return func(_ context.Context, input string) (string, error) {
		calls.Add(1)
		var out strings.Builder
		for _, line := range strings.Split(strings.TrimSuffix(input, "\n"), "\n") {
			if line != "" {
				fmt.Fprintf(&out, "%s\t2\t38\n", line)
			}
			out.WriteString("EOP\t3\t7\n")
		}
		return out.String(), nil
	}
}

/*
TestFind_TokenizesTermsOnce verifies that marked terms are parsed in one
batch, so a parser backed by an external process starts once per chapter.
*/
func TestFind_TokenizesTermsOnce(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	parser := parse.NewJapanese("", lineMecab(&calls))
	settings := parse.Settings{RegexpSplitSentences: "。"}

	tokens, err := parser.Tokens(ctx, "猫", settings)
	require.NoError(t, err)
	calls.Store(0)

	terms := make([]term.WithProgress, 0, 2000)
	for i := range 2000 {
		terms = append(terms, known(int64(i+1), fmt.Sprintf("語%d", i), fmt.Sprintf("語%d", i)))
	}
	terms = append(terms, learning(9999, "猫", "猫", 3))

	highlights, err := highlight.Find(ctx, parser, settings, tokens, terms)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	require.Len(t, highlights, 1)
	assert.Equal(t, int64(9999), highlights[0].TermID)
	assert.Equal(t, 0, highlights[0].StartPos)
	assert.Equal(t, 1, highlights[0].EndPos)
}

func TestFind_MultiLineNormParsedAlone(t *testing.T) {
	got := find(t, "The dog barked.",
		known(1, "dog\nbarked", "dog barked"),
		known(2, "the", "The"),
	)
	want := []highlight.Highlight{
		{TermID: 2, Display: "The", Status: term.StatusKnown, StartPos: 0, EndPos: 3},
		{TermID: 1, Display: "dog barked", Status: term.StatusKnown, StartPos: 4, EndPos: 14},
	}
	assert.Equal(t, want, got)
}
