// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package parse_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/flute/internal/text/parse"
)

const defaultSubstitutions = "´='|`='|'='|'='|...=…|..=‥"

var english = parse.Settings{
	CharacterSubstitutions:   defaultSubstitutions,
	RegexpSplitSentences:     ".!?",
	ExceptionsSplitSentences: "Mr.|Mrs.|Dr.|[A-Z].|Jr.|Sr.|vs.|etc.|Inc.|Ltd.|Co.",
	WordCharacters:           "a-zA-Z",
}

var classicalChinese = parse.Settings{
	CharacterSubstitutions: defaultSubstitutions,
	RegexpSplitSentences:   ".!?。？！",
	WordCharacters:         "\u4E00-\u9FAF\u3400-\u4DBF",
}

var japanese = parse.Settings{
	CharacterSubstitutions: defaultSubstitutions,
	RegexpSplitSentences:   ".!?。？！",
	WordCharacters:         "a-zA-Z\u3040-\u309F\u30A0-\u30FF\u4E00-\u9FAF",
}

func word(text string, start, end int) parse.Token {
	return parse.Token{Text: text, IsWord: true, Start: start, End: end}
}

func punct(text string, start, end int, eos bool) parse.Token {
	return parse.Token{Text: text, IsEndOfSentence: eos, Start: start, End: end}
}

func assertTokens(t *testing.T, want, got []parse.Token) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

/*
TestSpaceDelimited_Tokens covers words, sentence ends, exceptions and paragraphs.
*/
func TestSpaceDelimited_Tokens(t *testing.T) {
	parser := parse.NewSpaceDelimited()

	tokens, err := parser.Tokens(context.Background(), "Hello there. Mr. Smith is here!\nNew line", english)
	require.NoError(t, err)

	assertTokens(t, []parse.Token{
		word("Hello", 0, 5),
		punct(" ", 5, 6, false),
		word("there", 6, 11),
		punct(". ", 11, 13, true),
		word("Mr.", 13, 16),
		punct(" ", 16, 17, false),
		word("Smith", 17, 22),
		punct(" ", 22, 23, false),
		word("is", 23, 25),
		punct(" ", 25, 26, false),
		word("here", 26, 30),
		punct("!", 30, 31, true),
		punct("¶", 31, 32, true),
		word("New", 32, 35),
		punct(" ", 35, 36, false),
		word("line", 36, 40),
	}, tokens)
}

/*
TestSpaceDelimited_SubstitutionOffsets verifies that offsets point into the
original text when substitutions change its length.
*/
func TestSpaceDelimited_SubstitutionOffsets(t *testing.T) {
	tokens, err := parse.NewSpaceDelimited().Tokens(context.Background(), "Wait... what", english)
	require.NoError(t, err)

	assertTokens(t, []parse.Token{
		word("Wait", 0, 4),
		punct("… ", 4, 8, false),
		word("what", 8, 12),
	}, tokens)
}

func TestSpaceDelimited_DefaultWordCharacters(t *testing.T) {
	generic := english
	generic.WordCharacters = ""

	tokens, err := parse.NewSpaceDelimited().Tokens(context.Background(), "Café niño", generic)
	require.NoError(t, err)

	assertTokens(t, []parse.Token{
		word("Café", 0, 4),
		punct(" ", 4, 5, false),
		word("niño", 5, 9),
	}, tokens)
}

func TestSpaceDelimited_CarriageReturn(t *testing.T) {
	tokens, err := parse.NewSpaceDelimited().Tokens(context.Background(), "one\r\ntwo", english)
	require.NoError(t, err)

	assertTokens(t, []parse.Token{
		word("one", 0, 3),
		punct("¶", 3, 5, true),
		word("two", 5, 8),
	}, tokens)
}

func TestSpaceDelimited_InvalidWordCharacters(t *testing.T) {
	broken := english
	broken.WordCharacters = "z-a"

	_, err := parse.NewSpaceDelimited().Tokens(context.Background(), "text", broken)
	assert.Error(t, err)
}

/*
TestTurkish_Lowercase checks the dotted and dotless i variants.
*/
func TestTurkish_Lowercase(t *testing.T) {
	cases := []struct{ text, want string }{
		{"CAT", "cat"},
		{"İÇİN", "için"},
		{"IŞIK", "ışık"},
		{"İçin", "için"},
		{"Işık", "ışık"},
	}

	parser := parse.NewTurkish()
	for _, tc := range cases {
		assert.Equal(t, tc.want, parser.Lowercase(tc.text), tc.text)
	}
}

func TestSpaceDelimited_LowercaseComposes(t *testing.T) {
	// "E" followed by a combining acute accent composes to a single rune.
	assert.Equal(t, "caf\u00e9", parse.NewSpaceDelimited().Lowercase("CAFE\u0301"))
}

/*
TestClassicalChinese_Tokens removes spaces and marks paragraph breaks.
*/
func TestClassicalChinese_Tokens(t *testing.T) {
	text := "學  而時習 之，不亦說乎？\n有朋    自遠方來，不亦樂乎？"

	tokens, err := parse.NewClassicalChinese().Tokens(context.Background(), text, classicalChinese)
	require.NoError(t, err)

	assertTokens(t, []parse.Token{
		word("學", 0, 1), word("而", 3, 4), word("時", 4, 5), word("習", 5, 6), word("之", 7, 8),
		punct("，", 8, 9, false),
		word("不", 9, 10), word("亦", 10, 11), word("說", 11, 12), word("乎", 12, 13),
		punct("？", 13, 14, true),
		punct("¶", 14, 15, true),
		word("有", 15, 16), word("朋", 16, 17), word("自", 21, 22), word("遠", 22, 23),
		word("方", 23, 24), word("來", 24, 25),
		punct("，", 25, 26, false),
		word("不", 26, 27), word("亦", 27, 28), word("樂", 28, 29), word("乎", 29, 30),
		punct("？", 30, 31, true),
	}, tokens)
}

/*
TestJapanese_Tokens feeds canned MeCab output through the parser.
*/
func TestJapanese_Tokens(t *testing.T) {
	var received string
	runner := func(_ context.Context, input string) (string, error) {
		received = input
		return "元気\t2\t10\n.\t3\t5\n元気\t2\t10\n?\t3\t5\n元気\t2\t10\n!\t3\t5\nEOP\t3\t7\n" +
			"元気\t2\t10\n。\t3\t5\n元気\t2\t10\n？\t3\t5\n元気\t2\t10\n！\t3\t5\n0\t4\nEOP\t3\t7\n", nil
	}

	parser := parse.NewJapanese("", runner)
	require.True(t, parser.IsSupported())

	tokens, err := parser.Tokens(context.Background(), "元気.元気?元気!\n元気。元気？元気！", japanese)
	require.NoError(t, err)
	assert.Equal(t, "元気.元気?元気!\n元気。元気？元気！\n", received)

	assertTokens(t, []parse.Token{
		word("元気", 0, 2), punct(".", 2, 3, true),
		word("元気", 3, 5), punct("?", 5, 6, true),
		word("元気", 6, 8), punct("!", 8, 9, true),
		punct("¶", 9, 10, true),
		word("元気", 10, 12), punct("。", 12, 13, true),
		word("元気", 13, 15), punct("？", 15, 16, true),
		word("元気", 16, 18), punct("！", 18, 19, true),
		punct("¶", 19, 19, true),
	}, tokens)
}

func TestJapanese_RepeatMarkIsWord(t *testing.T) {
	runner := func(context.Context, string) (string, error) {
		return "行く先\t2\t38\n々\t3\t5\nEOP\t3\t7\n", nil
	}

	tokens, err := parse.NewJapanese("", runner).Tokens(context.Background(), "行く先々", japanese)
	require.NoError(t, err)

	require.Len(t, tokens, 3)
	assert.True(t, tokens[1].IsWord)
	assert.Equal(t, 3, tokens[1].Start)
}

/*
TestRegistry_Get checks lookup errors and the supported list.
*/
func TestRegistry_Get(t *testing.T) {
	registry := parse.NewRegistry(parse.WithMecabPath("/nonexistent/mecab"))

	parser, err := registry.Get("spacedel")
	require.NoError(t, err)
	assert.Equal(t, "Space Delimited", parser.Name())

	_, err = registry.Get("klingon")
	assert.EqualError(t, err, "Unknown parser type 'klingon'")

	_, err = registry.Get("japanese")
	assert.EqualError(t, err, "Unsupported parser type 'japanese'")

	assert.Equal(t, []string{"classicalchinese", "spacedel", "turkish"}, registry.Supported())
	assert.False(t, registry.IsSupported("japanese"))
}

func TestTokenCount(t *testing.T) {
	count, err := parse.TokenCount(context.Background(), parse.NewSpaceDelimited(), "president of the united states", english)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}
