// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package seed

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// # Corpus

var sampleTexts = []string{
	"The sun rose over the small village, casting long shadows across the cobblestone streets. " +
		"Maria walked to the market, her basket swinging gently at her side. She greeted her neighbors " +
		"with warm smiles and exchanged pleasantries about the weather. The baker had fresh bread, " +
		"and the aroma filled the morning air. Children played in the square while their mothers " +
		"chatted about the day's plans.",

	"Technology has transformed the way we communicate and work. Modern smartphones contain " +
		"more computing power than the computers that sent humans to the moon. Social media platforms " +
		"connect billions of people across the globe, enabling instant communication and information " +
		"sharing. However, this digital revolution also brings challenges, including privacy concerns " +
		"and the spread of misinformation.",

	"The ancient library stood silent in the moonlight, its weathered stone walls holding " +
		"centuries of knowledge. Dust motes danced in the silvery beams that filtered through tall " +
		"windows. Scrolls and books lined countless shelves, each containing stories, wisdom, and " +
		"secrets from ages past. A single candle flickered on a wooden desk where a scholar had " +
		"been reading late into the night.",

	"Climate change represents one of the most pressing challenges of our time. Rising " +
		"temperatures, melting ice caps, and changing weather patterns affect ecosystems worldwide. " +
		"Scientists study these phenomena to better understand their causes and effects. Governments " +
		"and organizations work to implement policies that reduce carbon emissions and promote " +
		"sustainable practices for future generations.",

	"The art of cooking brings families together around the dinner table. Traditional recipes " +
		"pass from generation to generation, carrying cultural heritage and memories. Fresh ingredients, " +
		"careful preparation, and love transform simple items into delicious meals. Each dish tells " +
		"a story of its origins, whether from a grandmother's kitchen or a distant land's culinary " +
		"traditions.",
}

var titleTemplates = []string{
	"The Adventures of Book",
	"A Tale of Wonder",
	"Journey Through Time",
	"The Mystery of Chapter",
	"Stories from the Past",
	"Modern Life Chronicles",
	"The Art of Living",
	"Scientific Discoveries",
	"Cultural Heritage",
	"Future Possibilities",
}

// MaxChapters is the most chapters a generated book is split into.
const MaxChapters = 5

// # Generation

// Title returns a generated title for the n-th book, counting from 1.
func Title(rng *rand.Rand, n int) string {
	return fmt.Sprintf("%s - Volume %d", titleTemplates[rng.IntN(len(titleTemplates))], n)
}

// variation decorates one sample passage.
func variation(rng *rand.Rand, base string) string {
	switch rng.IntN(5) {
	case 1:
		return base + " Meanwhile, the situation continued to develop."
	case 2:
		return "As time passed, " + strings.ToLower(base)
	case 3:
		return base + " This reminded everyone of similar experiences."
	case 4:
		return "In those days, " + strings.ToLower(base)
	default:
		return base
	}
}

/*
Content generates prose of at least target words.

Passages are drawn from the sample corpus with small variations, and a
paragraph break follows every third passage.
*/
func Content(rng *rand.Rand, target int) string {
	var parts []string
	words, passages := 0, 0
	for words < target {
		passage := variation(rng, sampleTexts[rng.IntN(len(sampleTexts))])
		parts = append(parts, passage)
		words += len(strings.Fields(passage))
		passages++
		if passages%3 == 0 {
			parts = append(parts, "\n\n")
		}
	}
	return strings.Join(parts, " ")
}

/*
Chapters splits content into between 1 and [MaxChapters] chapters.

Every chapter but the last takes target/n words. The last one keeps
whatever remains, with its original line breaks.
*/
func Chapters(rng *rand.Rand, content string, target int) []string {
	n := 1 + rng.IntN(MaxChapters)
	perChapter := target / n

	chapters := make([]string, 0, n)
	remaining := content
	for i := range n {
		if i == n-1 {
			chapters = append(chapters, remaining)
			break
		}
		words := strings.Fields(remaining)
		if len(words) <= perChapter {
			chapters = append(chapters, remaining)
			remaining = ""
			continue
		}
		chapters = append(chapters, strings.Join(words[:perChapter], " "))
		remaining = strings.Join(words[perChapter:], " ")
	}
	return chapters
}
