// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package polish

import (
	"math"
	"regexp"
)

var (
	sentenceEnd = regexp.MustCompile(`[.!?]+`)
	wordPattern = regexp.MustCompile(`[A-Za-z0-9']+`)
)

// monotoneSD is the sentence-length standard deviation below which a
// section reads as rhythmically flat.
const monotoneSD = 4.0

// minCadenceSentences is the smallest sample worth judging; shorter
// sections are always left alone.
const minCadenceSentences = 4

// splitSentences splits body text on terminal punctuation, dropping empty
// fragments.
func splitSentences(text string) []string {
	var out []string
	for _, s := range sentenceEnd.Split(text, -1) {
		if len(wordPattern.FindAllString(s, 1)) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// sentenceLengthStats returns the standard deviation and mean of
// words-per-sentence over the given text.
func sentenceLengthStats(text string) (sd, mean float64) {
	var lengths []float64
	for _, s := range splitSentences(text) {
		lengths = append(lengths, float64(len(wordPattern.FindAllString(s, -1))))
	}
	if len(lengths) == 0 {
		return 0, 0
	}

	total := 0.0
	for _, l := range lengths {
		total += l
	}
	mean = total / float64(len(lengths))
	if len(lengths) == 1 {
		return 0, mean
	}

	var variance float64
	for _, l := range lengths {
		d := l - mean
		variance += d * d
	}
	variance /= float64(len(lengths))
	return math.Sqrt(variance), mean
}

// monotone reports whether the text's sentence rhythm is flat enough to
// warrant a rewrite: enough sentences to judge, and unusually low
// length variability.
func monotone(text string) bool {
	if len(splitSentences(text)) < minCadenceSentences {
		return false
	}
	sd, _ := sentenceLengthStats(text)
	return sd < monotoneSD
}
