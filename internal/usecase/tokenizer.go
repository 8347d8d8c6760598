package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	digitRunRegex        = regexp.MustCompile(`\d+`)
)

// stopWords contains English articles, prepositions and conjunctions that
// carry no matching signal in a product title.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"and": true, "or": true, "but": true, "nor": true,
	"of": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "with": true, "by": true, "from": true, "as": true,
	"is": true, "it": true, "be": true, "are": true, "was": true,
	"this": true, "that": true, "its": true,
}

// tokenize splits text into normalized lowercase tokens.
// Lowercases, replaces punctuation with spaces, drops single-character
// tokens and stop words. Numeric tokens are kept: model numbers like
// "15" or "4070" are matching signal, not noise.
func tokenize(text string) []string {
	cleaned := nonAlphanumericRegex.ReplaceAllString(strings.ToLower(text), " ")

	words := strings.Fields(cleaned)

	var tokens []string
	for _, word := range words {
		if len(word) <= 1 {
			continue
		}
		if stopWords[word] {
			continue
		}
		tokens = append(tokens, word)
	}

	return tokens
}

// generateNGrams produces every contiguous window of n tokens joined by a
// single space. Returns nil when fewer than n tokens are available.
func generateNGrams(tokens []string, n int) []string {
	if n <= 0 || len(tokens) < n {
		return nil
	}

	grams := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		grams = append(grams, strings.Join(tokens[i:i+n], " "))
	}
	return grams
}

// extractNumbers returns every digit run in the text, in order of
// appearance. Used for model-number cross checks in the fallback matcher.
func extractNumbers(text string) []string {
	return digitRunRegex.FindAllString(text, -1)
}

// significantNumbers filters digit runs down to those long enough to
// identify a model (3+ digits); short runs like "5" in "5G" are too common
// to be discriminating.
func significantNumbers(numbers []string) []string {
	var out []string
	for _, n := range numbers {
		if len(n) >= 3 {
			out = append(out, n)
		}
	}
	return out
}
