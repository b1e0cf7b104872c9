package usecase

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// minSignificantTokenLength drops "2", "st", "g" and other short noise; tokens
// must be longer than this many runes to count.
const minSignificantTokenLength = 2

var (
	// Multiple spaces cleanup
	multiSpacePattern = regexp.MustCompile(`\s+`)

	// non-breaking and thin spaces, which \s does not match
	spaceReplacer = strings.NewReplacer("\u00a0", " ", "\u202f", " ", "\u2009", " ")
)

// normalizeText prepares free text for matching: NFC so "ö" typed as o+̈
// equals "ö", lower-case, single spaces.
func normalizeText(s string) string {
	s = norm.NFC.String(s)
	s = strings.ToLower(s)
	s = spaceReplacer.Replace(s)
	s = multiSpacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// significantTokens splits normalized text on whitespace, trims surrounding
// punctuation from each word and keeps the words longer than two runes.
func significantTokens(s string) []string {
	var tokens []string
	for _, word := range strings.Fields(s) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if utf8.RuneCountInString(word) <= minSignificantTokenLength {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// cacheKeyPart normalizes a list of strings for use inside a cache key
func cacheKeyPart(items []string) string {
	normalized := make([]string, len(items))
	for i, item := range items {
		normalized[i] = normalizeText(item)
	}
	return strings.Join(normalized, "\x1f")
}
