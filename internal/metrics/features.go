// Package metrics derives local text features from requests and replies and
// owns the Prometheus collectors of the orchestration pipeline.
package metrics

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Features holds basic local text features derived from an input string.
type Features struct {
	Bytes int
	Runes int
	Words int
	Lines int
	// Han counts CJK ideographs, which strings.Fields does not split into words.
	Han int
}

// CountFeatures computes byte, rune, word, line and Han ideograph counts for s.
func CountFeatures(s string) Features {
	return Features{
		Bytes: len(s),
		Runes: utf8.RuneCountInString(s),
		Words: len(strings.Fields(s)),
		Lines: countLines(s),
		Han:   countHan(s),
	}
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of '\n' runes.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}

func countHan(s string) int {
	n := 0
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			n++
		}
	}
	return n
}
