// Package layout holds the text-wrapping heuristics and the vertical cursor
// shared by both poster layouts.
package layout

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Character budgets used by the centered layout.
const (
	TitleChars   = 36
	DefaultChars = 40
	ListChars    = 60
)

// AvgGlyphRatio approximates the advance of an average glyph as a fraction of
// the font size.
const AvgGlyphRatio = 0.6

// Wrap greedily packs space-separated words into lines of at most maxChars
// characters. Words are never split, so a word longer than the budget gets a
// line of its own.
func Wrap(text string, maxChars int) []string {
	words := splitWords(text)
	if len(words) == 0 {
		return nil
	}
	if maxChars < 1 {
		maxChars = 1
	}

	var (
		lines []string
		cur   string
	)
	for _, w := range words {
		if cur == "" {
			cur = w
			continue
		}
		if utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(w) > maxChars {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur += " " + w
	}
	return append(lines, cur)
}

// CharsForWidth estimates how many characters of a font size fit in maxWidth pixels.
func CharsForWidth(fontSize, maxWidth float64) int {
	if fontSize <= 0 {
		return 1
	}
	n := int(math.Floor(maxWidth / (AvgGlyphRatio * fontSize)))
	if n < 1 {
		n = 1
	}
	return n
}

// WrapPixels wraps text to an estimated pixel width and keeps at most maxLines
// lines. When words are dropped the last kept line ends with "...".
func WrapPixels(text string, fontSize, maxWidth float64, maxLines int) []string {
	lines := Wrap(text, CharsForWidth(fontSize, maxWidth))
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] += "..."
	}
	return lines
}

func splitWords(text string) []string {
	parts := strings.Split(strings.TrimSpace(text), " ")
	words := parts[:0]
	for _, p := range parts {
		if p != "" {
			words = append(words, p)
		}
	}
	return words
}
