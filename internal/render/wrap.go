package render

import "strings"

// MeasureFunc reports the rendered pixel width of a string in the current
// font face.
type MeasureFunc func(s string) float64

// WrapText greedily wraps text into lines no wider than maxWidth pixels.
//
// Empty text yields no lines, and text that already fits yields a single
// line. A single word wider than maxWidth by itself is cut to roughly
// maxWidth / average-char-width characters and suffixed with "...". The cut
// is an approximation, not exact glyph measurement, so variable-width fonts
// may over- or under-truncate slightly; that tradeoff is deliberate.
func WrapText(measure MeasureFunc, text string, maxWidth float64) []string {
	if text == "" {
		return nil
	}
	if measure(text) <= maxWidth {
		return []string{text}
	}

	words := strings.Fields(text)
	var lines []string
	var current []string

	for _, word := range words {
		candidate := strings.Join(append(current, word), " ")
		if measure(candidate) <= maxWidth {
			current = append(current, word)
			continue
		}
		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
			current = nil
			if measure(word) <= maxWidth {
				current = []string{word}
				continue
			}
		}
		// The word alone is too wide; truncate it.
		lines = append(lines, truncateWord(measure, word, maxWidth))
	}

	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return lines
}

func truncateWord(measure MeasureFunc, word string, maxWidth float64) string {
	avg := measure("n")
	if avg <= 0 {
		avg = 7
	}
	keep := int(maxWidth / avg)
	if keep < 1 {
		keep = 1
	}
	runes := []rune(word)
	if keep > len(runes) {
		keep = len(runes)
	}
	return string(runes[:keep]) + "..."
}
