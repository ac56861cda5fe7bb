package textseg

import (
	"regexp"

	"github.com/modernreader/orchestrator/internal/entity"
)

var (
	doubleQuotePattern  = regexp.MustCompile(`"([^"]*)"`)
	cornerQuotePattern  = regexp.MustCompile(`「([^」]*)」`)
	ellipsisWordPattern = regexp.MustCompile(`(\.\.\.|…)`)
	capsWordPattern     = regexp.MustCompile(`\b[A-Z]{3,}\b`)
)

// extractHighlights scans one segment's text for the highlight kinds defined
// in §4.1. Offsets are local to the segment text (rune-indexed).
func extractHighlights(text string) []entity.Highlight {
	var out []entity.Highlight
	runes := []rune(text)

	for _, m := range doubleQuotePattern.FindAllStringIndex(text, -1) {
		out = append(out, entity.Highlight{
			StartChar: byteToRune(runes, text, m[0]),
			EndChar:   byteToRune(runes, text, m[1]),
			Kind:      entity.HighlightQuote,
			Weight:    0.5,
		})
	}
	for _, m := range cornerQuotePattern.FindAllStringIndex(text, -1) {
		out = append(out, entity.Highlight{
			StartChar: byteToRune(runes, text, m[0]),
			EndChar:   byteToRune(runes, text, m[1]),
			Kind:      entity.HighlightQuote,
			Weight:    0.5,
		})
	}
	for _, m := range ellipsisWordPattern.FindAllStringIndex(text, -1) {
		out = append(out, entity.Highlight{
			StartChar: byteToRune(runes, text, m[0]),
			EndChar:   byteToRune(runes, text, m[1]),
			Kind:      entity.HighlightEllipsis,
			Weight:    0.4,
		})
	}
	for _, m := range capsWordPattern.FindAllStringIndex(text, -1) {
		out = append(out, entity.Highlight{
			StartChar: byteToRune(runes, text, m[0]),
			EndChar:   byteToRune(runes, text, m[1]),
			Kind:      entity.HighlightEmphasis,
			Weight:    0.7,
		})
	}

	for i, r := range runes {
		switch r {
		case '!', '！':
			out = append(out, entity.Highlight{StartChar: i, EndChar: i + 1, Kind: entity.HighlightExclaim, Weight: 0.9})
		case '?', '？':
			out = append(out, entity.Highlight{StartChar: i, EndChar: i + 1, Kind: entity.HighlightQuestion, Weight: 0.6})
		}
	}

	return out
}

// byteToRune converts a byte offset in text into the corresponding rune
// offset, using the already-decoded rune slice as a cache.
func byteToRune(runes []rune, text string, byteOffset int) int {
	count := 0
	seen := 0
	for _, r := range text {
		if seen >= byteOffset {
			break
		}
		seen += utf8RuneLen(r)
		count++
	}
	return count
}

func utf8RuneLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}
