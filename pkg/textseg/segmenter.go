// Package textseg implements the Segmenter component (C1): splitting a
// narrative text into addressable, timestamped Segments with highlight
// metadata. It is grounded on the sentence/paragraph/adaptive strategies of
// the original TextSegmenter, generalized to track exact character offsets
// so the original text can always be reconstructed from the output.
package textseg

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/modernreader/orchestrator/internal/entity"
	"github.com/modernreader/orchestrator/pkg/utils"
)

type Strategy string

const (
	StrategySentence  Strategy = "sentence"
	StrategyParagraph Strategy = "paragraph"
	StrategyAdaptive  Strategy = "adaptive"
)

const DefaultMaxChunkChars = 500

// Result is the output of Segment: the kept segments plus the leading
// whitespace run (if any) stripped off the very start of the input. The
// original normalized text is reconstructed as:
//
//	LeadingSeparator + segments[0].Text + segments[0].TrailingSeparator +
//	segments[1].Text + segments[1].TrailingSeparator + ... + segments[n-1].Text
//	+ segments[n-1].TrailingSeparator
type Result struct {
	Segments         []entity.Segment
	LeadingSeparator string
	StrategyUsed      Strategy
	Warnings         []string
}

// Reconstruct rebuilds the normalized input from a Result, for callers that
// want to assert the reconstruction invariant.
func (r Result) Reconstruct() string {
	var b strings.Builder
	b.WriteString(r.LeadingSeparator)
	for _, s := range r.Segments {
		b.WriteString(s.Text)
		b.WriteString(s.TrailingSeparator)
	}
	return b.String()
}

type span struct {
	start, end int // rune offsets, half-open
}

// Segment splits text per spec §4.1. readingWPM drives est_duration_seconds;
// pass 0 to use the 200 wpm default.
func Segment(text string, strategy Strategy, maxChunkChars int, readingWPM int) Result {
	if maxChunkChars <= 0 {
		maxChunkChars = DefaultMaxChunkChars
	}
	if readingWPM <= 0 {
		readingWPM = 200
	}

	var warnings []string
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
		warnings = append(warnings, "input contained invalid UTF-8; replaced with U+FFFD")
	}
	text = norm.NFC.String(text)

	runes := []rune(text)
	if len(runes) == 0 {
		return Result{StrategyUsed: strategy, Warnings: warnings}
	}

	used := strategy
	var spans []span
	switch strategy {
	case StrategySentence:
		spans = splitSentenceRaw(runes)
	case StrategyParagraph:
		spans, _ = splitParagraphRaw(runes)
	default:
		used = StrategyAdaptive
		pspans, breaks := splitParagraphRaw(runes)
		if breaks >= 2 {
			used = StrategyParagraph
			spans = pspans
		} else {
			used = StrategySentence
			spans = splitSentenceRaw(runes)
		}
	}

	var bounded []span
	for _, sp := range spans {
		ts, te := trimSpan(runes, sp.start, sp.end)
		if ts >= te {
			continue // whitespace-only: dropped, folded into neighboring separator
		}
		if te-ts > maxChunkChars {
			bounded = append(bounded, breakOversized(runes, ts, te, maxChunkChars)...)
		} else {
			bounded = append(bounded, span{ts, te})
		}
	}

	if len(bounded) == 0 {
		return Result{StrategyUsed: used, Warnings: warnings}
	}

	segments := make([]entity.Segment, 0, len(bounded))
	cumulative := 0.0
	for i, sp := range bounded {
		segText := string(runes[sp.start:sp.end])
		wc := wordCount(segText)
		dur := float64(wc) / (float64(readingWPM) / 60.0)

		var trailing string
		if i+1 < len(bounded) {
			trailing = string(runes[sp.end:bounded[i+1].start])
		} else {
			trailing = string(runes[sp.end:])
		}

		seg := entity.Segment{
			ID:                 segmentID(i),
			Index:              i,
			Text:               segText,
			StartChar:          sp.start,
			EndChar:            sp.end,
			WordCount:          wc,
			EstDurationSeconds: dur,
			StartTimeSeconds:   cumulative,
			Highlights:         extractHighlights(segText),
			TrailingSeparator:  trailing,
		}
		cumulative += dur
		segments = append(segments, seg)
	}

	return Result{
		Segments:         segments,
		LeadingSeparator: string(runes[0:bounded[0].start]),
		StrategyUsed:      used,
		Warnings:         warnings,
	}
}

func segmentID(i int) string {
	return "seg-" + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// isSentenceTerminator reports whether r belongs to the terminal punctuation set.
func isSentenceTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}

// splitSentenceRaw splits runes into spans on runs of terminal punctuation,
// keeping the (collapsed) terminator run with the preceding span.
func splitSentenceRaw(runes []rune) []span {
	var spans []span
	n := len(runes)
	start := 0
	i := 0
	for i < n {
		if isSentenceTerminator(runes[i]) {
			j := i
			for j < n && isSentenceTerminator(runes[j]) {
				j++
			}
			spans = append(spans, span{start, j})
			start = j
			i = j
			continue
		}
		i++
	}
	if start < n {
		spans = append(spans, span{start, n})
	}
	return spans
}

// splitParagraphRaw splits on runs of two or more newlines (allowing
// interleaved spaces/tabs/CR within the run). Returns the content spans
// (excluding the separator runs) and the number of qualifying breaks found.
func splitParagraphRaw(runes []rune) ([]span, int) {
	var spans []span
	n := len(runes)
	start := 0
	i := 0
	breaks := 0
	for i < n {
		if runes[i] == '\n' {
			j := i
			newlineCount := 0
			for j < n && (runes[j] == '\n' || runes[j] == '\r' || runes[j] == ' ' || runes[j] == '\t') {
				if runes[j] == '\n' {
					newlineCount++
				}
				j++
			}
			if newlineCount >= 2 {
				spans = append(spans, span{start, i})
				breaks++
				start = j
				i = j
				continue
			}
			i = j
			continue
		}
		i++
	}
	spans = append(spans, span{start, n})
	return spans, breaks
}

func trimSpan(runes []rune, start, end int) (int, int) {
	for start < end && unicode.IsSpace(runes[start]) {
		start++
	}
	for end > start && unicode.IsSpace(runes[end-1]) {
		end--
	}
	return start, end
}

// breakOversized recursively reduces a span that exceeds maxChunkChars:
// first by sub-segmenting on sentence boundaries, then by splitting at the
// nearest whitespace before the limit, finally by a hard character chop.
func breakOversized(runes []rune, start, end, maxChunkChars int) []span {
	if end-start <= maxChunkChars {
		return []span{{start, end}}
	}

	sub := runes[start:end]
	sentSpans := splitSentenceRaw(sub)
	if len(sentSpans) > 1 {
		var out []span
		for _, ss := range sentSpans {
			ts, te := trimSpan(sub, ss.start, ss.end)
			if ts >= te {
				continue
			}
			out = append(out, breakOversized(runes, start+ts, start+te, maxChunkChars)...)
		}
		if len(out) > 0 {
			return out
		}
	}

	// whitespace-boundary fallback: find the rightmost whitespace at or
	// before the limit, split there, and recurse on the remainder.
	limit := maxChunkChars
	if limit > len(sub) {
		limit = len(sub)
	}
	splitAt := -1
	for i := limit - 1; i > 0; i-- {
		if unicode.IsSpace(sub[i]) {
			splitAt = i
			break
		}
	}
	if splitAt > 0 {
		ts, te := trimSpan(sub, 0, splitAt)
		var out []span
		if ts < te {
			out = append(out, span{start + ts, start + te})
		}
		rts, rte := trimSpan(sub, splitAt, len(sub))
		if rts < rte {
			out = append(out, breakOversized(runes, start+rts, start+rte, maxChunkChars)...)
		}
		return out
	}

	// hard chop: no whitespace to break on (or maxChunkChars too small).
	chopSize := maxChunkChars
	if chopSize < 1 {
		chopSize = 1
	}
	var out []span
	for _, chunk := range utils.SplitText(string(sub), chopSize, 0) {
		cr := []rune(chunk)
		clen := len(cr)
		// translate chunk back to an absolute offset by scanning forward;
		// chunks from SplitText are contiguous, non-overlapping (overlap=0).
		out = append(out, span{start, start + clen})
		start += clen
	}
	return out
}

// wordCount approximates spoken "words": each CJK ideograph/kana/hangul
// character counts as one word; maximal runs of other non-space characters
// count as one word each, matching how reading-time estimates are usually
// quoted for mixed-script narration.
func wordCount(s string) int {
	runes := []rune(s)
	n := len(runes)
	count := 0
	i := 0
	for i < n {
		r := runes[i]
		if unicode.IsSpace(r) {
			i++
			continue
		}
		if isCJK(r) {
			count++
			i++
			continue
		}
		j := i
		for j < n && !unicode.IsSpace(runes[j]) && !isCJK(runes[j]) {
			j++
		}
		count++
		i = j
	}
	return count
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Hangul, r)
}
