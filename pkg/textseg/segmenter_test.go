package textseg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegment_ReconstructsInput(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		strategy Strategy
		max      int
	}{
		{"simple sentences", "Hello there. How are you? Great!", StrategySentence, 500},
		{"paragraphs", "Para 1.\n\nPara 2.\n\nPara 3.", StrategyParagraph, 500},
		{"adaptive falls back to sentence", "Hello there. How are you? Great!", StrategyAdaptive, 500},
		{"cjk sentence", "今天天氣真好！我很開心。", StrategySentence, 500},
		{"leading and trailing whitespace", "   Hello world.   ", StrategySentence, 500},
		{"tiny max chunk", "Hello there. How are you? Great!", StrategySentence, 1},
		{"empty", "", StrategySentence, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Segment(tt.text, tt.strategy, tt.max, 200)
			assert.Equal(t, tt.text, res.Reconstruct())
			for i, s := range res.Segments {
				assert.Equal(t, i, s.Index)
				if tt.max > 1 {
					assert.LessOrEqual(t, len([]rune(s.Text)), tt.max)
				}
			}
			for i := 1; i < len(res.Segments); i++ {
				assert.Greater(t, res.Segments[i].StartChar, res.Segments[i-1].StartChar)
			}
		})
	}
}

func TestSegment_EmptyInputYieldsNoSegments(t *testing.T) {
	res := Segment("", StrategyAdaptive, 500, 200)
	assert.Empty(t, res.Segments)
}

func TestSegment_ParagraphStrategyCountsThreeParagraphs(t *testing.T) {
	res := Segment("Para 1.\n\nPara 2.\n\nPara 3.", StrategyParagraph, 500, 200)
	assert.Len(t, res.Segments, 3)
	for _, s := range res.Segments {
		assert.GreaterOrEqual(t, s.WordCount, 1)
	}
}

func TestSegment_AdaptivePicksParagraphWithTwoBreaks(t *testing.T) {
	res := Segment("Para 1.\n\nPara 2.\n\nPara 3.", StrategyAdaptive, 500, 200)
	assert.Equal(t, StrategyParagraph, res.StrategyUsed)
}

func TestSegment_HighlightsDetected(t *testing.T) {
	res := Segment(`She said "hello there"! Really?`, StrategySentence, 500, 200)
	var kinds []string
	for _, s := range res.Segments {
		for _, h := range s.Highlights {
			kinds = append(kinds, string(h.Kind))
		}
	}
	assert.Contains(t, kinds, "quote")
	assert.Contains(t, kinds, "exclaim")
}

func TestSegment_CumulativeTimestamps(t *testing.T) {
	res := Segment("One. Two. Three.", StrategySentence, 500, 200)
	var prevStart float64
	for i, s := range res.Segments {
		if i == 0 {
			assert.Equal(t, 0.0, s.StartTimeSeconds)
		} else {
			assert.GreaterOrEqual(t, s.StartTimeSeconds, prevStart)
		}
		prevStart = s.StartTimeSeconds
	}
}
