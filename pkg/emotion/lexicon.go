package emotion

import (
	"strings"

	"github.com/modernreader/orchestrator/internal/entity"
)

// lexicon is a small keyword table per emotion label, mixing English and
// Mandarin terms so narration in either script scores sensibly. It is
// intentionally small: this is the deterministic fallback, not a classifier.
var lexicon = map[entity.EmotionLabel][]string{
	entity.Happy: {
		"happy", "joy", "glad", "delight", "great", "wonderful", "cheerful", "開心", "高興", "快樂", "真好",
	},
	entity.Sad: {
		"sad", "sorrow", "grief", "unhappy", "cry", "tears", "難過", "傷心", "悲傷", "哭",
	},
	entity.Angry: {
		"angry", "furious", "rage", "mad", "hate", "生氣", "憤怒", "討厭",
	},
	entity.Fear: {
		"afraid", "scared", "fear", "terrified", "anxious", "害怕", "恐懼", "緊張",
	},
	entity.Surprise: {
		"surprised", "surprise", "shocked", "astonished", "wow", "驚訝", "驚喜", "嚇",
	},
	entity.Disgust: {
		"disgust", "disgusting", "gross", "revolting", "噁心", "討厭",
	},
}

type lexiconScore struct {
	label      entity.EmotionLabel
	hits       int
	totalWords int
}

// scoreText returns the winning label, its hit count, and a confidence in
// [0,1] derived from how decisively the keywords pointed at that label.
func scoreText(text string) (entity.EmotionLabel, int, float64) {
	lower := strings.ToLower(text)

	best := entity.Neutral
	bestHits := 0
	totalHits := 0

	for _, label := range entity.AllEmotionLabels {
		words, ok := lexicon[label]
		if !ok {
			continue
		}
		hits := 0
		for _, w := range words {
			hits += strings.Count(lower, strings.ToLower(w))
		}
		totalHits += hits
		if hits > bestHits {
			bestHits = hits
			best = label
		}
	}

	if bestHits == 0 {
		return entity.Neutral, 0, 0.5
	}

	confidence := 0.5 + 0.5*float64(bestHits)/float64(totalHits)
	if confidence > 1.0 {
		confidence = 1.0
	}
	return best, bestHits, confidence
}
