package dto

import "github.com/modernreader/orchestrator/internal/entity"

// PlayRequest starts or restarts a reading session for a block of text.
type PlayRequest struct {
	Text     string `json:"text" validate:"required"`
	UserID   string `json:"user_id"`
	Strategy string `json:"strategy"`
}

// PlayMetadata is the descriptive half of PlayResponse; kept as its own
// struct because /orchestrator/summary reuses pieces of the same shape.
type PlayMetadata struct {
	Segments      []entity.Segment     `json:"segments"`
	Emotion       entity.EmotionReading `json:"emotion"`
	Prosody       entity.ProsodyPreset  `json:"prosody"`
	HapticEvents  []entity.HapticEvent  `json:"haptic_events"`
	ScentEvents   []entity.ScentEvent   `json:"scent_events"`
	AREvents      []entity.AREvent      `json:"ar_events"`
	TotalDuration float64               `json:"total_duration"`
}

type PlayResponse struct {
	SessionID   string       `json:"session_id"`
	PlaybackURL string       `json:"playback_url"`
	Metadata    PlayMetadata `json:"metadata"`
}

type PauseRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

type PauseResponse struct {
	Status       string `json:"status"`
	CurrentIndex int    `json:"current_index"`
	Playing      bool   `json:"playing"`
}

type SeekRequest struct {
	SessionID    string `json:"session_id" validate:"required"`
	SegmentIndex int    `json:"segment_index"`
}

type SeekResponse struct {
	Status          string  `json:"status"`
	CurrentIndex    int     `json:"current_index"`
	SegmentText     string  `json:"segment_text"`
	SegmentDuration float64 `json:"segment_duration"`
}

type SummaryResponse struct {
	Summary         string                `json:"summary"`
	TotalSegments   int                   `json:"total_segments"`
	TotalHighlights int                   `json:"total_highlights"`
	CurrentPosition int                   `json:"current_position"`
	Playing         bool                  `json:"playing"`
	Emotion         entity.EmotionReading `json:"emotion"`
}
