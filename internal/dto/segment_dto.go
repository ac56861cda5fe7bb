package dto

import "github.com/modernreader/orchestrator/internal/entity"

type SegmentTextRequest struct {
	Text     string `json:"text" validate:"required"`
	Strategy string `json:"strategy"`
}

type SegmentTextMetadata struct {
	LeadingSeparator string   `json:"leading_separator,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
}

type SegmentTextResponse struct {
	Segments      []entity.Segment     `json:"segments"`
	TotalSegments int                  `json:"total_segments"`
	TotalLength   int                  `json:"total_length"`
	StrategyUsed  string               `json:"strategy_used"`
	Metadata      SegmentTextMetadata  `json:"metadata"`
}
