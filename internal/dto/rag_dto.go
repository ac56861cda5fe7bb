package dto

import "github.com/modernreader/orchestrator/internal/entity"

type RAGUpsertRequest struct {
	DocID string         `json:"doc_id" validate:"required"`
	Text  string         `json:"text" validate:"required"`
	Meta  map[string]any `json:"meta"`
}

type RAGListResponse struct {
	Docs []entity.RAGDoc `json:"docs"`
}
