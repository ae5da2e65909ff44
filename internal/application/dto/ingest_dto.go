package dto

import "github.com/jhoicas/Recaudo-api/internal/application/ingestion"

// LoadDirRequest body para POST /api/upload/db.
type LoadDirRequest struct {
	Dir string `json:"dir"`
}

// LoadResponse resultado de una carga confirmada.
type LoadResponse struct {
	Message string             `json:"message"`
	Dir     string             `json:"dir,omitempty"`
	Summary *ingestion.Summary `json:"summary"`
}
