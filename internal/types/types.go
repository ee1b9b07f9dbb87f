package types

import (
	"idea-builder-backend/internal/completion"
	"idea-builder-backend/internal/steps"
)

type ChatRequest struct {
	Messages []completion.Message `json:"messages"`
}

// ChatResponse carries exactly one of Reply or Error; clients check which field is present.
type ChatResponse struct {
	Reply *completion.Message `json:"reply,omitempty"`
	Error string              `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
}

type StepsResponse struct {
	Steps []steps.Step `json:"steps"`
}
