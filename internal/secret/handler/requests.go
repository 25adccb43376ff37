package handler

import (
	"strings"

	"darksecrets/internal/secret/models"
	dErrors "darksecrets/pkg/domain-errors"
)

// CreateSecretRequest is the HTTP request body for POST /api/secrets.
type CreateSecretRequest struct {
	Content  string `json:"content"`
	Darkness int    `json:"darkness"`
	Username string `json:"username"`
}

// Validate checks the fields the handler owns; content length, darkness
// range, and safety filtering stay in the service.
func (r *CreateSecretRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if strings.TrimSpace(r.Content) == "" {
		return dErrors.New(dErrors.CodeValidation, "content is required")
	}
	return nil
}

// Action values accepted by POST /api/secrets/{id}.
const (
	ActionComment = "comment"
	ActionRate    = "rate"
)

// ActionRequest is the HTTP request body for POST /api/secrets/{id}.
type ActionRequest struct {
	Action   string `json:"action"`
	Content  string `json:"content"`
	Username string `json:"username"`
	Rating   int    `json:"rating"`
}

// Validate checks the action discriminator and its required fields.
func (r *ActionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	switch r.Action {
	case ActionComment:
		if strings.TrimSpace(r.Content) == "" {
			return dErrors.New(dErrors.CodeValidation, "content is required for comments")
		}
	case ActionRate:
		// Range enforcement lives in the service; here we only require the
		// field to be present.
		if r.Rating == 0 {
			return dErrors.New(dErrors.CodeValidation, "rating is required")
		}
	default:
		return dErrors.New(dErrors.CodeValidation, `action must be "comment" or "rate"`)
	}
	return nil
}

// ListResponse is the HTTP response body for GET /api/secrets.
type ListResponse struct {
	Secrets    []*models.Secret `json:"secrets"`
	NextCursor string           `json:"nextCursor,omitempty"`
}
