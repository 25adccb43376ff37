// Package handler wires the secret endpoints to the secret service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"darksecrets/internal/analytics"
	"darksecrets/internal/secret/cursor"
	"darksecrets/internal/secret/models"
	"darksecrets/internal/secret/service"
	dErrors "darksecrets/pkg/domain-errors"
	"darksecrets/pkg/platform/httputil"
	"darksecrets/pkg/requestcontext"
)

// Service defines the interface for secret operations.
type Service interface {
	CreateSecret(ctx context.Context, in service.CreateSecretInput) (*models.Secret, error)
	GetSecret(ctx context.Context, id string) (*models.Secret, error)
	ListSecrets(ctx context.Context, in service.ListSecretsInput) ([]*models.Secret, string, error)
	AddComment(ctx context.Context, in service.AddCommentInput) (*models.Comment, error)
	RateDarkness(ctx context.Context, secretID, originRaw string, value int) (service.RateResult, error)
}

// Handler serves the /api/secrets endpoints.
type Handler struct {
	service   Service
	logger    *slog.Logger
	analytics analytics.Recorder
}

// New constructs a secret handler with its dependencies.
func New(service Service, logger *slog.Logger, rec analytics.Recorder) *Handler {
	if rec == nil {
		rec = analytics.Noop{}
	}
	return &Handler{
		service:   service,
		logger:    logger,
		analytics: rec,
	}
}

// Register mounts the secret endpoints on the router. throttle, when not
// nil, wraps the write endpoints.
func (h *Handler) Register(r chi.Router, throttle func(http.Handler) http.Handler) {
	r.Route("/api/secrets", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/{id}", h.HandleGet)
		r.Group(func(r chi.Router) {
			if throttle != nil {
				r.Use(throttle)
			}
			r.Post("/", h.HandleCreate)
			r.Post("/{id}", h.HandleAction)
		})
	})
}

// HandleList handles GET /api/secrets requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sort, err := models.ParseSortKey(r.URL.Query().Get("sort"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be a positive integer"))
			return
		}
	}

	var after *cursor.Position
	if token := r.URL.Query().Get("cursor"); token != "" {
		pos, err := cursor.Decode(token)
		if err != nil {
			// A malformed cursor restarts the listing rather than failing it.
			h.logger.WarnContext(ctx, "malformed cursor, restarting listing",
				"request_id", requestID,
				"error", err,
			)
			h.analytics.Record(ctx, analytics.Event{Name: analytics.EventMalformedCursor})
		} else {
			after = &pos
		}
	}

	secrets, next, err := h.service.ListSecrets(ctx, service.ListSecretsInput{
		Sort:  sort,
		Limit: limit,
		After: after,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "secret listing failed",
			"request_id", requestID,
			"sort", sort,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ListResponse{
		Secrets:    secrets,
		NextCursor: next,
	})
}

// HandleCreate handles POST /api/secrets requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CreateSecretRequest](w, r, h.logger)
	if !ok {
		return
	}

	secret, err := h.service.CreateSecret(ctx, service.CreateSecretInput{
		Content:   req.Content,
		Darkness:  req.Darkness,
		Username:  req.Username,
		OriginRaw: requestcontext.ClientOrigin(ctx),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "secret creation rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "secret created",
		"request_id", requestID,
		"secret_id", secret.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, secret)
}

// HandleGet handles GET /api/secrets/{id} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	secret, err := h.service.GetSecret(ctx, chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, secret)
}

// HandleAction handles POST /api/secrets/{id} requests. The body's action
// field selects between commenting and rating.
func (h *Handler) HandleAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	secretID := chi.URLParam(r, "id")

	req, ok := httputil.DecodeAndPrepare[ActionRequest](w, r, h.logger)
	if !ok {
		return
	}

	switch req.Action {
	case ActionComment:
		comment, err := h.service.AddComment(ctx, service.AddCommentInput{
			SecretID:  secretID,
			Content:   req.Content,
			Username:  req.Username,
			OriginRaw: requestcontext.ClientOrigin(ctx),
		})
		if err != nil {
			h.logger.WarnContext(ctx, "comment rejected",
				"request_id", requestID,
				"secret_id", secretID,
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, comment)

	case ActionRate:
		result, err := h.service.RateDarkness(ctx, secretID, requestcontext.ClientOrigin(ctx), req.Rating)
		if err != nil {
			h.logger.WarnContext(ctx, "rating rejected",
				"request_id", requestID,
				"secret_id", secretID,
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, result)
	}
}
