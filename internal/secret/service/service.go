// Package service implements the content-store operations: create, read,
// paginate, comment, and rate. It validates input, consults the content
// filter and identity hasher, and delegates persistence to a Store.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"darksecrets/internal/alias"
	"darksecrets/internal/analytics"
	"darksecrets/internal/secret/cursor"
	"darksecrets/internal/secret/metrics"
	"darksecrets/internal/secret/models"
	"darksecrets/internal/secret/store"
	dErrors "darksecrets/pkg/domain-errors"
	"darksecrets/pkg/platform/sentinel"
)

// Filter is the content-safety predicate consulted before any write.
type Filter interface {
	IsUnsafe(text string) bool
}

// Hasher derives pseudonymous identity tokens from raw origins.
type Hasher interface {
	Hash(originRaw string) string
}

// Service orchestrates the content store. Persistence invariants live in the
// Store; this layer owns validation and error translation.
type Service struct {
	store     store.Store
	filter    Filter
	hasher    Hasher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	analytics analytics.Recorder
	tracer    trace.Tracer

	now   func() time.Time
	newID func() string
}

// New creates a Service. metrics may be nil; analytics may be a Noop.
func New(
	st store.Store,
	filter Filter,
	hasher Hasher,
	logger *slog.Logger,
	m *metrics.Metrics,
	rec analytics.Recorder,
) *Service {
	if rec == nil {
		rec = analytics.Noop{}
	}
	return &Service{
		store:     st,
		filter:    filter,
		hasher:    hasher,
		logger:    logger,
		metrics:   m,
		analytics: rec,
		tracer:    otel.Tracer("darksecrets/internal/secret/service"),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// CreateSecretInput carries the caller-supplied fields for a new secret.
type CreateSecretInput struct {
	Content   string
	Darkness  int
	Username  string
	OriginRaw string
}

// CreateSecret validates and persists a new secret. The rating set is seeded
// with the author's own darkness value so the average is always defined.
func (s *Service) CreateSecret(ctx context.Context, in CreateSecretInput) (*models.Secret, error) {
	ctx, span := s.tracer.Start(ctx, "secret.Create")
	defer span.End()
	defer s.observe("create_secret", s.now())

	if utf8.RuneCountInString(in.Content) < models.MinContentLength {
		s.metrics.IncRejected("validation")
		return nil, dErrors.New(dErrors.CodeValidation, "secret must be at least 10 characters long")
	}
	if in.Darkness < 0 || in.Darkness > models.MaxDarkness {
		s.metrics.IncRejected("validation")
		return nil, dErrors.New(dErrors.CodeValidation, "darkness must be between 0 and 100")
	}
	if s.filter.IsUnsafe(in.Content) {
		s.metrics.IncRejected("content")
		return nil, dErrors.New(dErrors.CodeContentRejected, "secret contains a link, email, or phone number")
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		username = alias.Generate()
	}

	now := s.now()
	secret := &models.Secret{
		ID:         s.newID(),
		Content:    in.Content,
		Darkness:   in.Darkness,
		Username:   username,
		OriginHash: s.hasher.Hash(in.OriginRaw),
		CreatedAt:  now,
	}
	seed := models.Rating{
		SecretID:      secret.ID,
		RaterIdentity: secret.OriginHash,
		Value:         in.Darkness,
		SubmittedAt:   now,
	}

	if err := s.store.CreateSecret(ctx, secret, seed); err != nil {
		return nil, s.translateStoreErr(ctx, err, "secret")
	}

	if s.metrics != nil {
		s.metrics.SecretsCreated.Inc()
	}
	s.analytics.Record(ctx, analytics.Event{Name: analytics.EventSecretCreated, SecretID: secret.ID})

	created := *secret
	created.DarknessRatings = []int{in.Darkness}
	created.AverageDarkness = in.Darkness
	created.Comments = []*models.Comment{}
	return &created, nil
}

// GetSecret returns one secret with its full comment list.
func (s *Service) GetSecret(ctx context.Context, id string) (*models.Secret, error) {
	ctx, span := s.tracer.Start(ctx, "secret.Get")
	defer span.End()
	defer s.observe("get_secret", s.now())

	secret, err := s.store.GetSecret(ctx, id)
	if err != nil {
		return nil, s.translateStoreErr(ctx, err, "secret")
	}
	return secret, nil
}

// ListSecretsInput selects the ordering and page of a listing.
type ListSecretsInput struct {
	Sort  models.SortKey
	Limit int
	// After is the decoded continuation position; nil starts from the top.
	After *cursor.Position
}

// ListSecrets returns one page plus the encoded cursor for the next page, or
// an empty cursor when the listing is exhausted.
func (s *Service) ListSecrets(ctx context.Context, in ListSecretsInput) ([]*models.Secret, string, error) {
	ctx, span := s.tracer.Start(ctx, "secret.List")
	defer span.End()
	defer s.observe("list_secrets", s.now())

	limit := in.Limit
	if limit <= 0 {
		limit = models.DefaultPageLimit
	}
	if limit > models.MaxPageLimit {
		limit = models.MaxPageLimit
	}
	if in.After != nil && in.After.Sort != in.Sort {
		// A cursor from a different ordering cannot position this one.
		s.logger.WarnContext(ctx, "cursor sort mismatch, restarting listing",
			"cursor_sort", in.After.Sort,
			"requested_sort", in.Sort,
		)
		in.After = nil
	}

	secrets, hasMore, err := s.store.ListSecrets(ctx, store.ListQuery{Sort: in.Sort, Limit: limit, After: in.After})
	if err != nil {
		return nil, "", s.translateStoreErr(ctx, err, "secret")
	}

	next := ""
	if hasMore && len(secrets) > 0 {
		next = cursor.Encode(cursor.FromSecret(in.Sort, secrets[len(secrets)-1]))
	}
	return secrets, next, nil
}

// AddCommentInput carries the caller-supplied fields for a new comment.
type AddCommentInput struct {
	SecretID  string
	Content   string
	Username  string
	OriginRaw string
}

// AddComment appends a comment; the owning secret's comment count moves with
// it atomically.
func (s *Service) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	ctx, span := s.tracer.Start(ctx, "secret.AddComment")
	defer span.End()
	defer s.observe("add_comment", s.now())

	if strings.TrimSpace(in.Content) == "" {
		s.metrics.IncRejected("validation")
		return nil, dErrors.New(dErrors.CodeValidation, "comment content is required")
	}
	if s.filter.IsUnsafe(in.Content) {
		s.metrics.IncRejected("content")
		return nil, dErrors.New(dErrors.CodeContentRejected, "comment contains a link, email, or phone number")
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		username = alias.Generate()
	}

	comment := &models.Comment{
		ID:         s.newID(),
		SecretID:   in.SecretID,
		Content:    in.Content,
		Username:   username,
		OriginHash: s.hasher.Hash(in.OriginRaw),
		CreatedAt:  s.now(),
	}

	if err := s.store.AddComment(ctx, comment); err != nil {
		return nil, s.translateStoreErr(ctx, err, "secret")
	}

	if s.metrics != nil {
		s.metrics.CommentsAdded.Inc()
	}
	s.analytics.Record(ctx, analytics.Event{Name: analytics.EventCommentAdded, SecretID: in.SecretID})
	return comment, nil
}

// RateResult reports a submitted rating and the resulting aggregate.
type RateResult struct {
	Rating          int `json:"rating"`
	AverageDarkness int `json:"averageRating"`
}

// RateDarkness records one identity's crowd rating. Value arrives on the
// 1-10 scale and is stored scaled to the 0-100 darkness scale; a repeat
// rating from the same origin replaces the previous value.
func (s *Service) RateDarkness(ctx context.Context, secretID, originRaw string, value int) (RateResult, error) {
	ctx, span := s.tracer.Start(ctx, "secret.Rate")
	defer span.End()
	defer s.observe("rate_darkness", s.now())

	if value < models.MinRatingInput || value > models.MaxRatingInput {
		s.metrics.IncRejected("validation")
		return RateResult{}, dErrors.New(dErrors.CodeValidation, "rating must be between 1 and 10")
	}

	rating := models.Rating{
		SecretID:      secretID,
		RaterIdentity: s.hasher.Hash(originRaw),
		Value:         value * models.RatingScale,
		SubmittedAt:   s.now(),
	}

	average, err := s.store.UpsertRating(ctx, rating)
	if err != nil {
		return RateResult{}, s.translateStoreErr(ctx, err, "secret")
	}

	if s.metrics != nil {
		s.metrics.RatingsSubmitted.Inc()
	}
	s.analytics.Record(ctx, analytics.Event{Name: analytics.EventRatingSubmitted, SecretID: secretID})
	return RateResult{Rating: value, AverageDarkness: average}, nil
}

func (s *Service) observe(op string, start time.Time) {
	s.metrics.ObserveOp(op, s.now().Sub(start))
}

// translateStoreErr maps sentinel store errors onto the domain taxonomy and
// keeps infrastructure failures behind CodeInternal.
func (s *Service) translateStoreErr(ctx context.Context, err error, entity string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(dErrors.CodeNotFound, entity+" not found", err)
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(dErrors.CodeConflict, "concurrent update conflict", err)
	default:
		s.logger.ErrorContext(ctx, "store operation failed", "error", err)
		return dErrors.Wrap(dErrors.CodeInternal, "storage failure", err)
	}
}
