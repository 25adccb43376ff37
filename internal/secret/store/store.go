// Package store defines the persistence contract for secrets, comments, and
// ratings. Implementations are interface-driven so the service layer can run
// against the in-memory store in tests and PostgreSQL in production without
// rewiring business code.
package store

import (
	"context"

	"darksecrets/internal/secret/cursor"
	"darksecrets/internal/secret/models"
)

// ListQuery describes one page of an ordered listing.
type ListQuery struct {
	Sort  models.SortKey
	Limit int
	// After resumes strictly after a previously returned position. Nil means
	// start from the beginning of the ordering.
	After *cursor.Position
}

// Store owns all three entity types. No other component mutates them.
//
// Error Contract:
// - Return sentinel.ErrNotFound (wrapped) when a referenced secret is absent
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures
//
// Concurrency Contract:
// - UpsertRating serializes the rating write and average recompute per
//   secret; ratings of different secrets proceed independently
// - AddComment appends the comment and increments the owning secret's
//   comment count atomically; readers observe both or neither
type Store interface {
	// CreateSecret persists a new secret together with its seed rating (the
	// author's own darkness value).
	CreateSecret(ctx context.Context, secret *models.Secret, seed models.Rating) error

	// GetSecret returns one secret with its full comment list and rating
	// values.
	GetSecret(ctx context.Context, id string) (*models.Secret, error)

	// ListSecrets returns up to q.Limit secrets in the requested order, each
	// carrying a bounded comment preview. hasMore reports whether items
	// remain after the page.
	ListSecrets(ctx context.Context, q ListQuery) (secrets []*models.Secret, hasMore bool, err error)

	// AddComment appends a comment to its secret and increments the secret's
	// comment count.
	AddComment(ctx context.Context, comment *models.Comment) error

	// UpsertRating inserts the rating or replaces the identity's previous
	// value on the same secret, recomputes the secret's average darkness,
	// and returns the new average.
	UpsertRating(ctx context.Context, rating models.Rating) (averageDarkness int, err error)
}
