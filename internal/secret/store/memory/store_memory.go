// Package memory provides the in-memory Store backend. It favors clarity
// over performance and is the default for development and tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"darksecrets/internal/secret/cursor"
	"darksecrets/internal/secret/models"
	"darksecrets/internal/secret/store"
	"darksecrets/pkg/platform/sentinel"
)

// record holds one secret with its ratings and comments. The base secret
// fields are immutable after creation; mu serializes rating read-modify-write
// cycles and comment appends for this secret only, so writes to different
// secrets never contend.
type record struct {
	mu       sync.Mutex
	secret   models.Secret
	ratings  map[string]models.Rating // keyed by rater identity
	comments []*models.Comment        // append-only, createdAt ascending

	// average is published atomically so index comparators can read it
	// without taking mu.
	average      atomic.Int64
	commentCount atomic.Int64
}

func (r *record) trendingScore() int64 {
	return r.average.Load() + 2*r.commentCount.Load()
}

// snapshot copies the record into an API-facing Secret. previewLimit bounds
// the comment list to the most recent entries; a negative limit returns all
// comments. Reading under mu keeps the comment list and comment count
// consistent with each other.
func (r *record) snapshot(previewLimit int) *models.Secret {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.secret
	s.AverageDarkness = int(r.average.Load())
	s.CommentCount = int64(len(r.comments))

	s.DarknessRatings = make([]int, 0, len(r.ratings))
	for _, rating := range sortedRatings(r.ratings) {
		s.DarknessRatings = append(s.DarknessRatings, rating.Value)
	}

	comments := r.comments
	if previewLimit >= 0 && len(comments) > previewLimit {
		comments = comments[len(comments)-previewLimit:]
	}
	s.Comments = make([]*models.Comment, len(comments))
	for i, c := range comments {
		cc := *c
		s.Comments[i] = &cc
	}
	return &s
}

// sortedRatings orders ratings by submission time so rating value lists are
// deterministic, with the author's seed first.
func sortedRatings(ratings map[string]models.Rating) []models.Rating {
	out := make([]models.Rating, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.Before(out[j].SubmittedAt)
		}
		return out[i].RaterIdentity < out[j].RaterIdentity
	})
	return out
}

// Store keeps the primary record map plus one materialized ordering per sort
// key. The recent and darkness orderings are fixed at creation; the trending
// ordering is repositioned whenever a rating or comment changes a secret's
// score.
type Store struct {
	mu      sync.RWMutex
	secrets map[string]*record

	recent   []*record
	darkness []*record
	trending []*record
}

var _ store.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{secrets: make(map[string]*record)}
}

func (s *Store) CreateSecret(_ context.Context, secret *models.Secret, seed models.Rating) error {
	rec := &record{
		secret:  *secret,
		ratings: map[string]models.Rating{seed.RaterIdentity: seed},
	}
	rec.secret.Comments = nil
	rec.secret.DarknessRatings = nil
	rec.average.Store(int64(seed.Value))

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.secrets[secret.ID]; exists {
		return fmt.Errorf("secret %s: %w", secret.ID, sentinel.ErrConflict)
	}
	s.secrets[secret.ID] = rec
	s.recent = insertSorted(s.recent, rec, lessRecent)
	s.darkness = insertSorted(s.darkness, rec, lessDarkness)
	s.trending = insertSorted(s.trending, rec, lessTrending)
	return nil
}

func (s *Store) GetSecret(_ context.Context, id string) (*models.Secret, error) {
	rec, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return rec.snapshot(-1), nil
}

func (s *Store) ListSecrets(_ context.Context, q store.ListQuery) ([]*models.Secret, bool, error) {
	s.mu.RLock()
	var index []*record
	switch q.Sort {
	case models.SortRecent:
		index = slices.Clone(s.recent)
	case models.SortDarkness:
		index = slices.Clone(s.darkness)
	case models.SortTrending:
		index = slices.Clone(s.trending)
	default:
		s.mu.RUnlock()
		return nil, false, fmt.Errorf("unknown sort key %q", q.Sort)
	}
	s.mu.RUnlock()

	secrets := make([]*models.Secret, 0, q.Limit)
	hasMore := false
	for _, rec := range index {
		if q.After != nil && !afterPosition(q.Sort, rec, q.After) {
			continue
		}
		if len(secrets) == q.Limit {
			hasMore = true
			break
		}
		secrets = append(secrets, rec.snapshot(models.CommentPreviewLimit))
	}
	return secrets, hasMore, nil
}

func (s *Store) AddComment(_ context.Context, comment *models.Comment) error {
	rec, err := s.lookup(comment.SecretID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	cc := *comment
	rec.comments = append(rec.comments, &cc)
	rec.commentCount.Add(1)
	rec.mu.Unlock()

	s.repositionTrending(rec)
	return nil
}

func (s *Store) UpsertRating(_ context.Context, rating models.Rating) (int, error) {
	rec, err := s.lookup(rating.SecretID)
	if err != nil {
		return 0, err
	}

	rec.mu.Lock()
	if prev, ok := rec.ratings[rating.RaterIdentity]; ok {
		// Re-rating keeps the original submission time so value ordering
		// stays stable.
		rating.SubmittedAt = prev.SubmittedAt
	}
	rec.ratings[rating.RaterIdentity] = rating
	values := make([]int, 0, len(rec.ratings))
	for _, r := range rec.ratings {
		values = append(values, r.Value)
	}
	average, err := models.AverageDarkness(values)
	if err != nil {
		rec.mu.Unlock()
		return 0, fmt.Errorf("recompute average for %s: %w", rating.SecretID, err)
	}
	rec.average.Store(int64(average))
	rec.mu.Unlock()

	s.repositionTrending(rec)
	return average, nil
}

func (s *Store) lookup(id string) (*record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.secrets[id]
	if !ok {
		return nil, fmt.Errorf("secret %s: %w", id, sentinel.ErrNotFound)
	}
	return rec, nil
}

// repositionTrending moves a record to its sorted slot after its score
// changed. The index lock is held only for the splice.
func (s *Store) repositionTrending(rec *record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.trending, rec); i >= 0 {
		s.trending = slices.Delete(s.trending, i, i+1)
	}
	s.trending = insertSorted(s.trending, rec, lessTrending)
}

// Orderings are descending by their key with id ascending as tiebreak, so
// pagination is deterministic.

func lessRecent(a, b *record) bool {
	if !a.secret.CreatedAt.Equal(b.secret.CreatedAt) {
		return a.secret.CreatedAt.After(b.secret.CreatedAt)
	}
	return a.secret.ID < b.secret.ID
}

func lessDarkness(a, b *record) bool {
	if a.secret.Darkness != b.secret.Darkness {
		return a.secret.Darkness > b.secret.Darkness
	}
	return a.secret.ID < b.secret.ID
}

func lessTrending(a, b *record) bool {
	as, bs := a.trendingScore(), b.trendingScore()
	if as != bs {
		return as > bs
	}
	return a.secret.ID < b.secret.ID
}

func insertSorted(index []*record, rec *record, less func(a, b *record) bool) []*record {
	i := sort.Search(len(index), func(i int) bool { return less(rec, index[i]) })
	return slices.Insert(index, i, rec)
}

// afterPosition reports whether rec sorts strictly after the cursor position
// in the given ordering.
func afterPosition(sortKey models.SortKey, rec *record, pos *cursor.Position) bool {
	switch sortKey {
	case models.SortRecent:
		if !rec.secret.CreatedAt.Equal(pos.CreatedAt) {
			return rec.secret.CreatedAt.Before(pos.CreatedAt)
		}
	case models.SortDarkness:
		if v := int64(rec.secret.Darkness); v != pos.Score {
			return v < pos.Score
		}
	case models.SortTrending:
		if v := rec.trendingScore(); v != pos.Score {
			return v < pos.Score
		}
	}
	return strings.Compare(rec.secret.ID, pos.ID) > 0
}
