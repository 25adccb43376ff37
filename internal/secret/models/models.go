// Package models holds the content-store entities: secrets, their comments,
// and per-identity darkness ratings.
package models

import (
	"time"

	dErrors "darksecrets/pkg/domain-errors"
)

// Validation boundaries. Crowd ratings arrive on a 1-10 scale and are
// stored as value*RatingScale so every persisted rating, including the
// author's self-declared seed, lives on the same 0-100 darkness scale.
const (
	MinContentLength = 10
	MaxDarkness      = 100
	MinRatingInput   = 1
	MaxRatingInput   = 10
	RatingScale      = 10

	DefaultPageLimit    = 20
	MaxPageLimit        = 100
	CommentPreviewLimit = 5
)

// SortKey selects one of the three independent listing orders.
type SortKey string

const (
	SortRecent   SortKey = "recent"
	SortDarkness SortKey = "darkness"
	SortTrending SortKey = "trending"
)

// ParseSortKey validates a caller-supplied sort value. Empty input defaults
// to SortRecent.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "":
		return SortRecent, nil
	case SortRecent, SortDarkness, SortTrending:
		return SortKey(s), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "sort must be one of recent, darkness, trending")
	}
}

// Secret is an anonymously authored post. OriginHash identifies the creating
// origin pseudonymously and is never serialized.
type Secret struct {
	ID              string     `json:"id"`
	Content         string     `json:"content"`
	Darkness        int        `json:"darkness"` // author's self-declared rating, 0-100
	Username        string     `json:"username"`
	OriginHash      string     `json:"-"`
	DarknessRatings []int      `json:"darknessRatings"` // rating values only, identities stay private
	AverageDarkness int        `json:"averageDarkness"`
	CommentCount    int64      `json:"commentCount"`
	CreatedAt       time.Time  `json:"createdAt"`
	Comments        []*Comment `json:"comments"`
}

// TrendingScore ranks a secret by crowd-rated darkness weighted with
// engagement. Comments count double, mirroring how the old likes-based feed
// weighted them.
func (s *Secret) TrendingScore() int64 {
	return int64(s.AverageDarkness) + 2*s.CommentCount
}

// Comment is an immutable child record of a Secret.
type Comment struct {
	ID         string    `json:"id"`
	SecretID   string    `json:"-"`
	Content    string    `json:"content"`
	Username   string    `json:"username"`
	OriginHash string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Rating is one identity's darkness rating of one secret. At most one Rating
// exists per (SecretID, RaterIdentity); resubmission replaces Value in place.
type Rating struct {
	SecretID      string
	RaterIdentity string
	Value         int // 0-100 darkness scale
	SubmittedAt   time.Time
}
