// Package cursor encodes listing positions as opaque continuation tokens.
//
// A token captures the sort key plus the sort value and id of the last item
// returned, so a follow-up query resumes strictly after that position even
// when items were inserted in between. Tokens are base64url-encoded JSON and
// survive round-tripping through URL query parameters.
package cursor

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"darksecrets/internal/secret/models"
)

// Position is the decoded resume point for a listing.
type Position struct {
	Sort models.SortKey `json:"s"`
	// CreatedAt positions SortRecent listings.
	CreatedAt time.Time `json:"t,omitzero"`
	// Score positions SortDarkness (self darkness) and SortTrending
	// (trending score) listings.
	Score int64 `json:"v,omitempty"`
	// ID breaks ties deterministically; listings order ties by id ascending.
	ID string `json:"id"`
}

// FromSecret captures the position of the last secret on a page under the
// given sort order.
func FromSecret(sort models.SortKey, s *models.Secret) Position {
	pos := Position{Sort: sort, ID: s.ID}
	switch sort {
	case models.SortRecent:
		pos.CreatedAt = s.CreatedAt
	case models.SortDarkness:
		pos.Score = int64(s.Darkness)
	case models.SortTrending:
		pos.Score = s.TrendingScore()
	}
	return pos
}

// Encode renders a position as an opaque URL-safe token.
func Encode(pos Position) string {
	raw, err := json.Marshal(pos)
	if err != nil {
		// Position has no unmarshalable fields; this cannot happen.
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// Decode parses a token back into a position. Callers treat a decode error
// as "no cursor" after logging it; an unparseable token must never fail the
// read path.
func Decode(token string) (Position, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Position{}, fmt.Errorf("decode cursor: %w", err)
	}
	var pos Position
	if err := json.Unmarshal(raw, &pos); err != nil {
		return Position{}, fmt.Errorf("parse cursor: %w", err)
	}
	switch pos.Sort {
	case models.SortRecent, models.SortDarkness, models.SortTrending:
	default:
		return Position{}, fmt.Errorf("cursor has unknown sort %q", pos.Sort)
	}
	if pos.ID == "" {
		return Position{}, fmt.Errorf("cursor missing id")
	}
	return pos, nil
}
