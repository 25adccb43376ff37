// Package identity derives stable pseudonymous tokens from request origins.
//
// The token is a keyed hash, so it cannot be reversed to the raw origin and
// cannot be recomputed without the server secret. It is used only to
// deduplicate darkness ratings and to key the request rate limiter; it is
// never exposed in API responses.
package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Hasher produces origin hashes with a fixed server secret.
type Hasher struct {
	secret []byte
}

// NewHasher creates a Hasher keyed by the given server secret.
func NewHasher(secret string) *Hasher {
	return &Hasher{secret: []byte(secret)}
}

// Hash returns the hex-encoded HMAC-SHA256 of the raw origin string.
// The same origin always yields the same token for a given secret.
func (h *Hasher) Hash(originRaw string) string {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(originRaw))
	return hex.EncodeToString(mac.Sum(nil))
}
