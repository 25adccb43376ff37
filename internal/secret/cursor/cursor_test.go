package cursor

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darksecrets/internal/secret/models"
)

func TestRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	secret := &models.Secret{
		ID:              "sec_42",
		Darkness:        85,
		AverageDarkness: 70,
		CommentCount:    3,
		CreatedAt:       created,
	}

	for _, sort := range []models.SortKey{models.SortRecent, models.SortDarkness, models.SortTrending} {
		pos := FromSecret(sort, secret)
		decoded, err := Decode(Encode(pos))
		require.NoError(t, err, string(sort))
		assert.Equal(t, pos, decoded)
	}
}

func TestFromSecretValues(t *testing.T) {
	secret := &models.Secret{ID: "sec_1", Darkness: 85, AverageDarkness: 70, CommentCount: 3, CreatedAt: time.Now()}

	assert.Equal(t, secret.CreatedAt, FromSecret(models.SortRecent, secret).CreatedAt)
	assert.Equal(t, int64(85), FromSecret(models.SortDarkness, secret).Score)
	assert.Equal(t, int64(76), FromSecret(models.SortTrending, secret).Score)
}

func TestTokenIsURLSafe(t *testing.T) {
	pos := FromSecret(models.SortRecent, &models.Secret{ID: "sec_1", CreatedAt: time.Now()})
	token := Encode(pos)
	assert.Equal(t, token, url.QueryEscape(token))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, token := range []string{
		"not base64!!",
		"bm90IGpzb24",              // base64 of "not json"
		"e30",                      // base64 of "{}"
		"eyJzIjoiYm9ndXMiLCJpZCI6IngifQ", // unknown sort key
	} {
		_, err := Decode(token)
		assert.Error(t, err, token)
	}
}

func TestDecodeRejectsMissingID(t *testing.T) {
	token := Encode(Position{Sort: models.SortRecent})
	_, err := Decode(token)
	assert.Error(t, err)
}
