package test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"darksecrets/internal/contentfilter"
	"darksecrets/internal/identity"
	"darksecrets/internal/platform/middleware"
	"darksecrets/internal/ratelimit"
	"darksecrets/internal/secret/handler"
	"darksecrets/internal/secret/service"
	"darksecrets/internal/secret/store/memory"
	"darksecrets/pkg/testutil"
)

// newAPI wires the full stack the way main does, on the in-memory store.
func newAPI(writeLimit int) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hasher := identity.NewHasher("e2e-secret")
	svc := service.New(memory.New(), contentfilter.New(), hasher, logger, nil, nil)
	limiter := ratelimit.New(ratelimit.NewInMemoryStore(), writeLimit, time.Minute)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.ClientOrigin)
	router.Use(middleware.Recovery(logger))
	handler.New(svc, logger, nil).Register(router, middleware.Throttle(limiter, hasher, logger, nil, nil))
	return router
}

func do(t *testing.T, router http.Handler, req *http.Request, origin string) *httptest.ResponseRecorder {
	t.Helper()
	if origin != "" {
		req.Header.Set("X-Forwarded-For", origin)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSecretLifecycle(t *testing.T) {
	router := newAPI(100)
	var secretID string

	testutil.Given(t, "a freshly posted secret", func(t *testing.T) {
		rec := do(t, router, testutil.NewJSONRequest(t, http.MethodPost, "/api/secrets", map[string]any{
			"content":  "I read my sibling's diary every week",
			"darkness": 60,
		}), "203.0.113.1")
		testutil.AssertStatus(t, rec, http.StatusCreated)

		created := *testutil.UnmarshalResponse[map[string]any](t, rec)
		secretID = created["id"].(string)
		require.NotEmpty(t, secretID)
		require.Equal(t, float64(60), created["averageDarkness"])
		require.NotEmpty(t, created["username"], "missing username gets a generated alias")
	})

	testutil.When(t, "other readers rate it", func(t *testing.T) {
		for _, tc := range []struct {
			origin string
			rating int
			want   float64
		}{
			{origin: "203.0.113.2", rating: 8, want: 70}, // (60+80)/2
			{origin: "203.0.113.3", rating: 10, want: 80}, // (60+80+100)/3
		} {
			rec := do(t, router, testutil.NewJSONRequest(t, http.MethodPost, "/api/secrets/"+secretID, map[string]any{
				"action": "rate",
				"rating": tc.rating,
			}), tc.origin)
			testutil.AssertStatusOK(t, rec)
			testutil.AssertJSONContains(t, rec, "averageRating", tc.want)
		}
	})

	testutil.When(t, "a rater changes their mind", func(t *testing.T) {
		rec := do(t, router, testutil.NewJSONRequest(t, http.MethodPost, "/api/secrets/"+secretID, map[string]any{
			"action": "rate",
			"rating": 2,
		}), "203.0.113.3")
		testutil.AssertStatusOK(t, rec)
		// (60+80+20)/3 rounds to 53; the old 100 is replaced, not kept.
		testutil.AssertJSONContains(t, rec, "averageRating", float64(53))
	})

	testutil.When(t, "someone comments", func(t *testing.T) {
		rec := do(t, router, testutil.NewJSONRequest(t, http.MethodPost, "/api/secrets/"+secretID, map[string]any{
			"action":   "comment",
			"content":  "been there",
			"username": "quietFox",
		}), "203.0.113.4")
		testutil.AssertStatus(t, rec, http.StatusCreated)
		testutil.AssertJSONContains(t, rec, "username", "quietFox")
	})

	testutil.Then(t, "the detail view reflects everything", func(t *testing.T) {
		rec := do(t, router, testutil.NewRequest(t, http.MethodGet, "/api/secrets/"+secretID), "")
		testutil.AssertStatusOK(t, rec)

		detail := *testutil.UnmarshalResponse[map[string]any](t, rec)
		require.Equal(t, float64(53), detail["averageDarkness"])
		require.Equal(t, float64(1), detail["commentCount"])
		require.Len(t, detail["darknessRatings"], 3)
		require.NotContains(t, rec.Body.String(), "originHash")
	})

	testutil.Then(t, "the listing includes it", func(t *testing.T) {
		rec := do(t, router, testutil.NewRequest(t, http.MethodGet, "/api/secrets?sort=trending"), "")
		testutil.AssertStatusOK(t, rec)

		var listing struct {
			Secrets []map[string]any `json:"secrets"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
		require.Len(t, listing.Secrets, 1)
		require.Equal(t, secretID, listing.Secrets[0]["id"])
	})
}

func TestContentFilterVetoesWrites(t *testing.T) {
	router := newAPI(100)

	rec := do(t, router, testutil.NewJSONRequest(t, http.MethodPost, "/api/secrets", map[string]any{
		"content":  "message me at secret@example.com tonight",
		"darkness": 50,
	}), "203.0.113.1")

	testutil.AssertStatusAndError(t, rec, http.StatusBadRequest, "content_rejected")
}

func TestWriteThrottlePerOrigin(t *testing.T) {
	router := newAPI(2)

	post := func(origin string) *httptest.ResponseRecorder {
		return do(t, router, testutil.NewJSONRequest(t, http.MethodPost, "/api/secrets", map[string]any{
			"content":  "a confession long enough to pass",
			"darkness": 40,
		}), origin)
	}

	testutil.Given(t, "an origin that used its write budget", func(t *testing.T) {
		post("203.0.113.9")
		post("203.0.113.9")

		testutil.When(t, "it posts again", func(t *testing.T) {
			testutil.AssertStatus(t, post("203.0.113.9"), http.StatusTooManyRequests)
		})

		testutil.Then(t, "other origins and reads are unaffected", func(t *testing.T) {
			testutil.AssertStatus(t, post("203.0.113.10"), http.StatusCreated)
			rec := do(t, router, testutil.NewRequest(t, http.MethodGet, "/api/secrets"), "203.0.113.9")
			testutil.AssertStatusOK(t, rec)
		})
	})
}
