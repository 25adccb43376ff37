package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	"darksecrets/internal/contentfilter"
	"darksecrets/internal/identity"
	"darksecrets/internal/secret/cursor"
	"darksecrets/internal/secret/models"
	"darksecrets/internal/secret/store/memory"
	dErrors "darksecrets/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite

	svc   *Service
	clock time.Time
	seq   int
	mu    sync.Mutex
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.clock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.seq = 0

	s.svc = New(memory.New(), contentfilter.New(), identity.NewHasher("test-hash-secret"), logger, nil, nil)
	s.svc.now = func() time.Time {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.clock = s.clock.Add(time.Second)
		return s.clock
	}
	s.svc.newID = func() string {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.seq++
		return fmt.Sprintf("id_%03d", s.seq)
	}
}

func (s *ServiceSuite) create(content string, darkness int, origin string) *models.Secret {
	secret, err := s.svc.CreateSecret(context.Background(), CreateSecretInput{
		Content:   content,
		Darkness:  darkness,
		OriginRaw: origin,
	})
	s.Require().NoError(err)
	return secret
}

func (s *ServiceSuite) TestCreateSeedsAverageWithAuthorDarkness() {
	secret := s.create("I never returned the library book", 70, "10.0.0.1")

	s.Equal(70, secret.AverageDarkness)
	s.Equal([]int{70}, secret.DarknessRatings)
	s.NotEmpty(secret.Username, "a generated alias should fill the missing username")
	s.Empty(secret.Comments)
}

func (s *ServiceSuite) TestCreateRejectsShortContent() {
	_, err := s.svc.CreateSecret(context.Background(), CreateSecretInput{Content: "too short", Darkness: 50})

	s.Require().Error(err)
	s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestCreateRejectsOutOfRangeDarkness() {
	for _, darkness := range []int{-1, 101} {
		_, err := s.svc.CreateSecret(context.Background(), CreateSecretInput{
			Content:  "a confession long enough to pass",
			Darkness: darkness,
		})
		s.Require().Error(err)
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
	}
}

func (s *ServiceSuite) TestCreateRejectsIdentifyingContent() {
	cases := []string{
		"find me at https://example.com/profile",
		"write to me at someone@example.com please",
		"call me on 555-867-5309 after dark",
	}
	for _, content := range cases {
		_, err := s.svc.CreateSecret(context.Background(), CreateSecretInput{Content: content, Darkness: 40})
		s.Require().Error(err, content)
		s.Equal(dErrors.CodeContentRejected, dErrors.CodeOf(err), content)
	}
}

func (s *ServiceSuite) TestCreateKeepsSuppliedUsername() {
	secret, err := s.svc.CreateSecret(context.Background(), CreateSecretInput{
		Content:  "a confession long enough to pass",
		Darkness: 30,
		Username: "NightOwl",
	})
	s.Require().NoError(err)
	s.Equal("NightOwl", secret.Username)
}

func (s *ServiceSuite) TestGetSecretNotFound() {
	_, err := s.svc.GetSecret(context.Background(), "missing")

	s.Require().Error(err)
	s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestRateScalesInputAndRecomputesAverage() {
	secret := s.create("I never returned the library book", 40, "author")

	res, err := s.svc.RateDarkness(context.Background(), secret.ID, "rater-1", 8)
	s.Require().NoError(err)

	s.Equal(8, res.Rating)
	// Seed 40 plus 8*10 averages to 60.
	s.Equal(60, res.AverageDarkness)
}

func (s *ServiceSuite) TestRateRejectsOutOfRangeValue() {
	secret := s.create("I never returned the library book", 40, "author")

	for _, value := range []int{0, 11, -3} {
		_, err := s.svc.RateDarkness(context.Background(), secret.ID, "rater-1", value)
		s.Require().Error(err)
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
	}
}

func (s *ServiceSuite) TestRateSameOriginReplacesPreviousRating() {
	secret := s.create("I never returned the library book", 40, "author")

	_, err := s.svc.RateDarkness(context.Background(), secret.ID, "rater-1", 2)
	s.Require().NoError(err)

	res, err := s.svc.RateDarkness(context.Background(), secret.ID, "rater-1", 10)
	s.Require().NoError(err)

	// (40 + 100) / 2, not (40 + 20 + 100) / 3.
	s.Equal(70, res.AverageDarkness)

	stored, err := s.svc.GetSecret(context.Background(), secret.ID)
	s.Require().NoError(err)
	s.Len(stored.DarknessRatings, 2)
}

func (s *ServiceSuite) TestRateMissingSecret() {
	_, err := s.svc.RateDarkness(context.Background(), "missing", "rater-1", 5)

	s.Require().Error(err)
	s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestConcurrentRatersAllCounted() {
	secret := s.create("I never returned the library book", 50, "author")

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 25; i++ {
		origin := fmt.Sprintf("rater-%d", i)
		g.Go(func() error {
			_, err := s.svc.RateDarkness(ctx, secret.ID, origin, 7)
			return err
		})
	}
	s.Require().NoError(g.Wait())

	stored, err := s.svc.GetSecret(context.Background(), secret.ID)
	s.Require().NoError(err)
	s.Len(stored.DarknessRatings, 26)
	// (50 + 25*70) / 26 = 69.23, rounded half up.
	s.Equal(69, stored.AverageDarkness)
}

func (s *ServiceSuite) TestAddCommentRequiresContent() {
	secret := s.create("I never returned the library book", 40, "author")

	_, err := s.svc.AddComment(context.Background(), AddCommentInput{SecretID: secret.ID, Content: "   "})
	s.Require().Error(err)
	s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestAddCommentFiltersContent() {
	secret := s.create("I never returned the library book", 40, "author")

	_, err := s.svc.AddComment(context.Background(), AddCommentInput{
		SecretID: secret.ID,
		Content:  "dm me at www.example.com",
	})
	s.Require().Error(err)
	s.Equal(dErrors.CodeContentRejected, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestAddCommentMissingSecret() {
	_, err := s.svc.AddComment(context.Background(), AddCommentInput{SecretID: "missing", Content: "so relatable"})

	s.Require().Error(err)
	s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestAddCommentIncrementsCount() {
	secret := s.create("I never returned the library book", 40, "author")

	for i := 0; i < 3; i++ {
		_, err := s.svc.AddComment(context.Background(), AddCommentInput{
			SecretID: secret.ID,
			Content:  fmt.Sprintf("comment number %d", i),
		})
		s.Require().NoError(err)
	}

	stored, err := s.svc.GetSecret(context.Background(), secret.ID)
	s.Require().NoError(err)
	s.Equal(int64(3), stored.CommentCount)
	s.Len(stored.Comments, 3)
}

func (s *ServiceSuite) TestListDefaultsAndClampsLimit() {
	for i := 0; i < 25; i++ {
		s.create(fmt.Sprintf("secret number %d padded for length", i), 10, fmt.Sprintf("o%d", i))
	}

	page, next, err := s.svc.ListSecrets(context.Background(), ListSecretsInput{Sort: models.SortRecent})
	s.Require().NoError(err)
	s.Len(page, models.DefaultPageLimit)
	s.NotEmpty(next)

	page, _, err = s.svc.ListSecrets(context.Background(), ListSecretsInput{Sort: models.SortRecent, Limit: 500})
	s.Require().NoError(err)
	s.Len(page, 25, "limit clamps to the maximum, which exceeds the dataset here")
}

func (s *ServiceSuite) TestListPaginationWalksWithoutDuplicates() {
	ids := make(map[string]bool)
	for i := 0; i < 7; i++ {
		secret := s.create(fmt.Sprintf("secret number %d padded for length", i), 10*i, fmt.Sprintf("o%d", i))
		ids[secret.ID] = false
	}

	var after *cursor.Position
	pages := 0
	for {
		page, next, err := s.svc.ListSecrets(context.Background(), ListSecretsInput{
			Sort:  models.SortDarkness,
			Limit: 3,
			After: after,
		})
		s.Require().NoError(err)
		pages++
		for _, secret := range page {
			s.False(ids[secret.ID], "secret %s seen twice", secret.ID)
			ids[secret.ID] = true
		}
		if next == "" {
			break
		}
		pos, err := cursor.Decode(next)
		s.Require().NoError(err)
		after = &pos
	}

	s.Equal(3, pages)
	for id, seen := range ids {
		s.True(seen, "secret %s never paged", id)
	}
}

func (s *ServiceSuite) TestListIgnoresCursorFromOtherSort() {
	for i := 0; i < 4; i++ {
		s.create(fmt.Sprintf("secret number %d padded for length", i), 10*i, fmt.Sprintf("o%d", i))
	}

	page, next, err := s.svc.ListSecrets(context.Background(), ListSecretsInput{Sort: models.SortRecent, Limit: 2})
	s.Require().NoError(err)
	s.Require().NotEmpty(next)
	pos, err := cursor.Decode(next)
	s.Require().NoError(err)

	// A recent-sort cursor applied to the darkness listing restarts it.
	page, _, err = s.svc.ListSecrets(context.Background(), ListSecretsInput{
		Sort:  models.SortDarkness,
		Limit: 10,
		After: &pos,
	})
	s.Require().NoError(err)
	s.Len(page, 4)
}

func (s *ServiceSuite) TestTrendingPrefersCommentedSecrets() {
	quiet := s.create("a quiet confession nobody reads", 80, "a")
	busy := s.create("a mild confession everyone argues about", 30, "b")

	for i := 0; i < 30; i++ {
		_, err := s.svc.AddComment(context.Background(), AddCommentInput{
			SecretID: busy.ID,
			Content:  fmt.Sprintf("hot take number %d", i),
		})
		s.Require().NoError(err)
	}

	page, _, err := s.svc.ListSecrets(context.Background(), ListSecretsInput{Sort: models.SortTrending, Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal(busy.ID, page[0].ID)
	s.Equal(quiet.ID, page[1].ID)
}
