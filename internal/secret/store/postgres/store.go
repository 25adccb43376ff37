// Package postgres provides the durable Store backend.
//
// Rating upserts lock the owning secret row before recomputing the average,
// so the read-modify-write cycle is serialized per secret while secrets stay
// independent of each other. Comment inserts and the comment_count increment
// share one transaction.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver

	"darksecrets/internal/secret/models"
	"darksecrets/internal/secret/store"
	"darksecrets/pkg/platform/sentinel"
	ptx "darksecrets/pkg/platform/tx"
)

//go:embed schema.sql
var schema string

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Store implements store.Store on PostgreSQL via database/sql.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// querier is the read surface shared by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// q prefers a transaction carried in the context so reads can join an
// ambient transaction.
func (s *Store) q(ctx context.Context) querier {
	if t, ok := ptx.From(ctx); ok {
		return t
	}
	return s.db
}

// New creates a PostgreSQL-backed store around an open connection pool.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to the given DSN and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return New(db), nil
}

// EnsureSchema creates the tables and indexes if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateSecret(ctx context.Context, secret *models.Secret, seed models.Rating) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create secret: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO secrets (id, content, darkness, username, origin_hash, average_darkness, comment_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7)
	`, secret.ID, secret.Content, secret.Darkness, secret.Username, secret.OriginHash, seed.Value, secret.CreatedAt)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return fmt.Errorf("secret %s: %w", secret.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert secret: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ratings (secret_id, rater_identity, value, submitted_at)
		VALUES ($1, $2, $3, $4)
	`, seed.SecretID, seed.RaterIdentity, seed.Value, seed.SubmittedAt)
	if err != nil {
		return fmt.Errorf("insert seed rating: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create secret: %w", err)
	}
	return nil
}

func (s *Store) GetSecret(ctx context.Context, id string) (*models.Secret, error) {
	secret, err := s.scanSecret(ctx, id)
	if err != nil {
		return nil, err
	}
	if secret.Comments, err = s.commentsFor(ctx, id, -1); err != nil {
		return nil, err
	}
	if secret.DarknessRatings, err = s.ratingValuesFor(ctx, id); err != nil {
		return nil, err
	}
	return secret, nil
}

func (s *Store) ListSecrets(ctx context.Context, q store.ListQuery) ([]*models.Secret, bool, error) {
	query, args, err := listQuerySQL(q)
	if err != nil {
		return nil, false, err
	}

	rows, err := s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list secrets: %w", err)
	}
	defer rows.Close()

	var secrets []*models.Secret
	for rows.Next() {
		var sec models.Secret
		if err := rows.Scan(&sec.ID, &sec.Content, &sec.Darkness, &sec.Username,
			&sec.AverageDarkness, &sec.CommentCount, &sec.CreatedAt); err != nil {
			return nil, false, fmt.Errorf("scan secret: %w", err)
		}
		secrets = append(secrets, &sec)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("list secrets: %w", err)
	}

	hasMore := len(secrets) > q.Limit
	if hasMore {
		secrets = secrets[:q.Limit]
	}

	for _, sec := range secrets {
		if sec.Comments, err = s.commentsFor(ctx, sec.ID, models.CommentPreviewLimit); err != nil {
			return nil, false, err
		}
		if sec.DarknessRatings, err = s.ratingValuesFor(ctx, sec.ID); err != nil {
			return nil, false, err
		}
	}
	return secrets, hasMore, nil
}

func (s *Store) AddComment(ctx context.Context, comment *models.Comment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin add comment: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO comments (id, secret_id, content, username, origin_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, comment.ID, comment.SecretID, comment.Content, comment.Username, comment.OriginHash, comment.CreatedAt)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return fmt.Errorf("secret %s: %w", comment.SecretID, sentinel.ErrNotFound)
		}
		return fmt.Errorf("insert comment: %w", err)
	}

	// Single-statement increment; no read-then-write.
	res, err := tx.ExecContext(ctx, `UPDATE secrets SET comment_count = comment_count + 1 WHERE id = $1`, comment.SecretID)
	if err != nil {
		return fmt.Errorf("increment comment count: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("secret %s: %w", comment.SecretID, sentinel.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit add comment: %w", err)
	}
	return nil
}

func (s *Store) UpsertRating(ctx context.Context, rating models.Rating) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin rating: %w", err)
	}
	defer tx.Rollback()

	// Lock the secret row first so concurrent ratings of the same secret
	// serialize around the average recompute.
	var locked string
	err = tx.QueryRowContext(ctx, `SELECT id FROM secrets WHERE id = $1 FOR UPDATE`, rating.SecretID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("secret %s: %w", rating.SecretID, sentinel.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("lock secret: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ratings (secret_id, rater_identity, value, submitted_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (secret_id, rater_identity) DO UPDATE SET value = EXCLUDED.value
	`, rating.SecretID, rating.RaterIdentity, rating.Value, rating.SubmittedAt)
	if err != nil {
		return 0, fmt.Errorf("upsert rating: %w", err)
	}

	var average int
	err = tx.QueryRowContext(ctx, `
		UPDATE secrets
		SET average_darkness = (SELECT ROUND(AVG(value))::int FROM ratings WHERE secret_id = $1)
		WHERE id = $1
		RETURNING average_darkness
	`, rating.SecretID).Scan(&average)
	if err != nil {
		return 0, fmt.Errorf("recompute average: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit rating: %w", err)
	}
	return average, nil
}

func (s *Store) scanSecret(ctx context.Context, id string) (*models.Secret, error) {
	var sec models.Secret
	err := s.q(ctx).QueryRowContext(ctx, `
		SELECT id, content, darkness, username, average_darkness, comment_count, created_at
		FROM secrets WHERE id = $1
	`, id).Scan(&sec.ID, &sec.Content, &sec.Darkness, &sec.Username,
		&sec.AverageDarkness, &sec.CommentCount, &sec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("secret %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get secret: %w", err)
	}
	return &sec, nil
}

// commentsFor loads a secret's comments oldest first. A non-negative limit
// bounds the result to the most recent entries.
func (s *Store) commentsFor(ctx context.Context, secretID string, limit int) ([]*models.Comment, error) {
	query := `
		SELECT id, secret_id, content, username, created_at
		FROM comments WHERE secret_id = $1
		ORDER BY created_at ASC, id ASC
	`
	args := []any{secretID}
	if limit >= 0 {
		query = `
			SELECT id, secret_id, content, username, created_at FROM (
				SELECT id, secret_id, content, username, created_at
				FROM comments WHERE secret_id = $1
				ORDER BY created_at DESC, id DESC
				LIMIT $2
			) preview
			ORDER BY created_at ASC, id ASC
		`
		args = append(args, limit)
	}

	rows, err := s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.SecretID, &c.Content, &c.Username, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

func (s *Store) ratingValuesFor(ctx context.Context, secretID string) ([]int, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT value FROM ratings WHERE secret_id = $1
		ORDER BY submitted_at ASC, rater_identity ASC
	`, secretID)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	defer rows.Close()

	values := []int{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// listQuerySQL builds the keyset-paginated listing statement. It fetches one
// row beyond the limit so the caller can tell whether more pages remain.
func listQuerySQL(q store.ListQuery) (string, []any, error) {
	base := `
		SELECT id, content, darkness, username, average_darkness, comment_count, created_at
		FROM secrets
	`
	fetch := q.Limit + 1

	switch q.Sort {
	case models.SortRecent:
		if q.After == nil {
			return base + ` ORDER BY created_at DESC, id ASC LIMIT $1`, []any{fetch}, nil
		}
		return base + `
			WHERE created_at < $1 OR (created_at = $1 AND id > $2)
			ORDER BY created_at DESC, id ASC LIMIT $3
		`, []any{q.After.CreatedAt, q.After.ID, fetch}, nil

	case models.SortDarkness:
		if q.After == nil {
			return base + ` ORDER BY darkness DESC, id ASC LIMIT $1`, []any{fetch}, nil
		}
		return base + `
			WHERE darkness < $1 OR (darkness = $1 AND id > $2)
			ORDER BY darkness DESC, id ASC LIMIT $3
		`, []any{q.After.Score, q.After.ID, fetch}, nil

	case models.SortTrending:
		if q.After == nil {
			return base + ` ORDER BY (average_darkness + 2 * comment_count) DESC, id ASC LIMIT $1`,
				[]any{fetch}, nil
		}
		return base + `
			WHERE (average_darkness + 2 * comment_count) < $1
			   OR ((average_darkness + 2 * comment_count) = $1 AND id > $2)
			ORDER BY (average_darkness + 2 * comment_count) DESC, id ASC LIMIT $3
		`, []any{q.After.Score, q.After.ID, fetch}, nil

	default:
		return "", nil, fmt.Errorf("unknown sort key %q", q.Sort)
	}
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
