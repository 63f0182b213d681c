package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/captionly/captionly-be/internal/models"
	"github.com/captionly/captionly-be/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage interfaces at compile time.
var _ storage.Store = (*Store)(nil)

const uniqueViolation = "23505"

// Store provides Postgres-backed persistence for users and captions.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL,
			avatar_url TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL DEFAULT '',
			google_subject TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		// The unique index on email is what makes concurrent first-sign-in
		// find-or-create converge on a single row.
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_unique_idx ON users (email);`,
		`CREATE TABLE IF NOT EXISTS captions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			prompt TEXT NOT NULL,
			caption TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS captions_user_created_idx ON captions (user_id, created_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (id, name, email, avatar_url, password_hash, google_subject)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, email, avatar_url, password_hash, google_subject, created_at;
		`
	row := s.pool.QueryRow(ctx, query,
		user.ID, user.Name, user.Email, user.AvatarURL, user.PasswordHash, user.GoogleSubject)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindUserByEmail fetches a user by email address.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
	SELECT id, name, email, avatar_url, password_hash, google_subject, created_at
	FROM users
	WHERE email = $1;
	`
	row := s.pool.QueryRow(ctx, query, email)
	return scanUser(row)
}

// AttachGoogleIdentity records the Google subject and refreshes display
// metadata on an existing user.
func (s *Store) AttachGoogleIdentity(ctx context.Context, userID, subject, name, avatarURL string) (models.User, error) {
	const query = `
	UPDATE users
	SET google_subject = $2, name = $3, avatar_url = $4
	WHERE id = $1
	RETURNING id, name, email, avatar_url, password_hash, google_subject, created_at;
	`
	row := s.pool.QueryRow(ctx, query, userID, subject, name, avatarURL)
	return scanUser(row)
}

// CreateCaption inserts a generated caption row.
func (s *Store) CreateCaption(ctx context.Context, caption models.Caption) (models.Caption, error) {
	const query = `
		INSERT INTO captions (id, user_id, prompt, caption)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, prompt, caption, created_at;
		`
	row := s.pool.QueryRow(ctx, query, caption.ID, caption.UserID, caption.Prompt, caption.Caption)
	return scanCaption(row)
}

// ListCaptionsByUser returns the user's captions, newest first.
func (s *Store) ListCaptionsByUser(ctx context.Context, userID string, limit int) ([]models.Caption, error) {
	const query = `
	SELECT id, user_id, prompt, caption, created_at
	FROM captions
	WHERE user_id = $1
	ORDER BY created_at DESC
	LIMIT $2;
	`
	rows, err := s.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	captions := make([]models.Caption, 0)
	for rows.Next() {
		c, err := scanCaption(rows)
		if err != nil {
			return nil, err
		}
		captions = append(captions, c)
	}
	return captions, rows.Err()
}

// DeleteCaption removes a caption only when it belongs to userID.
func (s *Store) DeleteCaption(ctx context.Context, userID, captionID string) error {
	const query = `DELETE FROM captions WHERE id = $1 AND user_id = $2;`
	tag, err := s.pool.Exec(ctx, query, captionID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.AvatarURL,
		&user.PasswordHash, &user.GoogleSubject, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func scanCaption(row pgx.Row) (models.Caption, error) {
	var c models.Caption
	if err := row.Scan(&c.ID, &c.UserID, &c.Prompt, &c.Caption, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Caption{}, storage.ErrNotFound
		}
		return models.Caption{}, err
	}
	return c, nil
}
