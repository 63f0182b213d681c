package storage

import (
	"context"
	"errors"

	"github.com/captionly/captionly-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures user persistence operations. Implementations must
// enforce a uniqueness constraint on email: concurrent creates for the
// same address resolve to exactly one row, the loser sees ErrAlreadyExists.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	// AttachGoogleIdentity records the Google subject and refreshes display
	// metadata on an existing user, returning the updated row.
	AttachGoogleIdentity(ctx context.Context, userID, subject, name, avatarURL string) (models.User, error)
}

// CaptionStore captures caption persistence operations. Every read and
// delete is scoped by the owning user's id.
type CaptionStore interface {
	CreateCaption(ctx context.Context, caption models.Caption) (models.Caption, error)
	ListCaptionsByUser(ctx context.Context, userID string, limit int) ([]models.Caption, error)
	DeleteCaption(ctx context.Context, userID, captionID string) error
}

// Store combines all persistence operations backed by one database.
type Store interface {
	UserStore
	CaptionStore
}
