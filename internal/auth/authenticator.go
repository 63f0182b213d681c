package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/captionly/captionly-be/internal/models"
	"github.com/captionly/captionly-be/internal/storage"
	"github.com/google/uuid"
)

// ErrInvalidCredentials indicates a password mismatch.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrNoPassword indicates a Google-only account attempted password login.
var ErrNoPassword = errors.New("account has no password, please sign in with Google")

// ErrInvalidAssertion indicates a Google credential that failed verification
// or lacked an email claim.
var ErrInvalidAssertion = errors.New("invalid Google credential")

// Authenticator resolves users against the store for both login strategies
// and creates accounts on registration or first Google sign-in.
type Authenticator struct {
	users  storage.UserStore
	google IdentityVerifier
}

// NewAuthenticator constructs an Authenticator over the given store and verifier.
func NewAuthenticator(users storage.UserStore, google IdentityVerifier) *Authenticator {
	return &Authenticator{users: users, google: google}
}

// NormalizeEmail lower-cases and trims an email address so lookups and
// inserts agree on one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a credential-based account with a freshly salted hash.
// A duplicate email surfaces storage.ErrAlreadyExists.
func (a *Authenticator) Register(ctx context.Context, name, email, password string) (models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	return a.users.CreateUser(ctx, user)
}

// AuthenticateWithPassword validates email/password credentials.
// Unknown emails surface storage.ErrNotFound; Google-only accounts get
// ErrNoPassword; a mismatch is ErrInvalidCredentials.
func (a *Authenticator) AuthenticateWithPassword(ctx context.Context, email, password string) (models.User, error) {
	user, err := a.users.FindUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return models.User{}, err
	}
	if user.PasswordHash == "" {
		return models.User{}, ErrNoPassword
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// AuthenticateWithGoogle verifies a Google ID token and resolves or creates
// the matching account. Existing accounts are upgraded in place: the Google
// subject is attached and name/avatar refreshed on every sign-in. A creation
// race for a brand-new email is resolved by re-reading after the store
// reports the uniqueness conflict.
func (a *Authenticator) AuthenticateWithGoogle(ctx context.Context, credential string) (models.User, error) {
	profile, err := a.google.VerifyCredential(ctx, credential)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrInvalidAssertion, err)
	}
	if profile.Email == "" {
		return models.User{}, ErrInvalidAssertion
	}
	email := NormalizeEmail(profile.Email)

	user, err := a.users.FindUserByEmail(ctx, email)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		user, err = a.users.CreateUser(ctx, models.User{
			ID:            uuid.NewString(),
			Name:          profile.Name,
			Email:         email,
			AvatarURL:     profile.AvatarURL,
			GoogleSubject: profile.Subject,
			CreatedAt:     time.Now().UTC(),
		})
		if errors.Is(err, storage.ErrAlreadyExists) {
			// Another request created the account first; use its row.
			user, err = a.users.FindUserByEmail(ctx, email)
		}
		if err != nil {
			return models.User{}, err
		}
	case err != nil:
		return models.User{}, err
	}

	if user.GoogleSubject == profile.Subject &&
		user.Name == profile.Name && user.AvatarURL == profile.AvatarURL {
		return user, nil
	}
	return a.users.AttachGoogleIdentity(ctx, user.ID, profile.Subject, profile.Name, profile.AvatarURL)
}
