// Package memory provides an in-memory storage.Store used by tests.
// It enforces the same email uniqueness constraint as the Postgres store
// so find-or-create races behave identically.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/captionly/captionly-be/internal/models"
	"github.com/captionly/captionly-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps users and captions in process memory behind one mutex.
type Store struct {
	mu       sync.Mutex
	users    map[string]models.User    // keyed by user id
	emails   map[string]string         // email -> user id
	captions map[string]models.Caption // keyed by caption id
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:    make(map[string]models.User),
		emails:   make(map[string]string),
		captions: make(map[string]models.Caption),
	}
}

// CreateUser inserts a user, enforcing email uniqueness.
func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emails[user.Email]; exists {
		return models.User{}, storage.ErrAlreadyExists
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.users[user.ID] = user
	s.emails[user.Email] = user.ID
	return user, nil
}

// FindUserByEmail fetches a user by email.
func (s *Store) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.emails[email]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return s.users[id], nil
}

// AttachGoogleIdentity updates Google identity fields on an existing user.
func (s *Store) AttachGoogleIdentity(_ context.Context, userID, subject, name, avatarURL string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	user.GoogleSubject = subject
	user.Name = name
	user.AvatarURL = avatarURL
	s.users[userID] = user
	return user, nil
}

// UserCount reports how many users exist; used by concurrency tests.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// CreateCaption inserts a caption.
func (s *Store) CreateCaption(_ context.Context, caption models.Caption) (models.Caption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if caption.CreatedAt.IsZero() {
		caption.CreatedAt = time.Now().UTC()
	}
	s.captions[caption.ID] = caption
	return caption, nil
}

// ListCaptionsByUser returns the user's captions, newest first.
func (s *Store) ListCaptionsByUser(_ context.Context, userID string, limit int) ([]models.Caption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Caption, 0)
	for _, c := range s.captions {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteCaption removes a caption only when it belongs to userID.
func (s *Store) DeleteCaption(_ context.Context, userID, captionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.captions[captionID]
	if !ok || c.UserID != userID {
		return storage.ErrNotFound
	}
	delete(s.captions, captionID)
	return nil
}
