package captions

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

// ErrEmptyPrompt indicates a blank generation prompt.
var ErrEmptyPrompt = errors.New("prompt is required")

// ErrGenerationFailed indicates the upstream model call did not produce a caption.
var ErrGenerationFailed = errors.New("caption generation failed")

// historyLimit caps the caption history view.
const historyLimit = 50

const promptTemplate = `Create a professional, engaging LinkedIn post caption based on this idea: %q.

Requirements:
- Make it professional yet conversational
- Include relevant emojis where appropriate
- Add 3-5 relevant hashtags at the end
- Keep it between 150-250 words
- Make it engaging and likely to get interactions
- Use line breaks for better readability

Just return the caption, nothing else.`

// Service generates captions and manages each user's history.
type Service struct {
	store     storage.CaptionStore
	generator Generator
}

// NewService constructs a Service.
func NewService(store storage.CaptionStore, generator Generator) *Service {
	return &Service{store: store, generator: generator}
}

// Generate templates the prompt, asks the model for a caption, and persists
// the result under userID.
func (s *Service) Generate(ctx context.Context, userID, prompt string) (models.Caption, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return models.Caption{}, ErrEmptyPrompt
	}

	text, err := s.generator.Generate(ctx, fmt.Sprintf(promptTemplate, prompt))
	if err != nil {
		return models.Caption{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	caption := models.Caption{
		ID:        uuid.NewString(),
		UserID:    userID,
		Prompt:    prompt,
		Caption:   strings.TrimSpace(text),
		CreatedAt: time.Now().UTC(),
	}
	return s.store.CreateCaption(ctx, caption)
}

// List returns the user's captions, newest first, capped at the history limit.
func (s *Service) List(ctx context.Context, userID string) ([]models.Caption, error) {
	return s.store.ListCaptionsByUser(ctx, userID, historyLimit)
}

// Delete removes a caption owned by userID; storage.ErrNotFound otherwise.
func (s *Service) Delete(ctx context.Context, userID, captionID string) error {
	return s.store.DeleteCaption(ctx, userID, captionID)
}
