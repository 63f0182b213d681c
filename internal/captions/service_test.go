package captions

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/captionly/captionly-be/internal/models"
	"github.com/captionly/captionly-be/internal/storage"
	"github.com/captionly/captionly-be/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generatorMock returns canned text or an error.
type generatorMock struct {
	generateFunc func(ctx context.Context, prompt string) (string, error)
}

func (g generatorMock) Generate(ctx context.Context, prompt string) (string, error) {
	return g.generateFunc(ctx, prompt)
}

func TestGeneratePersistsCaption(t *testing.T) {
	store := memory.New()
	var sentPrompt string
	svc := NewService(store, generatorMock{generateFunc: func(_ context.Context, prompt string) (string, error) {
		sentPrompt = prompt
		return "  A great post 🚀\n#golang  ", nil
	}})

	caption, err := svc.Generate(context.Background(), "user-1", "  my product launch  ")
	require.NoError(t, err)

	assert.Contains(t, sentPrompt, `"my product launch"`, "prompt must be templated")
	assert.Contains(t, sentPrompt, "LinkedIn post caption")
	assert.Equal(t, "A great post 🚀\n#golang", caption.Caption, "model output must be trimmed")
	assert.Equal(t, "my product launch", caption.Prompt)
	assert.NotEmpty(t, caption.ID)

	list, err := svc.List(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, caption.ID, list[0].ID)
}

func TestGenerateEmptyPrompt(t *testing.T) {
	svc := NewService(memory.New(), generatorMock{generateFunc: func(context.Context, string) (string, error) {
		t.Fatal("generator must not be called for a blank prompt")
		return "", nil
	}})

	_, err := svc.Generate(context.Background(), "user-1", "   ")
	require.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestGenerateUpstreamFailure(t *testing.T) {
	store := memory.New()
	svc := NewService(store, generatorMock{generateFunc: func(context.Context, string) (string, error) {
		return "", errors.New("model overloaded")
	}})

	_, err := svc.Generate(context.Background(), "user-1", "an idea")
	require.ErrorIs(t, err, ErrGenerationFailed)

	list, err := svc.List(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, list, "failed generations must not be persisted")
}

func TestListIsScopedAndNewestFirst(t *testing.T) {
	store := memory.New()
	svc := NewService(store, generatorMock{})
	ctx := context.Background()

	base := time.Now().UTC()
	for i, c := range []models.Caption{
		{ID: "c1", UserID: "user-1", Prompt: "p1", Caption: "one"},
		{ID: "c2", UserID: "user-1", Prompt: "p2", Caption: "two"},
		{ID: "c3", UserID: "user-2", Prompt: "p3", Caption: "three"},
	} {
		c.CreatedAt = base.Add(time.Duration(i) * time.Second)
		_, err := store.CreateCaption(ctx, c)
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c2", list[0].ID)
	assert.Equal(t, "c1", list[1].ID)
}

func TestDeleteIsOwnerScoped(t *testing.T) {
	store := memory.New()
	svc := NewService(store, generatorMock{})
	ctx := context.Background()

	_, err := store.CreateCaption(ctx, models.Caption{ID: "c1", UserID: "user-1", Prompt: "p", Caption: "text"})
	require.NoError(t, err)

	err = svc.Delete(ctx, "user-2", "c1")
	require.ErrorIs(t, err, storage.ErrNotFound, "another user's delete must not find the caption")

	list, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1, "caption must survive the foreign delete")

	require.NoError(t, svc.Delete(ctx, "user-1", "c1"))
	require.ErrorIs(t, svc.Delete(ctx, "user-1", "c1"), storage.ErrNotFound)
}

func TestHistoryLimit(t *testing.T) {
	store := memory.New()
	svc := NewService(store, generatorMock{})
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < historyLimit+10; i++ {
		_, err := store.CreateCaption(ctx, models.Caption{
			ID:        fmt.Sprintf("cap-%03d", i),
			UserID:    "user-1",
			Prompt:    "p",
			Caption:   "text",
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, list, historyLimit)
}
