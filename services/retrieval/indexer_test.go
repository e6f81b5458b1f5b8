package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tutor/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexStoresChunks(t *testing.T) {
	store := &memoryStore{}
	indexer := NewIndexer(&fakeEmbedder{}, store)

	paragraph := strings.Repeat("The cat sat on the mat. ", 20)
	doc := models.Document{
		Content: paragraph + "\n\n" + paragraph + "\n\n" + paragraph,
		Subject: "english",
		Level:   "beginner",
		Source:  "lesson-1.txt",
	}

	result, err := indexer.Index(context.Background(), doc)
	require.NoError(t, err)

	assert.Greater(t, result.ChunksStored, 1)
	assert.Equal(t, models.LevelBeginner, result.Level)
	require.Len(t, store.items, result.ChunksStored)
	for _, it := range store.items {
		assert.LessOrEqual(t, len(it.Content), ChunkSize)
		assert.Equal(t, "english", it.Subject)
		assert.Equal(t, models.DefaultContentType, it.ContentType)
		assert.Equal(t, "lesson-1.txt", it.Source)
		assert.Len(t, it.Embedding, 3)
	}
}

func TestIndexAutoLevel(t *testing.T) {
	store := &memoryStore{}
	indexer := NewIndexer(&fakeEmbedder{}, store)

	result, err := indexer.Index(context.Background(), models.Document{Content: "Short note.", Level: "auto"})
	require.NoError(t, err)
	assert.Equal(t, models.LevelIntermediate, result.Level, "too short to detect")
	assert.Equal(t, models.DefaultSubject, store.items[0].Subject)

	simple := strings.Repeat("I am here. It is hot. We go now. ", 10)
	result, err = indexer.Index(context.Background(), models.Document{Content: simple})
	require.NoError(t, err)
	assert.Equal(t, models.LevelBeginner, result.Level)
}

func TestIndexRejectsBadInput(t *testing.T) {
	indexer := NewIndexer(&fakeEmbedder{}, &memoryStore{})

	_, err := indexer.Index(context.Background(), models.Document{Content: "  "})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = indexer.Index(context.Background(), models.Document{Content: "text", Level: "expert"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestIndexPropagatesFailures(t *testing.T) {
	_, err := NewIndexer(&fakeEmbedder{err: errors.New("quota")}, &memoryStore{}).
		Index(context.Background(), models.Document{Content: "text", Level: "beginner"})
	assert.ErrorIs(t, err, models.ErrRetrieval)

	_, err = NewIndexer(&fakeEmbedder{}, &memoryStore{err: errors.New("disk full")}).
		Index(context.Background(), models.Document{Content: "text", Level: "beginner"})
	assert.ErrorIs(t, err, models.ErrPersistence)
}
