package retrieval

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitedEmbedderPassesThrough(t *testing.T) {
	embedder := NewRateLimitedEmbedder(&fakeEmbedder{vectors: map[string][]float32{"hi": {0, 1}}}, 0)

	v, err := embedder.EmbedQuery(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, v)

	docs, err := embedder.EmbedDocuments(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestRateLimitedEmbedderHonoursContext(t *testing.T) {
	embedder := NewRateLimitedEmbedder(&fakeEmbedder{}, 0.001)

	// The first call uses the burst token.
	_, err := embedder.EmbedQuery(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = embedder.EmbedQuery(ctx, "second")
	assert.Error(t, err)
}
