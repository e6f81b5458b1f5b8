package retrieval

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedEmbedder spaces out calls to the embedding provider. One batch
// call counts as one request.
type RateLimitedEmbedder struct {
	next    Embedder
	limiter *rate.Limiter
}

// NewRateLimitedEmbedder allows perSecond calls with a burst of twice that.
// A non-positive rate disables limiting.
func NewRateLimitedEmbedder(next Embedder, perSecond float64) *RateLimitedEmbedder {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if perSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(perSecond), max(1, int(perSecond*2)))
	}
	return &RateLimitedEmbedder{next: next, limiter: limiter}
}

func (r *RateLimitedEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("embedding rate limit: %w", err)
	}
	return r.next.EmbedQuery(ctx, text)
}

func (r *RateLimitedEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("embedding rate limit: %w", err)
	}
	return r.next.EmbedDocuments(ctx, texts)
}
