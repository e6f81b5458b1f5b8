package retrieval

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"tutor/models"

	"github.com/samber/lo"
)

const DefaultLimit = 5

// Embedder is the slice of langchaingo's embeddings.Embedder the engine needs.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// ContentStore returns the items matching filters in a stable order. The query
// vector lets a vector database narrow its candidate set; stores without
// vector search ignore it.
type ContentStore interface {
	Candidates(ctx context.Context, filters models.SearchFilters, query []float32) ([]models.ContentItem, error)
}

type ContentWriter interface {
	StoreItems(ctx context.Context, items []models.ContentItem) error
}

type Engine struct {
	embedder Embedder
	store    ContentStore
}

func NewEngine(embedder Embedder, store ContentStore) *Engine {
	return &Engine{embedder: embedder, store: store}
}

type scoredItem struct {
	item   models.ContentItem
	cosine float64
}

// Search ranks the items matching filters by cosine similarity to query.
// Ties keep store order. A limit of 0 means DefaultLimit.
func (e *Engine) Search(ctx context.Context, query string, filters models.SearchFilters, limit int) ([]models.Snippet, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", models.ErrInvalidInput)
	}
	if limit == 0 {
		limit = DefaultLimit
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Snippet{}, nil
	}

	log.Printf("[INFO] Starting content search (subject=%q level=%q type=%q limit=%d)",
		filters.Subject, filters.Level, filters.ContentType, limit)

	queryVector, err := e.embedder.EmbedQuery(ctx, query)
	if err != nil {
		log.Printf("[ERROR] Failed to embed search query: %v", err)
		return nil, fmt.Errorf("%w: failed to embed query: %w", models.ErrRetrieval, err)
	}

	items, err := e.store.Candidates(ctx, filters, queryVector)
	if err != nil {
		log.Printf("[ERROR] Failed to load content candidates: %v", err)
		return nil, fmt.Errorf("%w: failed to load candidates: %w", models.ErrRetrieval, err)
	}

	items = lo.Filter(items, func(item models.ContentItem, _ int) bool {
		return filters.Matches(item)
	})

	scored := make([]scoredItem, 0, len(items))
	for _, item := range items {
		if len(item.Embedding) != len(queryVector) {
			log.Printf("[WARN] Skipping content item %s with embedding dimension %d (query has %d)",
				item.ID, len(item.Embedding), len(queryVector))
			continue
		}
		scored = append(scored, scoredItem{item: item, cosine: CosineSimilarity(queryVector, item.Embedding)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].cosine > scored[j].cosine
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	snippets := lo.Map(scored, func(s scoredItem, _ int) models.Snippet {
		return models.Snippet{
			Content:     s.item.Content,
			Subject:     s.item.Subject,
			Level:       s.item.Level,
			ContentType: s.item.ContentType,
			Score:       math.Max(0, math.Min(1, s.cosine)),
		}
	})

	log.Printf("[INFO] Content search returned %d of %d candidates", len(snippets), len(items))
	return snippets, nil
}

// SearchForSession restricts the search to the session's subject and level.
func (e *Engine) SearchForSession(ctx context.Context, session *models.Session, query string, limit int) ([]models.Snippet, error) {
	return e.Search(ctx, query, models.SearchFilters{
		Subject: session.Subject,
		Level:   session.Level,
	}, limit)
}

// CosineSimilarity returns 0 when either vector has zero magnitude.
func CosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
