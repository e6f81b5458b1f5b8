package retrieval

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"tutor/models"
	"tutor/services/proficiency"

	"github.com/tmc/langchaingo/textsplitter"
)

const (
	ChunkSize    = 500
	ChunkOverlap = 50
)

type Indexer struct {
	embedder Embedder
	writer   ContentWriter
	splitter textsplitter.TextSplitter
}

func NewIndexer(embedder Embedder, writer ContentWriter) *Indexer {
	return &Indexer{
		embedder: embedder,
		writer:   writer,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(ChunkSize),
			textsplitter.WithChunkOverlap(ChunkOverlap),
		),
	}
}

// Index chunks a document, embeds every chunk and stores them. A level of
// "auto" (or empty) is detected from the text and falls back to
// intermediate when the text is too short to judge.
func (x *Indexer) Index(ctx context.Context, doc models.Document) (*models.IndexResult, error) {
	log.Printf("[INFO] Starting document indexing (subject=%q source=%q)", doc.Subject, doc.Source)

	if strings.TrimSpace(doc.Content) == "" {
		return nil, fmt.Errorf("%w: document content is required", models.ErrInvalidInput)
	}

	level, err := resolveLevel(doc.Level, doc.Content)
	if err != nil {
		return nil, err
	}

	subject := strings.TrimSpace(doc.Subject)
	if subject == "" {
		subject = models.DefaultSubject
	}
	contentType := strings.TrimSpace(doc.ContentType)
	if contentType == "" {
		contentType = models.DefaultContentType
	}

	chunks, err := x.splitter.SplitText(doc.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to split document: %w", err)
	}
	chunks = cleanChunks(chunks)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: document produced no chunks", models.ErrInvalidInput)
	}

	log.Printf("[INFO] Split document into %d chunks, embedding", len(chunks))
	vectors, err := x.embedder.EmbedDocuments(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to embed chunks: %w", models.ErrRetrieval, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: embedder returned %d vectors for %d chunks", models.ErrRetrieval, len(vectors), len(chunks))
	}

	now := time.Now().UTC()
	items := make([]models.ContentItem, len(chunks))
	for i, chunk := range chunks {
		items[i] = models.ContentItem{
			Content:     chunk,
			Embedding:   vectors[i],
			Subject:     subject,
			Level:       level,
			ContentType: contentType,
			Source:      doc.Source,
			CreatedAt:   now,
		}
	}

	if err := x.writer.StoreItems(ctx, items); err != nil {
		log.Printf("[ERROR] Failed to store %d chunks: %v", len(items), err)
		return nil, fmt.Errorf("%w: failed to store chunks: %w", models.ErrPersistence, err)
	}

	log.Printf("[INFO] Successfully indexed %d chunks at level %s", len(items), level)
	return &models.IndexResult{ChunksStored: len(items), Level: level}, nil
}

func resolveLevel(requested, content string) (models.Level, error) {
	requested = strings.ToLower(strings.TrimSpace(requested))
	if requested == "" || requested == models.LevelAuto {
		if level, ok := proficiency.DetectLevel(content); ok {
			return level, nil
		}
		return models.LevelIntermediate, nil
	}

	level := models.Level(requested)
	if !level.Valid() {
		return "", fmt.Errorf("%w: unknown difficulty level %q", models.ErrInvalidInput, requested)
	}
	return level, nil
}

func cleanChunks(chunks []string) []string {
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
