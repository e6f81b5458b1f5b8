package retrieval

import (
	"context"
	"fmt"
	"log"
	"time"

	"tutor/models"

	"github.com/google/uuid"
	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	pineconeCandidateTopK = 50
	pineconeUpsertBatch   = 50
	embeddingDimension    = 1536
)

// PineconeStore keeps content chunks in a Pinecone namespace. Vector values
// are returned with every match so the engine can re-rank them itself.
type PineconeStore struct {
	client    *pinecone.Client
	conn      *pinecone.IndexConnection
	indexName string
}

func NewPineconeStore(ctx context.Context, apiKey, indexName, namespace string) (*PineconeStore, error) {
	log.Printf("[INFO] Initializing Pinecone content store (index=%s namespace=%s)", indexName, namespace)

	pc, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Pinecone client: %w", err)
	}

	if err := ensureIndex(ctx, pc, indexName); err != nil {
		return nil, err
	}

	idxDesc, err := pc.DescribeIndex(ctx, indexName)
	if err != nil {
		return nil, fmt.Errorf("failed to describe index: %w", err)
	}

	conn, err := pc.Index(pinecone.NewIndexConnParams{
		Host:      idxDesc.Host,
		Namespace: namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create index connection: %w", err)
	}

	log.Printf("[INFO] Pinecone content store initialized successfully")
	return &PineconeStore{client: pc, conn: conn, indexName: indexName}, nil
}

func (p *PineconeStore) Candidates(ctx context.Context, filters models.SearchFilters, query []float32) ([]models.ContentItem, error) {
	req := &pinecone.QueryByVectorValuesRequest{
		Vector:          query,
		TopK:            pineconeCandidateTopK,
		IncludeValues:   true,
		IncludeMetadata: true,
	}

	if filter := pineconeFilter(filters); len(filter) > 0 {
		filterStruct, err := structpb.NewStruct(filter)
		if err != nil {
			return nil, fmt.Errorf("failed to create filter struct: %w", err)
		}
		req.MetadataFilter = filterStruct
	}

	result, err := p.conn.QueryByVectorValues(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}

	items := make([]models.ContentItem, 0, len(result.Matches))
	for _, match := range result.Matches {
		if match == nil || match.Vector == nil {
			continue
		}
		items = append(items, itemFromVector(match.Vector))
	}

	log.Printf("[INFO] Retrieved %d candidates from Pinecone", len(items))
	return items, nil
}

func (p *PineconeStore) StoreItems(ctx context.Context, items []models.ContentItem) error {
	vectors := make([]*pinecone.Vector, 0, len(items))
	for _, item := range items {
		metadata := map[string]any{
			"content":          item.Content,
			"subject":          item.Subject,
			"difficulty_level": string(item.Level),
			"content_type":     item.ContentType,
			"source":           item.Source,
			"created_at":       item.CreatedAt.Format(time.RFC3339),
		}

		metadataStruct, err := structpb.NewStruct(metadata)
		if err != nil {
			return fmt.Errorf("failed to create metadata struct: %w", err)
		}

		id := item.ID
		if id == "" {
			id = uuid.NewString()
		}
		values := item.Embedding
		vectors = append(vectors, &pinecone.Vector{
			Id:       id,
			Values:   &values,
			Metadata: metadataStruct,
		})
	}

	for i := 0; i < len(vectors); i += pineconeUpsertBatch {
		end := min(i+pineconeUpsertBatch, len(vectors))
		count, err := p.conn.UpsertVectors(ctx, vectors[i:end])
		if err != nil {
			return fmt.Errorf("failed to upsert vectors: %w", err)
		}
		log.Printf("[INFO] Upserted %d vectors (batch %d)", count, i/pineconeUpsertBatch+1)
	}

	return nil
}

func (p *PineconeStore) Close() error {
	return p.conn.Close()
}

func pineconeFilter(filters models.SearchFilters) map[string]any {
	filter := map[string]any{}
	add := func(key, value string) {
		if value != "" {
			filter[key] = map[string]any{"$eq": value}
		}
	}
	add("subject", filters.Subject)
	add("difficulty_level", string(filters.Level))
	add("content_type", filters.ContentType)
	return filter
}

func itemFromVector(v *pinecone.Vector) models.ContentItem {
	item := models.ContentItem{ID: v.Id}
	if v.Values != nil {
		item.Embedding = *v.Values
	}
	if v.Metadata == nil {
		return item
	}

	metadata := v.Metadata.AsMap()
	str := func(key string) string {
		s, _ := metadata[key].(string)
		return s
	}

	item.Content = str("content")
	item.Subject = str("subject")
	item.Level = models.Level(str("difficulty_level"))
	item.ContentType = str("content_type")
	item.Source = str("source")
	if created, err := time.Parse(time.RFC3339, str("created_at")); err == nil {
		item.CreatedAt = created
	}
	return item
}

func ensureIndex(ctx context.Context, pc *pinecone.Client, indexName string) error {
	indexes, err := pc.ListIndexes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list indexes: %w", err)
	}

	for _, idx := range indexes {
		if idx.Name == indexName {
			return nil
		}
	}

	log.Printf("[INFO] Creating Pinecone index: %s", indexName)
	dimension := int32(embeddingDimension)
	deletionProtection := pinecone.DeletionProtectionDisabled
	metric := pinecone.Cosine

	_, err = pc.CreateServerlessIndex(ctx, &pinecone.CreateServerlessIndexRequest{
		Name:               indexName,
		Dimension:          &dimension,
		Metric:             &metric,
		Cloud:              pinecone.Aws,
		Region:             "us-east-1",
		DeletionProtection: &deletionProtection,
		Tags:               &pinecone.IndexTags{"project": "tutor-content"},
	})
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	for {
		idx, err := pc.DescribeIndex(ctx, indexName)
		if err != nil {
			return fmt.Errorf("failed to describe index: %w", err)
		}
		if idx.Status != nil && idx.Status.Ready {
			log.Printf("[INFO] Index %s is ready", indexName)
			return nil
		}

		log.Printf("[INFO] Waiting for index %s to be ready...", indexName)
		select {
		case <-ctx.Done():
			return fmt.Errorf("failed waiting for index %s: %w", indexName, ctx.Err())
		case <-time.After(10 * time.Second):
		}
	}
}
