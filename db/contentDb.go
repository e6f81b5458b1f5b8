package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"tutor/models"

	"github.com/lib/pq"
)

type PostgresContentRepository struct {
	db *sql.DB
}

func NewPostgresContentRepository(databaseURL string) (*PostgresContentRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresContentRepository{db: db}, nil
}

// Candidates returns every item matching the filters in insertion order. The
// query vector is not used here; ranking happens in the retrieval engine.
func (r *PostgresContentRepository) Candidates(ctx context.Context, filters models.SearchFilters, _ []float32) ([]models.ContentItem, error) {
	query, args := buildContentQuery(filters)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", err)
	}
	defer rows.Close()

	items := make([]models.ContentItem, 0)
	for rows.Next() {
		var (
			item      models.ContentItem
			id        int64
			embedding pq.Float64Array
			source    sql.NullString
		)
		err := rows.Scan(&id, &item.Content, &embedding, &item.Subject, &item.Level,
			&item.ContentType, &source, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content item: %w", err)
		}

		item.ID = strconv.FormatInt(id, 10)
		item.Source = source.String
		item.Embedding = make([]float32, len(embedding))
		for i, v := range embedding {
			item.Embedding[i] = float32(v)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over content: %w", err)
	}

	return items, nil
}

func (r *PostgresContentRepository) StoreItems(ctx context.Context, items []models.ContentItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO tutor.documents (content, embedding, subject, difficulty_level, content_type, source)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, item := range items {
		embedding := make(pq.Float64Array, len(item.Embedding))
		for i, v := range item.Embedding {
			embedding[i] = float64(v)
		}

		if _, err := tx.ExecContext(ctx, query, item.Content, embedding, item.Subject,
			item.Level, item.ContentType, nullString(item.Source)); err != nil {
			return fmt.Errorf("failed to insert content item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit content items: %w", err)
	}

	return nil
}

func (r *PostgresContentRepository) Close() error {
	return r.db.Close()
}

func buildContentQuery(filters models.SearchFilters) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	add("subject", filters.Subject)
	add("difficulty_level", string(filters.Level))
	add("content_type", filters.ContentType)

	query := `
		SELECT id, content, embedding, subject, difficulty_level, content_type, source, created_at
		FROM tutor.documents`
	if len(clauses) > 0 {
		query += "\n\t\tWHERE " + strings.Join(clauses, " AND ")
	}
	query += "\n\t\tORDER BY id"

	return query, args
}
