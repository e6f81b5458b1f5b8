package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"tutor/models"

	"github.com/lib/pq"
)

// HistoryRepository is the durable sink for ended sessions.
type HistoryRepository interface {
	SaveEndedSession(ctx context.Context, record *models.EndedSession) error
	SaveFeedback(ctx context.Context, sessionID, userID string, feedback *models.Feedback) error
	ListSummaries(ctx context.Context, userID string, limit int) ([]models.SessionSummary, error)
}

type PostgresHistoryRepository struct {
	db *sql.DB
}

func NewPostgresHistoryRepository(databaseURL string) (*PostgresHistoryRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresHistoryRepository{db: db}, nil
}

// SaveEndedSession writes the summary, the conversation log and optional
// feedback in one transaction. A session id already present in
// session_summaries is treated as saved, so retried ends do not duplicate.
func (r *PostgresHistoryRepository) SaveEndedSession(ctx context.Context, record *models.EndedSession) error {
	summary := record.Summary

	conversationJSON, err := json.Marshal(record.Turns)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	summaryQuery := `
		INSERT INTO tutor.session_summaries (
			session_id, user_id, subject, initial_proficiency_score, final_proficiency_score,
			proficiency_improvement, initial_difficulty_level, final_difficulty_level,
			total_interactions, session_duration_minutes, created_at, ended_at, session_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (session_id) DO NOTHING`

	result, err := tx.ExecContext(ctx, summaryQuery,
		summary.SessionID, summary.UserID, summary.Subject, summary.InitialScore, summary.FinalScore,
		summary.Improvement, summary.InitialLevel, summary.FinalLevel,
		summary.TotalInteractions, summary.DurationMinutes, summary.CreatedAt, summary.EndedAt, summary.Status)
	if err != nil {
		return fmt.Errorf("failed to store session summary: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// An earlier attempt already committed this session.
		return tx.Commit()
	}

	conversationQuery := `
		INSERT INTO tutor.conversation_history (
			session_id, user_id, conversation_data, message_count, subject,
			final_difficulty_level, final_proficiency_score, created_at, ended_at, session_duration_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if _, err := tx.ExecContext(ctx, conversationQuery,
		summary.SessionID, summary.UserID, conversationJSON, summary.MessageCount, summary.Subject,
		summary.FinalLevel, summary.FinalScore, summary.CreatedAt, summary.EndedAt, summary.DurationMinutes); err != nil {
		return fmt.Errorf("failed to store conversation history: %w", err)
	}

	if record.Feedback != nil {
		if err := insertFeedback(ctx, tx, summary.SessionID, summary.UserID, record.Feedback); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session history: %w", err)
	}

	return nil
}

// SaveFeedback stores user experience feedback on its own, outside of ending
// a session.
func (r *PostgresHistoryRepository) SaveFeedback(ctx context.Context, sessionID, userID string, feedback *models.Feedback) error {
	return insertFeedback(ctx, r.db, sessionID, userID, feedback)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertFeedback(ctx context.Context, exec execer, sessionID, userID string, fb *models.Feedback) error {
	query := `
		INSERT INTO tutor.user_experiences (
			session_id, user_id, rating, feedback_text, usefulness_rating, difficulty_appropriate,
			would_recommend, improvement_suggestions, favorite_features)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if _, err := exec.ExecContext(ctx, query,
		sessionID, userID, fb.Rating, nullString(fb.Feedback), fb.UsefulnessRating,
		fb.DifficultyAppropriate, fb.WouldRecommend, nullString(fb.ImprovementSuggestions),
		pq.Array(fb.FavoriteFeatures)); err != nil {
		return fmt.Errorf("failed to store user experience: %w", err)
	}
	return nil
}

func (r *PostgresHistoryRepository) ListSummaries(ctx context.Context, userID string, limit int) ([]models.SessionSummary, error) {
	query := `
		SELECT s.session_id, s.user_id, s.subject, s.initial_proficiency_score, s.final_proficiency_score,
			s.proficiency_improvement, s.initial_difficulty_level, s.final_difficulty_level,
			s.total_interactions, COALESCE(c.message_count, 0), s.session_duration_minutes,
			s.created_at, s.ended_at, s.session_status
		FROM tutor.session_summaries s
		LEFT JOIN tutor.conversation_history c ON c.session_id = s.session_id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query session summaries: %w", err)
	}
	defer rows.Close()

	summaries := make([]models.SessionSummary, 0)
	for rows.Next() {
		var s models.SessionSummary
		err := rows.Scan(&s.SessionID, &s.UserID, &s.Subject, &s.InitialScore, &s.FinalScore,
			&s.Improvement, &s.InitialLevel, &s.FinalLevel,
			&s.TotalInteractions, &s.MessageCount, &s.DurationMinutes,
			&s.CreatedAt, &s.EndedAt, &s.Status)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over session summaries: %w", err)
	}

	return summaries, nil
}

func (r *PostgresHistoryRepository) Close() error {
	return r.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
