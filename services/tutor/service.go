package tutor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tutor/models"
	"tutor/services/generation"
	"tutor/services/metrics"
	"tutor/services/proficiency"
	"tutor/services/session"
)

type Retriever interface {
	SearchForSession(ctx context.Context, session *models.Session, query string, limit int) ([]models.Snippet, error)
}

type Config struct {
	RetrievalTimeout  time.Duration
	GenerationTimeout time.Duration
	SnippetLimit      int
}

type Service struct {
	sessions  *session.Service
	retriever Retriever
	generator generation.Provider
	templates Templates
	metrics   *metrics.Metrics
	cfg       Config
}

func NewService(sessions *session.Service, retriever Retriever, generator generation.Provider, templates Templates, m *metrics.Metrics, cfg Config) *Service {
	if templates == nil {
		templates = DefaultTemplates{}
	}
	if cfg.RetrievalTimeout <= 0 {
		cfg.RetrievalTimeout = 10 * time.Second
	}
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = 60 * time.Second
	}
	if cfg.SnippetLimit <= 0 {
		cfg.SnippetLimit = 5
	}

	return &Service{
		sessions:  sessions,
		retriever: retriever,
		generator: generator,
		templates: templates,
		metrics:   m,
		cfg:       cfg,
	}
}

// Respond runs one tutoring exchange. The proficiency update is applied
// before generation; the two turns are only recorded once generation has
// succeeded, so a failed reply leaves the history as it was.
func (s *Service) Respond(ctx context.Context, sessionID, utterance string) (*models.Reply, error) {
	started := time.Now()
	log.Printf("[INFO] Starting reply for session %s", sessionID)

	var estimate proficiency.Result
	snapshot, err := s.sessions.ApplyProficiency(ctx, sessionID, func(current *models.Session) int {
		estimate = proficiency.Estimate(utterance, current.Level, current.Score)
		return estimate.Delta
	})
	if err != nil {
		log.Printf("[ERROR] Failed to load session %s for reply: %v", sessionID, err)
		return nil, err
	}

	s.metrics.RuleFired(string(estimate.Rule))
	log.Printf("[INFO] Proficiency rule %s fired (delta %+d), session %s now %s at %d",
		estimate.Rule, estimate.Delta, sessionID, snapshot.Level, snapshot.Score)

	strategy := SelectStrategy(snapshot.InteractionCount, utterance)
	s.metrics.StrategySelected(string(strategy))

	snippets := s.retrieve(ctx, snapshot, utterance)

	req := generation.Request{
		System:      s.templates.Instruction(strategy, snapshot.Level),
		Prompt:      BuildPrompt(snapshot, utterance, snippets),
		MaxTokens:   generation.DefaultMaxTokens,
		Temperature: generation.DefaultTemperature,
	}

	genCtx, cancel := context.WithTimeout(ctx, s.cfg.GenerationTimeout)
	text, err := s.generator.Generate(genCtx, req)
	cancel()
	if err != nil {
		log.Printf("[ERROR] Failed to generate reply for session %s: %v", sessionID, err)
		if !errors.Is(err, models.ErrGeneration) {
			err = fmt.Errorf("%w: %w", models.ErrGeneration, err)
		}
		return nil, fmt.Errorf("failed to generate reply: %w", err)
	}

	now := time.Now().UTC()
	student := models.Turn{
		Role:      models.RoleStudent,
		Text:      utterance,
		Timestamp: now,
		Level:     snapshot.Level,
		Score:     snapshot.Score,
	}
	teacher := models.Turn{
		Role:         models.RoleTeacher,
		Text:         text,
		Timestamp:    now,
		Strategy:     strategy,
		SnippetsUsed: len(snippets),
	}

	updated, err := s.sessions.AppendExchange(ctx, sessionID, student, teacher)
	if err != nil {
		log.Printf("[ERROR] Failed to record exchange for session %s: %v", sessionID, err)
		return nil, err
	}

	s.metrics.ObserveResponse(time.Since(started).Seconds())
	log.Printf("[INFO] Successfully replied to session %s with strategy %s (%d snippets)",
		sessionID, strategy, len(snippets))

	return &models.Reply{
		Response:         text,
		SessionID:        sessionID,
		DifficultyLevel:  updated.Level,
		ProficiencyScore: updated.Score,
		Strategy:         strategy,
		InteractionCount: updated.InteractionCount,
		SnippetsUsed:     len(snippets),
	}, nil
}

// retrieve never fails the reply: on error the prompt simply carries no
// reference material.
func (s *Service) retrieve(ctx context.Context, snapshot *models.Session, utterance string) []models.Snippet {
	if s.retriever == nil {
		return nil
	}

	retrCtx, cancel := context.WithTimeout(ctx, s.cfg.RetrievalTimeout)
	defer cancel()

	snippets, err := s.retriever.SearchForSession(retrCtx, snapshot, utterance, s.cfg.SnippetLimit)
	if err != nil {
		log.Printf("[WARN] Retrieval failed for session %s, continuing without context: %v", snapshot.ID, err)
		s.metrics.RetrievalFailed()
		return nil
	}
	return snippets
}
