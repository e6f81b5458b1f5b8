package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tutor/db"
	"tutor/models"
	"tutor/services/metrics"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

const defaultSummaryLimit = 10

type CreateParams struct {
	UserID   string
	Subject  string
	UserData map[string]any
}

type Service struct {
	store   db.SessionStore
	history db.HistoryRepository
	ttl     time.Duration
	locks   *keyedLocks
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(store db.SessionStore, history db.HistoryRepository, ttl time.Duration, m *metrics.Metrics) *Service {
	return &Service{
		store:   store,
		history: history,
		ttl:     ttl,
		locks:   newKeyedLocks(),
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*models.Session, error) {
	log.Printf("[INFO] Starting session creation for user %q", params.UserID)

	userID := strings.TrimSpace(params.UserID)
	if userID == "" {
		if v, ok := params.UserData["user_id"].(string); ok && strings.TrimSpace(v) != "" {
			userID = strings.TrimSpace(v)
		} else {
			userID = "anonymous_" + uuid.NewString()
		}
	}

	subject := strings.TrimSpace(params.Subject)
	if subject == "" {
		subject = models.DefaultSubject
	}

	sess := newSession(uuid.NewString(), userID, subject, params.UserData, s.now())
	if err := s.store.PutSession(ctx, sess, s.ttl); err != nil {
		log.Printf("[ERROR] Failed to store new session: %v", err)
		return nil, fmt.Errorf("%w: failed to store session: %w", models.ErrPersistence, err)
	}

	s.metrics.SessionCreated()
	log.Printf("[INFO] Successfully created session %s for user %s", sess.ID, userID)
	return sess.Clone(), nil
}

// Get returns the live session. Unknown, expired and ended sessions all
// report models.ErrSessionUnavailable.
func (s *Service) Get(ctx context.Context, id string) (*models.Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: empty session id", models.ErrInvalidInput)
	}

	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrSessionUnavailable, id)
		}
		return nil, fmt.Errorf("%w: failed to load session: %w", models.ErrPersistence, err)
	}
	if !sess.Active() {
		return nil, fmt.Errorf("%w: %s", models.ErrSessionUnavailable, id)
	}

	return sess, nil
}

// Update runs fn on the current snapshot while holding the session's lock and
// stores whatever fn returns with a fresh TTL. fn must not call back into the
// service for the same session.
func (s *Service) Update(ctx context.Context, id string, fn func(*models.Session) (*models.Session, error)) (*models.Session, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}

	if err := s.store.PutSession(ctx, next, s.ttl); err != nil {
		log.Printf("[ERROR] Failed to store session %s: %v", id, err)
		return nil, fmt.Errorf("%w: failed to store session: %w", models.ErrPersistence, err)
	}

	return next.Clone(), nil
}

func (s *Service) ApplyProficiencyDelta(ctx context.Context, id string, delta int) (*models.Session, error) {
	return s.ApplyProficiency(ctx, id, func(*models.Session) int { return delta })
}

// ApplyProficiency computes a delta from the locked snapshot and applies it,
// so the estimate always sees the level it is adjusting.
func (s *Service) ApplyProficiency(ctx context.Context, id string, estimate func(*models.Session) int) (*models.Session, error) {
	return s.Update(ctx, id, func(current *models.Session) (*models.Session, error) {
		return withDelta(current, estimate(current)), nil
	})
}

// AppendExchange appends the student and teacher turns together and counts
// them as one interaction.
func (s *Service) AppendExchange(ctx context.Context, id string, student, teacher models.Turn) (*models.Session, error) {
	if student.Role != models.RoleStudent || teacher.Role != models.RoleTeacher {
		return nil, fmt.Errorf("%w: exchange must be a student turn followed by a teacher turn", models.ErrInvalidInput)
	}

	return s.Update(ctx, id, func(current *models.Session) (*models.Session, error) {
		return withExchange(current, student, teacher), nil
	})
}

func (s *Service) AppendTurn(ctx context.Context, id string, turn models.Turn) (*models.Session, error) {
	if turn.Role != models.RoleStudent && turn.Role != models.RoleTeacher {
		return nil, fmt.Errorf("%w: unknown turn role %q", models.ErrInvalidInput, turn.Role)
	}

	return s.Update(ctx, id, func(current *models.Session) (*models.Session, error) {
		return withTurn(current, turn), nil
	})
}

func (s *Service) SetSubject(ctx context.Context, id, subject string) (*models.Session, error) {
	log.Printf("[INFO] Changing subject of session %s to %q", id, subject)

	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, fmt.Errorf("%w: subject is required", models.ErrInvalidInput)
	}

	return s.Update(ctx, id, func(current *models.Session) (*models.Session, error) {
		return withSubject(current, subject), nil
	})
}

// End persists the summary, the turns and any feedback, then retires the live
// record. If either step fails the error wraps models.ErrPersistence and the
// call can be retried; the history sink ignores a second record for the same
// session.
func (s *Service) End(ctx context.Context, id string, feedback *models.Feedback) (*models.SessionSummary, error) {
	log.Printf("[INFO] Starting end of session %s", id)

	if err := feedback.Validate(); err != nil {
		return nil, fmt.Errorf("%w: ratings must be between 1 and 5", err)
	}

	unlock := s.locks.lock(id)
	defer unlock()

	current, err := s.Get(ctx, id)
	if err != nil {
		log.Printf("[WARN] Cannot end session %s: %v", id, err)
		return nil, err
	}

	final, summary := ended(current, s.now())
	record := &models.EndedSession{
		Summary:  summary,
		Turns:    final.Turns,
		Feedback: feedback,
	}

	if err := s.history.SaveEndedSession(ctx, record); err != nil {
		log.Printf("[ERROR] Failed to persist ended session %s: %v", id, err)
		return nil, fmt.Errorf("%w: failed to save session history: %w", models.ErrPersistence, err)
	}

	if err := s.retire(ctx, final); err != nil {
		return nil, err
	}

	s.metrics.SessionEnded()
	log.Printf("[INFO] Successfully ended session %s after %d interactions (improvement %+d)",
		id, summary.TotalInteractions, summary.Improvement)
	return &summary, nil
}

// retire removes the live copy of an ended session. When the delete fails the
// ended snapshot is written over it instead, so the session can no longer be
// read or mutated.
func (s *Service) retire(ctx context.Context, final *models.Session) error {
	deleteErr := s.store.DeleteSession(ctx, final.ID)
	if deleteErr == nil {
		return nil
	}
	log.Printf("[WARN] Failed to delete live session %s, marking it ended: %v", final.ID, deleteErr)

	if err := s.store.PutSession(ctx, final, s.ttl); err != nil {
		log.Printf("[ERROR] Failed to mark live session %s ended: %v", final.ID, err)
		return fmt.Errorf("%w: failed to retire live session: %w", models.ErrPersistence, errors.Join(deleteErr, err))
	}
	return nil
}

func (s *Service) History(ctx context.Context, id string) ([]models.Turn, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.Turns, nil
}

// SearchHistory returns the turns matching any of the terms, in conversation
// order. Terms are matched per word with fuzzy subsequence matching.
func (s *Service) SearchHistory(ctx context.Context, id string, terms []string) ([]models.Turn, error) {
	log.Printf("[INFO] Searching history of session %s with %d terms", id, len(terms))

	turns, err := s.History(ctx, id)
	if err != nil {
		return nil, err
	}

	terms = cleanTerms(terms)
	if len(terms) == 0 {
		return turns, nil
	}

	matching := make([]models.Turn, 0)
	for _, turn := range turns {
		if turnMatches(turn.Text, terms) {
			matching = append(matching, turn)
		}
	}

	log.Printf("[INFO] Found %d of %d turns matching search", len(matching), len(turns))
	return matching, nil
}

func (s *Service) UserSessions(ctx context.Context, userID string, limit int) ([]models.SessionSummary, error) {
	log.Printf("[INFO] Listing session summaries for user %s", userID)

	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", models.ErrInvalidInput)
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", models.ErrInvalidInput)
	}
	if limit == 0 {
		limit = defaultSummaryLimit
	}

	summaries, err := s.history.ListSummaries(ctx, userID, limit)
	if err != nil {
		log.Printf("[ERROR] Failed to list sessions for user %s: %v", userID, err)
		return nil, fmt.Errorf("%w: failed to list sessions: %w", models.ErrPersistence, err)
	}

	log.Printf("[INFO] Found %d sessions for user %s", len(summaries), userID)
	return summaries, nil
}

func cleanTerms(terms []string) []string {
	cleaned := make([]string, 0, len(terms))
	for _, term := range terms {
		if term = strings.TrimSpace(term); term != "" {
			cleaned = append(cleaned, term)
		}
	}
	return cleaned
}

func turnMatches(text string, terms []string) bool {
	lower := strings.ToLower(text)
	words := make([]string, 0)
	for _, word := range strings.Fields(lower) {
		if word = strings.Trim(word, ".,!?;:()[]{}\"'"); word != "" {
			words = append(words, word)
		}
	}

	for _, term := range terms {
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
		if len(fuzzy.FindFold(term, words)) > 0 {
			return true
		}
	}
	return false
}
