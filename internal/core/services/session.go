package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/intervo/internal/core/domain"
	"github.com/custodia-labs/intervo/internal/core/ports/driven"
	"github.com/custodia-labs/intervo/internal/core/ports/driving"
	"github.com/custodia-labs/intervo/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService runs interview sessions against active guide versions.
type SessionService struct {
	store     driven.Store
	guides    driving.GuideService
	evaluator *FollowUpEvaluator
}

// NewSessionService creates a new session service. evaluator may be nil,
// in which case no follow-ups are ever generated.
func NewSessionService(store driven.Store, guides driving.GuideService, evaluator *FollowUpEvaluator) *SessionService {
	return &SessionService{
		store:     store,
		guides:    guides,
		evaluator: evaluator,
	}
}

// Start creates a session bound to the guide's active version, positioned
// at the first pre-order question.
func (s *SessionService) Start(ctx context.Context, guideID string) (*domain.Session, *domain.Question, error) {
	_, version, err := s.guides.ActiveGuide(ctx, guideID)
	if err != nil {
		return nil, nil, err
	}

	flat := domain.FlattenQuestions(version.Content.Questions)
	if len(flat) == 0 {
		return nil, nil, fmt.Errorf("%w: active version has no questions", domain.ErrIntegrityViolation)
	}
	first := flat[0]

	now := time.Now().UTC()
	session := &domain.Session{
		ID:             uuid.NewString(),
		GuideID:        guideID,
		GuideVersionID: version.ID,
		State: domain.SessionState{
			CurrentQuestionID: first.ID,
			AnsweredQuestions: []domain.Answer{},
			LastUpdated:       now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("saving session: %w", err)
	}
	logger.Debug("session %s started against guide %s version %d", session.ID, guideID, version.Version)
	return session, &first, nil
}

// Get returns a session with its current question resolved against the
// bound guide version.
func (s *SessionService) Get(ctx context.Context, sessionID string) (*domain.Session, *domain.Question, error) {
	session, err := s.store.FindSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrSessionNotFound
		}
		return nil, nil, fmt.Errorf("finding session: %w", err)
	}
	if session.State.IsComplete {
		return session, nil, nil
	}

	version, err := s.store.FindVersionByID(ctx, session.GuideVersionID)
	if err != nil {
		return nil, nil, fmt.Errorf("finding bound guide version: %w", err)
	}
	question := domain.FindQuestion(version.Content.Questions, session.State.CurrentQuestionID)
	if question == nil {
		return nil, nil, fmt.Errorf("%w: current question %q missing from bound version", domain.ErrIntegrityViolation, session.State.CurrentQuestionID)
	}
	return session, question, nil
}

// SubmitAnswer records an answer for the session's current question and
// advances the session. Rejections (wrong question, completed session,
// failed answer review) leave session state untouched.
func (s *SessionService) SubmitAnswer(ctx context.Context, sessionID, questionID, answerText string) (*domain.SubmitResult, error) {
	var result *domain.SubmitResult
	err := s.store.Atomically(ctx, func(ctx context.Context, tx driven.Store) error {
		session, err := tx.FindSession(ctx, sessionID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrSessionNotFound
			}
			return fmt.Errorf("finding session: %w", err)
		}
		if session.State.IsComplete {
			return domain.ErrSessionComplete
		}
		if questionID != session.State.CurrentQuestionID {
			return fmt.Errorf("%w: got %q, expected %q", domain.ErrQuestionMismatch, questionID, session.State.CurrentQuestionID)
		}

		if err := domain.ReviewAnswer(answerText); err != nil {
			return err
		}

		version, err := tx.FindVersionByID(ctx, session.GuideVersionID)
		if err != nil {
			return fmt.Errorf("finding bound guide version: %w", err)
		}
		question := domain.FindQuestion(version.Content.Questions, questionID)
		if question == nil {
			return fmt.Errorf("%w: question %q missing from bound version", domain.ErrIntegrityViolation, questionID)
		}

		var followUps []domain.FollowUpPrompt
		if s.evaluator != nil {
			followUps, err = s.evaluator.Evaluate(ctx, question, answerText, priorPairs(version, session))
			if err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		session.State.AnsweredQuestions = append(session.State.AnsweredQuestions, domain.Answer{
			QuestionID: questionID,
			Text:       answerText,
			Timestamp:  now,
			FollowUps:  followUps,
		})

		next := domain.NextQuestion(version.Content.Questions, questionID)
		if next == nil {
			session.State.CurrentQuestionID = ""
			session.State.IsComplete = true
			logger.Debug("session %s complete after %d answers", session.ID, len(session.State.AnsweredQuestions))
		} else {
			session.State.CurrentQuestionID = next.ID
		}
		session.State.LastUpdated = now
		session.UpdatedAt = now

		if err := tx.SaveSession(ctx, session); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		result = &domain.SubmitResult{
			NextQuestion: next,
			IsComplete:   session.State.IsComplete,
			FollowUps:    followUps,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// priorPairs collects the already-answered exchanges of a session as
// question-text/answer pairs, in answer order.
func priorPairs(version *domain.GuideVersion, session *domain.Session) []domain.QAPair {
	pairs := make([]domain.QAPair, 0, len(session.State.AnsweredQuestions))
	for _, a := range session.State.AnsweredQuestions {
		q := domain.FindQuestion(version.Content.Questions, a.QuestionID)
		if q == nil {
			continue
		}
		pairs = append(pairs, domain.QAPair{Question: q.Text, Answer: a.Text})
	}
	return pairs
}
