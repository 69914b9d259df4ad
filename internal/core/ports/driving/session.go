package driving

import (
	"context"

	"github.com/custodia-labs/intervo/internal/core/domain"
)

// SessionService runs interview sessions against active guide versions.
type SessionService interface {
	// Start creates a session against the guide's active version and
	// returns it with the first pre-order question.
	Start(ctx context.Context, guideID string) (*domain.Session, *domain.Question, error)

	// Get returns a session with its current question resolved against the
	// bound guide version. The question is nil once the session completes.
	Get(ctx context.Context, sessionID string) (*domain.Session, *domain.Question, error)

	// SubmitAnswer records an answer for the session's current question,
	// runs answer review and follow-up evaluation, and advances the
	// session to the next pre-order question (or to Complete).
	// Fails with domain.ErrSessionNotFound, domain.ErrSessionComplete,
	// domain.ErrQuestionMismatch, or a *domain.QualityError; all of these
	// leave session state untouched.
	SubmitAnswer(ctx context.Context, sessionID, questionID, answerText string) (*domain.SubmitResult, error)
}
