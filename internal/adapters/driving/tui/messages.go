package tui

import (
	"github.com/custodia-labs/intervo/internal/core/domain"
)

// guidesLoaded carries the guide list back to the model.
type guidesLoaded struct {
	Guides []domain.Guide
	Err    error
}

// sessionStarted carries a newly started session and its first question.
type sessionStarted struct {
	Session  *domain.Session
	Question *domain.Question
	Err      error
}

// answerSubmitted carries the outcome of an answer submission.
type answerSubmitted struct {
	Result *domain.SubmitResult
	Err    error
}
