package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrGuideNotFound indicates the referenced guide does not exist.
	ErrGuideNotFound = fmt.Errorf("guide %w", ErrNotFound)

	// ErrVersionNotFound indicates the referenced guide version does not exist.
	ErrVersionNotFound = fmt.Errorf("guide version %w", ErrNotFound)

	// ErrSessionNotFound indicates the referenced session does not exist.
	ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)

	// ErrNoActiveVersion indicates a guide exists but has no active version.
	// Distinct from ErrGuideNotFound so callers can tell the two apart.
	ErrNoActiveVersion = errors.New("no active version")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSessionComplete indicates an answer was submitted to a completed
	// session. Complete is a terminal state.
	ErrSessionComplete = errors.New("session is already complete")

	// ErrQuestionMismatch indicates the submitted question id is not the
	// session's current question. Answers are accepted strictly in
	// traversal order.
	ErrQuestionMismatch = errors.New("question id does not match current question")

	// ErrIntegrityViolation indicates stored data breaks an invariant the
	// engine relies on, such as a guide with multiple active versions.
	ErrIntegrityViolation = errors.New("data integrity violation")

	// ErrGenerationFailed indicates the text-generation capability errored
	// while producing a follow-up question. This is fatal to the
	// submit-answer operation, unlike evaluation-time failures which
	// degrade locally.
	ErrGenerationFailed = errors.New("follow-up generation failed")

	// ErrLLMUnavailable indicates no text-generation capability is
	// configured. Follow-up evaluation degrades to producing nothing.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

// QualityError is returned when an answer fails pre-submission review.
// It carries a human-readable reason surfaced to the respondent; the
// session state is left untouched.
type QualityError struct {
	Reason string
}

// Error implements the error interface.
func (e *QualityError) Error() string {
	return "answer rejected: " + e.Reason
}

// IsQualityError reports whether err is (or wraps) a QualityError and
// returns it when so.
func IsQualityError(err error) (*QualityError, bool) {
	var qe *QualityError
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}
