package domain

import "time"

// Answer records one accepted answer, with any follow-ups generated for it.
type Answer struct {
	QuestionID string           `json:"questionId"`
	Text       string           `json:"text"`
	Timestamp  time.Time        `json:"timestamp"`
	FollowUps  []FollowUpPrompt `json:"followUps,omitempty"`
}

// SessionState is a session's progress through its guide version.
// CurrentQuestionID is empty exactly when the session is complete;
// Complete is terminal.
type SessionState struct {
	CurrentQuestionID string    `json:"currentQuestionId,omitempty"`
	AnsweredQuestions []Answer  `json:"answeredQuestions"`
	IsComplete        bool      `json:"isComplete"`
	LastUpdated       time.Time `json:"lastUpdated"`
}

// Session is one respondent's run through a specific guide version. The
// version binding is fixed at start time: re-activating a different
// guide version later never affects a running session.
type Session struct {
	ID             string       `json:"id"`
	GuideID        string       `json:"guideId"`
	GuideVersionID string       `json:"guideVersionId"`
	State          SessionState `json:"state"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// SubmitResult is the outcome of a successful answer submission.
type SubmitResult struct {
	// NextQuestion is the next question in traversal order, nil when the
	// interview is complete.
	NextQuestion *Question `json:"nextQuestion,omitempty"`

	// IsComplete reports whether the session reached its terminal state.
	IsComplete bool `json:"isComplete"`

	// FollowUps are the follow-up prompts generated for this answer.
	FollowUps []FollowUpPrompt `json:"followUps,omitempty"`
}

// ChatTurn is one prior exchange in a free-form chat conversation.
type ChatTurn struct {
	// Role is "user" or "model".
	Role string `json:"role"`

	// Text is the turn's content.
	Text string `json:"text"`
}
