package domain

import (
	"fmt"
	"time"
)

// ConditionType discriminates follow-up rule conditions. Adding a
// condition type means a new constant plus a new match arm in the
// evaluator, not a new subclass.
type ConditionType string

// Available condition types.
const (
	// ConditionKeywords fires when the answer mentions at least one
	// configured keyword in a meaningful context.
	ConditionKeywords ConditionType = "keywords"

	// ConditionLength fires when the answer meets a minimum word count
	// and is substantive rather than filler.
	ConditionLength ConditionType = "length"

	// ConditionSentiment fires when the answer's dominant tone matches
	// the configured target.
	ConditionSentiment ConditionType = "sentiment"
)

// IsValid returns true if the condition type is recognised.
func (t ConditionType) IsValid() bool {
	switch t {
	case ConditionKeywords, ConditionLength, ConditionSentiment:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t ConditionType) String() string {
	return string(t)
}

// Recognised sentiment targets for ConditionSentiment.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// FollowUpCondition is the tagged variant backing a rule. Exactly one of
// the value fields is meaningful, selected by Type.
type FollowUpCondition struct {
	Type ConditionType `json:"type"`

	// Keywords to look for (ConditionKeywords).
	Keywords []string `json:"keywords,omitempty"`

	// MinWords is the minimum answer length in whitespace-separated
	// tokens (ConditionLength).
	MinWords int `json:"minWords,omitempty"`

	// Sentiment is the target tone (ConditionSentiment): one of
	// positive, negative, or neutral.
	Sentiment string `json:"sentiment,omitempty"`
}

// FollowUpRule attaches a condition and prompt template to a question.
type FollowUpRule struct {
	Condition FollowUpCondition `json:"condition"`

	// PromptTemplate is the rule's own guidance appended to the
	// generation prompt.
	PromptTemplate string `json:"promptTemplate"`

	// MaxFollowUps caps how many follow-ups may accumulate in one
	// evaluation pass once this rule has fired. Non-positive means
	// uncapped.
	MaxFollowUps int `json:"maxFollowUps"`
}

// Validate checks the rule is well-formed for its condition type.
func (r FollowUpRule) Validate() error {
	if !r.Condition.Type.IsValid() {
		return fmt.Errorf("%w: unknown condition type %q", ErrInvalidInput, r.Condition.Type)
	}
	switch r.Condition.Type {
	case ConditionKeywords:
		if len(r.Condition.Keywords) == 0 {
			return fmt.Errorf("%w: keywords condition without keywords", ErrInvalidInput)
		}
	case ConditionLength:
		if r.Condition.MinWords <= 0 {
			return fmt.Errorf("%w: length condition requires a positive minimum word count", ErrInvalidInput)
		}
	case ConditionSentiment:
		switch r.Condition.Sentiment {
		case SentimentPositive, SentimentNegative, SentimentNeutral:
		default:
			return fmt.Errorf("%w: unknown sentiment target %q", ErrInvalidInput, r.Condition.Sentiment)
		}
	}
	return nil
}

// FollowUpPrompt is a generated follow-up question attached to the
// answer that triggered it.
type FollowUpPrompt struct {
	// QuestionID is the guide question the follow-up belongs to.
	QuestionID string `json:"questionId"`

	// Prompt is the generated follow-up question text.
	Prompt string `json:"prompt"`

	// GeneratedAt is the generation timestamp.
	GeneratedAt time.Time `json:"generatedAt"`

	// SourceAnswer is the answer text that triggered the rule.
	SourceAnswer string `json:"sourceAnswer"`

	// RuleID identifies the originating rule by its condition type.
	RuleID string `json:"ruleId,omitempty"`
}

// QAPair is one previously answered question/answer exchange, used as
// prior context when a question opts in via ContextIncluded.
type QAPair struct {
	Question string
	Answer   string
}
