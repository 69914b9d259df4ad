package domain

import (
	"regexp"
	"strings"
)

// minAnswerTokens is the minimum number of whitespace-separated tokens
// an answer must contain.
const minAnswerTokens = 3

// deflectionPatterns match answers that dodge the question instead of
// answering it. All matching is case-insensitive against the trimmed
// answer as a whole string, except the two prefix patterns which match
// at the start.
var deflectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^what about\b`),
	regexp.MustCompile(`(?i)^why do you\b`),
	regexp.MustCompile(`(?i)^i don't know$`),
	regexp.MustCompile(`(?i)^no idea$`),
	regexp.MustCompile(`(?i)^maybe$`),
	regexp.MustCompile(`(?i)^not sure$`),
	regexp.MustCompile(`^\?+$`),
	regexp.MustCompile(`(?i)^(yes|no)$`),
}

// ReviewAnswer rejects low-quality or deflecting answers before they
// reach follow-up evaluation or the session record. Returns nil when the
// answer is acceptable, or a *QualityError describing why it is not.
// Review happens strictly before the answer is recorded; a rejection
// leaves session state unchanged.
func ReviewAnswer(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return &QualityError{Reason: "answer is empty"}
	}

	for _, pattern := range deflectionPatterns {
		if pattern.MatchString(trimmed) {
			return &QualityError{Reason: "answer deflects the question instead of addressing it"}
		}
	}

	if len(strings.Fields(trimmed)) < minAnswerTokens {
		return &QualityError{Reason: "answer is too short to be meaningful"}
	}

	return nil
}
