package domain

import "fmt"

// Question is a single node in a guide's question tree. Sub-questions are
// visited immediately after their parent (pre-order), before siblings;
// that ordering defines the linear interview order.
type Question struct {
	// ID is unique within a guide version's tree and stable across depth.
	ID string `json:"id"`

	// Text is the question as shown to the respondent.
	Text string `json:"text"`

	// SubQuestions are ordered child questions.
	SubQuestions []Question `json:"subQuestions,omitempty"`

	// FollowUpRules are evaluated in declared order after an accepted answer.
	FollowUpRules []FollowUpRule `json:"followUpRules,omitempty"`

	// ContextIncluded controls whether prior Q&A pairs are included when
	// generating follow-ups for this question.
	ContextIncluded bool `json:"contextIncluded,omitempty"`
}

// FindQuestion performs a pre-order depth-first search for the question
// with the given id. Returns nil if no question matches. Ids are unique
// per ValidateQuestions; on a malformed tree the first match wins.
func FindQuestion(questions []Question, id string) *Question {
	if id == "" {
		return nil
	}
	for i := range questions {
		if questions[i].ID == id {
			return &questions[i]
		}
		if found := FindQuestion(questions[i].SubQuestions, id); found != nil {
			return found
		}
	}
	return nil
}

// NextQuestion returns the question immediately following currentID in
// pre-order sequence, or nil when currentID is the last question or is
// not present in the tree.
func NextQuestion(questions []Question, currentID string) *Question {
	flat := FlattenQuestions(questions)
	for i := range flat {
		if flat[i].ID == currentID {
			if i+1 < len(flat) {
				return &flat[i+1]
			}
			return nil
		}
	}
	return nil
}

// FlattenQuestions returns the tree as a pre-order sequence: each
// question's subtree directly follows the question itself.
func FlattenQuestions(questions []Question) []Question {
	var flat []Question
	var walk func(qs []Question)
	walk = func(qs []Question) {
		for i := range qs {
			flat = append(flat, qs[i])
			walk(qs[i].SubQuestions)
		}
	}
	walk(questions)
	return flat
}

// ValidateQuestions checks a question tree at guide-ingestion time:
// it must be non-empty, every question needs an id and text, ids must be
// unique across the whole tree, and every follow-up rule must be
// well-formed. Duplicate ids are a caller error rather than something
// traversal silently tolerates.
func ValidateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: guide has no questions", ErrInvalidInput)
	}

	seen := make(map[string]struct{})
	var walk func(qs []Question) error
	walk = func(qs []Question) error {
		for i := range qs {
			q := &qs[i]
			if q.ID == "" {
				return fmt.Errorf("%w: question with empty id", ErrInvalidInput)
			}
			if q.Text == "" {
				return fmt.Errorf("%w: question %q has empty text", ErrInvalidInput, q.ID)
			}
			if _, dup := seen[q.ID]; dup {
				return fmt.Errorf("%w: duplicate question id %q", ErrInvalidInput, q.ID)
			}
			seen[q.ID] = struct{}{}
			for j := range q.FollowUpRules {
				if err := q.FollowUpRules[j].Validate(); err != nil {
					return fmt.Errorf("question %q: %w", q.ID, err)
				}
			}
			if err := walk(q.SubQuestions); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(questions)
}
