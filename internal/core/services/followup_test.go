package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/intervo/internal/core/domain"
)

func keywordQuestion() *domain.Question {
	return &domain.Question{
		ID:   "q1",
		Text: "What slowed the migration down?",
		FollowUpRules: []domain.FollowUpRule{
			{
				Condition: domain.FollowUpCondition{
					Type:     domain.ConditionKeywords,
					Keywords: []string{"database", "latency"},
				},
				PromptTemplate: "digs into the technical detail",
			},
		},
	}
}

func TestFollowUpEvaluator_NilLLM(t *testing.T) {
	e := NewFollowUpEvaluator(nil)
	followUps, err := e.Evaluate(context.Background(), keywordQuestion(), "The database kept timing out", nil)
	require.NoError(t, err)
	assert.Nil(t, followUps)
}

func TestFollowUpEvaluator_NoRules(t *testing.T) {
	llm := scriptedEvalLLM("neutral", "unused")
	e := NewFollowUpEvaluator(llm)
	followUps, err := e.Evaluate(context.Background(), &domain.Question{ID: "q", Text: "t"}, "any answer at all", nil)
	require.NoError(t, err)
	assert.Nil(t, followUps)
	assert.Empty(t, llm.prompts, "no LLM calls without rules")
}

func TestFollowUpEvaluator_KeywordRule(t *testing.T) {
	llm := scriptedEvalLLM("neutral", "Which database saw the worst latency?")
	e := NewFollowUpEvaluator(llm)

	followUps, err := e.Evaluate(context.Background(), keywordQuestion(), "The Database kept timing out under load", nil)
	require.NoError(t, err)
	require.Len(t, followUps, 1)
	assert.Equal(t, "keywords", followUps[0].RuleID)

	// Keyword matching is a case-insensitive substring scan.
	found := false
	for _, p := range llm.prompts {
		if strings.Contains(p, "database") && strings.Contains(p, "used meaningfully") {
			found = true
		}
	}
	assert.True(t, found, "relevance confirmation should list the matched keyword")
}

func TestFollowUpEvaluator_KeywordAbsent_NoLLMCheck(t *testing.T) {
	llm := scriptedEvalLLM("neutral", "unused")
	e := NewFollowUpEvaluator(llm)

	followUps, err := e.Evaluate(context.Background(), keywordQuestion(), "Everything went smoothly this quarter overall", nil)
	require.NoError(t, err)
	assert.Empty(t, followUps)

	// Only the quality gate ran; no relevance check without a keyword hit.
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "isValid")
}

func TestFollowUpEvaluator_SentimentRule(t *testing.T) {
	question := &domain.Question{
		ID:   "q1",
		Text: "How do you feel about the new process?",
		FollowUpRules: []domain.FollowUpRule{
			{
				Condition:      domain.FollowUpCondition{Type: domain.ConditionSentiment, Sentiment: domain.SentimentNegative},
				PromptTemplate: "asks what would improve things",
			},
		},
	}

	llm := scriptedEvalLLM("negative", "What single change would help most?")
	e := NewFollowUpEvaluator(llm)
	followUps, err := e.Evaluate(context.Background(), question, "Honestly it has been frustrating and slow", nil)
	require.NoError(t, err)
	require.Len(t, followUps, 1)
	assert.Equal(t, "sentiment", followUps[0].RuleID)

	// Mismatched sentiment does not fire.
	llm = scriptedEvalLLM("positive", "unused")
	e = NewFollowUpEvaluator(llm)
	followUps, err = e.Evaluate(context.Background(), question, "Honestly it has been frustrating and slow", nil)
	require.NoError(t, err)
	assert.Empty(t, followUps)
}

func TestFollowUpEvaluator_SentimentRequiresExactLabel(t *testing.T) {
	question := &domain.Question{
		ID:   "q1",
		Text: "How do you feel about the new process?",
		FollowUpRules: []domain.FollowUpRule{
			{
				Condition:      domain.FollowUpCondition{Type: domain.ConditionSentiment, Sentiment: domain.SentimentPositive},
				PromptTemplate: "asks what worked well",
			},
		},
	}
	answer := "It has honestly been a rough few weeks"

	// A classification that merely mentions the target must not fire.
	for _, resp := range []string{
		"negative (certainly not positive)",
		"not positive",
		"mostly positive with some reservations",
	} {
		llm := scriptedEvalLLM(resp, "unexpected follow-up")
		followUps, err := NewFollowUpEvaluator(llm).Evaluate(context.Background(), question, answer, nil)
		require.NoError(t, err)
		assert.Empty(t, followUps, "classification %q must not satisfy target %q", resp, domain.SentimentPositive)
	}

	// Bare labels still match through trailing punctuation and quoting.
	for _, resp := range []string{"positive", "Positive.", `"positive"`} {
		llm := scriptedEvalLLM(resp, "What worked especially well?")
		followUps, err := NewFollowUpEvaluator(llm).Evaluate(context.Background(), question, answer, nil)
		require.NoError(t, err)
		require.Len(t, followUps, 1, "classification %q should satisfy target %q", resp, domain.SentimentPositive)
	}
}

func TestFollowUpEvaluator_QualityGateShortCircuits(t *testing.T) {
	llm := &mockLLM{
		generateFn: func(prompt string) (string, error) {
			if strings.Contains(prompt, "isValid") {
				return `{"isValid": false, "reason": "evasive"}`, nil
			}
			t.Errorf("no call expected past a failed quality gate, got prompt: %s", prompt)
			return "", nil
		},
	}
	e := NewFollowUpEvaluator(llm)
	followUps, err := e.Evaluate(context.Background(), keywordQuestion(), "The database is whatever it is", nil)
	require.NoError(t, err)
	assert.Empty(t, followUps)
}

func TestFollowUpEvaluator_QualityGateFailsOpen(t *testing.T) {
	for name, response := range map[string]string{
		"llm error":     "",
		"not json":      "sure, looks fine to me",
		"fenced json":   "```json\n{\"isValid\": true, \"reason\": \"ok\"}\n```",
		"partial quote": `the verdict is {"isValid": true}`,
	} {
		t.Run(name, func(t *testing.T) {
			llm := &mockLLM{
				generateFn: func(prompt string) (string, error) {
					if strings.Contains(prompt, "isValid") {
						if response == "" {
							return "", errors.New("timeout")
						}
						return response, nil
					}
					if strings.Contains(prompt, `"yes" or "no"`) {
						return "yes", nil
					}
					return "generated follow-up", nil
				},
			}
			e := NewFollowUpEvaluator(llm)
			followUps, err := e.Evaluate(context.Background(), keywordQuestion(), "The database kept timing out badly", nil)
			require.NoError(t, err)
			assert.Len(t, followUps, 1, "gate failure must not block evaluation")
		})
	}
}

func TestFollowUpEvaluator_ConditionCheckErrorIsNonMatch(t *testing.T) {
	llm := &mockLLM{
		generateFn: func(prompt string) (string, error) {
			if strings.Contains(prompt, "isValid") {
				return `{"isValid": true}`, nil
			}
			return "", errors.New("model overloaded")
		},
	}
	e := NewFollowUpEvaluator(llm)
	followUps, err := e.Evaluate(context.Background(), keywordQuestion(), "The database kept timing out badly", nil)
	require.NoError(t, err, "check failures degrade, they do not fail the submission")
	assert.Empty(t, followUps)
}

func TestFollowUpEvaluator_ContextInclusion(t *testing.T) {
	prior := []domain.QAPair{
		{Question: "What is your role?", Answer: "I run the platform team"},
	}

	question := keywordQuestion()
	question.ContextIncluded = true

	llm := scriptedEvalLLM("neutral", "generated")
	e := NewFollowUpEvaluator(llm)
	_, err := e.Evaluate(context.Background(), question, "The database kept timing out badly", prior)
	require.NoError(t, err)

	genPrompt := llm.prompts[len(llm.prompts)-1]
	assert.Contains(t, genPrompt, "Previous context:")
	assert.Contains(t, genPrompt, "Q: What is your role?")
	assert.Contains(t, genPrompt, "A: I run the platform team")
	assert.Contains(t, genPrompt, "generate a follow-up question that: digs into the technical detail")

	// Without the flag, prior pairs stay out of the prompt.
	question.ContextIncluded = false
	llm = scriptedEvalLLM("neutral", "generated")
	e = NewFollowUpEvaluator(llm)
	_, err = e.Evaluate(context.Background(), question, "The database kept timing out badly", prior)
	require.NoError(t, err)
	genPrompt = llm.prompts[len(llm.prompts)-1]
	assert.NotContains(t, genPrompt, "Previous context:")
}

func TestFollowUpEvaluator_MaxFollowUpsCap(t *testing.T) {
	question := &domain.Question{
		ID:   "q1",
		Text: "Tell me everything.",
		FollowUpRules: []domain.FollowUpRule{
			{
				Condition:      domain.FollowUpCondition{Type: domain.ConditionLength, MinWords: 2},
				PromptTemplate: "first",
				MaxFollowUps:   1,
			},
			{
				Condition:      domain.FollowUpCondition{Type: domain.ConditionLength, MinWords: 2},
				PromptTemplate: "second",
			},
		},
	}

	llm := scriptedEvalLLM("neutral", "generated")
	e := NewFollowUpEvaluator(llm)
	followUps, err := e.Evaluate(context.Background(), question, "A long and winding answer here", nil)
	require.NoError(t, err)
	assert.Len(t, followUps, 1, "cap on the firing rule stops the pass")

	// Non-positive cap means uncapped: both rules fire.
	question.FollowUpRules[0].MaxFollowUps = 0
	llm = scriptedEvalLLM("neutral", "generated")
	e = NewFollowUpEvaluator(llm)
	followUps, err = e.Evaluate(context.Background(), question, "A long and winding answer here", nil)
	require.NoError(t, err)
	assert.Len(t, followUps, 2)
}
