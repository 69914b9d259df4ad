package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/intervo/internal/core/domain"
	"github.com/custodia-labs/intervo/internal/core/ports/driven"
	"github.com/custodia-labs/intervo/internal/logger"
)

// Ensure FollowUpEvaluator can receive custom prompts.
var _ driven.PromptStoreAware = (*FollowUpEvaluator)(nil)

// Default prompt templates, used when no PromptStore is configured or a
// named prompt is missing from it.
const (
	defaultQualityCheckPrompt = `Analyze this answer to the question "%s": "%s"
Respond with a JSON object containing:
- isValid: boolean indicating if this is a genuine attempt to answer the question
- reason: brief explanation of the assessment
An answer is invalid if it deflects the question, is evasive, or does not engage with what was asked.`

	defaultKeywordRelevancePrompt = `For the question "%s" and the answer "%s", are the keywords [%s] used meaningfully and in a relevant context, rather than just mentioned in passing? Respond with only "yes" or "no".`

	defaultSubstancePrompt = `For the question "%s", is this answer substantive and detailed rather than filler or repetition: "%s"? Respond with only "yes" or "no".`

	defaultSentimentPrompt = `Classify the overall sentiment of this answer to the question "%s": "%s". Respond with only one word: "positive", "negative", or "neutral".`

	defaultFollowUpPrefix = `You are an expert interviewer conducting a structured interview.`
)

// Generation parameters for follow-up evaluation. Condition checks use a
// low temperature because we want stable classifications; generation is
// allowed more creativity.
var (
	evalOptions     = driven.GenerateOptions{MaxTokens: 256, Temperature: 0.1}
	generateOptions = driven.GenerateOptions{MaxTokens: 512, Temperature: 0.7}
)

// FollowUpEvaluator runs a question's follow-up rules against an
// accepted answer and generates follow-up prompts for the rules whose
// conditions hold. When no LLM service is configured the evaluator
// degrades to producing no follow-ups.
type FollowUpEvaluator struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewFollowUpEvaluator creates a follow-up evaluator. llm may be nil.
func NewFollowUpEvaluator(llm driven.LLMService) *FollowUpEvaluator {
	return &FollowUpEvaluator{llm: llm}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (e *FollowUpEvaluator) SetPromptStore(store driven.PromptStore) {
	e.prompts = store
}

// prompt returns the named template from the prompt store, falling back
// to the embedded default.
func (e *FollowUpEvaluator) prompt(name, fallback string) string {
	if e.prompts == nil {
		return fallback
	}
	p, err := e.prompts.Load(name)
	if err != nil || strings.TrimSpace(p) == "" {
		return fallback
	}
	return p
}

type qualityVerdict struct {
	IsValid bool   `json:"isValid"`
	Reason  string `json:"reason"`
}

// Evaluate runs the follow-up pipeline for one accepted answer: a
// quality gate first, then each rule's condition in declared order,
// generating one follow-up per firing rule. Context carries prior Q&A
// pairs and is only used when the question opted in via ContextIncluded.
//
// Condition-check failures degrade to the condition not firing;
// generation failures abort the whole submission with
// domain.ErrGenerationFailed so an answer is never stored with a
// half-evaluated rule set.
func (e *FollowUpEvaluator) Evaluate(ctx context.Context, question *domain.Question, answer string, priorContext []domain.QAPair) ([]domain.FollowUpPrompt, error) {
	if e.llm == nil || len(question.FollowUpRules) == 0 {
		return nil, nil
	}

	logger.Section("Follow-Up Evaluation")
	logger.Debug("question %q: %d rules", question.ID, len(question.FollowUpRules))

	if !e.checkQuality(ctx, question.Text, answer) {
		return nil, nil
	}

	var followUps []domain.FollowUpPrompt
	for i := range question.FollowUpRules {
		rule := &question.FollowUpRules[i]

		matched, err := e.conditionHolds(ctx, rule, question.Text, answer)
		if err != nil {
			// A failed check is a non-match, not a failed submission.
			logger.Warn("rule %d (%s): condition check failed: %v", i, rule.Condition.Type, err)
			continue
		}
		if !matched {
			logger.Debug("rule %d (%s): condition not met", i, rule.Condition.Type)
			continue
		}

		prompt := e.buildGenerationPrompt(question, rule, answer, priorContext)
		text, err := e.llm.Generate(ctx, prompt, generateOptions)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, fmt.Errorf("%w: empty response", domain.ErrGenerationFailed)
		}

		followUps = append(followUps, domain.FollowUpPrompt{
			QuestionID:   question.ID,
			Prompt:       text,
			GeneratedAt:  time.Now().UTC(),
			SourceAnswer: answer,
			RuleID:       rule.Condition.Type.String(),
		})
		logger.Debug("rule %d (%s): follow-up generated", i, rule.Condition.Type)

		if rule.MaxFollowUps > 0 && len(followUps) >= rule.MaxFollowUps {
			logger.Debug("follow-up cap %d reached", rule.MaxFollowUps)
			break
		}
	}
	return followUps, nil
}

// checkQuality asks the model whether the answer genuinely engages with
// the question. Fails open: any error or unparseable verdict counts as
// valid, so a flaky model never blocks rule evaluation outright.
func (e *FollowUpEvaluator) checkQuality(ctx context.Context, question, answer string) bool {
	prompt := fmt.Sprintf(e.prompt(driven.PromptQualityCheck, defaultQualityCheckPrompt), question, answer)
	resp, err := e.llm.Generate(ctx, prompt, evalOptions)
	if err != nil {
		logger.Warn("quality check failed, accepting answer: %v", err)
		return true
	}

	var verdict qualityVerdict
	if err := json.Unmarshal([]byte(extractJSON(resp)), &verdict); err != nil {
		logger.Warn("quality check returned unparseable verdict, accepting answer")
		return true
	}
	if !verdict.IsValid {
		logger.Debug("quality gate rejected answer: %s", verdict.Reason)
	}
	return verdict.IsValid
}

// conditionHolds evaluates one rule's condition against the answer.
func (e *FollowUpEvaluator) conditionHolds(ctx context.Context, rule *domain.FollowUpRule, question, answer string) (bool, error) {
	switch rule.Condition.Type {
	case domain.ConditionKeywords:
		return e.keywordsMatch(ctx, rule.Condition.Keywords, question, answer)
	case domain.ConditionLength:
		return e.lengthMatch(ctx, rule.Condition.MinWords, question, answer)
	case domain.ConditionSentiment:
		return e.sentimentMatch(ctx, rule.Condition.Sentiment, question, answer)
	default:
		return false, fmt.Errorf("unknown condition type %q", rule.Condition.Type)
	}
}

// keywordsMatch does a cheap case-insensitive substring scan first and
// only consults the model, to confirm meaningful use, when a keyword
// actually appears.
func (e *FollowUpEvaluator) keywordsMatch(ctx context.Context, keywords []string, question, answer string) (bool, error) {
	lower := strings.ToLower(answer)
	var present []string
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			present = append(present, kw)
		}
	}
	if len(present) == 0 {
		return false, nil
	}

	prompt := fmt.Sprintf(e.prompt(driven.PromptKeywordRelevance, defaultKeywordRelevancePrompt),
		question, answer, strings.Join(present, ", "))
	resp, err := e.llm.Generate(ctx, prompt, evalOptions)
	if err != nil {
		return false, fmt.Errorf("keyword relevance check: %w", err)
	}
	return affirmative(resp), nil
}

// lengthMatch requires the answer to meet the word-count floor and then
// confirms it is substantive rather than padded.
func (e *FollowUpEvaluator) lengthMatch(ctx context.Context, minWords int, question, answer string) (bool, error) {
	if len(strings.Fields(answer)) < minWords {
		return false, nil
	}

	prompt := fmt.Sprintf(e.prompt(driven.PromptSubstance, defaultSubstancePrompt), question, answer)
	resp, err := e.llm.Generate(ctx, prompt, evalOptions)
	if err != nil {
		return false, fmt.Errorf("substance check: %w", err)
	}
	return affirmative(resp), nil
}

// sentimentMatch classifies the answer's tone and compares it to the
// rule's target. The condition holds only when the classification equals
// the target exactly; a verbose or negated response never fires the
// rule, so anything beyond a bare label counts as a non-match.
func (e *FollowUpEvaluator) sentimentMatch(ctx context.Context, target, question, answer string) (bool, error) {
	prompt := fmt.Sprintf(e.prompt(driven.PromptSentiment, defaultSentimentPrompt), question, answer)
	resp, err := e.llm.Generate(ctx, prompt, evalOptions)
	if err != nil {
		return false, fmt.Errorf("sentiment check: %w", err)
	}
	return sentimentLabel(resp) == strings.ToLower(strings.TrimSpace(target)), nil
}

// sentimentLabel normalises a one-word classification response: lowered,
// trimmed, with any surrounding quotes and trailing punctuation removed.
func sentimentLabel(resp string) string {
	label := strings.ToLower(strings.TrimSpace(resp))
	return strings.Trim(label, `"'.! `)
}

// buildGenerationPrompt assembles the follow-up generation prompt:
// instructional prefix, optional prior Q&A context, the current
// exchange, per-condition guidance, and the rule's own template last.
func (e *FollowUpEvaluator) buildGenerationPrompt(question *domain.Question, rule *domain.FollowUpRule, answer string, priorContext []domain.QAPair) string {
	var b strings.Builder
	b.WriteString(e.prompt(driven.PromptFollowUpPrefix, defaultFollowUpPrefix))
	b.WriteString("\n\n")

	if question.ContextIncluded && len(priorContext) > 0 {
		b.WriteString("Previous context:\n")
		for _, qa := range priorContext {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n", qa.Question, qa.Answer)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Current question: %s\nInterviewee's answer: %s\n\n", question.Text, answer)

	switch rule.Condition.Type {
	case domain.ConditionKeywords:
		b.WriteString("The answer mentions topics we want to explore further. Consider a follow-up that:\n")
		b.WriteString("1. Explores the mentioned concepts in more depth\n")
		b.WriteString("2. Asks for specific examples\n")
		b.WriteString("3. Explores the reasoning or impact behind them\n")
	case domain.ConditionLength:
		b.WriteString("The answer is detailed. Consider a follow-up that:\n")
		b.WriteString("1. Picks one specific detail to expand on\n")
		b.WriteString("2. Asks for clarification on any assumptions\n")
		b.WriteString("3. Explores the implications of what was said\n")
	case domain.ConditionSentiment:
		b.WriteString("The answer carries a notable sentiment. Consider a follow-up that:\n")
		b.WriteString("1. Acknowledges the sentiment expressed\n")
		b.WriteString("2. Explores the underlying reasons for it\n")
		b.WriteString("3. Asks about possible solutions or improvements\n")
	}

	b.WriteString("\nUsing this guidance, generate a follow-up question that: ")
	b.WriteString(rule.PromptTemplate)
	return b.String()
}

// affirmative reports whether a yes/no model response is a yes.
func affirmative(resp string) bool {
	return strings.Contains(strings.ToLower(resp), "yes")
}

// extractJSON strips markdown code fences some models wrap around JSON
// responses.
func extractJSON(resp string) string {
	resp = strings.TrimSpace(resp)
	if start := strings.Index(resp, "{"); start >= 0 {
		if end := strings.LastIndex(resp, "}"); end > start {
			return resp[start : end+1]
		}
	}
	return resp
}
