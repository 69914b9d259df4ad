package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible
	// default or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used by the follow-up evaluator.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptQualityCheck judges an answer's general quality. The template
	// expects two %s placeholders: question text, answer text. The model
	// is asked to respond with JSON {"isValid": bool, "reason": string}.
	PromptQualityCheck = "quality_check"

	// PromptKeywordRelevance confirms matched keywords are used in a
	// meaningful context. Placeholders: %s question, %s answer,
	// %s comma-joined keywords. Yes/no response.
	PromptKeywordRelevance = "keyword_relevance"

	// PromptSubstance confirms a long answer is substantive rather than
	// filler. Placeholders: %s question, %s answer. Yes/no response.
	PromptSubstance = "substance"

	// PromptSentiment classifies an answer's dominant tone as positive,
	// negative, or neutral. Placeholders: %s question, %s answer.
	PromptSentiment = "sentiment"

	// PromptFollowUpPrefix is the instructional prefix for follow-up
	// generation. No placeholders.
	PromptFollowUpPrefix = "follow_up_prefix"
)

// PromptStoreAware is an optional interface for services that can use
// custom prompts. Services implementing it can have their templates
// customised by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable
	// prompts. If not set, the service should use embedded defaults.
	SetPromptStore(store PromptStore)
}
