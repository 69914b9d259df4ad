package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/intervo/internal/core/ports/driven"
)

// mockLLM is a scripted LLMService for tests. generateFn receives each
// Generate prompt; prompts are also recorded for assertions.
type mockLLM struct {
	generateFn func(prompt string) (string, error)
	chatFn     func(messages []driven.ChatMessage) (string, error)
	prompts    []string
}

var _ driven.LLMService = (*mockLLM)(nil)

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.generateFn != nil {
		return m.generateFn(prompt)
	}
	return "", nil
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	if m.chatFn != nil {
		return m.chatFn(messages)
	}
	return "", nil
}

func (m *mockLLM) ModelName() string            { return "mock" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// scriptedEvalLLM answers the evaluator's fixed prompt shapes: the
// quality gate gets a valid verdict, yes/no checks get "yes", sentiment
// checks get the given label, and generation prompts get followUpText.
func scriptedEvalLLM(sentiment, followUpText string) *mockLLM {
	return &mockLLM{
		generateFn: func(prompt string) (string, error) {
			switch {
			case strings.Contains(prompt, "isValid"):
				return `{"isValid": true, "reason": "genuine answer"}`, nil
			case strings.Contains(prompt, `Respond with only "yes" or "no"`):
				return "yes", nil
			case strings.Contains(prompt, "Classify the overall sentiment"):
				return sentiment, nil
			default:
				return followUpText, nil
			}
		},
	}
}

// mockConfigStore is an in-memory driven.ConfigStore.
type mockConfigStore struct {
	values map[string]any
	saved  bool
}

var _ driven.ConfigStore = (*mockConfigStore)(nil)

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if v, ok := m.values[key].(string); ok {
		return v
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	if v, ok := m.values[key].(int); ok {
		return v
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	if v, ok := m.values[key].(bool); ok {
		return v
	}
	return false
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error {
	m.saved = true
	return nil
}

func (m *mockConfigStore) Load() error { return nil }
func (m *mockConfigStore) Path() string {
	return "/tmp/intervo-test.toml"
}
