package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/intervo/internal/core/domain"
	"github.com/custodia-labs/intervo/internal/core/ports/driven"
	"github.com/custodia-labs/intervo/internal/core/ports/driving"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService forwards free-form conversations to the LLM service.
type ChatService struct {
	llm driven.LLMService
}

// NewChatService creates a new chat service. llm may be nil, in which
// case Send fails with domain.ErrLLMUnavailable.
func NewChatService(llm driven.LLMService) *ChatService {
	return &ChatService{llm: llm}
}

// Send appends question to the conversation history and returns the
// model's reply.
func (s *ChatService) Send(ctx context.Context, history []domain.ChatTurn, question string) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: empty message", domain.ErrInvalidInput)
	}

	messages := make([]driven.ChatMessage, 0, len(history)+1)
	for _, turn := range history {
		role := "user"
		if turn.Role == "model" || turn.Role == "assistant" {
			role = "assistant"
		}
		messages = append(messages, driven.ChatMessage{Role: role, Content: turn.Text})
	}
	messages = append(messages, driven.ChatMessage{Role: "user", Content: question})

	reply, err := s.llm.Chat(ctx, messages, driven.ChatOptions{MaxTokens: 1024, Temperature: 0.7})
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	return reply, nil
}
