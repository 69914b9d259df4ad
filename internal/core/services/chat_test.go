package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/intervo/internal/core/domain"
	"github.com/custodia-labs/intervo/internal/core/ports/driven"
)

func TestChatService_Send(t *testing.T) {
	var got []driven.ChatMessage
	llm := &mockLLM{
		chatFn: func(messages []driven.ChatMessage) (string, error) {
			got = messages
			return "A thoughtful reply", nil
		},
	}
	svc := NewChatService(llm)

	history := []domain.ChatTurn{
		{Role: "user", Text: "Hello"},
		{Role: "model", Text: "Hi, how can I help?"},
	}
	reply, err := svc.Send(context.Background(), history, "Summarise my last session")
	require.NoError(t, err)
	assert.Equal(t, "A thoughtful reply", reply)

	require.Len(t, got, 3)
	assert.Equal(t, "user", got[0].Role)
	assert.Equal(t, "assistant", got[1].Role, "model turns map to assistant role")
	assert.Equal(t, "user", got[2].Role)
	assert.Equal(t, "Summarise my last session", got[2].Content)
}

func TestChatService_Send_NoLLM(t *testing.T) {
	svc := NewChatService(nil)
	_, err := svc.Send(context.Background(), nil, "hello")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestChatService_Send_EmptyMessage(t *testing.T) {
	svc := NewChatService(&mockLLM{})
	_, err := svc.Send(context.Background(), nil, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
