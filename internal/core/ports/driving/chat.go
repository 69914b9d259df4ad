package driving

import (
	"context"

	"github.com/custodia-labs/intervo/internal/core/domain"
)

// ChatService forwards free-form conversations to the text-generation
// capability, passing prior turns along for context.
type ChatService interface {
	// Send appends question to the conversation history and returns the
	// model's reply.
	Send(ctx context.Context, history []domain.ChatTurn, question string) (string, error)
}
