// Package throttle wraps an LLM service with client-side rate limiting.
// A single answer submission can fan out into several capability calls
// (quality gate, condition checks, generation), so a token bucket in
// front of the provider keeps bursts under cloud API quotas.
package throttle

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/intervo/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultRequestsPerSecond is the default proactive throttle rate.
const DefaultRequestsPerSecond = 2.0

// LLMService decorates another LLMService with a token bucket.
type LLMService struct {
	inner  driven.LLMService
	bucket *rate.Limiter
}

// NewLLMService wraps inner with the given request rate and burst size.
// Non-positive values fall back to defaults.
func NewLLMService(inner driven.LLMService, requestsPerSecond float64, burst int) *LLMService {
	if requestsPerSecond <= 0 {
		requestsPerSecond = DefaultRequestsPerSecond
	}
	if burst <= 0 {
		burst = 1
	}
	return &LLMService{
		inner:  inner,
		bucket: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Generate produces text completion from a prompt, waiting for a token first.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := s.bucket.Wait(ctx); err != nil {
		return "", err
	}
	return s.inner.Generate(ctx, prompt, opts)
}

// Chat conducts a multi-turn conversation, waiting for a token first.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	if err := s.bucket.Wait(ctx); err != nil {
		return "", err
	}
	return s.inner.Chat(ctx, messages, opts)
}

// ModelName returns the wrapped service's model name.
func (s *LLMService) ModelName() string {
	return s.inner.ModelName()
}

// Ping validates the wrapped service is reachable. Not throttled; pings
// are rare and should fail fast.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close releases the wrapped service's resources.
func (s *LLMService) Close() error {
	return s.inner.Close()
}
