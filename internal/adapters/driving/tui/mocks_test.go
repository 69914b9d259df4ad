package tui

import (
	"context"

	"github.com/custodia-labs/intervo/internal/core/domain"
	"github.com/custodia-labs/intervo/internal/core/ports/driving"
)

// MockGuideService is a test double for driving.GuideService.
type MockGuideService struct {
	ListFn func(ctx context.Context) ([]domain.Guide, error)
}

var _ driving.GuideService = (*MockGuideService)(nil)

func (m *MockGuideService) CreateOrUpdate(ctx context.Context, title, description string, questions []domain.Question) (*domain.Guide, error) {
	return nil, nil
}

func (m *MockGuideService) List(ctx context.Context) ([]domain.Guide, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *MockGuideService) ActiveGuide(ctx context.Context, guideID string) (*domain.Guide, *domain.GuideVersion, error) {
	return nil, nil, nil
}

func (m *MockGuideService) ListVersions(ctx context.Context, guideID string) ([]domain.GuideVersion, error) {
	return nil, nil
}

func (m *MockGuideService) Activate(ctx context.Context, guideID string, version int) (*domain.Guide, *domain.GuideVersion, error) {
	return nil, nil, nil
}

// MockSessionService is a test double for driving.SessionService.
type MockSessionService struct {
	StartFn        func(ctx context.Context, guideID string) (*domain.Session, *domain.Question, error)
	SubmitAnswerFn func(ctx context.Context, sessionID, questionID, answerText string) (*domain.SubmitResult, error)
}

var _ driving.SessionService = (*MockSessionService)(nil)

func (m *MockSessionService) Start(ctx context.Context, guideID string) (*domain.Session, *domain.Question, error) {
	if m.StartFn != nil {
		return m.StartFn(ctx, guideID)
	}
	return nil, nil, nil
}

func (m *MockSessionService) Get(ctx context.Context, sessionID string) (*domain.Session, *domain.Question, error) {
	return nil, nil, nil
}

func (m *MockSessionService) SubmitAnswer(ctx context.Context, sessionID, questionID, answerText string) (*domain.SubmitResult, error) {
	if m.SubmitAnswerFn != nil {
		return m.SubmitAnswerFn(ctx, sessionID, questionID, answerText)
	}
	return nil, nil
}
