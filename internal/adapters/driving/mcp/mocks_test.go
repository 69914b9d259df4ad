package mcp

import (
	"context"

	"github.com/custodia-labs/intervo/internal/core/domain"
)

// mockGuideService is a mock implementation of driving.GuideService.
type mockGuideService struct {
	guides  []domain.Guide
	guide   *domain.Guide
	version *domain.GuideVersion
	err     error
}

func (m *mockGuideService) CreateOrUpdate(_ context.Context, _, _ string, _ []domain.Question) (*domain.Guide, error) {
	return m.guide, m.err
}

func (m *mockGuideService) List(_ context.Context) ([]domain.Guide, error) {
	return m.guides, m.err
}

func (m *mockGuideService) ActiveGuide(_ context.Context, _ string) (*domain.Guide, *domain.GuideVersion, error) {
	return m.guide, m.version, m.err
}

func (m *mockGuideService) ListVersions(_ context.Context, _ string) ([]domain.GuideVersion, error) {
	if m.version == nil {
		return nil, m.err
	}
	return []domain.GuideVersion{*m.version}, m.err
}

func (m *mockGuideService) Activate(_ context.Context, _ string, _ int) (*domain.Guide, *domain.GuideVersion, error) {
	return m.guide, m.version, m.err
}

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	session  *domain.Session
	question *domain.Question
	result   *domain.SubmitResult
	err      error
}

func (m *mockSessionService) Start(_ context.Context, _ string) (*domain.Session, *domain.Question, error) {
	return m.session, m.question, m.err
}

func (m *mockSessionService) Get(_ context.Context, _ string) (*domain.Session, *domain.Question, error) {
	return m.session, m.question, m.err
}

func (m *mockSessionService) SubmitAnswer(_ context.Context, _, _, _ string) (*domain.SubmitResult, error) {
	return m.result, m.err
}
