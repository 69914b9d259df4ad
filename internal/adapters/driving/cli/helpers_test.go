package cli

import (
	"context"

	"github.com/custodia-labs/intervo/internal/core/domain"
	"github.com/custodia-labs/intervo/internal/core/ports/driving"
)

// setupTestServices injects mock services into the package-level vars
// and returns a cleanup that restores the originals. The persistent
// pre-run skips wiring while the mocks are in place.
func setupTestServices() func() {
	origGuide := guideService
	origSession := sessionService
	origChat := chatService
	origSettings := settingsService
	origAppSettings := appSettings

	guideService = &mockGuideService{}
	sessionService = &mockSessionService{}
	chatService = &mockChatService{}
	settingsService = &mockSettingsService{}
	appSettings = domain.DefaultAppSettings()

	return func() {
		guideService = origGuide
		sessionService = origSession
		chatService = origChat
		settingsService = origSettings
		appSettings = origAppSettings
	}
}

type mockGuideService struct {
	Guides     []domain.Guide
	CreateFn   func(ctx context.Context, title, description string, questions []domain.Question) (*domain.Guide, error)
	ActivateFn func(ctx context.Context, guideID string, version int) (*domain.Guide, *domain.GuideVersion, error)
}

var _ driving.GuideService = (*mockGuideService)(nil)

func (m *mockGuideService) CreateOrUpdate(ctx context.Context, title, description string, questions []domain.Question) (*domain.Guide, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, title, description, questions)
	}
	return &domain.Guide{ID: "g1", Title: title, CurrentVersion: 1}, nil
}

func (m *mockGuideService) List(_ context.Context) ([]domain.Guide, error) {
	return m.Guides, nil
}

func (m *mockGuideService) ActiveGuide(_ context.Context, guideID string) (*domain.Guide, *domain.GuideVersion, error) {
	for i := range m.Guides {
		if m.Guides[i].ID == guideID {
			return &m.Guides[i], &domain.GuideVersion{
				GuideID: guideID,
				Version: m.Guides[i].CurrentVersion,
			}, nil
		}
	}
	return nil, nil, domain.ErrGuideNotFound
}

func (m *mockGuideService) ListVersions(_ context.Context, guideID string) ([]domain.GuideVersion, error) {
	return []domain.GuideVersion{{GuideID: guideID, Version: 1, IsActive: true}}, nil
}

func (m *mockGuideService) Activate(ctx context.Context, guideID string, version int) (*domain.Guide, *domain.GuideVersion, error) {
	if m.ActivateFn != nil {
		return m.ActivateFn(ctx, guideID, version)
	}
	return nil, nil, nil
}

type mockSessionService struct {
	SubmitFn func(ctx context.Context, sessionID, questionID, answerText string) (*domain.SubmitResult, error)
}

var _ driving.SessionService = (*mockSessionService)(nil)

func (m *mockSessionService) Start(_ context.Context, guideID string) (*domain.Session, *domain.Question, error) {
	return &domain.Session{ID: "s1", GuideID: guideID},
		&domain.Question{ID: "q1", Text: "First question"}, nil
}

func (m *mockSessionService) Get(_ context.Context, sessionID string) (*domain.Session, *domain.Question, error) {
	return &domain.Session{ID: sessionID},
		&domain.Question{ID: "q1", Text: "First question"}, nil
}

func (m *mockSessionService) SubmitAnswer(ctx context.Context, sessionID, questionID, answerText string) (*domain.SubmitResult, error) {
	if m.SubmitFn != nil {
		return m.SubmitFn(ctx, sessionID, questionID, answerText)
	}
	return &domain.SubmitResult{IsComplete: true}, nil
}

type mockChatService struct{}

var _ driving.ChatService = (*mockChatService)(nil)

func (m *mockChatService) Send(_ context.Context, _ []domain.ChatTurn, question string) (string, error) {
	return "mock answer to: " + question, nil
}

type mockSettingsService struct {
	Settings *domain.AppSettings
	Saved    *domain.AppSettings
}

var _ driving.SettingsService = (*mockSettingsService)(nil)

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.Settings != nil {
		return m.Settings, nil
	}
	return domain.DefaultAppSettings(), nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.Saved = settings
	return nil
}
