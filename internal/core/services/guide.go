package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/intervo/internal/core/domain"
	"github.com/custodia-labs/intervo/internal/core/ports/driven"
	"github.com/custodia-labs/intervo/internal/core/ports/driving"
	"github.com/custodia-labs/intervo/internal/logger"
)

// Ensure GuideService implements the interface.
var _ driving.GuideService = (*GuideService)(nil)

// GuideService manages discussion guides and their versioned content.
type GuideService struct {
	store driven.Store
}

// NewGuideService creates a new guide service.
func NewGuideService(store driven.Store) *GuideService {
	return &GuideService{store: store}
}

// CreateOrUpdate stores a new content snapshot for the guide identified
// by title. A new title creates the guide at version 1; an existing one
// bumps the version counter. The new version becomes the only active one.
func (s *GuideService) CreateOrUpdate(ctx context.Context, title, description string, questions []domain.Question) (*domain.Guide, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: guide title is required", domain.ErrInvalidInput)
	}
	if err := domain.ValidateQuestions(questions); err != nil {
		return nil, err
	}

	var guide *domain.Guide
	err := s.store.Atomically(ctx, func(ctx context.Context, tx driven.Store) error {
		now := time.Now().UTC()

		existing, err := tx.FindGuideByTitle(ctx, title)
		switch {
		case err == nil:
			guide = existing
			guide.CurrentVersion++
			guide.Description = description
			guide.UpdatedAt = now
			logger.Debug("guide %q bumped to version %d", title, guide.CurrentVersion)
		case errors.Is(err, domain.ErrNotFound):
			guide = &domain.Guide{
				ID:             uuid.NewString(),
				Title:          title,
				Description:    description,
				CurrentVersion: 1,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			logger.Debug("guide %q created", title)
		default:
			return fmt.Errorf("finding guide by title: %w", err)
		}

		if err := tx.SaveGuide(ctx, guide); err != nil {
			return fmt.Errorf("saving guide: %w", err)
		}

		if err := tx.DeactivateVersions(ctx, guide.ID); err != nil {
			return fmt.Errorf("deactivating versions: %w", err)
		}

		version := &domain.GuideVersion{
			ID:      uuid.NewString(),
			GuideID: guide.ID,
			Version: guide.CurrentVersion,
			Content: domain.GuideContent{
				Title:       title,
				Description: description,
				Version:     guide.CurrentVersion,
				Questions:   questions,
			},
			IsActive:  true,
			CreatedAt: now,
		}
		if err := tx.SaveVersion(ctx, version); err != nil {
			return fmt.Errorf("saving version: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return guide, nil
}

// List returns all guides.
func (s *GuideService) List(ctx context.Context) ([]domain.Guide, error) {
	return s.store.ListGuides(ctx)
}

// ActiveGuide returns a guide together with its single active version.
func (s *GuideService) ActiveGuide(ctx context.Context, guideID string) (*domain.Guide, *domain.GuideVersion, error) {
	guide, err := s.store.FindGuideByID(ctx, guideID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrGuideNotFound
		}
		return nil, nil, fmt.Errorf("finding guide: %w", err)
	}

	active, err := s.store.ActiveVersions(ctx, guideID)
	if err != nil {
		return nil, nil, fmt.Errorf("finding active versions: %w", err)
	}
	switch len(active) {
	case 0:
		return nil, nil, fmt.Errorf("guide %q: %w", guideID, domain.ErrNoActiveVersion)
	case 1:
		return guide, &active[0], nil
	default:
		return nil, nil, fmt.Errorf("%w: guide %q has %d active versions", domain.ErrIntegrityViolation, guideID, len(active))
	}
}

// ListVersions returns a guide's version history, newest first.
func (s *GuideService) ListVersions(ctx context.Context, guideID string) ([]domain.GuideVersion, error) {
	if _, err := s.store.FindGuideByID(ctx, guideID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrGuideNotFound
		}
		return nil, fmt.Errorf("finding guide: %w", err)
	}
	return s.store.ListVersions(ctx, guideID)
}

// Activate makes the named version the guide's only active one. The
// returned guide and version come from inside the activation
// transaction, so they always describe the state this call produced
// rather than whatever a concurrent activation left behind.
func (s *GuideService) Activate(ctx context.Context, guideID string, version int) (*domain.Guide, *domain.GuideVersion, error) {
	var (
		guide  *domain.Guide
		target *domain.GuideVersion
	)
	err := s.store.Atomically(ctx, func(ctx context.Context, tx driven.Store) error {
		var err error
		guide, err = tx.FindGuideByID(ctx, guideID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrGuideNotFound
			}
			return fmt.Errorf("finding guide: %w", err)
		}

		target, err = tx.FindVersion(ctx, guideID, version)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("guide %q version %d: %w", guideID, version, domain.ErrVersionNotFound)
			}
			return fmt.Errorf("finding version: %w", err)
		}

		if err := tx.DeactivateVersions(ctx, guideID); err != nil {
			return fmt.Errorf("deactivating versions: %w", err)
		}
		target.IsActive = true
		if err := tx.SaveVersion(ctx, target); err != nil {
			return fmt.Errorf("saving version: %w", err)
		}
		logger.Debug("guide %q: version %d activated", guideID, version)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return guide, target, nil
}
