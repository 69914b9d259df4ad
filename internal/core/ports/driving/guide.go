package driving

import (
	"context"

	"github.com/custodia-labs/intervo/internal/core/domain"
)

// GuideService manages discussion guides and their versioned content.
type GuideService interface {
	// CreateOrUpdate stores a new content snapshot for the guide with the
	// given title, creating the guide at version 1 when the title is new
	// and bumping the version counter otherwise. The new version starts
	// active; any previous versions are deactivated in the same atomic
	// unit. The question tree is validated before anything persists.
	CreateOrUpdate(ctx context.Context, title, description string, questions []domain.Question) (*domain.Guide, error)

	// List returns all guides.
	List(ctx context.Context) ([]domain.Guide, error)

	// ActiveGuide returns a guide together with its single active version.
	// Fails with domain.ErrGuideNotFound when the guide is absent,
	// domain.ErrNoActiveVersion when it has no active version, and
	// domain.ErrIntegrityViolation when more than one version is active.
	ActiveGuide(ctx context.Context, guideID string) (*domain.Guide, *domain.GuideVersion, error)

	// ListVersions returns a guide's version history, version descending.
	ListVersions(ctx context.Context, guideID string) ([]domain.GuideVersion, error)

	// Activate atomically makes the named version the guide's only active
	// one and returns the guide with that version as read inside the
	// same transaction. Fails with domain.ErrVersionNotFound when no
	// such version exists; the previously active version is then left
	// unchanged.
	Activate(ctx context.Context, guideID string, version int) (*domain.Guide, *domain.GuideVersion, error)
}
