package driven

import (
	"context"

	"github.com/custodia-labs/intervo/internal/core/domain"
)

// Store provides persistence for guides, guide versions, and sessions.
//
// Lookups return domain.ErrNotFound (or a wrapping sentinel) when the
// entity is absent. Save operations are upserts keyed by entity id.
// Guide-version activation/creation and session-answer submission each
// run inside Atomically; implementations must make the callback an
// all-or-nothing unit and serialise concurrent units touching the same
// rows so lost updates cannot occur.
type Store interface {
	// FindGuideByTitle retrieves a guide by its unique title.
	FindGuideByTitle(ctx context.Context, title string) (*domain.Guide, error)

	// FindGuideByID retrieves a guide by id.
	FindGuideByID(ctx context.Context, id string) (*domain.Guide, error)

	// ListGuides returns all guides.
	ListGuides(ctx context.Context) ([]domain.Guide, error)

	// SaveGuide stores or updates a guide.
	SaveGuide(ctx context.Context, guide *domain.Guide) error

	// FindVersion retrieves a guide version by guide id and version number.
	FindVersion(ctx context.Context, guideID string, version int) (*domain.GuideVersion, error)

	// FindVersionByID retrieves a guide version by its own id.
	FindVersionByID(ctx context.Context, id string) (*domain.GuideVersion, error)

	// ListVersions returns all versions of a guide, version descending.
	ListVersions(ctx context.Context, guideID string) ([]domain.GuideVersion, error)

	// ActiveVersions returns every version of the guide currently flagged
	// active. Correct data yields zero or one element; callers surface
	// more than one as an integrity violation rather than picking one.
	ActiveVersions(ctx context.Context, guideID string) ([]domain.GuideVersion, error)

	// SaveVersion stores or updates a guide version.
	SaveVersion(ctx context.Context, version *domain.GuideVersion) error

	// DeactivateVersions clears the active flag on every version of the guide.
	DeactivateVersions(ctx context.Context, guideID string) error

	// FindSession retrieves a session by id.
	FindSession(ctx context.Context, id string) (*domain.Session, error)

	// SaveSession stores or updates a session.
	SaveSession(ctx context.Context, session *domain.Session) error

	// Atomically runs fn as one atomic unit. Every store call made through
	// the tx argument commits together or not at all; any error from fn
	// rolls the unit back and is returned unchanged. Partial writes are
	// never observable.
	Atomically(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
