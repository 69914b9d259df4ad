// Package memory provides an in-memory Store implementation.
// Useful for testing and for ephemeral interview runs where persistence
// across restarts is not needed.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/intervo/internal/core/domain"
	"github.com/custodia-labs/intervo/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.Store = (*Store)(nil)

// data holds the store's maps, all keyed by entity id. Values are stored
// by value so readers get copies and cannot mutate shared state.
type data struct {
	guides   map[string]domain.Guide
	versions map[string]domain.GuideVersion
	sessions map[string]domain.Session
}

func newData() *data {
	return &data{
		guides:   make(map[string]domain.Guide),
		versions: make(map[string]domain.GuideVersion),
		sessions: make(map[string]domain.Session),
	}
}

// snapshot returns a shallow copy of every map. Saves replace whole
// entries rather than mutating them in place, so a map-level copy is
// enough to restore from.
func (d *data) snapshot() *data {
	s := newData()
	for k, v := range d.guides {
		s.guides[k] = v
	}
	for k, v := range d.versions {
		s.versions[k] = v
	}
	for k, v := range d.sessions {
		s.sessions[k] = v
	}
	return s
}

// Store is an in-memory implementation of driven.Store.
type Store struct {
	mu sync.RWMutex
	d  *data
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{d: newData()}
}

// FindGuideByTitle retrieves a guide by its unique title.
func (s *Store) FindGuideByTitle(_ context.Context, title string) (*domain.Guide, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.d.findGuideByTitle(title)
}

// FindGuideByID retrieves a guide by id.
func (s *Store) FindGuideByID(_ context.Context, id string) (*domain.Guide, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.d.findGuideByID(id)
}

// ListGuides returns all guides.
func (s *Store) ListGuides(_ context.Context) ([]domain.Guide, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.d.listGuides()
}

// SaveGuide stores or updates a guide.
func (s *Store) SaveGuide(_ context.Context, guide *domain.Guide) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.saveGuide(guide)
}

// FindVersion retrieves a guide version by guide id and version number.
func (s *Store) FindVersion(_ context.Context, guideID string, version int) (*domain.GuideVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.d.findVersion(guideID, version)
}

// FindVersionByID retrieves a guide version by its own id.
func (s *Store) FindVersionByID(_ context.Context, id string) (*domain.GuideVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.d.findVersionByID(id)
}

// ListVersions returns all versions of a guide, version descending.
func (s *Store) ListVersions(_ context.Context, guideID string) ([]domain.GuideVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.d.listVersions(guideID)
}

// ActiveVersions returns every version of the guide flagged active.
func (s *Store) ActiveVersions(_ context.Context, guideID string) ([]domain.GuideVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.d.activeVersions(guideID)
}

// SaveVersion stores or updates a guide version.
func (s *Store) SaveVersion(_ context.Context, version *domain.GuideVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.saveVersion(version)
}

// DeactivateVersions clears the active flag on every version of the guide.
func (s *Store) DeactivateVersions(_ context.Context, guideID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.deactivateVersions(guideID)
}

// FindSession retrieves a session by id.
func (s *Store) FindSession(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.d.findSession(id)
}

// SaveSession stores or updates a session.
func (s *Store) SaveSession(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.saveSession(session)
}

// Atomically runs fn while holding the write lock, against an unlocked
// view of the same data. A snapshot taken up front is restored when fn
// fails, so partial writes are never observable. Holding the lock for
// the whole unit also serialises concurrent units.
func (s *Store) Atomically(ctx context.Context, fn func(ctx context.Context, tx driven.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.d.snapshot()
	if err := fn(ctx, &txStore{d: s.d}); err != nil {
		s.d = saved
		return err
	}
	return nil
}

// txStore adapts the raw data to driven.Store without locking; it is
// only ever used inside Atomically, under the owning store's lock.
// Nested Atomically calls join the enclosing unit.
type txStore struct {
	d *data
}

var _ driven.Store = (*txStore)(nil)

func (t *txStore) FindGuideByTitle(_ context.Context, title string) (*domain.Guide, error) {
	return t.d.findGuideByTitle(title)
}

func (t *txStore) FindGuideByID(_ context.Context, id string) (*domain.Guide, error) {
	return t.d.findGuideByID(id)
}

func (t *txStore) ListGuides(_ context.Context) ([]domain.Guide, error) {
	return t.d.listGuides()
}

func (t *txStore) SaveGuide(_ context.Context, guide *domain.Guide) error {
	return t.d.saveGuide(guide)
}

func (t *txStore) FindVersion(_ context.Context, guideID string, version int) (*domain.GuideVersion, error) {
	return t.d.findVersion(guideID, version)
}

func (t *txStore) FindVersionByID(_ context.Context, id string) (*domain.GuideVersion, error) {
	return t.d.findVersionByID(id)
}

func (t *txStore) ListVersions(_ context.Context, guideID string) ([]domain.GuideVersion, error) {
	return t.d.listVersions(guideID)
}

func (t *txStore) ActiveVersions(_ context.Context, guideID string) ([]domain.GuideVersion, error) {
	return t.d.activeVersions(guideID)
}

func (t *txStore) SaveVersion(_ context.Context, version *domain.GuideVersion) error {
	return t.d.saveVersion(version)
}

func (t *txStore) DeactivateVersions(_ context.Context, guideID string) error {
	return t.d.deactivateVersions(guideID)
}

func (t *txStore) FindSession(_ context.Context, id string) (*domain.Session, error) {
	return t.d.findSession(id)
}

func (t *txStore) SaveSession(_ context.Context, session *domain.Session) error {
	return t.d.saveSession(session)
}

func (t *txStore) Atomically(ctx context.Context, fn func(ctx context.Context, tx driven.Store) error) error {
	return fn(ctx, t)
}

func (d *data) findGuideByTitle(title string) (*domain.Guide, error) {
	for _, g := range d.guides {
		if g.Title == title {
			guide := g
			return &guide, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (d *data) findGuideByID(id string) (*domain.Guide, error) {
	g, ok := d.guides[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &g, nil
}

func (d *data) listGuides() ([]domain.Guide, error) {
	guides := make([]domain.Guide, 0, len(d.guides))
	for _, g := range d.guides {
		guides = append(guides, g)
	}
	sort.Slice(guides, func(i, j int) bool {
		return guides[i].Title < guides[j].Title
	})
	return guides, nil
}

func (d *data) saveGuide(guide *domain.Guide) error {
	d.guides[guide.ID] = *guide
	return nil
}

func (d *data) findVersion(guideID string, version int) (*domain.GuideVersion, error) {
	for _, v := range d.versions {
		if v.GuideID == guideID && v.Version == version {
			gv := v
			return &gv, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (d *data) findVersionByID(id string) (*domain.GuideVersion, error) {
	v, ok := d.versions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &v, nil
}

func (d *data) listVersions(guideID string) ([]domain.GuideVersion, error) {
	var versions []domain.GuideVersion
	for _, v := range d.versions {
		if v.GuideID == guideID {
			versions = append(versions, v)
		}
	}
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Version > versions[j].Version
	})
	return versions, nil
}

func (d *data) activeVersions(guideID string) ([]domain.GuideVersion, error) {
	var versions []domain.GuideVersion
	for _, v := range d.versions {
		if v.GuideID == guideID && v.IsActive {
			versions = append(versions, v)
		}
	}
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Version > versions[j].Version
	})
	return versions, nil
}

func (d *data) saveVersion(version *domain.GuideVersion) error {
	d.versions[version.ID] = *version
	return nil
}

func (d *data) deactivateVersions(guideID string) error {
	for id, v := range d.versions {
		if v.GuideID == guideID && v.IsActive {
			v.IsActive = false
			d.versions[id] = v
		}
	}
	return nil
}

func (d *data) findSession(id string) (*domain.Session, error) {
	sess, ok := d.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sess, nil
}

func (d *data) saveSession(session *domain.Session) error {
	d.sessions[session.ID] = *session
	return nil
}
