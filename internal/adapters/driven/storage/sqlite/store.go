// Package sqlite provides a SQLite-backed Store implementation.
// Guide content and session state are stored as JSON columns; entity
// rows carry the queryable fields.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/intervo/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/intervo/internal/core/domain"
	"github.com/custodia-labs/intervo/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.Store = (*Store)(nil)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx,
// letting the same query code run inside and outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is a SQLite-based implementation of driven.Store.
type Store struct {
	db   *sql.DB
	q    querier
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.intervo/data/intervo.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".intervo", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "intervo.db")

	// WAL for concurrent readers; immediate transactions take the write
	// lock at BEGIN so two units racing on the same session serialise
	// instead of one failing on a stale snapshot.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		q:    db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// FindGuideByTitle retrieves a guide by its unique title.
func (s *Store) FindGuideByTitle(ctx context.Context, title string) (*domain.Guide, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, title, description, current_version, created_at, updated_at
		FROM guides WHERE title = ?
	`, title)
	return scanGuide(row)
}

// FindGuideByID retrieves a guide by id.
func (s *Store) FindGuideByID(ctx context.Context, id string) (*domain.Guide, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, title, description, current_version, created_at, updated_at
		FROM guides WHERE id = ?
	`, id)
	return scanGuide(row)
}

// ListGuides returns all guides, ordered by title.
func (s *Store) ListGuides(ctx context.Context) ([]domain.Guide, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, title, description, current_version, created_at, updated_at
		FROM guides ORDER BY title
	`)
	if err != nil {
		return nil, fmt.Errorf("listing guides: %w", err)
	}
	defer rows.Close()

	var guides []domain.Guide
	for rows.Next() {
		var g domain.Guide
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.CurrentVersion, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning guide: %w", err)
		}
		guides = append(guides, g)
	}
	return guides, rows.Err()
}

// SaveGuide stores or updates a guide.
func (s *Store) SaveGuide(ctx context.Context, guide *domain.Guide) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO guides (id, title, description, current_version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			current_version = excluded.current_version,
			updated_at = excluded.updated_at
	`, guide.ID, guide.Title, guide.Description, guide.CurrentVersion, guide.CreatedAt, guide.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving guide: %w", err)
	}
	return nil
}

// FindVersion retrieves a guide version by guide id and version number.
func (s *Store) FindVersion(ctx context.Context, guideID string, version int) (*domain.GuideVersion, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, guide_id, version, content, is_active, created_at
		FROM guide_versions WHERE guide_id = ? AND version = ?
	`, guideID, version)
	return scanVersion(row)
}

// FindVersionByID retrieves a guide version by its own id.
func (s *Store) FindVersionByID(ctx context.Context, id string) (*domain.GuideVersion, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, guide_id, version, content, is_active, created_at
		FROM guide_versions WHERE id = ?
	`, id)
	return scanVersion(row)
}

// ListVersions returns all versions of a guide, version descending.
func (s *Store) ListVersions(ctx context.Context, guideID string) ([]domain.GuideVersion, error) {
	return s.queryVersions(ctx, `
		SELECT id, guide_id, version, content, is_active, created_at
		FROM guide_versions WHERE guide_id = ? ORDER BY version DESC
	`, guideID)
}

// ActiveVersions returns every version of the guide flagged active.
func (s *Store) ActiveVersions(ctx context.Context, guideID string) ([]domain.GuideVersion, error) {
	return s.queryVersions(ctx, `
		SELECT id, guide_id, version, content, is_active, created_at
		FROM guide_versions WHERE guide_id = ? AND is_active = 1 ORDER BY version DESC
	`, guideID)
}

func (s *Store) queryVersions(ctx context.Context, query string, args ...any) ([]domain.GuideVersion, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying versions: %w", err)
	}
	defer rows.Close()

	var versions []domain.GuideVersion
	for rows.Next() {
		var v domain.GuideVersion
		var contentJSON string
		if err := rows.Scan(&v.ID, &v.GuideID, &v.Version, &contentJSON, &v.IsActive, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning version: %w", err)
		}
		if err := json.Unmarshal([]byte(contentJSON), &v.Content); err != nil {
			return nil, fmt.Errorf("unmarshaling version content: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// SaveVersion stores or updates a guide version.
func (s *Store) SaveVersion(ctx context.Context, version *domain.GuideVersion) error {
	contentJSON, err := json.Marshal(version.Content)
	if err != nil {
		return fmt.Errorf("marshalling version content: %w", err)
	}

	_, err = s.q.ExecContext(ctx, `
		INSERT INTO guide_versions (id, guide_id, version, content, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			is_active = excluded.is_active
	`, version.ID, version.GuideID, version.Version, string(contentJSON), version.IsActive, version.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving version: %w", err)
	}
	return nil
}

// DeactivateVersions clears the active flag on every version of the guide.
func (s *Store) DeactivateVersions(ctx context.Context, guideID string) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE guide_versions SET is_active = 0 WHERE guide_id = ?
	`, guideID)
	if err != nil {
		return fmt.Errorf("deactivating versions: %w", err)
	}
	return nil
}

// FindSession retrieves a session by id.
func (s *Store) FindSession(ctx context.Context, id string) (*domain.Session, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, guide_id, guide_version_id, state, created_at, updated_at
		FROM sessions WHERE id = ?
	`, id)

	var sess domain.Session
	var stateJSON string
	if err := row.Scan(&sess.ID, &sess.GuideID, &sess.GuideVersionID, &stateJSON, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	if err := json.Unmarshal([]byte(stateJSON), &sess.State); err != nil {
		return nil, fmt.Errorf("unmarshaling session state: %w", err)
	}
	return &sess, nil
}

// SaveSession stores or updates a session.
func (s *Store) SaveSession(ctx context.Context, session *domain.Session) error {
	stateJSON, err := json.Marshal(session.State)
	if err != nil {
		return fmt.Errorf("marshalling session state: %w", err)
	}

	_, err = s.q.ExecContext(ctx, `
		INSERT INTO sessions (id, guide_id, guide_version_id, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			updated_at = excluded.updated_at
	`, session.ID, session.GuideID, session.GuideVersionID, string(stateJSON), session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Atomically runs fn inside a database transaction. Transactions begin
// with the write lock held, so concurrent units run one after the other
// and the second always observes the first's commit; lost updates are
// impossible. Nested calls would deadlock on a second BEGIN, so a tx
// store joins the enclosing transaction instead.
func (s *Store) Atomically(ctx context.Context, fn func(ctx context.Context, tx driven.Store) error) error {
	if _, inTx := s.q.(*sql.Tx); inTx {
		return fn(ctx, s)
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	txStore := &Store{db: s.db, q: dbTx, path: s.path}
	if err := fn(ctx, txStore); err != nil {
		if rbErr := dbTx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func scanGuide(row *sql.Row) (*domain.Guide, error) {
	var g domain.Guide
	if err := row.Scan(&g.ID, &g.Title, &g.Description, &g.CurrentVersion, &g.CreatedAt, &g.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning guide: %w", err)
	}
	return &g, nil
}

func scanVersion(row *sql.Row) (*domain.GuideVersion, error) {
	var v domain.GuideVersion
	var contentJSON string
	if err := row.Scan(&v.ID, &v.GuideID, &v.Version, &contentJSON, &v.IsActive, &v.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning version: %w", err)
	}
	if err := json.Unmarshal([]byte(contentJSON), &v.Content); err != nil {
		return nil, fmt.Errorf("unmarshaling version content: %w", err)
	}
	return &v, nil
}
