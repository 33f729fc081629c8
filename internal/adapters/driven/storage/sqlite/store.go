package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/riskrag/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/riskrag/internal/core/domain"
	"github.com/custodia-labs/riskrag/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.riskrag/data/riskrag.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".riskrag", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "riskrag.db")

	// WAL for concurrent readers; foreign keys must be set per connection.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

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

// ProjectStore returns a ProjectStore interface backed by this store.
func (s *Store) ProjectStore() driven.ProjectStore {
	return &projectStore{store: s}
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// ReportStore returns a ReportStore interface backed by this store.
func (s *Store) ReportStore() driven.ReportStore {
	return &reportStore{store: s}
}

// FileStore returns a FileStore interface backed by this store.
func (s *Store) FileStore() driven.FileStore {
	return &fileStore{store: s}
}

// VectorStore returns a VectorStore interface backed by this store.
func (s *Store) VectorStore() driven.VectorStore {
	return &vectorStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Project Store ====================

// projectStore implements driven.ProjectStore.
type projectStore struct {
	store *Store
}

var _ driven.ProjectStore = (*projectStore)(nil)

// Save stores or updates a project.
func (s *projectStore) Save(ctx context.Context, project *domain.Project) error {
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO projects (id, title, start_date, end_date, manager, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			manager = excluded.manager
	`, project.ID, project.Title, nullTime(project.StartDate), nullTime(project.EndDate),
		project.Manager, project.CreatedAt)
	if err != nil {
		return storageErr("saving project", err)
	}
	return nil
}

// Get retrieves a project by ID.
func (s *projectStore) Get(ctx context.Context, id string) (*domain.Project, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, start_date, end_date, manager, created_at
		FROM projects WHERE id = ?
	`, id)

	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storageErr("scanning project", err)
	}
	return project, nil
}

// List returns all projects ordered by title.
func (s *projectStore) List(ctx context.Context) ([]domain.Project, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, title, start_date, end_date, manager, created_at
		FROM projects ORDER BY title, id
	`)
	if err != nil {
		return nil, storageErr("listing projects", err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, storageErr("scanning project", err)
		}
		projects = append(projects, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating projects", err)
	}
	return projects, nil
}

// Delete removes a project. Documents and reports cascade.
func (s *projectStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return storageErr("deleting project", err)
	}
	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or replaces a document with its bytes.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	doc.Size = int64(len(doc.Data))

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, project_id, name, data, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			data = excluded.data,
			size = excluded.size
	`, doc.ID, doc.ProjectID, doc.Name, nonNilBytes(doc.Data), doc.Size, doc.CreatedAt)
	if err != nil {
		return storageErr("saving document", err)
	}
	return nil
}

// GetDocument retrieves a document with its bytes.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, project_id, name, data, size, created_at
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storageErr("scanning document", err)
	}
	return doc, nil
}

// ListDocuments returns a project's documents with their bytes, oldest first.
func (s *documentStore) ListDocuments(ctx context.Context, projectID string) ([]domain.Document, error) {
	return s.list(ctx, projectID, true)
}

// ListDocumentSummaries returns a project's documents without bytes.
func (s *documentStore) ListDocumentSummaries(ctx context.Context, projectID string) ([]domain.Document, error) {
	return s.list(ctx, projectID, false)
}

func (s *documentStore) list(ctx context.Context, projectID string, withData bool) ([]domain.Document, error) {
	dataColumn := "data"
	if !withData {
		dataColumn = "NULL"
	}
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, project_id, name, `+dataColumn+`, size, created_at
		FROM documents WHERE project_id = ?
		ORDER BY rowid
	`, projectID)
	if err != nil {
		return nil, storageErr("listing documents", err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows, withData)
		if err != nil {
			return nil, storageErr("scanning document", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating documents", err)
	}
	return docs, nil
}

// DeleteDocument removes a document.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return storageErr("deleting document", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Report Store ====================

// reportStore implements driven.ReportStore.
type reportStore struct {
	store *Store
}

var _ driven.ReportStore = (*reportStore)(nil)

// SaveReport stores a rendered report.
func (s *reportStore) SaveReport(ctx context.Context, report *domain.Report) error {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	report.Size = int64(len(report.Data))

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO reports (id, project_id, name, data, size, risk_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, report.ID, report.ProjectID, report.Name, nonNilBytes(report.Data),
		report.Size, report.RiskCount, report.CreatedAt)
	if err != nil {
		return storageErr("saving report", err)
	}
	return nil
}

// GetReport retrieves a report with its bytes.
func (s *reportStore) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, project_id, name, data, size, risk_count, created_at
		FROM reports WHERE id = ?
	`, id)

	report, err := scanReport(row, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storageErr("scanning report", err)
	}
	return report, nil
}

// ListReports returns a project's reports without bytes, newest first.
func (s *reportStore) ListReports(ctx context.Context, projectID string) ([]domain.Report, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, project_id, name, NULL, size, risk_count, created_at
		FROM reports WHERE project_id = ?
		ORDER BY rowid DESC
	`, projectID)
	if err != nil {
		return nil, storageErr("listing reports", err)
	}
	defer rows.Close()

	reports := []domain.Report{}
	for rows.Next() {
		report, err := scanReport(rows, false)
		if err != nil {
			return nil, storageErr("scanning report", err)
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating reports", err)
	}
	return reports, nil
}

// ==================== File Store ====================

// fileStore implements driven.FileStore.
type fileStore struct {
	store *Store
}

var _ driven.FileStore = (*fileStore)(nil)

// GetBytes returns the name and bytes of a document or report.
func (s *fileStore) GetBytes(ctx context.Context, id string, kind domain.FileKind) (*domain.StoredFile, error) {
	var table string
	switch kind {
	case domain.FileKindDocument:
		table = "documents"
	case domain.FileKindReport:
		table = "reports"
	default:
		return nil, fmt.Errorf("%w: unknown file kind %q", domain.ErrInvalidInput, kind)
	}

	var file domain.StoredFile
	row := s.store.db.QueryRowContext(ctx, "SELECT name, data FROM "+table+" WHERE id = ?", id)
	if err := row.Scan(&file.Name, &file.Data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storageErr("reading file", err)
	}
	return &file, nil
}

// ==================== Helper Functions ====================

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var project domain.Project
	var startDate, endDate, createdAt sql.NullTime
	if err := row.Scan(&project.ID, &project.Title, &startDate, &endDate,
		&project.Manager, &createdAt); err != nil {
		return nil, err
	}
	project.StartDate = startDate.Time
	project.EndDate = endDate.Time
	project.CreatedAt = createdAt.Time
	return &project, nil
}

func scanDocument(row rowScanner, withData bool) (*domain.Document, error) {
	var doc domain.Document
	var data []byte
	var createdAt sql.NullTime
	if err := row.Scan(&doc.ID, &doc.ProjectID, &doc.Name, &data, &doc.Size, &createdAt); err != nil {
		return nil, err
	}
	if withData {
		doc.Data = data
	}
	doc.CreatedAt = createdAt.Time
	return &doc, nil
}

func scanReport(row rowScanner, withData bool) (*domain.Report, error) {
	var report domain.Report
	var data []byte
	var createdAt sql.NullTime
	if err := row.Scan(&report.ID, &report.ProjectID, &report.Name, &data,
		&report.Size, &report.RiskCount, &createdAt); err != nil {
		return nil, err
	}
	if withData {
		report.Data = data
	}
	report.CreatedAt = createdAt.Time
	return &report, nil
}

// nullTime stores zero times as NULL.
func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// nonNilBytes keeps NOT NULL blob columns satisfied for empty payloads.
func nonNilBytes(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}
