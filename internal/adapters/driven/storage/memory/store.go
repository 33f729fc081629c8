// Package memory provides in-memory implementations of the driven storage
// ports. They back tests and throwaway runs; nothing survives the process.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/riskrag/internal/core/domain"
	"github.com/custodia-labs/riskrag/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.DocumentStore = (*Store)(nil)
	_ driven.ReportStore   = (*Store)(nil)
	_ driven.FileStore     = (*Store)(nil)
	_ driven.ProjectStore  = projectStore{}
)

// Store keeps projects, documents and reports in maps.
// Deleting a project cascades to its documents and reports.
type Store struct {
	mu        sync.RWMutex
	seq       int64
	projects  map[string]domain.Project
	documents map[string]stored[domain.Document]
	reports   map[string]stored[domain.Report]
}

// stored pairs a value with its insertion sequence for stable ordering.
type stored[T any] struct {
	seq   int64
	value T
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		projects:  make(map[string]domain.Project),
		documents: make(map[string]stored[domain.Document]),
		reports:   make(map[string]stored[domain.Report]),
	}
}

// Projects returns the project store view.
func (s *Store) Projects() driven.ProjectStore {
	return projectStore{s}
}

// ==================== Projects ====================

type projectStore struct {
	s *Store
}

func (p projectStore) Save(_ context.Context, project *domain.Project) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	p.s.projects[project.ID] = *project
	return nil
}

func (p projectStore) Get(_ context.Context, id string) (*domain.Project, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	project, ok := p.s.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &project, nil
}

func (p projectStore) List(_ context.Context) ([]domain.Project, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	out := make([]domain.Project, 0, len(p.s.projects))
	for _, project := range p.s.projects {
		out = append(out, project)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (p projectStore) Delete(_ context.Context, id string) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	delete(p.s.projects, id)
	for docID, doc := range p.s.documents {
		if doc.value.ProjectID == id {
			delete(p.s.documents, docID)
		}
	}
	for reportID, report := range p.s.reports {
		if report.value.ProjectID == id {
			delete(p.s.reports, reportID)
		}
	}
	return nil
}

// ==================== Documents ====================

// SaveDocument stores or replaces a document.
func (s *Store) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	d := *doc
	d.Data = append([]byte(nil), doc.Data...)
	d.Size = int64(len(d.Data))
	s.documents[doc.ID] = stored[domain.Document]{seq: s.seq, value: d}
	return nil
}

// GetDocument retrieves a document with its bytes.
func (s *Store) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	d := doc.value
	return &d, nil
}

// ListDocuments returns a project's documents with bytes, oldest first.
func (s *Store) ListDocuments(_ context.Context, projectID string) ([]domain.Document, error) {
	return s.listDocuments(projectID, true), nil
}

// ListDocumentSummaries returns a project's documents without bytes.
func (s *Store) ListDocumentSummaries(_ context.Context, projectID string) ([]domain.Document, error) {
	return s.listDocuments(projectID, false), nil
}

func (s *Store) listDocuments(projectID string, withData bool) []domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []stored[domain.Document]
	for _, doc := range s.documents {
		if doc.value.ProjectID == projectID {
			matched = append(matched, doc)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })

	out := make([]domain.Document, len(matched))
	for i, doc := range matched {
		out[i] = doc.value
		if !withData {
			out[i].Data = nil
		}
	}
	return out
}

// DeleteDocument removes a document.
func (s *Store) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	return nil
}

// ==================== Reports ====================

// SaveReport stores a rendered report.
func (s *Store) SaveReport(_ context.Context, report *domain.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	r := *report
	r.Data = append([]byte(nil), report.Data...)
	r.Size = int64(len(r.Data))
	s.reports[report.ID] = stored[domain.Report]{seq: s.seq, value: r}
	return nil
}

// GetReport retrieves a report with its bytes.
func (s *Store) GetReport(_ context.Context, id string) (*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r := report.value
	return &r, nil
}

// ListReports returns a project's reports without bytes, newest first.
func (s *Store) ListReports(_ context.Context, projectID string) ([]domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []stored[domain.Report]
	for _, report := range s.reports {
		if report.value.ProjectID == projectID {
			matched = append(matched, report)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq > matched[j].seq })

	out := make([]domain.Report, len(matched))
	for i, report := range matched {
		out[i] = report.value
		out[i].Data = nil
	}
	return out, nil
}

// ==================== Files ====================

// GetBytes returns the name and bytes of a stored document or report.
func (s *Store) GetBytes(ctx context.Context, id string, kind domain.FileKind) (*domain.StoredFile, error) {
	switch kind {
	case domain.FileKindDocument:
		doc, err := s.GetDocument(ctx, id)
		if err != nil {
			return nil, err
		}
		return &domain.StoredFile{Name: doc.Name, Data: doc.Data}, nil
	case domain.FileKindReport:
		report, err := s.GetReport(ctx, id)
		if err != nil {
			return nil, err
		}
		return &domain.StoredFile{Name: report.Name, Data: report.Data}, nil
	default:
		return nil, domain.ErrInvalidInput
	}
}
