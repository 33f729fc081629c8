package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/riskrag/internal/core/domain"
)

func seedProject(t *testing.T, s *Store, id string) {
	t.Helper()
	require.NoError(t, s.Projects().Save(context.Background(), &domain.Project{
		ID:        id,
		Title:     "Project " + id,
		CreatedAt: time.Now(),
	}))
}

func TestStore_Projects(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProject(t, s, "b")
	seedProject(t, s, "a")

	got, err := s.Projects().Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Project a", got.Title)

	list, err := s.Projects().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)

	_, err = s.Projects().Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_DocumentsKeepUploadOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProject(t, s, "p1")

	for _, name := range []string{"first.pdf", "second.pdf", "third.pdf"} {
		require.NoError(t, s.SaveDocument(ctx, &domain.Document{
			ID: name, ProjectID: "p1", Name: name, Data: []byte("%PDF-" + name),
		}))
	}
	require.NoError(t, s.SaveDocument(ctx, &domain.Document{ID: "other", ProjectID: "p2", Name: "x.pdf"}))

	docs, err := s.ListDocuments(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "first.pdf", docs[0].Name)
	assert.Equal(t, "third.pdf", docs[2].Name)
	assert.Equal(t, []byte("%PDF-first.pdf"), docs[0].Data)
	assert.Equal(t, int64(len("%PDF-first.pdf")), docs[0].Size)

	summaries, err := s.ListDocumentSummaries(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Nil(t, summaries[0].Data)
	assert.NotZero(t, summaries[0].Size)

	require.NoError(t, s.DeleteDocument(ctx, "second.pdf"))
	assert.ErrorIs(t, s.DeleteDocument(ctx, "second.pdf"), domain.ErrNotFound)
}

func TestStore_ReportsNewestFirstWithoutPayload(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.SaveReport(ctx, &domain.Report{ID: "r1", ProjectID: "p1", Name: "old.pdf", Data: []byte("a")}))
	require.NoError(t, s.SaveReport(ctx, &domain.Report{ID: "r2", ProjectID: "p1", Name: "new.pdf", Data: []byte("bb")}))

	reports, err := s.ListReports(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "r2", reports[0].ID)
	assert.Nil(t, reports[0].Data)
	assert.Equal(t, int64(2), reports[0].Size)

	full, err := s.GetReport(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), full.Data)
}

func TestStore_GetBytes(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.SaveDocument(ctx, &domain.Document{ID: "d1", ProjectID: "p", Name: "plan.pdf", Data: []byte("doc")}))
	require.NoError(t, s.SaveReport(ctx, &domain.Report{ID: "r1", ProjectID: "p", Name: "Risk Report.pdf", Data: []byte("rep")}))

	file, err := s.GetBytes(ctx, "d1", domain.FileKindDocument)
	require.NoError(t, err)
	assert.Equal(t, "plan.pdf", file.Name)
	assert.Equal(t, []byte("doc"), file.Data)

	file, err = s.GetBytes(ctx, "r1", domain.FileKindReport)
	require.NoError(t, err)
	assert.Equal(t, "Risk Report.pdf", file.Name)

	_, err = s.GetBytes(ctx, "d1", domain.FileKindReport)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.GetBytes(ctx, "d1", domain.FileKind("other"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_DeleteProjectCascades(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProject(t, s, "p1")
	require.NoError(t, s.SaveDocument(ctx, &domain.Document{ID: "d1", ProjectID: "p1", Name: "a.pdf"}))
	require.NoError(t, s.SaveReport(ctx, &domain.Report{ID: "r1", ProjectID: "p1", Name: "r.pdf"}))

	require.NoError(t, s.Projects().Delete(ctx, "p1"))

	_, err := s.GetDocument(ctx, "d1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetReport(ctx, "r1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
