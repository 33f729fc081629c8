package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/riskrag/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for riskrag resources.
	uriScheme = "riskrag://"

	pdfMIMEType  = "application/pdf"
	jsonMIMEType = "application/json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "projects",
		Name:        "projects",
		Description: "List of all projects",
		MIMEType:    jsonMIMEType,
	}, s.handleProjectsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "projects/{projectId}/documents",
		Name:        "project-documents",
		Description: "PDF documents uploaded to a project",
		MIMEType:    jsonMIMEType,
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "reports/{reportId}",
		Name:        "report-pdf",
		Description: "Rendered PDF of a stored risk report",
		MIMEType:    pdfMIMEType,
	}, s.handleReportResource)
}

// handleProjectsResource returns a list of all projects.
func (s *Server) handleProjectsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Project == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	projects, err := s.ports.Project.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	type projectInfo struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		Manager   string `json:"manager,omitempty"`
		StartDate string `json:"start_date,omitempty"`
		EndDate   string `json:"end_date,omitempty"`
	}

	infos := make([]projectInfo, len(projects))
	for i := range projects {
		infos[i] = projectInfo{
			ID:        projects[i].ID,
			Title:     projects[i].Title,
			Manager:   projects[i].Manager,
			StartDate: formatDate(projects[i].StartDate),
			EndDate:   formatDate(projects[i].EndDate),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling projects: %w", err)
	}

	return jsonResult(req.Params.URI, string(data)), nil
}

// handleDocumentsResource returns the documents of one project.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	projectID := extractProjectID(req.Params.URI)
	if projectID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	docs, err := s.ports.Document.List(ctx, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	type docInfo struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Size int64  `json:"size"`
	}

	infos := make([]docInfo, len(docs))
	for i := range docs {
		infos[i] = docInfo{
			ID:   docs[i].ID,
			Name: docs[i].Name,
			Size: docs[i].Size,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return jsonResult(req.Params.URI, string(data)), nil
}

// handleReportResource returns the PDF bytes of a stored report.
func (s *Server) handleReportResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	reportID := extractReportID(req.Params.URI)
	if reportID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	file, err := s.ports.Document.GetFile(ctx, reportID, domain.FileKindReport)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("getting report: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: pdfMIMEType,
			Blob:     file.Data,
		}},
	}, nil
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: jsonMIMEType,
			Text:     text,
		}},
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func reportURI(id string) string {
	return uriScheme + "reports/" + id
}

// extractProjectID extracts the project ID from riskrag://projects/{projectId}/documents.
func extractProjectID(uri string) string {
	const prefix = uriScheme + "projects/"
	const suffix = "/documents"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}

// extractReportID extracts the report ID from riskrag://reports/{reportId}.
func extractReportID(uri string) string {
	const prefix = uriScheme + "reports/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
