package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/riskrag/internal/core/domain"
	"github.com/custodia-labs/riskrag/internal/core/ports/driven"
	"github.com/custodia-labs/riskrag/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

const pdftotextCmd = "pdftotext"

// CommandRunner runs an external command with stdin and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	return cmd.Output()
}

// Extractor reads PDF text page by page.
type Extractor struct {
	// runner is the pdftotext fallback. Nil disables it.
	runner CommandRunner
}

// New creates an extractor. The pdftotext fallback is enabled when the tool is installed.
func New() *Extractor {
	e := &Extractor{}
	if CheckAvailable() == nil {
		e.runner = execRunner{}
	}
	return e
}

// NewWithRunner creates an extractor whose fallback uses runner.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// CheckAvailable reports whether pdftotext is on PATH.
func CheckAvailable() error {
	if _, err := exec.LookPath(pdftotextCmd); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// Extract returns the text of every page in physical order.
// A document without extractable text yields a single empty page 1.
func (e *Extractor) Extract(ctx context.Context, name string, data []byte) ([]domain.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, &domain.ExtractionError{DocumentName: name, Err: errors.New("empty file")}
	}

	pages, err := readPages(data)
	if err != nil && e.runner != nil {
		logger.Debug("pure go pdf reader failed, trying pdftotext", "document", name, "error", err)
		pages, err = e.runPDFToText(ctx, data)
	}
	if err != nil {
		return nil, &domain.ExtractionError{DocumentName: name, Err: err}
	}

	if len(pages) == 0 {
		pages = []domain.Page{{Number: 1}}
	}
	return pages, nil
}

// readPages parses data with the pure Go reader.
// The reader panics on some malformed input; that is reported as an error.
func readPages(data []byte) (pages []domain.Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("pdf reader: %w", err)
	}

	total := reader.NumPage()
	pages = make([]domain.Page, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, domain.Page{Number: i, Text: text})
	}
	return pages, nil
}

// runPDFToText extracts text with pdftotext, which separates pages with form feeds.
func (e *Extractor) runPDFToText(ctx context.Context, data []byte) ([]domain.Page, error) {
	output, err := e.runner.Run(ctx, data, pdftotextCmd, "-layout", "-enc", "UTF-8", "-", "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}

	parts := strings.Split(string(output), "\f")
	// pdftotext terminates the last page with a form feed too.
	if len(parts) > 1 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}

	pages := make([]domain.Page, 0, len(parts))
	for i, part := range parts {
		pages = append(pages, domain.Page{Number: i + 1, Text: part})
	}
	return pages, nil
}
