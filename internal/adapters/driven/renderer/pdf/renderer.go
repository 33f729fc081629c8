// Package pdf renders risk reports as A4 PDF documents with go-pdf/fpdf.
package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/custodia-labs/riskrag/internal/core/domain"
	"github.com/custodia-labs/riskrag/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.ReportRenderer = (*Renderer)(nil)

// ReportTitle is the heading of every rendered report.
const ReportTitle = "Risk Management Report"

// Layout in millimetres and points.
const (
	margin        = 20.0
	titleSize     = 20.0
	headingSize   = 14.0
	bodySize      = 11.0
	lineHeight    = 6.0
	paragraphGap  = 2.0
	sectionGap    = 5.0
	titleGap      = 10.0
	defaultFamily = "Go"
)

// Renderer writes reports in memory. It never touches the filesystem.
type Renderer struct {
	family string
}

// New creates a renderer using the embedded Go fonts, which cover Latin,
// Greek and Cyrillic text.
func New() *Renderer {
	return &Renderer{family: defaultFamily}
}

// riskField is one labelled paragraph of a risk section.
type riskField struct {
	label string
	value string
}

func fieldsOf(risk domain.RiskRecord) []riskField {
	return []riskField{
		{"Risk Name:", risk.Name},
		{"Risk Description:", risk.Description},
		{"Probability:", risk.Probability},
		{"Context Explanation:", risk.ContextExplanation},
		{"Risk Mitigation Way:", risk.Mitigation},
	}
}

// Render lays out the title block followed by one section per risk.
func (r *Renderer) Render(ctx context.Context, risks []domain.RiskRecord, generatedDate string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(true, margin)
	doc.SetTitle(ReportTitle, true)
	doc.AddUTF8FontFromBytes(r.family, "", goregular.TTF)
	doc.AddUTF8FontFromBytes(r.family, "B", gobold.TTF)
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("loading report fonts: %w", err)
	}

	doc.AddPage()
	doc.SetFont(r.family, "B", titleSize)
	doc.CellFormat(0, 10, ReportTitle, "", 1, "L", false, 0, "")
	doc.SetFont(r.family, "B", headingSize)
	doc.CellFormat(0, 8, "Date: "+generatedDate, "", 1, "L", false, 0, "")
	doc.Ln(titleGap)

	for i, risk := range risks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc.SetFont(r.family, "B", headingSize)
		doc.CellFormat(0, 8, fmt.Sprintf("Risk %d:", i+1), "", 1, "L", false, 0, "")

		for _, field := range fieldsOf(risk) {
			doc.SetFont(r.family, "B", bodySize)
			doc.Write(lineHeight, field.label+" ")
			doc.SetFont(r.family, "", bodySize)
			doc.Write(lineHeight, field.value)
			doc.Ln(lineHeight + paragraphGap)
		}
		doc.Ln(sectionGap)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}
	return buf.Bytes(), nil
}
