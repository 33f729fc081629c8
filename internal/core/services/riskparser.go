package services

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/riskrag/internal/core/domain"
)

// riskMarker starts a risk block. The number is not interpreted.
var riskMarker = regexp.MustCompile(`Risk \d+:`)

// riskLabels are the required fields of a block, in order.
var riskLabels = [5]string{
	"- Risk Name:",
	"- Risk Description:",
	"- Probability:",
	"- Context Explanation:",
	"- Risk Mitigation Way:",
}

// ParseRisks extracts risk records from a model answer.
//
// The answer holds blocks starting with "Risk N:" followed by the five
// labelled fields in fixed order. A field runs until the next label, the next
// block or the end of text. Blocks missing any field are dropped. Records
// keep textual order regardless of their numbers. No match yields an empty
// slice.
func ParseRisks(answer string) []domain.RiskRecord {
	risks := []domain.RiskRecord{}

	markers := riskMarker.FindAllStringIndex(answer, -1)
	for i, loc := range markers {
		end := len(answer)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		if risk, ok := parseRiskBlock(answer[loc[1]:end]); ok {
			risks = append(risks, risk)
		}
	}

	return risks
}

func parseRiskBlock(block string) (domain.RiskRecord, bool) {
	var starts, ends [len(riskLabels)]int

	pos := 0
	for i, label := range riskLabels {
		idx := strings.Index(block[pos:], label)
		if idx < 0 {
			return domain.RiskRecord{}, false
		}
		starts[i] = pos + idx
		ends[i] = starts[i] + len(label)
		pos = ends[i]
	}

	var values [len(riskLabels)]string
	for i := range riskLabels {
		valueEnd := len(block)
		if i+1 < len(riskLabels) {
			valueEnd = starts[i+1]
		}
		values[i] = strings.TrimSpace(block[ends[i]:valueEnd])
	}

	return domain.RiskRecord{
		Name:               values[0],
		Description:        values[1],
		Probability:        values[2],
		ContextExplanation: values[3],
		Mitigation:         values[4],
	}, true
}
