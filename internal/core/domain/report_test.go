package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFileKind_IsValid tests recognised stored file kinds
func TestFileKind_IsValid(t *testing.T) {
	tests := []struct {
		kind FileKind
		want bool
	}{
		{FileKindDocument, true},
		{FileKindReport, true},
		{FileKind(""), false},
		{FileKind("Document"), false},
		{FileKind("chunk"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.IsValid())
		})
	}
}

// TestChunk_ZeroValue tests that chunks start without an ID
func TestChunk_ZeroValue(t *testing.T) {
	c := Chunk{Text: "scope", SourceName: "charter.pdf", PageNumber: 1}

	assert.Empty(t, c.ID)
	assert.Zero(t, c.SequenceIndex)
}

// TestRiskRecord_KeepsProbabilityText tests that probability is free text
func TestRiskRecord_KeepsProbabilityText(t *testing.T) {
	r := RiskRecord{Name: "Model Accuracy", Probability: "Medium (40%)"}

	assert.Equal(t, "Medium (40%)", r.Probability)
}
