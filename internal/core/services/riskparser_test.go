package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/riskrag/internal/core/domain"
)

func riskBlock(n, name string) string {
	return "Risk " + n + ":\n" +
		"- Risk Name: " + name + "\n" +
		"- Risk Description: desc " + name + "\n" +
		"- Probability: 10%\n" +
		"- Context Explanation: ctx " + name + "\n" +
		"- Risk Mitigation Way: mit " + name + "\n"
}

func TestParseRisks_TwoBlocks(t *testing.T) {
	answer := "Risk 1:\n- Risk Name: X\n- Risk Description: Y\n- Probability: 10%\n" +
		"- Context Explanation: Z\n- Risk Mitigation Way: W\n" + riskBlock("2", "Budget")

	risks := ParseRisks(answer)

	require.Len(t, risks, 2)
	assert.Equal(t, domain.RiskRecord{
		Name:               "X",
		Description:        "Y",
		Probability:        "10%",
		ContextExplanation: "Z",
		Mitigation:         "W",
	}, risks[0])
	assert.Equal(t, "Budget", risks[1].Name)
	assert.Equal(t, "mit Budget", risks[1].Mitigation)
}

func TestParseRisks_KeepsTextualOrder(t *testing.T) {
	answer := riskBlock("3", "third") + riskBlock("1", "first") + riskBlock("2", "second")

	risks := ParseRisks(answer)

	require.Len(t, risks, 3)
	assert.Equal(t, "third", risks[0].Name)
	assert.Equal(t, "first", risks[1].Name)
	assert.Equal(t, "second", risks[2].Name)
}

func TestParseRisks_DropsIncompleteBlock(t *testing.T) {
	incomplete := "Risk 2:\n- Risk Name: Partial\n- Risk Description: d\n" +
		"- Context Explanation: c\n- Risk Mitigation Way: m\n"

	risks := ParseRisks(riskBlock("1", "Complete") + incomplete)

	require.Len(t, risks, 1)
	assert.Equal(t, "Complete", risks[0].Name)
}

func TestParseRisks_FieldsOutOfOrderAreDropped(t *testing.T) {
	answer := "Risk 1:\n- Risk Description: d\n- Risk Name: n\n- Probability: 1%\n" +
		"- Context Explanation: c\n- Risk Mitigation Way: m\n"

	assert.Empty(t, ParseRisks(answer))
}

func TestParseRisks_MultilineFields(t *testing.T) {
	answer := "Intro text the model added.\n\nRisk 1:\n- Risk Name:   Staffing  \n" +
		"- Risk Description: Key people\n  may leave\n\n- Probability: Low\n" +
		"- Context Explanation: charter lists one architect\n- Risk Mitigation Way:\n  Pair up\n  early\n\n" +
		"Let me know if you need more."

	risks := ParseRisks(answer)

	require.Len(t, risks, 1)
	assert.Equal(t, "Staffing", risks[0].Name)
	assert.Equal(t, "Key people\n  may leave", risks[0].Description)
	assert.Equal(t, "Low", risks[0].Probability)
	assert.Equal(t, "Pair up\n  early\n\nLet me know if you need more.", risks[0].Mitigation)
}

func TestParseRisks_IgnoresTextBeforeFirstLabel(t *testing.T) {
	answer := "Risk 1: Schedule\n- Risk Name: Late delivery\n- Risk Description: d\n" +
		"- Probability: 40%\n- Context Explanation: c\n- Risk Mitigation Way: m"

	risks := ParseRisks(answer)

	require.Len(t, risks, 1)
	assert.Equal(t, "Late delivery", risks[0].Name)
	assert.Equal(t, "m", risks[0].Mitigation)
}

func TestParseRisks_NoMatch(t *testing.T) {
	risks := ParseRisks("I could not find any risks in the given context.")

	require.NotNil(t, risks)
	assert.Empty(t, risks)
	assert.Empty(t, ParseRisks(""))
}
