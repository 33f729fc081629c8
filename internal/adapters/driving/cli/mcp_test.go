package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPServeCmd_Flags(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "0", flag.DefValue)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "true", mcpServeCmd.Annotations[annotationAI])
}

func TestMCPServeCmd_RequiresServices(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	queryService = nil

	_, err := executeCommand("mcp", "serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "query service")
}
