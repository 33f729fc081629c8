package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/riskrag/internal/core/ports/driven"
)

func TestNewLLMService_Defaults(t *testing.T) {
	svc := NewLLMService(LLMConfig{})
	assert.Equal(t, "mistral", svc.ModelName())
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.Equal(t, DefaultLLMTimeout, svc.client.Timeout)
}

func TestGenerate(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"response":"Risk 1: ...","done":true}`))
	}))
	defer server.Close()

	svc := NewLLMService(LLMConfig{BaseURL: server.URL, Model: "llama3"})
	answer, err := svc.Generate(context.Background(), "list risks", driven.GenerateOptions{
		MaxTokens:   512,
		Temperature: 0.2,
	})
	require.NoError(t, err)
	assert.Equal(t, "Risk 1: ...", answer)

	assert.Equal(t, "llama3", got.Model)
	assert.Equal(t, "list risks", got.Prompt)
	assert.False(t, got.Stream)
	require.NotNil(t, got.Options)
	assert.Equal(t, 512, got.Options.NumPredict)
}

func TestGenerate_NoOptions(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"response":"ok","done":true}`))
	}))
	defer server.Close()

	_, err := NewLLMService(LLMConfig{BaseURL: server.URL}).Generate(context.Background(), "q", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.NotContains(t, raw, "options")
}

func TestGenerate_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model 'nope' not found", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewLLMService(LLMConfig{BaseURL: server.URL}).Generate(context.Background(), "q", driven.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestGenerate_InlineError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"model crashed"}`))
	}))
	defer server.Close()

	_, err := NewLLMService(LLMConfig{BaseURL: server.URL}).Generate(context.Background(), "q", driven.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model crashed")
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			_, _ = w.Write([]byte(`{"models":[]}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	assert.NoError(t, NewLLMService(LLMConfig{BaseURL: server.URL}).Ping(context.Background()))
}
