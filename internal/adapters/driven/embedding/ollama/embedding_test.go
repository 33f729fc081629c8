package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOllama answers /api/embed with one [len(input), index] vector per input.
func fakeOllama(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[]}`))
		case "/api/embed":
			calls.Add(1)
			var req embedRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "nomic-embed-text", req.Model)
			resp := embedResponse{}
			for i, text := range req.Input {
				resp.Embeddings = append(resp.Embeddings, []float64{float64(len(text)), float64(i)})
			}
			_ = json.NewEncoder(w).Encode(resp)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, 768, svc.Dimensions())
	assert.Equal(t, DefaultBatchSize, svc.batchSize)

	svc = NewEmbeddingService(Config{Model: "all-minilm"})
	assert.Equal(t, 384, svc.Dimensions())
}

func TestEmbed(t *testing.T) {
	var calls atomic.Int32
	server := fakeOllama(t, &calls)
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})
	vec, err := svc.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{5, 0}, vec)
}

func TestEmbedBatch_SplitsIntoRequests(t *testing.T) {
	var calls atomic.Int32
	server := fakeOllama(t, &calls)
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL, BatchSize: 2})
	vecs, err := svc.EmbedBatch(context.Background(), []string{"a", "bb", "ccc", "dddd", "eeeee"})
	require.NoError(t, err)
	require.Len(t, vecs, 5)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []float32{3, 0}, vecs[2])
	assert.Equal(t, []float32{5, 0}, vecs[4])

	empty, err := svc.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestEmbed_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})
	_, err := svc.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "model not found")
}

func TestEmbed_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[]}`))
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})
	_, err := svc.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0 embeddings for 1 inputs")
}

func TestPing(t *testing.T) {
	var calls atomic.Int32
	server := fakeOllama(t, &calls)
	defer server.Close()

	assert.NoError(t, NewEmbeddingService(Config{BaseURL: server.URL}).Ping(context.Background()))

	server.Close()
	assert.Error(t, NewEmbeddingService(Config{BaseURL: server.URL}).Ping(context.Background()))
}
