package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/riskrag/internal/core/domain"
	"github.com/custodia-labs/riskrag/internal/core/ports/driven"
)

// fakeLLM records prompts and returns a canned answer.
type fakeLLM struct {
	mu      sync.Mutex
	answer  string
	err     error
	prompts []string
	// started, when set, receives once per call before it returns.
	started chan struct{}
	// proceed, when set, blocks each call until it is closed.
	proceed chan struct{}
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.proceed != nil {
		select {
		case <-f.proceed:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeLLM) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

func (f *fakeLLM) ModelName() string           { return "fake" }
func (f *fakeLLM) Ping(_ context.Context) error { return nil }
func (f *fakeLLM) Close() error                 { return nil }

// countingEmbedder wraps an embedder and counts the texts it embeds.
type countingEmbedder struct {
	driven.EmbeddingService
	mu      sync.Mutex
	batches [][]string
	err     error
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.mu.Lock()
	c.batches = append(c.batches, append([]string(nil), texts...))
	c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return c.EmbeddingService.EmbedBatch(ctx, texts)
}

func (c *countingEmbedder) embedded() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, b := range c.batches {
		n += len(b)
	}
	return n
}

// textExtractor treats payloads as plain text with pages separated by form
// feeds. Payloads starting with "BROKEN" fail extraction.
type textExtractor struct{}

func (textExtractor) Extract(_ context.Context, name string, data []byte) ([]domain.Page, error) {
	text := string(data)
	if strings.HasPrefix(text, "BROKEN") {
		return nil, &domain.ExtractionError{DocumentName: name, Err: errors.New("no xref table")}
	}
	var pages []domain.Page
	for i, p := range strings.Split(text, "\f") {
		pages = append(pages, domain.Page{Number: i + 1, Text: p})
	}
	return pages, nil
}

// pageSplitter emits one chunk per non-empty line.
type pageSplitter struct{}

func (pageSplitter) Split(pages []domain.PageText) []domain.Chunk {
	var chunks []domain.Chunk
	for _, p := range pages {
		for _, line := range strings.Split(p.Text, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				chunks = append(chunks, domain.Chunk{Text: line, SourceName: p.SourceName, PageNumber: p.PageNumber})
			}
		}
	}
	return chunks
}

// recordingRenderer returns the risk names joined as the document body.
type recordingRenderer struct {
	mu    sync.Mutex
	risks []domain.RiskRecord
	date  string
	err   error
}

func (r *recordingRenderer) Render(_ context.Context, risks []domain.RiskRecord, date string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.risks = risks
	r.date = date
	if r.err != nil {
		return nil, r.err
	}
	names := make([]string, len(risks))
	for i := range risks {
		names[i] = risks[i].Name
	}
	return []byte("%PDF " + strings.Join(names, ";")), nil
}

// mapPromptStore serves prompt overrides from a map.
type mapPromptStore map[string]string

func (m mapPromptStore) Load(name string) (string, error) {
	if p, ok := m[name]; ok {
		return p, nil
	}
	return "", domain.ErrNotFound
}

func (m mapPromptStore) Reload() {}

// fakeWatcher replays a fixed list of events and then closes.
type fakeWatcher struct {
	events []driven.FileEvent
	err    error
}

func (w *fakeWatcher) Watch(_ context.Context, _ string) (<-chan driven.FileEvent, error) {
	if w.err != nil {
		return nil, w.err
	}
	ch := make(chan driven.FileEvent, len(w.events))
	for _, e := range w.events {
		ch <- e
	}
	close(ch)
	return ch, nil
}

func (w *fakeWatcher) Close() error { return nil }

// fakeValidator fails pings with err.
type fakeValidator struct {
	err       error
	embedding *domain.EmbeddingSettings
	llm       *domain.LLMSettings
}

func (v *fakeValidator) ValidateEmbedding(cfg *domain.EmbeddingSettings) error {
	v.embedding = cfg
	return v.err
}

func (v *fakeValidator) ValidateLLM(cfg *domain.LLMSettings) error {
	v.llm = cfg
	return v.err
}
