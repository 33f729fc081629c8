package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/riskrag/internal/core/domain"
	"github.com/custodia-labs/riskrag/internal/core/ports/driven"
	"github.com/custodia-labs/riskrag/internal/logger"
)

// DefaultTopK is how many chunks are retrieved per question.
const DefaultTopK = domain.DefaultTopK

// contextSeparator divides retrieved chunks inside the prompt.
const contextSeparator = "\n\n---\n\n"

// defaultAnswerPrompt wraps retrieved context and a question.
const defaultAnswerPrompt = `
Answer the question based only on the following context:

{context}

---

Answer the question based on the above context: {question}
`

// RAGQueryEngine answers questions from the chunks of a vector index.
// Model failures are returned, never retried.
type RAGQueryEngine struct {
	llm     driven.LLMService
	topK    int
	prompts driven.PromptStore
}

// NewRAGQueryEngine creates a query engine. A topK of zero or less uses DefaultTopK.
func NewRAGQueryEngine(llm driven.LLMService, topK int) *RAGQueryEngine {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &RAGQueryEngine{
		llm:  llm,
		topK: topK,
	}
}

// SetPromptStore sets the store used to override the answer template.
func (e *RAGQueryEngine) SetPromptStore(store driven.PromptStore) {
	e.prompts = store
}

// Answer retrieves the top chunks for question from index, fills the prompt
// and returns the model's response verbatim. An empty index still sends a
// prompt with an empty context.
func (e *RAGQueryEngine) Answer(ctx context.Context, index *VectorIndex, question string) (string, error) {
	if e.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	hits, err := index.Query(ctx, question, e.topK)
	if err != nil {
		return "", fmt.Errorf("retrieve context: %w", err)
	}
	logger.Debug("retrieved context", "index", index.Name(), "hits", len(hits))

	prompt := BuildPrompt(e.template(), hits, question)

	answer, err := e.llm.Generate(ctx, prompt, driven.GenerateOptions{})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrModelInvocation, err)
	}
	return answer, nil
}

// BuildPrompt joins hit texts in rank order and substitutes them together
// with the question into template.
func BuildPrompt(template string, hits []domain.SearchHit, question string) string {
	texts := make([]string, len(hits))
	for i := range hits {
		texts[i] = hits[i].Text
	}
	return strings.NewReplacer(
		"{context}", strings.Join(texts, contextSeparator),
		"{question}", question,
	).Replace(template)
}

func (e *RAGQueryEngine) template() string {
	if e.prompts == nil {
		return defaultAnswerPrompt
	}
	tmpl, err := e.prompts.Load(driven.PromptRAGAnswer)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("failed to load prompt, using default", "prompt", driven.PromptRAGAnswer, "error", err)
		}
		return defaultAnswerPrompt
	}
	return tmpl
}
