package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns an error wrapping domain.ErrNotFound when no override exists.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptRAGAnswer wraps retrieved context and a question.
	// The template expects {context} and {question} placeholders.
	PromptRAGAnswer = "rag_answer"

	// PromptRiskQuestion is the question asked to elicit the risk list.
	// It has no placeholders.
	PromptRiskQuestion = "risk_question"
)
