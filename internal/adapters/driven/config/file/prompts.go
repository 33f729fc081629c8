package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/riskrag/internal/core/domain"
	"github.com/custodia-labs/riskrag/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads prompt overrides from user-editable files on disk.
// A prompt named "rag_answer" lives in "{dir}/rag_answer.txt". Missing or
// empty files report domain.ErrNotFound so callers use their built-in text.
//
// The store uses lazy initialisation: the directory and README are created on
// first Load, not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.riskrag/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".riskrag", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the override for name, caching it until Reload.
func (s *PromptStore) Load(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: prompt name %q", domain.ErrInvalidInput, name)
	}

	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and README.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: prompt %q", domain.ErrNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("read prompt %q: %w", name, err)
	}

	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt %q is empty", domain.ErrNotFound, name)
	}
	return prompt, nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# riskrag prompts

Drop a file here to replace a built-in prompt. Delete it to go back to the default.

## Files

- ` + "`rag_answer.txt`" + ` - wraps retrieved context and a question.
  Must contain the ` + "`{context}`" + ` and ` + "`{question}`" + ` placeholders.
- ` + "`risk_question.txt`" + ` - the question asked when generating a risk report.
  The answer must keep the "Risk N:" and "- Risk Name:" style labels or
  the report will be empty.

Changes take effect on the next command.
`
	return os.WriteFile(path, []byte(content), 0600)
}
