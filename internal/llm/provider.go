package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/siamfield/salesflow/pkg/config"
)

// ErrNotConfigured is returned when a provider is used before initialisation.
var ErrNotConfigured = errors.New("llm provider not configured")

// Provider is the narrow contract the core services use for judgment calls.
// Generate returns free text; GenerateJSON constrains the response to JSON,
// optionally guided by a schema hint.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateJSON(ctx context.Context, prompt string, schema any) (string, error)
}

// New builds the configured completion backend.
func New(cfg config.LLMConfig) (Provider, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	switch backend {
	case "", "gemini":
		return newGeminiProvider(cfg)
	case "ollama":
		return newOllamaProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported llm backend: %s", cfg.Backend)
	}
}
