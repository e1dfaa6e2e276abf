package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/siamfield/salesflow/pkg/config"
)

type ollamaProvider struct {
	client      *api.Client
	model       string
	temperature float64
}

const ollamaDefaultModel = "phi4:latest"

func newOllamaProvider(cfg config.LLMConfig) (*ollamaProvider, error) {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		host := cfg.OllamaHost
		if host == "" {
			host = "http://localhost:11434"
		}
		u, uerr := url.Parse(host)
		if uerr != nil {
			return nil, fmt.Errorf("ollama: bad host %q: %w", host, uerr)
		}
		client = api.NewClient(u, http.DefaultClient)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = ollamaDefaultModel
	}
	return &ollamaProvider{client: client, model: model, temperature: cfg.Temperature}, nil
}

func (p *ollamaProvider) options() map[string]any {
	return map[string]any{"temperature": p.temperature}
}

func (p *ollamaProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.client == nil {
		return "", ErrNotConfigured
	}
	stream := false
	req := &api.GenerateRequest{
		Model:   p.model,
		Prompt:  prompt,
		Stream:  &stream,
		Options: p.options(),
	}
	var out strings.Builder
	if err := p.client.Generate(ctx, req, func(gr api.GenerateResponse) error {
		out.WriteString(gr.Response)
		return nil
	}); err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	return out.String(), nil
}

func (p *ollamaProvider) GenerateJSON(ctx context.Context, prompt string, schema any) (string, error) {
	if p.client == nil {
		return "", ErrNotConfigured
	}
	var fmtRaw json.RawMessage
	if schema != nil {
		b, err := json.Marshal(schema)
		if err != nil {
			return "", fmt.Errorf("ollama marshal schema: %w", err)
		}
		fmtRaw = b
	} else {
		fmtRaw = json.RawMessage(`"json"`)
	}

	stream := false
	req := &api.GenerateRequest{
		Model:   p.model,
		Prompt:  prompt + "\n\nReturn ONLY strict JSON. No extra text.",
		Format:  fmtRaw,
		Stream:  &stream,
		Options: p.options(),
	}
	var out strings.Builder
	if err := p.client.Generate(ctx, req, func(gr api.GenerateResponse) error {
		out.WriteString(gr.Response)
		return nil
	}); err != nil {
		return "", fmt.Errorf("ollama generate json: %w", err)
	}
	return out.String(), nil
}
