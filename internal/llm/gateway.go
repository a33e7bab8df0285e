package llm

import (
	"context"
	"fmt"

	"github.com/clearvoice/coach-api/internal/config"
)

// Gateway routes chat requests to a configured provider. Calls are a single
// attempt each: no retries, no fallback provider. A failed generation is the
// caller's to handle, since every workflow here has its own degradation rules.
type Gateway struct {
	providers       map[string]Provider
	defaultProvider string
}

func NewGateway(cfg config.LLM) *Gateway {
	g := &Gateway{
		providers:       make(map[string]Provider),
		defaultProvider: "openai",
	}

	if cfg.OpenAIKey != "" {
		g.providers["openai"] = NewOpenAIProvider(cfg.OpenAIKey)
	}
	if cfg.AnthropicKey != "" {
		g.providers["anthropic"] = NewAnthropicProvider(cfg.AnthropicKey)
	}
	if cfg.OllamaURL != "" {
		g.providers["ollama"] = NewOllamaProvider(cfg.OllamaURL)
	}

	return g
}

// Has reports whether the named provider was configured.
func (g *Gateway) Has(name string) bool {
	_, ok := g.providers[name]
	return ok
}

func (g *Gateway) Provider(name string) (Provider, error) {
	p, ok := g.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured", name)
	}
	return p, nil
}

func (g *Gateway) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	providerName := req.Provider
	if providerName == "" {
		providerName = g.defaultProvider
	}

	p, err := g.Provider(providerName)
	if err != nil {
		return nil, err
	}

	return p.ChatCompletion(ctx, req)
}

func (g *Gateway) ListModels() []ModelInfo {
	var models []ModelInfo
	for _, p := range g.providers {
		for _, m := range p.Models() {
			models = append(models, ModelInfo{Provider: p.Name(), Model: m})
		}
	}
	return models
}

// ModelInfo describes an available model.
type ModelInfo struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}
