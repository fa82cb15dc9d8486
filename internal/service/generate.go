package service

import (
	"context"
	"fmt"

	"github.com/mcg-platform/componentgen/internal/llm"
)

// ComponentService handles component generation through LLM providers
type ComponentService struct {
	router *llm.Router
}

// NewComponentService creates a new component service
func NewComponentService(router *llm.Router) *ComponentService {
	return &ComponentService{router: router}
}

// Generate produces a renderable component from a prompt. The provider's
// output is validated against the sandbox contract before it is returned.
func (s *ComponentService) Generate(ctx context.Context, prompt, provider, model string) (*llm.Response, error) {
	p, err := s.router.GetProvider(provider)
	if err != nil {
		return nil, err
	}

	resp, err := p.GenerateComponent(ctx, prompt, model)
	if err != nil {
		return nil, fmt.Errorf("component generation failed: %w", err)
	}

	if err := llm.ValidateJSX(resp.Component.JSX); err != nil {
		return nil, err
	}

	return resp, nil
}

// Providers returns information about the registered providers.
func (s *ComponentService) Providers() []llm.ProviderInfo {
	return s.router.GetProvidersInfo()
}
