package llm

import "context"

// Component is the artifact pair a generation produces. The jsx must call
// render(...) and carry no export statements; styling lives in utility
// classes so css is usually empty or a placeholder comment.
type Component struct {
	JSX string `json:"jsx"`
	CSS string `json:"css"`
}

// Response contains LLM generation result
type Response struct {
	Component  Component
	Model      string
	TokensUsed int
	LatencyMs  int64
	Raw        string
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// GenerateComponent generates a renderable component from a prompt
	GenerateComponent(ctx context.Context, prompt, model string) (*Response, error)
}
