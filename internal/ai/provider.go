package ai

import (
	"context"
	"fmt"

	"github.com/bethropolis/vedit/internal/config"
	"github.com/bethropolis/vedit/internal/errs"
)

// Provider names accepted in ModelConfig.Provider.
const (
	ProviderAnythingLLM = "anythingllm"
	ProviderOpenAI      = "openai"
	ProviderAnthropic   = "anthropic"
	ProviderGemini      = "gemini"
)

// Call is one provider round trip.
type Call struct {
	Model  config.ModelConfig
	System string
	User   string
}

// Provider sends a call to a model and returns its text reply. Complete
// must return promptly once ctx is done.
type Provider interface {
	Complete(ctx context.Context, call Call) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, call Call) (string, error)

func (f ProviderFunc) Complete(ctx context.Context, call Call) (string, error) {
	return f(ctx, call)
}

// ProviderFactory builds the provider for a model.
type ProviderFactory func(m config.ModelConfig) (Provider, error)

// NewProvider selects the provider implementation by m.Provider. An empty
// provider means anythingllm.
func NewProvider(m config.ModelConfig) (Provider, error) {
	switch m.Provider {
	case ProviderAnythingLLM, "":
		return NewAnythingLLM(nil), nil
	case ProviderOpenAI:
		return NewOpenAI(m), nil
	case ProviderAnthropic:
		return NewAnthropic(m), nil
	case ProviderGemini:
		return NewGemini(), nil
	}
	return nil, errs.AIFailure(fmt.Sprintf("unknown provider %q for model %s", m.Provider, m.ID))
}
