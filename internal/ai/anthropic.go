package ai

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	antoption "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/bethropolis/vedit/internal/config"
	"github.com/bethropolis/vedit/internal/errs"
)

// Anthropic uses the Messages API.
type Anthropic struct {
	client anthropic.Client
}

// NewAnthropic builds a client for m.
func NewAnthropic(m config.ModelConfig) *Anthropic {
	var opts []antoption.RequestOption
	if key := m.APIKey(); key != "" {
		opts = append(opts, antoption.WithAPIKey(key))
	}
	if m.Endpoint != "" {
		opts = append(opts, antoption.WithBaseURL(m.Endpoint))
	}
	opts = append(opts, antoption.WithMaxRetries(0))
	return &Anthropic{client: anthropic.NewClient(opts...)}
}

func (p *Anthropic) Complete(ctx context.Context, call Call) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(call.Model.Model),
		MaxTokens: int64(call.Model.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(call.User)),
		},
	}
	if call.System != "" {
		params.System = []anthropic.TextBlockParam{{Type: "text", Text: call.System}}
	}
	if call.Model.Temperature > 0 {
		params.Temperature = anthropic.Float(call.Model.Temperature)
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}
	var out strings.Builder
	for _, content := range message.Content {
		if content.Type == "text" {
			out.WriteString(content.Text)
		}
	}
	if out.Len() == 0 {
		return "", errs.AIFailure("response has no text")
	}
	return out.String(), nil
}
