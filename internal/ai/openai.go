package ai

import (
	"context"

	"github.com/openai/openai-go"
	oaioption "github.com/openai/openai-go/option"

	"github.com/bethropolis/vedit/internal/config"
	"github.com/bethropolis/vedit/internal/errs"
)

// OpenAI uses the chat completions API. Endpoint, when set, overrides the
// base URL so compatible servers can be used.
type OpenAI struct {
	client openai.Client
}

// NewOpenAI builds a client for m.
func NewOpenAI(m config.ModelConfig) *OpenAI {
	var opts []oaioption.RequestOption
	if key := m.APIKey(); key != "" {
		opts = append(opts, oaioption.WithAPIKey(key))
	}
	if m.Endpoint != "" {
		opts = append(opts, oaioption.WithBaseURL(m.Endpoint))
	}
	opts = append(opts, oaioption.WithMaxRetries(0))
	return &OpenAI{client: openai.NewClient(opts...)}
}

func (p *OpenAI) Complete(ctx context.Context, call Call) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(call.Model.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(call.System),
			openai.UserMessage(call.User),
		},
	}
	if call.Model.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(call.Model.MaxTokens))
	}
	if call.Model.Temperature > 0 {
		params.Temperature = openai.Float(call.Model.Temperature)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errs.AIFailure("response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
