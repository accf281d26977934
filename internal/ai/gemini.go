package ai

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/bethropolis/vedit/internal/errs"
)

// Gemini uses the Google generative AI client. A client is created per
// call because the key and model come with the call.
type Gemini struct{}

// NewGemini creates the provider.
func NewGemini() *Gemini { return &Gemini{} }

func (p *Gemini) Complete(ctx context.Context, call Call) (string, error) {
	opts := []option.ClientOption{option.WithAPIKey(call.Model.APIKey())}
	if call.Model.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(call.Model.Endpoint))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel(call.Model.Model)
	if call.System != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(call.System))
	}
	if call.Model.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(call.Model.MaxTokens))
	}
	if call.Model.Temperature > 0 {
		model.SetTemperature(float32(call.Model.Temperature))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(call.User))
	if err != nil {
		return "", err
	}
	var out strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				out.WriteString(string(txt))
			}
		}
		break
	}
	if out.Len() == 0 {
		return "", errs.AIFailure("response has no text")
	}
	return out.String(), nil
}
