package ai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/bethropolis/vedit/internal/errs"
	"github.com/bethropolis/vedit/internal/logger"
)

// maxResponseBytes caps how much of a reply body is read.
const maxResponseBytes = 8 << 20

// AnythingLLM talks to an AnythingLLM workspace chat endpoint:
// POST {"message": ..., "mode": "chat"} answered by {"textResponse": ...}.
type AnythingLLM struct {
	client *http.Client
}

// NewAnythingLLM creates the provider. A nil client uses http.DefaultClient;
// deadlines come from the request context.
func NewAnythingLLM(client *http.Client) *AnythingLLM {
	if client == nil {
		client = http.DefaultClient
	}
	return &AnythingLLM{client: client}
}

// authorization builds the header value. A key that already carries the
// scheme is sent as is.
func authorization(key string) string {
	if strings.HasPrefix(key, "Bearer ") {
		return key
	}
	return "Bearer " + key
}

func (p *AnythingLLM) Complete(ctx context.Context, call Call) (string, error) {
	if call.Model.Endpoint == "" {
		return "", errs.AIFailure(fmt.Sprintf("model %s has no endpoint", call.Model.ID))
	}
	message := call.User
	if call.System != "" {
		message = call.System + "\n\n" + call.User
	}
	body, err := sjson.SetBytes(nil, "message", message)
	if err == nil {
		body, err = sjson.SetBytes(body, "mode", "chat")
	}
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, call.Model.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errs.AIFailure(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authorization(call.Model.APIKey()))

	logger.DebugTagf("ai", "anythingllm request to %s: %s", call.Model.Endpoint, body)
	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", err
	}
	logger.DebugTagf("ai", "anythingllm response %d: %s", resp.StatusCode, data)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errs.AIFailure(fmt.Sprintf("API error: %s", resp.Status))
	}
	if !gjson.ValidBytes(data) {
		return "", errs.AIFailure("malformed response body")
	}
	text := gjson.GetBytes(data, "textResponse")
	if !text.Exists() {
		if msg := gjson.GetBytes(data, "error"); msg.Exists() && msg.String() != "" {
			return "", errs.AIFailure(msg.String())
		}
		return "", errs.AIFailure("response has no textResponse")
	}
	return text.String(), nil
}
