package ai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/bethropolis/vedit/internal/config"
	"github.com/bethropolis/vedit/internal/errs"
)

func TestAnythingLLMComplete(t *testing.T) {
	t.Setenv("VEDIT_TEST_KEY", "secret")

	var auth string
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		auth = r.Header.Get("Authorization")
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"textResponse":"rewritten","id":"1"}`)
	}))
	defer srv.Close()

	m := config.ModelConfig{ID: "local", Endpoint: srv.URL, APIKeyEnv: "VEDIT_TEST_KEY"}
	out, err := NewAnythingLLM(srv.Client()).Complete(context.Background(), Call{Model: m, System: "sys", User: "usr"})
	require.NoError(t, err)
	assert.Equal(t, "rewritten", out)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "sys\n\nusr", gjson.GetBytes(body, "message").String())
	assert.Equal(t, "chat", gjson.GetBytes(body, "mode").String())
}

func TestAnythingLLMErrors(t *testing.T) {
	status := http.StatusInternalServerError
	reply := `{}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	defer srv.Close()

	p := NewAnythingLLM(srv.Client())
	call := Call{Model: config.ModelConfig{ID: "local", Endpoint: srv.URL}, User: "x"}

	_, err := p.Complete(context.Background(), call)
	assert.ErrorIs(t, err, errs.ErrAIRequestFailed)
	assert.Contains(t, err.Error(), "500")

	status = http.StatusOK
	_, err = p.Complete(context.Background(), call)
	assert.ErrorIs(t, err, errs.ErrAIRequestFailed, "missing textResponse")

	reply = `{"error":"workspace not found"}`
	_, err = p.Complete(context.Background(), call)
	assert.ErrorContains(t, err, "workspace not found")

	_, err = p.Complete(context.Background(), Call{Model: config.ModelConfig{ID: "none"}})
	assert.ErrorIs(t, err, errs.ErrAIRequestFailed, "no endpoint")
}

func TestAnythingLLMHonorsDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := NewAnythingLLM(srv.Client()).Complete(ctx, Call{Model: config.ModelConfig{ID: "x", Endpoint: srv.URL}})
	require.Error(t, err)
	assert.ErrorIs(t, classify(ctx, err, 30*time.Millisecond), errs.ErrAIRequestTimedOut)
}

func TestAuthorizationHeader(t *testing.T) {
	assert.Equal(t, "Bearer abc", authorization("abc"))
	assert.Equal(t, "Bearer abc", authorization("Bearer abc"))
	assert.Equal(t, "Bearer ", authorization(""))
}
