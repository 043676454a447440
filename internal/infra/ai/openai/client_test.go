package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/rdflg/internal/domain/tos"
	"github.com/bryanwahyu/rdflg/internal/infra/ai/schema"
)

func TestComplete_SendsJSONSchema(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"riskScore\":42}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", "gpt-4o-mini", srv.URL+"/v1")
	out, err := c.Complete(context.Background(), tos.CompletionRequest{Prompt: "analyze", Schema: schema.Enterprise})
	require.NoError(t, err)
	assert.Equal(t, `{"riskScore":42}`, out.Text)

	rf := got["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", rf["type"])
	js := rf["json_schema"].(map[string]any)
	assert.Equal(t, "enterprise_comparison", js["name"])
	assert.Equal(t, "object", js["schema"].(map[string]any)["type"])
	assert.NotNil(t, got["max_tokens"])
}

func TestComplete_ReasoningModelUsesCompletionTokens(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", "o3-mini", srv.URL+"/v1")
	_, err := c.Complete(context.Background(), tos.CompletionRequest{Prompt: "hello"})
	require.NoError(t, err)
	assert.NotNil(t, got["max_completion_tokens"])
	assert.Nil(t, got["max_tokens"])
	assert.Nil(t, got["temperature"])
}

func TestComplete_APIErrorIsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	c := NewClient("bad", "", srv.URL+"/v1")
	_, err := c.Complete(context.Background(), tos.CompletionRequest{Prompt: "hello"})
	require.Error(t, err)
	assert.ErrorIs(t, err, tos.ErrCompletionFailed)
	assert.Contains(t, err.Error(), "Incorrect API key provided")
}

func TestComplete_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewClient("k", "", srv.URL+"/v1").Complete(context.Background(), tos.CompletionRequest{Prompt: "x"})
	assert.ErrorIs(t, err, tos.ErrCompletionFailed)
}
