package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/bryanwahyu/rdflg/internal/domain/tos"
	"github.com/bryanwahyu/rdflg/internal/infra/ai/schema"
)

func TestToSchema(t *testing.T) {
	s := ToSchema(schema.Submission.Root())

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"source", "tosText", "wordCount"}, s.Required)
	assert.Equal(t, []string{"source", "tosUrl", "tosText", "wordCount", "notes"}, s.PropertyOrdering)
	assert.Equal(t, []string{"paste", "url"}, s.Properties["source"].Enum)
	assert.Equal(t, genai.TypeInteger, s.Properties["wordCount"].Type)
	require.NotNil(t, s.Properties["tosUrl"].Nullable)
	assert.True(t, *s.Properties["tosUrl"].Nullable)

	a := ToSchema(schema.Analysis.Root())
	assert.Equal(t, genai.TypeArray, a.Properties["violations"].Type)
	assert.Equal(t, genai.TypeObject, a.Properties["violations"].Items.Type)
	assert.Equal(t, genai.TypeNumber, a.Properties["riskScore"].Type)
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	return c
}

func TestComplete_RequestsJSONWithSchema(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"ok\":true}"}]}}]}`))
	})

	got, err := c.Complete(context.Background(), tos.CompletionRequest{
		Prompt: "hello", Schema: schema.Analysis, Temperature: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, got.Text)
	assert.GreaterOrEqual(t, got.LatencyMs, 0.0)

	gen, ok := body["generationConfig"].(map[string]any)
	require.True(t, ok, "generationConfig missing: %v", body)
	assert.Equal(t, "application/json", gen["responseMimeType"])
	assert.NotNil(t, gen["responseSchema"])
}

func TestComplete_ProviderErrorIsWrapped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	})

	_, err := c.Complete(context.Background(), tos.CompletionRequest{Prompt: "hello"})
	require.Error(t, err)
	assert.ErrorIs(t, err, tos.ErrCompletionFailed)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestComplete_Timeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Complete(ctx, tos.CompletionRequest{Prompt: "hello"})
	assert.ErrorIs(t, err, tos.ErrCompletionTimeout)
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	assert.Error(t, err)
}
