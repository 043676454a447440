package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/rdflg/internal/domain/tos"
	"github.com/bryanwahyu/rdflg/internal/infra/ai"
	"github.com/bryanwahyu/rdflg/internal/infra/ai/schema"
)

const (
	DefaultModel = "gpt-4o-mini"
	maxTokens    = 4096
)

type Client struct {
	*openai.Client
	Model     string
	MaxTokens int
}

// NewClient builds a client; baseURL may be empty for the public API.
func NewClient(apiKey, model, baseURL string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{Client: openai.NewClientWithConfig(cfg), Model: model, MaxTokens: maxTokens}
}

func (c *Client) Name() string { return "openai:" + c.Model }

func (c *Client) Complete(ctx context.Context, in tos.CompletionRequest) (tos.Completion, error) {
	req := openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: in.Prompt},
		},
	}
	if in.Schema != nil {
		d, ok := in.Schema.(*schema.Descriptor)
		if !ok {
			return tos.Completion{}, fmt.Errorf("openai: unsupported schema type %T", in.Schema)
		}
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   d.Name(),
				Schema: d,
			},
		}
	}
	// Reasoning models (o1/o3/o4/gpt-5*) take MaxCompletionTokens and reject temperature
	if isReasoningModel(c.Model) {
		req.MaxCompletionTokens = c.MaxTokens
	} else {
		req.MaxTokens = c.MaxTokens
		// a zero temperature is dropped by omitempty
		req.Temperature = float32(math.Max(float64(in.Temperature), math.SmallestNonzeroFloat32))
	}

	start := time.Now()
	resp, err := c.CreateChatCompletion(ctx, req)
	latency := ai.SinceMs(start)
	if err != nil {
		return tos.Completion{}, ai.ProviderError(ctx, c.Name(), err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return tos.Completion{}, ai.ProviderError(ctx, c.Name(), errors.New("empty response"))
	}
	return tos.Completion{Text: resp.Choices[0].Message.Content, LatencyMs: latency}, nil
}

func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}
