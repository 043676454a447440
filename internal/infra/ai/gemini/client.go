package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/bryanwahyu/rdflg/internal/domain/tos"
	"github.com/bryanwahyu/rdflg/internal/infra/ai"
	"github.com/bryanwahyu/rdflg/internal/infra/ai/schema"
)

const DefaultModel = "gemini-2.5-pro"

type Config struct {
	APIKey          string
	Model           string
	BaseURL         string // empty uses the public Gemini API
	MaxOutputTokens int32
}

// Client is a tos.Completer backed by the Gemini API. One Client is shared
// by every request.
type Client struct {
	cli       *genai.Client
	model     string
	maxTokens int32
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{cli: cli, model: model, maxTokens: cfg.MaxOutputTokens}, nil
}

func (c *Client) Name() string { return "gemini:" + c.model }

func (c *Client) Complete(ctx context.Context, req tos.CompletionRequest) (tos.Completion, error) {
	temperature := req.Temperature
	cfg := &genai.GenerateContentConfig{Temperature: &temperature}
	if c.maxTokens > 0 {
		cfg.MaxOutputTokens = c.maxTokens
	}
	if req.Schema != nil {
		d, ok := req.Schema.(*schema.Descriptor)
		if !ok {
			return tos.Completion{}, fmt.Errorf("gemini: unsupported schema type %T", req.Schema)
		}
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = ToSchema(d.Root())
	}

	start := time.Now()
	resp, err := c.cli.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), cfg)
	latency := ai.SinceMs(start)
	if err != nil {
		return tos.Completion{}, ai.ProviderError(ctx, c.Name(), err)
	}

	text := resp.Text()
	if text == "" {
		return tos.Completion{}, ai.ProviderError(ctx, c.Name(), errors.New("empty response"))
	}
	return tos.Completion{Text: text, LatencyMs: latency}, nil
}

// ToSchema converts a descriptor tree into Gemini's response schema.
func ToSchema(n *schema.Node) *genai.Schema {
	if n == nil {
		return nil
	}
	s := &genai.Schema{
		Type:             genaiType(n.Type),
		Description:      n.Description,
		Enum:             n.Enum,
		Required:         n.Required,
		PropertyOrdering: n.Order,
		Items:            ToSchema(n.Items),
	}
	if n.Nullable {
		nullable := true
		s.Nullable = &nullable
	}
	if len(n.Properties) > 0 {
		s.Properties = make(map[string]*genai.Schema, len(n.Properties))
		for k, v := range n.Properties {
			s.Properties[k] = ToSchema(v)
		}
	}
	return s
}

func genaiType(t schema.Type) genai.Type {
	switch t {
	case schema.Object:
		return genai.TypeObject
	case schema.Array:
		return genai.TypeArray
	case schema.Number:
		return genai.TypeNumber
	case schema.Integer:
		return genai.TypeInteger
	case schema.Boolean:
		return genai.TypeBoolean
	}
	return genai.TypeString
}
