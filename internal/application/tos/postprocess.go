package tos

import (
	"encoding/json"
	"fmt"
	"strings"

	domain "github.com/bryanwahyu/rdflg/internal/domain/tos"
	"github.com/bryanwahyu/rdflg/internal/infra/ai/schema"
)

// Meta carries values computed outside the model that are attached to results.
type Meta struct {
	LatencyMs         float64
	TotalUserAnalyses int
}

// ParseAndNormalize decodes raw model output for kind and returns
// *domain.Analysis, *domain.SubmissionMetadata or *domain.EnterpriseComparison.
func ParseAndNormalize(raw string, kind domain.Kind, meta Meta) (any, error) {
	switch kind {
	case domain.KindAnalysis:
		return ParseAnalysis(raw, meta)
	case domain.KindSubmission:
		return ParseSubmission(raw, meta)
	case domain.KindEnterprise:
		return ParseComparison(raw, meta)
	}
	return nil, fmt.Errorf("unknown result kind %q", kind)
}

type analysisWire struct {
	domain.Analysis
	RiskScore float64 `json:"riskScore"`
}

func ParseAnalysis(raw string, meta Meta) (*domain.Analysis, error) {
	var w analysisWire
	if err := decode(raw, schema.Analysis, &w); err != nil {
		return nil, err
	}
	out := w.Analysis
	out.RiskScore = domain.NormalizeRiskScore(w.RiskScore)
	out.GeminiLatencyMs = meta.LatencyMs
	return &out, nil
}

func ParseSubmission(raw string, meta Meta) (*domain.SubmissionMetadata, error) {
	var out domain.SubmissionMetadata
	if err := decode(raw, schema.Submission, &out); err != nil {
		return nil, err
	}
	if out.Source != domain.SourceURL {
		out.TosURL = nil
	}
	out.GeminiLatencyMs = meta.LatencyMs
	return &out, nil
}

type comparisonWire struct {
	domain.EnterpriseComparison
	RiskScore float64 `json:"riskScore"`
}

func ParseComparison(raw string, meta Meta) (*domain.EnterpriseComparison, error) {
	var w comparisonWire
	if err := decode(raw, schema.Enterprise, &w); err != nil {
		return nil, err
	}
	out := w.EnterpriseComparison
	out.RiskScore = domain.NormalizeRiskScore(w.RiskScore)
	out.GeminiLatencyMs = meta.LatencyMs
	out.TotalUserAnalyses = meta.TotalUserAnalyses
	return &out, nil
}

// decode parses, validates against d, then decodes into dst. The typed
// decode reads the re-encoded tree, so integral values the model wrote as
// floats (12.0) land in int fields the schema already accepted.
func decode(raw string, d *schema.Descriptor, dst any) error {
	var generic any
	if err := json.Unmarshal([]byte(stripFence(raw)), &generic); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if err := d.Validate(generic); err != nil {
		return err
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if err := json.Unmarshal(canonical, dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSchemaViolation, err)
	}
	return nil
}

// stripFence removes a markdown code fence some models wrap JSON in.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
