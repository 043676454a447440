package tos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/rdflg/internal/application"
	domain "github.com/bryanwahyu/rdflg/internal/domain/tos"
	"github.com/bryanwahyu/rdflg/internal/infra/ai/prompt"
	"github.com/bryanwahyu/rdflg/internal/infra/ai/schema"
)

const (
	DefaultServiceName    = "Unknown Service"
	DefaultTimeout        = 90 * time.Second
	DefaultHistoryLimit   = 50
	DefaultHistoryTimeout = 5 * time.Second
)

// CompletionObserver receives one event per completion call.
type CompletionObserver interface {
	ObserveCompletion(kind domain.Kind, err error, latencyMs float64)
}

// Service runs the prompt → completion → postprocess pipeline. Each call is
// sequential; the Service holds no per-request state and is safe for
// concurrent use.
type Service struct {
	LLM      domain.Completer
	History  domain.HistoryStore
	Archive  domain.Archive
	Clock    application.Clock
	Log      *logrus.Logger
	Observer CompletionObserver

	Timeout        time.Duration // bound on each completion call
	HistoryLimit   int           // most recent analyses fed to the aggregate
	HistoryTimeout time.Duration

	NewID func() string
}

//
// ==== COMMANDS ====
//

type AnalyzeCommand struct {
	TosText     string
	ServiceName string
}

type AnalyzeResult struct {
	Analysis   *domain.Analysis           `json:"analysis"`
	Submission *domain.SubmissionMetadata `json:"submission"`
}

type SubmissionCommand struct {
	TosText string
	Source  domain.Source
	TosURL  string
}

type CompareCommand struct {
	TosText     string
	ServiceName string
}

//
// ==== USE CASES ====
//

// Prompt forwards free-form text to the model and returns its reply.
func (s *Service) Prompt(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.MissingField("prompt")
	}
	c, err := s.complete(ctx, domain.KindPrompt, text, nil)
	if err != nil {
		return "", err
	}
	return c.Text, nil
}

// Analyze produces a ToS analysis and the matching submission metadata.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (*AnalyzeResult, error) {
	if strings.TrimSpace(cmd.TosText) == "" {
		return nil, domain.MissingField("tos_text")
	}
	serviceName := orDefault(cmd.ServiceName, DefaultServiceName)
	submissionID := s.newID()
	snapshot := s.clock().Now().UTC().Format(time.RFC3339)

	p := prompt.BuildAnalysisPrompt(cmd.TosText, serviceName, submissionID, snapshot)
	c, err := s.complete(ctx, domain.KindAnalysis, p, schema.Analysis)
	if err != nil {
		return nil, err
	}
	analysis, err := ParseAnalysis(c.Text, Meta{LatencyMs: c.LatencyMs})
	if err != nil {
		return nil, s.postprocessFailed(domain.KindAnalysis, err)
	}

	submission, err := s.ProcessSubmission(ctx, SubmissionCommand{TosText: cmd.TosText, Source: domain.SourcePaste})
	if err != nil {
		return nil, err
	}

	res := &AnalyzeResult{Analysis: analysis, Submission: submission}
	s.archive(ctx, "analyses/"+submissionID+".json", res)
	return res, nil
}

// ProcessSubmission extracts submission metadata for a ToS document.
func (s *Service) ProcessSubmission(ctx context.Context, cmd SubmissionCommand) (*domain.SubmissionMetadata, error) {
	if strings.TrimSpace(cmd.TosText) == "" {
		return nil, domain.MissingField("tos_text")
	}
	source := cmd.Source
	if source == "" {
		source = domain.SourcePaste
	}
	if source != domain.SourcePaste && source != domain.SourceURL {
		return nil, domain.InvalidField("source", "must be 'paste' or 'url'")
	}

	p := prompt.BuildSubmissionPrompt(cmd.TosText, source, cmd.TosURL)
	c, err := s.complete(ctx, domain.KindSubmission, p, schema.Submission)
	if err != nil {
		return nil, err
	}
	out, err := ParseSubmission(c.Text, Meta{LatencyMs: c.LatencyMs})
	if err != nil {
		return nil, s.postprocessFailed(domain.KindSubmission, err)
	}
	return out, nil
}

// EnterpriseCompare reviews an enterprise ToS against the community aggregate.
// An unreadable history store degrades to an empty aggregate.
func (s *Service) EnterpriseCompare(ctx context.Context, cmd CompareCommand) (*domain.EnterpriseComparison, error) {
	if strings.TrimSpace(cmd.TosText) == "" {
		return nil, domain.MissingField("tos_text")
	}
	serviceName := orDefault(cmd.ServiceName, DefaultServiceName)

	agg := s.communityAggregate(ctx)
	p := prompt.BuildEnterpriseComparePrompt(cmd.TosText, serviceName, agg)
	c, err := s.complete(ctx, domain.KindEnterprise, p, schema.Enterprise)
	if err != nil {
		return nil, err
	}
	out, err := ParseComparison(c.Text, Meta{LatencyMs: c.LatencyMs, TotalUserAnalyses: agg.TotalReports})
	if err != nil {
		return nil, s.postprocessFailed(domain.KindEnterprise, err)
	}

	s.archive(ctx, "comparisons/"+s.newID()+".json", out)
	return out, nil
}

//
// ==== HELPERS ====
//

func (s *Service) complete(ctx context.Context, kind domain.Kind, p string, d domain.SchemaDescriptor) (domain.Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	c, err := s.LLM.Complete(ctx, domain.CompletionRequest{Prompt: p, Schema: d, Temperature: 0})
	if s.Observer != nil {
		s.Observer.ObserveCompletion(kind, err, c.LatencyMs)
	}
	entry := s.log().WithFields(logrus.Fields{"kind": kind, "latency_ms": c.LatencyMs, "prompt_bytes": len(p)})
	if named, ok := s.LLM.(interface{ Name() string }); ok {
		entry = entry.WithField("provider", named.Name())
	}
	if err != nil {
		entry.WithError(err).Error("completion failed")
		return domain.Completion{}, err
	}
	entry.Info("completion done")
	return c, nil
}

func (s *Service) postprocessFailed(kind domain.Kind, err error) error {
	s.log().WithField("kind", kind).WithError(err).Error("model response rejected")
	return err
}

func (s *Service) communityAggregate(ctx context.Context) domain.CommunityAggregate {
	history := s.History
	if history == nil {
		history = domain.EmptyHistory{}
	}
	limit := s.HistoryLimit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	timeout := s.HistoryTimeout
	if timeout <= 0 {
		timeout = DefaultHistoryTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	records, err := history.RecentAnalyses(ctx, limit)
	if err != nil {
		s.log().WithError(fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)).
			Warn("community aggregate degraded to empty")
		records = nil
	}
	return domain.ComputeCommunityAggregate(records)
}

func (s *Service) archive(ctx context.Context, key string, v any) {
	if s.Archive == nil {
		return
	}
	if err := s.Archive.Put(ctx, key, v); err != nil {
		s.log().WithField("key", key).WithError(err).Warn("archive failed")
	}
}

func (s *Service) timeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return DefaultTimeout
}

func (s *Service) clock() application.Clock {
	if s.Clock == nil {
		return application.SystemClock{}
	}
	return s.Clock
}

func (s *Service) log() *logrus.Logger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.New().String()
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
