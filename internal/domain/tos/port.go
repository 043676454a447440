package tos

import "context"

// SchemaDescriptor is the structural contract a completion must satisfy.
// Implemented by schema.Descriptor; provider adapters type-assert the
// richer rendering they need.
type SchemaDescriptor interface {
	Name() string
}

// CompletionRequest is one prompt sent to the LLM provider.
type CompletionRequest struct {
	Prompt      string
	Schema      SchemaDescriptor // nil requests free-form text
	Temperature float32
}

// Completion is the raw provider output and the wall-clock latency of the call.
type Completion struct {
	Text      string
	LatencyMs float64
}

// Completer port (LLM provider)
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}

// HistoryStore port: read-only access to previously stored analyses.
type HistoryStore interface {
	RecentAnalyses(ctx context.Context, limit int) ([]AnalysisRecord, error)
}

// Archive port for finished results
type Archive interface {
	Put(ctx context.Context, key string, v any) error
}

// EmptyHistory is the HistoryStore used when no store is configured.
type EmptyHistory struct{}

func (EmptyHistory) RecentAnalyses(context.Context, int) ([]AnalysisRecord, error) {
	return nil, nil
}

// NopArchive discards everything; used when no archive is configured.
type NopArchive struct{}

func (NopArchive) Put(context.Context, string, any) error { return nil }
