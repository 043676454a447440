package tos

import (
	"context"
	"errors"
	"sync"

	domain "github.com/bryanwahyu/rdflg/internal/domain/tos"
)

// stubLLM answers by schema name; a nil schema gets the "prompt" entry.
type stubLLM struct {
	mu        sync.Mutex
	responses map[string]string
	err       error
	requests  []domain.CompletionRequest
}

func (s *stubLLM) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.err != nil {
		return domain.Completion{}, s.err
	}
	key := "prompt"
	if req.Schema != nil {
		key = req.Schema.Name()
	}
	text, ok := s.responses[key]
	if !ok {
		return domain.Completion{}, errors.New("no stub response for " + key)
	}
	return domain.Completion{Text: text, LatencyMs: 12.5}, nil
}

func (s *stubLLM) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

type stubHistory struct {
	records []domain.AnalysisRecord
	err     error
	limit   int
}

func (h *stubHistory) RecentAnalyses(ctx context.Context, limit int) ([]domain.AnalysisRecord, error) {
	h.limit = limit
	return h.records, h.err
}

type memArchive struct {
	puts map[string]any
}

func (a *memArchive) Put(ctx context.Context, key string, v any) error {
	if a.puts == nil {
		a.puts = map[string]any{}
	}
	a.puts[key] = v
	return nil
}

type countingObserver struct {
	kinds  []domain.Kind
	failed int
}

func (o *countingObserver) ObserveCompletion(kind domain.Kind, err error, latencyMs float64) {
	o.kinds = append(o.kinds, kind)
	if err != nil {
		o.failed++
	}
}
