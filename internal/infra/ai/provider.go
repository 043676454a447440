// Package ai holds what the completion providers share.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bryanwahyu/rdflg/internal/domain/tos"
)

// ProviderError folds any provider failure into the completion error taxonomy.
func ProviderError(ctx context.Context, provider string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", tos.ErrCompletionTimeout, provider, err)
	}
	return fmt.Errorf("%w: %s: %v", tos.ErrCompletionFailed, provider, err)
}

// SinceMs returns the wall-clock milliseconds elapsed since start.
func SinceMs(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
