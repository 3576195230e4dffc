package provider

import (
	"context"
	"time"
)

// Completer is implemented by every completion provider adapter.
type Completer interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}

// WithTimeout bounds every Complete call of next by d. A non-positive d
// returns next unchanged.
func WithTimeout(next Completer, d time.Duration) Completer {
	if d <= 0 {
		return next
	}
	return &timeoutCompleter{next: next, timeout: d}
}

type timeoutCompleter struct {
	next    Completer
	timeout time.Duration
}

func (t *timeoutCompleter) Name() string { return t.next.Name() }

func (t *timeoutCompleter) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Complete(ctx, req)
}
