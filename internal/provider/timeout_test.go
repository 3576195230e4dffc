package provider

import (
	"context"
	"errors"
	"testing"
	"time"
)

type completerMock struct {
	CompleteFunc func(ctx context.Context, req CompletionRequest) (Completion, error)
}

func (m *completerMock) Name() string { return "mock" }

func (m *completerMock) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	return m.CompleteFunc(ctx, req)
}

func TestWithTimeout_SetsDeadline(t *testing.T) {
	t.Parallel()

	mock := &completerMock{CompleteFunc: func(ctx context.Context, _ CompletionRequest) (Completion, error) {
		deadline, ok := ctx.Deadline()
		if !ok {
			t.Fatal("expected a deadline on the context")
		}
		if time.Until(deadline) > time.Minute {
			t.Errorf("deadline too far away: %v", time.Until(deadline))
		}
		return Completion{Content: "ok"}, nil
	}}

	c := WithTimeout(mock, time.Minute)

	got, err := c.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Content != "ok" {
		t.Errorf("Content = %q, want %q", got.Content, "ok")
	}
	if c.Name() != "mock" {
		t.Errorf("Name() = %q, want %q", c.Name(), "mock")
	}
}

func TestWithTimeout_Expires(t *testing.T) {
	t.Parallel()

	mock := &completerMock{CompleteFunc: func(ctx context.Context, _ CompletionRequest) (Completion, error) {
		<-ctx.Done()
		return Completion{}, ctx.Err()
	}}

	_, err := WithTimeout(mock, 10*time.Millisecond).Complete(context.Background(), CompletionRequest{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v, want context.DeadlineExceeded", err)
	}
}

func TestWithTimeout_NonPositiveIsIdentity(t *testing.T) {
	t.Parallel()

	mock := &completerMock{}
	if got := WithTimeout(mock, 0); got != Completer(mock) {
		t.Error("WithTimeout(0) should return the wrapped completer unchanged")
	}
}
