package graphql

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/heartmarshall/myenglish-reader/internal/domain"
	"github.com/heartmarshall/myenglish-reader/pkg/ctxutil"
)

func TestErrorPresenter_Validation(t *testing.T) {
	presenter := NewErrorPresenter(slog.Default())

	err := domain.NewValidationErrors([]domain.FieldError{
		{Field: "prompt", Message: "required"},
		{Field: "temperature", Message: "must be within [0, 2]"},
	})

	gqlErr := presenter(context.Background(), err)

	if code := gqlErr.Extensions["code"]; code != "VALIDATION" {
		t.Fatalf("expected code VALIDATION, got %v", code)
	}
	fields, ok := gqlErr.Extensions["fields"].([]string)
	if !ok {
		t.Fatalf("expected fields []string, got %T", gqlErr.Extensions["fields"])
	}
	if len(fields) != 2 || fields[0] != "prompt: required" {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func TestErrorPresenter_Provider(t *testing.T) {
	var buf bytes.Buffer
	presenter := NewErrorPresenter(slog.New(slog.NewTextHandler(&buf, nil)))

	gqlErr := presenter(context.Background(), fmt.Errorf("openai: status 429: %w", domain.ErrProvider))

	if code := gqlErr.Extensions["code"]; code != "PROVIDER" {
		t.Errorf("expected code PROVIDER, got %v", code)
	}
	if gqlErr.Message != "translation provider failed" {
		t.Errorf("unexpected message %q", gqlErr.Message)
	}
	if !bytes.Contains(buf.Bytes(), []byte("status 429")) {
		t.Error("expected provider error to be logged")
	}
}

func TestErrorPresenter_Timeout(t *testing.T) {
	presenter := NewErrorPresenter(slog.Default())

	gqlErr := presenter(context.Background(), fmt.Errorf("complete: %w", context.DeadlineExceeded))

	if code := gqlErr.Extensions["code"]; code != "TIMEOUT" {
		t.Errorf("expected code TIMEOUT, got %v", code)
	}
}

func TestErrorPresenter_WrappedInGQLError(t *testing.T) {
	presenter := NewErrorPresenter(slog.Default())

	err := &gqlerror.Error{Err: domain.NewValidationError("prompt", "required"), Message: "validation: prompt: required"}

	gqlErr := presenter(context.Background(), err)

	if code := gqlErr.Extensions["code"]; code != "VALIDATION" {
		t.Errorf("expected code VALIDATION, got %v", code)
	}
}

func TestErrorPresenter_QueryErrorPassesThrough(t *testing.T) {
	presenter := NewErrorPresenter(slog.Default())

	gqlErr := presenter(context.Background(), gqlerror.Errorf(`Cannot query field "nope" on type "Query".`))

	if gqlErr.Message != `Cannot query field "nope" on type "Query".` {
		t.Errorf("unexpected message %q", gqlErr.Message)
	}
	if _, ok := gqlErr.Extensions["code"]; ok {
		t.Errorf("expected no code, got %v", gqlErr.Extensions["code"])
	}
}

func TestErrorPresenter_Unexpected(t *testing.T) {
	var buf bytes.Buffer
	presenter := NewErrorPresenter(slog.New(slog.NewTextHandler(&buf, nil)))

	ctx := ctxutil.WithRequestID(context.Background(), "req-42")
	gqlErr := presenter(ctx, fmt.Errorf("boom"))

	if gqlErr.Message != "internal error" {
		t.Errorf("expected masked message, got %q", gqlErr.Message)
	}
	if code := gqlErr.Extensions["code"]; code != "INTERNAL" {
		t.Errorf("expected code INTERNAL, got %v", code)
	}
	if !bytes.Contains(buf.Bytes(), []byte("req-42")) {
		t.Error("expected request id in log")
	}
}

func TestErrorPresenter_ProviderDetailLoggedThroughWrapper(t *testing.T) {
	var buf bytes.Buffer
	presenter := NewErrorPresenter(slog.New(slog.NewTextHandler(&buf, nil)))

	cause := fmt.Errorf("openai: status 429: %w", domain.ErrProvider)
	gqlErr := presenter(context.Background(), &gqlerror.Error{Err: cause, Message: cause.Error()})

	if code := gqlErr.Extensions["code"]; code != "PROVIDER" {
		t.Errorf("expected code PROVIDER, got %v", code)
	}
	if !bytes.Contains(buf.Bytes(), []byte("openai: status 429")) {
		t.Errorf("expected full provider error in log, got %q", buf.String())
	}
}
