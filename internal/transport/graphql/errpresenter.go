package graphql

import (
	"context"
	"errors"
	"log/slog"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/heartmarshall/myenglish-reader/internal/domain"
	"github.com/heartmarshall/myenglish-reader/pkg/ctxutil"
)

// NewErrorPresenter returns a gqlgen error presenter that maps domain and
// provider errors to GraphQL error codes.
func NewErrorPresenter(log *slog.Logger) graphql.ErrorPresenterFunc {
	return func(ctx context.Context, err error) *gqlerror.Error {
		gqlErr := graphql.DefaultErrorPresenter(ctx, err)

		// Resolver errors arrive wrapped in *gqlerror.Error. Parse and query
		// validation errors carry no cause and are already client-facing.
		origErr := err
		var wrapper *gqlerror.Error
		if errors.As(err, &wrapper) {
			if wrapper.Err == nil {
				return gqlErr
			}
			origErr = wrapper.Err
		}

		switch {
		case errors.Is(origErr, domain.ErrValidation):
			gqlErr.Extensions = map[string]any{"code": "VALIDATION"}
			var ve *domain.ValidationError
			if errors.As(origErr, &ve) {
				gqlErr.Extensions["fields"] = ve.Messages()
			}

		case errors.Is(origErr, context.DeadlineExceeded):
			log.WarnContext(ctx, "translation timed out", slog.String("error", origErr.Error()))
			gqlErr.Message = "translation provider timed out"
			gqlErr.Extensions = map[string]any{"code": "TIMEOUT"}

		case errors.Is(origErr, context.Canceled):
			gqlErr.Message = "request canceled"
			gqlErr.Extensions = map[string]any{"code": "CANCELED"}

		case errors.Is(origErr, domain.ErrProvider):
			log.ErrorContext(ctx, "translation provider failed",
				slog.String("error", origErr.Error()),
				slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
			)
			gqlErr.Message = "translation provider failed"
			gqlErr.Extensions = map[string]any{"code": "PROVIDER"}

		default:
			requestID := ctxutil.RequestIDFromCtx(ctx)
			log.ErrorContext(ctx, "unexpected GraphQL error",
				slog.String("error", origErr.Error()),
				slog.String("request_id", requestID),
			)
			gqlErr.Message = "internal error"
			gqlErr.Extensions = map[string]any{"code": "INTERNAL"}
		}

		return gqlErr
	}
}
