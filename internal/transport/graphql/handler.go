// Package graphql serves the translation pipeline over GraphQL. Tokens are
// exposed as the Token union so clients select word metadata with inline
// fragments and render punctuation and whitespace verbatim.
package graphql

import (
	"log/slog"
	"net/http"

	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/transport"
)

// NewHandler returns the POST /query handler for the given service.
func NewHandler(svc translationService, logger *slog.Logger) http.Handler {
	srv := handler.New(NewExecutableSchema(NewResolver(svc, logger)))
	srv.AddTransport(transport.POST{})
	srv.SetErrorPresenter(NewErrorPresenter(logger))
	return srv
}
