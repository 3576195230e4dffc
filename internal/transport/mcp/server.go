// Package mcp exposes the translation pipeline as Model Context Protocol
// tools over stdio.
package mcp

import (
	"context"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/heartmarshall/myenglish-reader/internal/domain"
	"github.com/heartmarshall/myenglish-reader/internal/service/translation"
)

const serverName = "myenglish-reader"

type translationService interface {
	GenerateTranslationWithTokens(ctx context.Context, req translation.Request) (domain.TranslationWithTokens, error)
	TokenizeReply(ctx context.Context, reply string) domain.TranslationWithTokens
}

// Server wraps an MCP server with the translate and tokenize_reply tools.
type Server struct {
	mcpServer *server.MCPServer
	svc       translationService
	log       *slog.Logger
}

// NewServer registers the tools and the call logging middleware.
func NewServer(svc translationService, version string, logger *slog.Logger) *Server {
	s := &Server{svc: svc, log: logger.With("transport", "mcp")}

	s.mcpServer = server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(s.loggingMiddleware()),
	)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: translateTool(), Handler: s.handleTranslate},
		server.ServerTool{Tool: tokenizeReplyTool(), Handler: s.handleTokenizeReply},
	)

	return s
}

// Listen serves MCP on the given streams until ctx is canceled or in closes.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
}
