package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// loggingMiddleware logs every tool call with its duration and outcome.
// Arguments are never logged; prompts may hold user text.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			result, err := next(ctx, req)

			attrs := []any{
				slog.String("tool", req.Params.Name),
				slog.Duration("duration", time.Since(start)),
			}
			switch {
			case err != nil:
				s.log.ErrorContext(ctx, "tool call failed", append(attrs, slog.String("error", err.Error()))...)
			case result != nil && result.IsError:
				s.log.WarnContext(ctx, "tool call returned error", attrs...)
			default:
				s.log.InfoContext(ctx, "tool call", attrs...)
			}

			return result, err
		}
	}
}
