package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/heartmarshall/myenglish-reader/internal/domain"
	"github.com/heartmarshall/myenglish-reader/internal/service/translation"
)

const (
	toolTranslate     = "translate"
	toolTokenizeReply = "tokenize_reply"
)

func translateTool() mcp.Tool {
	return mcp.NewTool(toolTranslate,
		mcp.WithDescription("Send a translation prompt to the configured model and return the translation as reader tokens (words with lemma, part of speech and CEFR difficulty, punctuation and whitespace)."),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("Full prompt sent to the model")),
		mcp.WithNumber("max_tokens", mcp.Description("Upper bound on generated tokens; provider default when omitted")),
		mcp.WithNumber("temperature", mcp.Description("Sampling temperature in [0, 2]; provider default when omitted")),
	)
}

func tokenizeReplyTool() mcp.Tool {
	return mcp.NewTool(toolTokenizeReply,
		mcp.WithDescription("Turn an already generated model reply into reader tokens. Structured JSON replies are validated; anything else is split into plain-text tokens."),
		mcp.WithString("reply", mcp.Required(), mcp.Description("Raw model reply")),
	)
}

func (s *Server) handleTranslate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := req.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	treq := translation.Request{Prompt: prompt}
	args := req.GetArguments()
	if _, ok := args["max_tokens"]; ok {
		n := req.GetInt("max_tokens", 0)
		treq.MaxTokens = &n
	}
	if _, ok := args["temperature"]; ok {
		t := req.GetFloat("temperature", 0)
		treq.Temperature = &t
	}

	result, err := s.svc.GenerateTranslationWithTokens(ctx, treq)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(result)
}

func (s *Server) handleTokenizeReply(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reply, err := req.RequireString("reply")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.svc.TokenizeReply(ctx, reply))
}

// toolError reports failures as tool results so the client model can see them.
func toolError(err error) *mcp.CallToolResult {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return mcp.NewToolResultError(verr.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return mcp.NewToolResultError("translation provider timed out")
	case errors.Is(err, domain.ErrProvider):
		return mcp.NewToolResultError(fmt.Sprintf("translation provider failed: %v", err))
	default:
		return mcp.NewToolResultError(err.Error())
	}
}

func jsonResult(v domain.TranslationWithTokens) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
