// Package stub provides a completion provider that never leaves the process.
// It is used for local development and demos without model credentials.
package stub

import (
	"context"

	"github.com/heartmarshall/myenglish-reader/internal/provider"
)

const providerName = "stub"

// Provider returns a fixed reply, or the prompt itself when no reply is set.
type Provider struct {
	reply string
}

// NewProvider creates a stub provider. An empty reply echoes the prompt.
func NewProvider(reply string) *Provider { return &Provider{reply: reply} }

// Name returns the provider identifier.
func (p *Provider) Name() string { return providerName }

// Complete returns the configured reply without any I/O.
func (p *Provider) Complete(ctx context.Context, req provider.CompletionRequest) (provider.Completion, error) {
	if err := ctx.Err(); err != nil {
		return provider.Completion{}, err
	}
	content := p.reply
	if content == "" {
		content = req.Prompt
	}
	return provider.Completion{Content: content, Provider: providerName, Model: providerName}, nil
}
