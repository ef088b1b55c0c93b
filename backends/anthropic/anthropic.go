// Package anthropic provides the Anthropic backend implementation
package anthropic

import (
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"

	"github.com/tmc/slashchat/backends/registry"
	"github.com/tmc/slashchat/options"
)

func init() {
	registry.Register("anthropic", Constructor)
}

// Constructor creates a new Anthropic backend
func Constructor(cfg *options.ServerConfig, opts *options.ProviderOptions) (llms.Model, error) {
	anthropicOpts := []anthropic.Option{
		anthropic.WithToken(registry.APIKey(cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY", opts)),
	}
	if cfg.Model != "" {
		anthropicOpts = append(anthropicOpts, anthropic.WithModel(cfg.Model))
	}
	if opts != nil && opts.HTTPClient != nil {
		anthropicOpts = append(anthropicOpts, anthropic.WithHTTPClient(opts.HTTPClient))
	}
	return anthropic.New(anthropicOpts...)
}
