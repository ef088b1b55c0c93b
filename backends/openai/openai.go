// Package openai provides the OpenAI backend implementation
package openai

import (
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/tmc/slashchat/backends/registry"
	"github.com/tmc/slashchat/options"
)

func init() {
	registry.Register("openai", Constructor)
}

// Constructor creates a new OpenAI backend
func Constructor(cfg *options.ServerConfig, opts *options.ProviderOptions) (llms.Model, error) {
	openaiOpts := []openai.Option{
		openai.WithToken(registry.APIKey(cfg.OpenAIAPIKey, "OPENAI_API_KEY", opts)),
	}
	if cfg.Model != "" {
		openaiOpts = append(openaiOpts, openai.WithModel(cfg.Model))
	}
	if opts != nil && opts.HTTPClient != nil {
		openaiOpts = append(openaiOpts, openai.WithHTTPClient(opts.HTTPClient))
	}
	return openai.New(openaiOpts...)
}
