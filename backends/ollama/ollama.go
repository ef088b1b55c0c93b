// Package ollama provides the Ollama backend implementation
package ollama

import (
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/tmc/slashchat/backends/registry"
	"github.com/tmc/slashchat/options"
)

func init() {
	registry.Register("ollama", Constructor)
}

// Constructor creates a new Ollama backend
func Constructor(cfg *options.ServerConfig, opts *options.ProviderOptions) (llms.Model, error) {
	ollamaOpts := []ollama.Option{
		ollama.WithModel(cfg.Model),
	}
	if opts != nil && opts.HTTPClient != nil {
		ollamaOpts = append(ollamaOpts, ollama.WithHTTPClient(opts.HTTPClient))
	}
	return ollama.New(ollamaOpts...)
}
