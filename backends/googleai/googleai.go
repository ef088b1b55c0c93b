// Package googleai provides the Google AI backend implementation
package googleai

import (
	"context"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/tmc/slashchat/backends/registry"
	"github.com/tmc/slashchat/options"
)

func init() {
	registry.Register("googleai", Constructor)
}

// Constructor creates a new GoogleAI backend
func Constructor(cfg *options.ServerConfig, opts *options.ProviderOptions) (llms.Model, error) {
	googleOpts := []googleai.Option{
		googleai.WithAPIKey(registry.APIKey(cfg.GoogleAPIKey, "GOOGLE_API_KEY", opts)),
		googleai.WithDefaultModel(cfg.Model),
	}
	if opts != nil && opts.HTTPClient != nil {
		googleOpts = append(googleOpts, googleai.WithHTTPClient(opts.HTTPClient))
	}
	return googleai.New(context.Background(), googleOpts...)
}
