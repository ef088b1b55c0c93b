// Package backends provides a unified interface to the generation backends
// of the reference server.
package backends

import (
	"net/http"

	"github.com/tmc/langchaingo/llms"

	"github.com/tmc/slashchat/backends/registry"
	"github.com/tmc/slashchat/options"

	// Register all backends
	_ "github.com/tmc/slashchat/backends/anthropic"
	_ "github.com/tmc/slashchat/backends/dummy"
	_ "github.com/tmc/slashchat/backends/googleai"
	_ "github.com/tmc/slashchat/backends/ollama"
	_ "github.com/tmc/slashchat/backends/openai"
)

// InitializeModel initializes the model based on the given configuration
func InitializeModel(cfg *options.ServerConfig, providerOpts ...options.ProviderOption) (llms.Model, error) {
	return registry.InitializeModel(cfg, providerOpts...)
}

// WithHTTPClient returns an option to set the HTTP client for the inference provider
func WithHTTPClient(client *http.Client) options.ProviderOption {
	return registry.WithHTTPClient(client)
}

// Names returns the registered backend names.
func Names() []string { return registry.Names() }
