// Package registry provides a registry for model backends
package registry

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/tmc/langchaingo/llms"

	"github.com/tmc/slashchat/options"
)

// BackendConstructor is a function that creates a new model instance
type BackendConstructor func(*options.ServerConfig, *options.ProviderOptions) (llms.Model, error)

// Registry holds all the registered backend constructors
var registry = map[string]BackendConstructor{}

// Register registers a new backend constructor
func Register(name string, constructor BackendConstructor) {
	registry[name] = constructor
}

// Get returns a backend constructor by name
func Get(name string) (BackendConstructor, bool) {
	constructor, ok := registry[name]
	return constructor, ok
}

// Names returns the registered backend names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithHTTPClient returns an option to set the HTTP client for the inference provider
func WithHTTPClient(client *http.Client) options.ProviderOption {
	return func(opts *options.ProviderOptions) {
		opts.HTTPClient = client
	}
}

// WithEnvLookup returns an option to resolve API keys from a custom source.
func WithEnvLookup(fn func(string) string) options.ProviderOption {
	return func(opts *options.ProviderOptions) {
		opts.EnvLookupFunc = fn
	}
}

// InitializeModel initializes the model based on the given configuration
func InitializeModel(cfg *options.ServerConfig, providerOpts ...options.ProviderOption) (llms.Model, error) {
	opts := &options.ProviderOptions{EnvLookupFunc: options.Getenv}
	for _, option := range providerOpts {
		option(opts)
	}

	constructor, ok := registry[cfg.Backend]
	if !ok {
		return nil, fmt.Errorf("unsupported backend: %s", cfg.Backend)
	}
	return constructor(cfg, opts)
}

// APIKey returns configured when set, otherwise the value of env looked up
// through opts.
func APIKey(configured, env string, opts *options.ProviderOptions) string {
	if configured != "" {
		return configured
	}
	if opts == nil || opts.EnvLookupFunc == nil {
		return ""
	}
	return opts.EnvLookupFunc(env)
}
