package options

import (
	"net/http"
)

// ProviderOptions contains options for model initialization.
type ProviderOptions struct {
	// HTTPClient is the HTTP client to use for the model.
	HTTPClient *http.Client

	// EnvLookupFunc resolves API keys not set in the configuration.
	EnvLookupFunc func(string) string
}

// ProviderOption is a function that modifies the model options.
type ProviderOption func(*ProviderOptions)
