// Package dummy provides a deterministic backend for tests and local runs.
package dummy

import (
	"github.com/tmc/langchaingo/llms"

	"github.com/tmc/slashchat/backends/registry"
	"github.com/tmc/slashchat/options"
)

func init() {
	registry.Register("dummy", Constructor)
}

// Constructor creates a new dummy backend
func Constructor(cfg *options.ServerConfig, opts *options.ProviderOptions) (llms.Model, error) {
	backend := NewDummyBackend()
	if cfg != nil && cfg.SlowResponses {
		backend.SlowResponses = true
	}
	return backend, nil
}
