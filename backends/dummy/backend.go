package dummy

import (
	"context"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// DummyBackend is a mock LLM implementation that echoes the last human
// message.
type DummyBackend struct {
	GenerateText  func(prompt string) string
	SlowResponses bool // When true, adds significant delay between words
}

// NewDummyBackend creates a new DummyBackend with default settings
func NewDummyBackend() *DummyBackend {
	return &DummyBackend{GenerateText: Echo}
}

// Echo is the default reply generator.
func Echo(prompt string) string {
	if strings.TrimSpace(prompt) == "" {
		return "This is a dummy backend response."
	}
	return "dummy: " + prompt
}

// Call implements the llms.Model interface
func (d *DummyBackend) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, d, prompt, options...)
}

// GenerateContent implements the llms.Model interface
func (d *DummyBackend) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	text := d.GenerateText(lastHumanText(messages))
	response := &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: text, StopReason: "stop"}},
	}

	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}
	if opts.StreamingFunc == nil {
		return response, nil
	}

	words := strings.Fields(text)
	delay := 5 * time.Millisecond
	if d.SlowResponses {
		delay = 300 * time.Millisecond
	}
	for i, word := range words {
		if i < len(words)-1 {
			word += " "
		}
		if err := opts.StreamingFunc(ctx, []byte(word)); err != nil {
			return response, err
		}
		select {
		case <-ctx.Done():
			return response, ctx.Err()
		case <-time.After(delay):
		}
	}
	return response, nil
}

func lastHumanText(messages []llms.MessageContent) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != llms.ChatMessageTypeHuman {
			continue
		}
		var parts []string
		for _, p := range messages[i].Parts {
			if tc, ok := p.(llms.TextContent); ok {
				parts = append(parts, tc.Text)
			}
		}
		return strings.Join(parts, "")
	}
	return ""
}
