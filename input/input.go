// Package input assembles the text of a one-shot submission from its
// sources.
package input

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// SourceType identifies the origin of an input part.
type SourceType string

const (
	SourceStdin  SourceType = "stdin"
	SourceString SourceType = "string"
	SourceArg    SourceType = "arg"
)

// Part is one contribution to the submission text.
type Part struct {
	Source SourceType
	Text   string
}

// Processor combines input sources in a fixed order: piped stdin, then each
// -i value, then the positional arguments joined by spaces.
type Processor struct {
	strings   []string
	args      []string
	stdin     io.Reader
	readStdin bool
}

// NewProcessor creates a new input processor. Stdin is only read when
// readStdin is set, which callers do when it is not a terminal.
func NewProcessor(strings []string, args []string, stdin io.Reader, readStdin bool) *Processor {
	return &Processor{
		strings:   strings,
		args:      args,
		stdin:     stdin,
		readStdin: readStdin && stdin != nil,
	}
}

// HasInput reports whether any source may contribute text.
func (p *Processor) HasInput() bool {
	return p.readStdin || len(p.strings) > 0 || len(p.args) > 0
}

// Parts reads the sources and returns the non-blank parts in order.
func (p *Processor) Parts(ctx context.Context) ([]Part, error) {
	var parts []Part
	add := func(src SourceType, s string) {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, Part{Source: src, Text: s})
		}
	}
	if p.readStdin {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := io.ReadAll(p.stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		add(SourceStdin, strings.TrimRight(string(data), "\n"))
	}
	for _, s := range p.strings {
		add(SourceString, s)
	}
	if len(p.args) > 0 {
		add(SourceArg, strings.Join(p.args, " "))
	}
	return parts, nil
}

// Text returns the parts separated by blank lines. It is empty when every
// source is blank.
func (p *Processor) Text(ctx context.Context) (string, error) {
	parts, err := p.Parts(ctx)
	if err != nil {
		return "", err
	}
	texts := make([]string, len(parts))
	for i, part := range parts {
		texts[i] = part.Text
	}
	return strings.Join(texts, "\n\n"), nil
}
