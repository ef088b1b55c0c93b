package options

import (
	"io"
	"os"
)

var Getenv = os.Getenv

// RunOptions contains all the options that are relevant to run slashchat.
type RunOptions struct {
	*Config `json:"config,omitempty" yaml:"config,omitempty"`

	// --- One-shot input ---
	// InputStrings and Args are submitted once instead of starting an
	// interactive session.
	InputStrings []string `json:"inputStrings,omitempty" yaml:"inputStrings,omitempty"`
	Args         []string `json:"args,omitempty" yaml:"args,omitempty"`
	// AttachFile is staged before the one-shot submission.
	AttachFile string `json:"attachFile,omitempty" yaml:"attachFile,omitempty"`
	// ReadStdin prepends the whole of Stdin to the one-shot text.
	ReadStdin bool `json:"readStdin,omitempty" yaml:"readStdin,omitempty"`

	ShowSpinner bool `json:"showSpinner,omitempty" yaml:"showSpinner,omitempty"`

	ReadlineHistoryFile string `json:"readlineHistoryFile,omitempty" yaml:"readlineHistoryFile,omitempty"`

	// --- I/O handles passed in ---
	Stdout io.Writer `json:"-" yaml:"-"`
	Stderr io.Writer `json:"-" yaml:"-"`
	Stdin  io.Reader `json:"-" yaml:"-"`
}

// OneShot reports whether the options describe a single submission.
func (o *RunOptions) OneShot() bool {
	return len(o.InputStrings) > 0 || len(o.Args) > 0 || o.ReadStdin || o.AttachFile != ""
}
