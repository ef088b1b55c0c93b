// Package interactive provides the terminal surfaces that drive a
// composer: a full-screen Bubble Tea session and a line-oriented readline
// session.
package interactive

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/tmc/slashchat/composer"
	"github.com/tmc/slashchat/message"
)

// ErrNoComposer is returned when a session is configured without a composer.
var ErrNoComposer = errors.New("interactive: no composer configured")

// Config defines parameters for creating an interactive session.
type Config struct {
	Composer *composer.Composer
	// Messages is the log the composer appends to; sessions display it.
	Messages *message.Log

	Prompt      string
	HistoryFile string   // readline history path; "~" is expanded
	History     []string // pre-loaded input history for the TUI

	// FileDir is where the PDF picker starts. Empty means the working
	// directory.
	FileDir string
	// MarkdownStyle is the glamour style for bot replies.
	MarkdownStyle string
	// ShowSpinner shows a wait indicator in line mode.
	ShowSpinner bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Logger *zap.SugaredLogger
}

// DefaultPrompt is the readline prompt when no mode is active.
const DefaultPrompt = "> "

// Session is an interactive surface.
type Session interface {
	Run(ctx context.Context) error
}

func (c *Config) validate() error {
	if c.Composer == nil || c.Messages == nil {
		return ErrNoComposer
	}
	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}
	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop().Sugar()
	}
	return nil
}

func expandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}
