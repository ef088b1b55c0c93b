// Package slashchat wires the composer to a backend and runs it on one of
// three surfaces: a one-shot submission, the full-screen TUI, or a readline
// line loop.
package slashchat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/tmc/slashchat/client"
	"github.com/tmc/slashchat/composer"
	"github.com/tmc/slashchat/input"
	"github.com/tmc/slashchat/interactive"
	"github.com/tmc/slashchat/message"
	"github.com/tmc/slashchat/mode"
	"github.com/tmc/slashchat/options"
)

// Service owns one composer and the collaborators it reports to.
type Service struct {
	cfg *options.Config

	logger *zap.SugaredLogger
	stdout io.Writer
	stderr io.Writer

	httpClient *http.Client
	registry   *mode.Registry

	client   *client.Client
	messages *message.Log
	latest   *message.Latest
	composer *composer.Composer
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) ServiceOption {
	return func(s *Service) { s.stdout = w }
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) ServiceOption {
	return func(s *Service) { s.stderr = w }
}

// WithLogger sets the logger for the service and everything it creates.
func WithLogger(l *zap.SugaredLogger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithHTTPClient sets the HTTP client used to reach the backend. The
// configured timeout is applied to it.
func WithHTTPClient(hc *http.Client) ServiceOption {
	return func(s *Service) { s.httpClient = hc }
}

// WithRegistry replaces the built-in mode registry.
func WithRegistry(r *mode.Registry) ServiceOption {
	return func(s *Service) { s.registry = r }
}

// New creates a Service for cfg. An unknown initial mode is an error.
func New(cfg *options.Config, opts ...ServiceOption) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Service{
		cfg:      cfg,
		logger:   zap.NewNop().Sugar(),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		registry: mode.Default(),
		messages: &message.Log{},
		latest:   &message.Latest{},
	}
	for _, opt := range opts {
		opt(s)
	}

	clientOpts := []client.Option{client.WithLogger(s.logger.Named("client"))}
	if s.httpClient != nil {
		clientOpts = append(clientOpts, client.WithHTTPClient(s.httpClient))
	}
	if cfg.Timeout > 0 {
		clientOpts = append(clientOpts, client.WithTimeout(cfg.Timeout))
	}
	s.client = client.New(cfg.BaseURL, clientOpts...)

	s.composer = composer.New(s.registry, s.client, composer.Ports{
		Log:        s.messages,
		Latest:     s.latest,
		Credential: composer.StaticCredential(cfg.Token),
		Mode: composer.ModeFunc(func(m *mode.Mode) {
			if m == nil {
				s.logger.Debug("left mode")
				return
			}
			s.logger.Debugw("entered mode", "mode", m.ID)
		}),
	}, composer.WithLogger(s.logger.Named("composer")))

	if cfg.Mode != "" && !s.composer.SetModeID(mode.ID(cfg.Mode)) {
		return nil, fmt.Errorf("unknown mode %q (known: %s)", cfg.Mode, knownModes(s.registry))
	}
	return s, nil
}

func knownModes(r *mode.Registry) string {
	ids := make([]string, 0, r.Len())
	for _, m := range r.Modes() {
		ids = append(ids, string(m.ID))
	}
	return strings.Join(ids, ", ")
}

// Composer returns the service's composer.
func (s *Service) Composer() *composer.Composer { return s.composer }

// Messages returns the conversation log.
func (s *Service) Messages() *message.Log { return s.messages }

// LatestBotMessage returns the most recent published bot reply.
func (s *Service) LatestBotMessage() string { return s.latest.Get() }

// Run runs the surface selected by runOpts and the configuration.
func (s *Service) Run(ctx context.Context, runOpts options.RunOptions) error {
	if runOpts.Stdout == nil {
		runOpts.Stdout = s.stdout
	}
	if runOpts.Stderr == nil {
		runOpts.Stderr = s.stderr
	}
	if runOpts.Stdin == nil {
		runOpts.Stdin = os.Stdin
	}
	if runOpts.OneShot() {
		return s.runOneShot(ctx, runOpts)
	}
	return s.runInteractive(ctx, runOpts)
}

func (s *Service) runInteractive(ctx context.Context, runOpts options.RunOptions) error {
	cfg := interactive.Config{
		Composer:    s.composer,
		Messages:    s.messages,
		HistoryFile: runOpts.ReadlineHistoryFile,
		ShowSpinner: runOpts.ShowSpinner,
		Stdin:       runOpts.Stdin,
		Stdout:      runOpts.Stdout,
		Stderr:      runOpts.Stderr,
		Logger:      s.logger.Named("interactive"),
	}

	var (
		session interactive.Session
		err     error
	)
	switch s.cfg.UI {
	case options.UIReadline:
		session, err = interactive.NewReadlineSession(cfg)
	default:
		cfg.MarkdownStyle = markdownStyle()
		session, err = interactive.NewBubbleSession(cfg)
	}
	if err != nil {
		return err
	}
	s.logger.Infow("starting interactive session", "ui", s.cfg.UI)
	err = session.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// markdownStyle picks the glamour style before the TUI takes the terminal.
func markdownStyle() string {
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

// runOneShot performs one submission and prints the bot reply. With a file
// to attach it uploads the file first and then, if there is text, asks
// about it.
func (s *Service) runOneShot(ctx context.Context, runOpts options.RunOptions) error {
	text, err := input.NewProcessor(runOpts.InputStrings, runOpts.Args, runOpts.Stdin, runOpts.ReadStdin).Text(ctx)
	if err != nil {
		return err
	}

	s.messages.SetOnChange(func(m message.Msg) {
		if m.Role == message.RoleBot {
			fmt.Fprintln(runOpts.Stdout, m.Content)
		}
	})
	defer s.messages.SetOnChange(nil)

	c := s.composer
	if runOpts.AttachFile != "" {
		if err := s.attach(runOpts.AttachFile); err != nil {
			return err
		}
		if err := s.submit(ctx, runOpts); err != nil {
			return err
		}
		fmt.Fprintln(runOpts.Stderr, c.Status())
		if strings.TrimSpace(text) == "" {
			return nil
		}
	}

	c.SetBuffer(text)
	return s.submit(ctx, runOpts)
}

// attach stages path, entering file mode when no mode is active.
func (s *Service) attach(path string) error {
	c := s.composer
	switch a := c.ActiveMode(); {
	case a == nil:
		c.SetModeID(mode.File)
	case a.ID != mode.File:
		return fmt.Errorf("cannot attach %s in %s mode", path, a.ID)
	}
	f, err := composer.FileFromPath(path)
	if err != nil {
		return err
	}
	if err := c.SelectFile(f); err != nil {
		return fmt.Errorf("%s: %w", c.Status(), err)
	}
	return nil
}

func (s *Service) submit(ctx context.Context, runOpts options.RunOptions) error {
	stop := func() {}
	if runOpts.ShowSpinner {
		stop = interactive.Spin(0, runOpts.Stderr)
	}
	err := s.composer.Submit(ctx)
	stop()
	if err == nil {
		return nil
	}
	if st := s.composer.Status(); st != "" {
		return fmt.Errorf("%s: %w", strings.TrimSuffix(st, "."), err)
	}
	return err
}
