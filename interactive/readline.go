package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/tmc/slashchat/composer"
	"github.com/tmc/slashchat/message"
	"github.com/tmc/slashchat/mode"
)

// Line-mode commands.
const (
	cmdFile  = ":file"
	cmdClear = ":clear"
	cmdExit  = ":exit"
	cmdQuit  = ":quit"
)

// errQuit ends the readline loop without error.
var errQuit = errors.New("quit")

// ReadlineSession implements a line-oriented session using chzyer/readline.
//
// A line consisting of "/" prints the mode menu; the following line picks
// an entry by number or id, and an empty line dismisses it.
type ReadlineSession struct {
	config Config
	log    *zap.SugaredLogger

	mu     sync.Mutex // guards reader
	reader *readline.Instance

	out io.Writer
}

var _ Session = (*ReadlineSession)(nil)

// NewReadlineSession creates a readline based session.
func NewReadlineSession(cfg Config) (*ReadlineSession, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log := cfg.Logger.Named("readline")

	historyPath, err := expandTilde(cfg.HistoryFile)
	if err != nil {
		log.Warnf("could not expand history file path %q: %v", cfg.HistoryFile, err)
		historyPath = cfg.HistoryFile
	}
	cfg.HistoryFile = historyPath

	stdinFile, stdinIsFile := cfg.Stdin.(*os.File)
	isTerminal := func() bool {
		return stdinIsFile && term.IsTerminal(int(stdinFile.Fd()))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cfg.Prompt,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistoryFile:       cfg.HistoryFile,
		HistoryLimit:      10000,
		HistorySearchFold: true,
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("/"),
			readline.PcItem(cmdFile),
			readline.PcItem(cmdClear),
			readline.PcItem(cmdExit),
			readline.PcItem(cmdQuit),
		),
		Stdin:          io.NopCloser(cfg.Stdin),
		Stdout:         cfg.Stdout,
		Stderr:         cfg.Stderr,
		FuncIsTerminal: isTerminal,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize readline: %w", err)
	}
	return &ReadlineSession{config: cfg, log: log, reader: rl, out: rl.Stdout()}, nil
}

// prompt reflects the active mode, e.g. "[📧 Send Email] > ".
func (s *ReadlineSession) prompt() string {
	if s.config.Composer.Menu().Open {
		return "mode? "
	}
	if a := s.config.Composer.ActiveMode(); a != nil {
		return fmt.Sprintf("[%s %s] %s", a.Icon, a.Label, s.config.Prompt)
	}
	return s.config.Prompt
}

// Run reads lines until EOF, :quit, or ctx is done.
func (s *ReadlineSession) Run(ctx context.Context) error {
	defer s.close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.close()
		case <-done:
		}
	}()

	defer s.printReplies()()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.mu.Lock()
		rl := s.reader
		s.mu.Unlock()
		if rl == nil {
			return ctx.Err()
		}
		rl.SetPrompt(s.prompt())

		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if line == "" {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		if err := s.handleLine(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
	}
}

// printReplies prints bot messages as they are logged until the returned
// function is called.
func (s *ReadlineSession) printReplies() (stop func()) {
	s.config.Messages.SetOnChange(func(m message.Msg) {
		if m.Role == message.RoleBot {
			fmt.Fprintln(s.out, m.Content)
		}
	})
	return func() { s.config.Messages.SetOnChange(nil) }
}

func (s *ReadlineSession) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reader != nil {
		s.reader.Close()
		s.reader = nil
	}
}

// handleLine applies one input line to the composer.
func (s *ReadlineSession) handleLine(ctx context.Context, line string) error {
	c := s.config.Composer
	if c.Menu().Open {
		s.pick(strings.TrimSpace(line))
		return nil
	}

	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == cmdQuit:
		return errQuit
	case trimmed == cmdExit:
		c.ClearMode()
		return nil
	case trimmed == cmdClear:
		c.ClearFile()
		fmt.Fprintln(s.out, "file discarded")
		return nil
	case trimmed == cmdFile || strings.HasPrefix(trimmed, cmdFile+" "):
		s.stage(strings.TrimSpace(strings.TrimPrefix(trimmed, cmdFile)))
		return nil
	case trimmed == composer.Trigger && c.ActiveMode() == nil:
		c.SetBuffer(composer.Trigger)
		c.SetBuffer("")
		if c.Menu().Open {
			s.printMenu()
		}
		return nil
	}

	c.SetBuffer(line)
	return s.submit(ctx)
}

// pick resolves a menu answer by 1-based number or mode id.
func (s *ReadlineSession) pick(answer string) {
	c := s.config.Composer
	if answer == "" {
		c.DismissMenu()
		return
	}
	reg := c.Registry()
	if n, err := strconv.Atoi(answer); err == nil {
		if c.SelectEntry(n - 1) {
			return
		}
	}
	for i, m := range reg.Modes() {
		if strings.EqualFold(string(m.ID), answer) {
			c.SelectEntry(i)
			return
		}
	}
	fmt.Fprintf(s.out, "unknown mode %q\n", answer)
	c.DismissMenu()
}

func (s *ReadlineSession) printMenu() {
	for i, m := range s.config.Composer.Registry().Modes() {
		fmt.Fprintf(s.out, "%2d. %s %-12s %s (%s)\n", i+1, m.Icon, m.Label, m.Description, m.ID)
	}
}

func (s *ReadlineSession) stage(path string) {
	c := s.config.Composer
	if a := c.ActiveMode(); a == nil || a.ID != mode.File {
		fmt.Fprintln(s.out, "files can only be attached in file mode")
		return
	}
	if path == "" {
		fmt.Fprintf(s.out, "usage: %s <path>\n", cmdFile)
		return
	}
	path, _ = expandTilde(path)
	f, err := composer.FileFromPath(path)
	if err != nil {
		s.log.Warnw("could not read file", "path", path, "error", err)
		fmt.Fprintln(s.out, composer.StatusInvalidFile)
		return
	}
	if err := c.SelectFile(f); err != nil {
		fmt.Fprintln(s.out, c.Status())
		return
	}
	fmt.Fprintf(s.out, "staged %s (%d bytes); press enter to upload\n", f.Name, len(f.Bytes))
}

func (s *ReadlineSession) submit(ctx context.Context) error {
	c := s.config.Composer
	stop := func() {}
	if s.config.ShowSpinner {
		stop = Spin(0, s.config.Stderr)
	}
	err := c.Submit(ctx)
	stop()

	if st := c.Status(); st != "" {
		fmt.Fprintln(s.out, st)
	}
	if err != nil && !composer.IsReported(err) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	if err != nil {
		s.log.Debugw("submission not accepted", "error", err)
	}
	return nil
}
