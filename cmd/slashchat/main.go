// Command slashchat is a terminal chat composer with slash-selected modes.
//
// Usage:
//
//	slashchat [flags] [text...]
//
// Flags:
//
//	-u, --base-url string    Backend root URL (default "http://localhost:8000")
//	    --token string       Bearer token for the email endpoint
//	    --timeout duration   Request timeout (default 2m0s)
//	-m, --mode string        Mode active at startup (send-email, assistance, commands, file)
//	    --ui string          Interactive surface: tui or readline (default: tui on a terminal)
//	-i, --input stringArray  Submit this text once and exit (repeatable)
//	-f, --file string        Upload this PDF once (enters file mode)
//	    --log-file string    Write logs here while the TUI runs
//	    --config string      Path to the configuration file
//	-v, --verbose            Verbose output
//	    --debug              Debug output
//	-h, --help               Display help information
//
// With no input and a terminal on stdin, slashchat starts the TUI. Type "/"
// on an empty line to choose a mode. Piped stdin, -i values and positional
// arguments are joined and submitted once.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/tmc/slashchat"
	"github.com/tmc/slashchat/internal/logging"
	"github.com/tmc/slashchat/options"
)

func main() {
	opts, flagSet, err := initFlags(os.Args, os.Stdin)
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, opts, flagSet); err != nil {
		fmt.Fprintln(os.Stderr, "slashchat:", err)
		os.Exit(1)
	}
}

func initFlags(args []string, stdin io.Reader) (*options.RunOptions, *pflag.FlagSet, error) {
	opts := &options.RunOptions{
		Stdin:  stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	fs := pflag.NewFlagSet(args[0], pflag.ContinueOnError)
	fs.SortFlags = false

	fs.StringP("base-url", "u", options.DefaultBaseURL, "Backend root URL")
	fs.String("token", "", "Bearer token for the email endpoint")
	fs.Duration("timeout", 0, "Request timeout (default 2m0s)")
	fs.StringP("mode", "m", "", "Mode active at startup (send-email, assistance, commands, file)")
	fs.String("ui", "", "Interactive surface: tui or readline (default: tui on a terminal)")

	fs.StringArrayVarP(&opts.InputStrings, "input", "i", nil, "Submit this text once and exit (repeatable)")
	fs.StringVarP(&opts.AttachFile, "file", "f", "", "Upload this PDF once (enters file mode)")

	fs.String("log-file", "", "Write logs here while the TUI runs")
	fs.String("config", "", "Path to the configuration file")
	fs.BoolP("verbose", "v", false, "Verbose output")
	fs.Bool("debug", false, "Debug output")
	help := fs.BoolP("help", "h", false, "Display help information")

	// hidden flags
	fs.StringVar(&opts.ReadlineHistoryFile, "readline-history-file", "~/.slashchat_history", "File to store readline history in")
	fs.BoolVar(&opts.ShowSpinner, "show-spinner", true, "Show a spinner while waiting for a reply")
	fs.MarkHidden("readline-history-file")
	fs.MarkHidden("show-spinner")

	fs.Usage = func() {
		fmt.Fprintln(opts.Stderr, "slashchat is a chat composer with slash-selected modes")
		fmt.Fprintln(opts.Stderr)
		fmt.Fprintf(opts.Stderr, "Usage of %s:\n", args[0])
		fs.PrintDefaults()
		fmt.Fprintln(opts.Stderr, `
Examples:
	$ slashchat
	$ slashchat -m commands find files larger than 1G
	$ slashchat -f report.pdf -i "summarize the findings"
	$ echo "explain plan 9 in one sentence" | slashchat`)
	}
	fs.SetOutput(opts.Stderr)

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}
	if *help {
		fs.Usage()
		return nil, nil, pflag.ErrHelp
	}
	opts.Args = fs.Args()
	opts.ReadStdin = !isTerminal(stdin)
	return opts, fs, nil
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func run(ctx context.Context, opts *options.RunOptions, fs *pflag.FlagSet) error {
	cfg, err := options.LoadConfig(opts.Stderr, fs)
	if err != nil {
		return err
	}
	opts.Config = cfg
	if cfg.UI == "" {
		cfg.UI = options.UIReadline
		if isTerminal(opts.Stdin) && isTerminal(opts.Stdout) {
			cfg.UI = options.UITUI
		}
	}
	if !isTerminal(opts.Stderr) {
		opts.ShowSpinner = false
	}

	logger, closeLog, err := newLogger(opts)
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := slashchat.New(cfg,
		slashchat.WithStdout(opts.Stdout),
		slashchat.WithStderr(opts.Stderr),
		slashchat.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	return s.Run(ctx, *opts)
}

// newLogger logs to stderr unless the TUI owns the terminal, in which case
// logs go to the configured log file.
func newLogger(opts *options.RunOptions) (*zap.SugaredLogger, func() error, error) {
	cfg := opts.Config
	if !opts.OneShot() && cfg.UI == options.UITUI {
		return logging.NewFileLogger(cfg.LogFile, cfg.Verbose, cfg.Debug)
	}
	l, err := logging.NewLogger(opts.Stderr, cfg.Verbose, cfg.Debug)
	return l, func() error { return nil }, err
}
