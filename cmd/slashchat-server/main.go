// Command slashchat-server is a reference backend for slashchat. It serves
// the chat, command, email, file-chat and upload endpoints and generates
// replies with a configurable language model backend.
//
// Usage:
//
//	slashchat-server [flags]
//
// Flags:
//
//	-a, --addr string               Listen address (default ":8000")
//	-b, --backend string            The backend to use (default "dummy")
//	-m, --model string              The model to use (default depends on the backend)
//	    --token string              Bearer token required by the email endpoint
//	    --max-upload-bytes int      Largest accepted upload (default 20971520)
//	    --config string             Path to the configuration file
//	-v, --verbose                   Verbose output
//	    --debug                     Debug output
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/tmc/slashchat/backends"
	"github.com/tmc/slashchat/internal/logging"
	"github.com/tmc/slashchat/options"
	"github.com/tmc/slashchat/server"
)

func main() {
	fs, err := initFlags(os.Args, os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, fs, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "slashchat-server:", err)
		os.Exit(1)
	}
}

func initFlags(args []string, stderr io.Writer) (*pflag.FlagSet, error) {
	fs := pflag.NewFlagSet(args[0], pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(stderr)

	fs.StringP("addr", "a", ":8000", "Listen address")
	fs.StringP("backend", "b", options.DefaultBackend, "The backend to use ("+strings.Join(backends.Names(), ", ")+")")
	fs.StringP("model", "m", "", "The model to use (default depends on the backend)")
	fs.String("token", "", "Bearer token required by the email endpoint")
	fs.Int64("max-upload-bytes", server.DefaultMaxUploadBytes, "Largest accepted upload")
	fs.String("config", "", "Path to the configuration file")
	fs.BoolP("verbose", "v", false, "Verbose output")
	fs.Bool("debug", false, "Debug output")
	fs.Bool("slow-responses", false, "Make the dummy backend pause between words")
	fs.MarkHidden("slow-responses")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	return fs, nil
}

func run(ctx context.Context, fs *pflag.FlagSet, stderr io.Writer) error {
	cfg, err := options.LoadServerConfig(stderr, fs)
	if err != nil {
		return err
	}
	logger, err := logging.NewLogger(stderr, cfg.Verbose, cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	model, err := backends.InitializeModel(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize model: %w", err)
	}
	if cfg.Token == "" {
		logger.Warn("no token configured, the email endpoint accepts every request")
	}
	logger.Infow("starting", "backend", cfg.Backend, "model", cfg.Model, "addr", cfg.Addr)

	srv := server.New(model, server.Config{
		Token:          cfg.Token,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}, logger.Named("server"))
	return srv.ListenAndServe(ctx, cfg.Addr)
}
