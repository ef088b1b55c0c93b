// Package server is a reference backend for slashchat. It serves the chat,
// command, file and email endpoints on top of a langchaingo model.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"github.com/tmc/slashchat/client"
)

// DefaultMaxUploadBytes bounds uploaded files when no limit is configured.
const DefaultMaxUploadBytes = 20 << 20

// multipart headers and boundaries on top of the file itself
const formOverhead = 64 << 10

// System prompts per endpoint.
const (
	ChatPrompt    = "You are a helpful assistant. Answer concisely."
	CommandPrompt = "You write shell commands and short scripts. Reply with the command in a fenced code block followed by a one-line explanation."
	EmailPrompt   = "Write the email the user describes. Reply with a subject line followed by the body."
	FilePrompt    = "Answer questions about the uploaded document %q (%d bytes)."
	NoFilePrompt  = "No document has been uploaded yet. Tell the user to upload a PDF first if the question needs one."
)

// Upload is the last file received by the upload endpoint.
type Upload struct {
	Name     string
	Size     int64
	Data     []byte
	Received time.Time
}

// Config configures a Server.
type Config struct {
	// Token, when set, is required as a bearer credential on the email
	// endpoint.
	Token          string
	MaxUploadBytes int64
}

// Server is the reference backend.
type Server struct {
	model  llms.Model
	cfg    Config
	logger *zap.SugaredLogger

	mu   sync.Mutex
	last *Upload

	handler http.Handler
}

// New returns a server generating replies with model.
func New(model llms.Model, cfg Config, logger *zap.SugaredLogger) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Server{model: model, cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Post("/chat", s.handleTask(func() string { return ChatPrompt }))
	r.Post("/command", s.handleTask(func() string { return CommandPrompt }))
	r.Post("/file-chat", s.handleTask(s.filePrompt))
	r.With(s.requireToken).Post("/email/generate-email", s.handleTask(func() string { return EmailPrompt }))
	r.Post(client.UploadPath, s.handleUpload)

	s.handler = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// LastUpload returns the most recent upload, or nil.
func (s *Server) LastUpload() *Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	hs := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	s.logger.Infow("slashchat backend listening", "addr", ln.Addr().String())

	errc := make(chan error, 1)
	go func() { errc <- hs.Serve(ln) }()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Infow("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "duration", time.Since(start))
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Token == "" {
			next.ServeHTTP(w, r)
			return
		}
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(s.cfg.Token)) != 1 {
			s.logger.Warnw("rejected credential", "path", r.URL.Path, "present", ok)
			writeError(w, http.StatusUnauthorized, "invalid or missing bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) filePrompt() string {
	u := s.LastUpload()
	if u == nil {
		return NoFilePrompt
	}
	return fmt.Sprintf(FilePrompt, u.Name, u.Size)
}

func (s *Server) handleTask(system func() string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req client.TaskRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Task) == "" {
			writeError(w, http.StatusUnprocessableEntity, "task is required")
			return
		}

		resp, err := s.model.GenerateContent(r.Context(), []llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, system()),
			llms.TextParts(llms.ChatMessageTypeHuman, req.Task),
		})
		if err != nil {
			s.logger.Errorw("generation failed", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusBadGateway, "generation failed")
			return
		}
		var content string
		if len(resp.Choices) > 0 {
			content = resp.Choices[0].Content
		}
		writeJSON(w, http.StatusOK, client.NewTaskResponse(content))
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+formOverhead)
	f, hdr, err := r.FormFile(client.UploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer f.Close()

	if ct := hdr.Header.Get("Content-Type"); ct != "application/pdf" {
		writeError(w, http.StatusUnsupportedMediaType, "only application/pdf is accepted")
		return
	}
	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable file")
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	u := &Upload{Name: hdr.Filename, Size: int64(len(data)), Data: data, Received: time.Now()}
	s.mu.Lock()
	s.last = u
	s.mu.Unlock()
	s.logger.Infow("stored upload", "name", u.Name, "bytes", u.Size)

	writeJSON(w, http.StatusOK, client.UploadResponse{
		Filename: u.Name,
		Size:     u.Size,
		Message:  "File uploaded successfully",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
