package composer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tmc/slashchat/client"
	"github.com/tmc/slashchat/message"
	"github.com/tmc/slashchat/mode"
)

// ClearPolicy says when the input buffer is cleared after a submission.
type ClearPolicy int

const (
	// ClearOnRequest clears the buffer as soon as the request is issued.
	ClearOnRequest ClearPolicy = iota
	// ClearOnSuccess clears the buffer only after a successful reply.
	ClearOnSuccess
	// ClearNever leaves the buffer alone.
	ClearNever
)

// Route describes how a mode is submitted.
type Route struct {
	Path    string      // endpoint for text submissions
	Auth    bool        // send the bearer credential
	Upload  bool        // a staged file is uploaded instead of posting text
	Clear   ClearPolicy // buffer policy for text submissions
	Publish bool        // publish the reply to the latest-bot-message sink
}

// Routes maps mode ids to routes.
type Routes map[mode.ID]Route

// DefaultMode is the mode used when none is active.
const DefaultMode = mode.Assistance

// DefaultRoutes is the routing table of the built-in modes.
var DefaultRoutes = Routes{
	mode.SendEmail:  {Path: "/email/generate-email", Auth: true, Clear: ClearOnSuccess},
	mode.Assistance: {Path: "/chat", Clear: ClearOnRequest, Publish: true},
	mode.Commands:   {Path: "/command", Clear: ClearOnRequest, Publish: true},
	mode.File:       {Path: "/file-chat", Upload: true, Clear: ClearOnRequest, Publish: true},
}

// Backend is what the router needs from the HTTP client.
type Backend interface {
	Uploader
	PostTask(ctx context.Context, path, task, token string) (*client.TaskResponse, error)
}

var _ Backend = (*client.Client)(nil)

// Request is one submission.
type Request struct {
	Mode       *mode.Mode // nil selects DefaultMode
	Text       string
	File       *StagedFile
	Credential string
}

// Reply is the normalized result of a submission.
type Reply struct {
	Route    Route
	Uploaded bool   // the staged file was uploaded
	Text     string // bot text for text submissions
}

// Router maps the active mode to an endpoint, performs the call and appends
// the resulting messages to the log.
type Router struct {
	routes  Routes
	backend Backend
	log     MessageLog
	latest  BotSink
	logger  *zap.SugaredLogger
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithRoutes replaces the routing table.
func WithRoutes(routes Routes) RouterOption {
	return func(r *Router) { r.routes = routes }
}

// WithRouterLogger sets the router's logger.
func WithRouterLogger(l *zap.SugaredLogger) RouterOption {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRouter returns a router that submits through backend and appends to
// log. latest may be nil.
func NewRouter(backend Backend, log MessageLog, latest BotSink, opts ...RouterOption) *Router {
	if latest == nil {
		latest = BotSinkFunc(func(string) {})
	}
	r := &Router{
		routes:  DefaultRoutes,
		backend: backend,
		log:     log,
		latest:  latest,
		logger:  zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// RouteFor returns the route for m; nil selects DefaultMode.
func (r *Router) RouteFor(m *mode.Mode) (Route, error) {
	id := DefaultMode
	if m != nil {
		id = m.ID
	}
	rt, ok := r.routes[id]
	if !ok {
		return Route{}, fmt.Errorf("%w %q", ErrNoRoute, id)
	}
	return rt, nil
}

// Submit performs req. A staged file is only considered by upload routes;
// other routes require non-blank text.
func (r *Router) Submit(ctx context.Context, req Request) (Reply, error) {
	blank := strings.TrimSpace(req.Text) == ""
	if blank && req.File == nil {
		return Reply{}, ErrEmptyInput
	}
	rt, err := r.RouteFor(req.Mode)
	if err != nil {
		return Reply{}, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	if rt.Upload && req.File != nil {
		return r.upload(ctx, rt, req.File)
	}
	if blank {
		return Reply{Route: rt}, ErrEmptyInput
	}
	return r.post(ctx, rt, req)
}

func (r *Router) upload(ctx context.Context, rt Route, f *StagedFile) (Reply, error) {
	r.logger.Infow("uploading staged file", "name", f.Name, "bytes", len(f.Bytes))
	if err := Upload(ctx, r.backend, f); err != nil {
		r.logger.Warnw("upload failed", "name", f.Name, "error", err)
		return Reply{Route: rt}, err
	}
	return Reply{Route: rt, Uploaded: true}, nil
}

func (r *Router) post(ctx context.Context, rt Route, req Request) (Reply, error) {
	user := message.User(req.Text)
	settler, pending := r.log.(Settler)
	user.Pending = pending
	r.log.Append(user)

	var token string
	if rt.Auth {
		token = req.Credential
		if token == "" {
			r.logger.Warnw("no credential configured, sending unauthenticated request", "path", rt.Path)
		}
	}
	r.logger.Infow("submitting", "path", rt.Path, "auth", rt.Auth)
	resp, err := r.backend.PostTask(ctx, rt.Path, req.Text, token)
	if pending {
		settler.Settle(user.ID)
	}
	if err != nil {
		r.logger.Warnw("submission failed", "path", rt.Path, "error", err)
		return Reply{Route: rt}, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	text, ok := resp.Content()
	if !ok {
		text = NoResponse
	}
	r.log.Append(message.Bot(text))
	if rt.Publish {
		r.latest.SetLatestBotMessage(text)
	}
	return Reply{Route: rt, Text: text}, nil
}
