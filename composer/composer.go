// Package composer implements the chat composer: the input buffer, the
// slash-command mode menu, single-file staging and the submission router.
//
// A Composer is not safe for concurrent use. Surfaces mutate it from one
// goroutine; only Submission.Run may execute elsewhere, and it touches
// nothing but the router and the ports.
package composer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tmc/slashchat/mode"
)

// Composer owns the input buffer, menu state, active mode, staged file and
// status of one input widget.
type Composer struct {
	registry *mode.Registry
	router   *Router
	ports    Ports
	logger   *zap.SugaredLogger

	buffer  string
	menu    Menu
	active  *mode.Mode
	stage   Stage
	status  string
	loading bool
}

// Option configures a Composer.
type Option func(*options)

type options struct {
	logger *zap.SugaredLogger
	routes Routes
}

// WithLogger sets the logger for the composer and its router.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) { o.logger = l }
}

// WithRouteTable replaces the default routing table.
func WithRouteTable(r Routes) Option {
	return func(o *options) { o.routes = r }
}

// New returns a composer over registry that submits through backend.
// ports.Log must not be nil.
func New(registry *mode.Registry, backend Backend, ports Ports, opts ...Option) *Composer {
	o := options{logger: zap.NewNop().Sugar(), routes: DefaultRoutes}
	for _, opt := range opts {
		opt(&o)
	}
	if registry == nil {
		registry = mode.Default()
	}
	ports = ports.withDefaults()
	return &Composer{
		registry: registry,
		router:   NewRouter(backend, ports.Log, ports.Latest, WithRoutes(o.routes), WithRouterLogger(o.logger)),
		ports:    ports,
		logger:   o.logger,
		menu:     NewMenu(registry.Len()),
	}
}

// Registry returns the mode registry.
func (c *Composer) Registry() *mode.Registry { return c.registry }

// Buffer returns the input buffer.
func (c *Composer) Buffer() string { return c.buffer }

// SetBuffer replaces the input buffer and lets the menu observe it.
func (c *Composer) SetBuffer(s string) {
	c.buffer = s
	c.menu.Observe(s, c.active != nil)
}

// Menu returns the menu state.
func (c *Composer) Menu() MenuState { return c.menu.State() }

// HandleKey feeds a keystroke to the menu. It returns true when the key was
// consumed and must not reach the text editor.
func (c *Composer) HandleKey(k Key) bool {
	consumed, commit := c.menu.Key(k)
	if commit >= 0 {
		c.commit(commit)
	}
	return consumed
}

// RequestMenu opens the menu explicitly. It does nothing while a mode is
// active.
func (c *Composer) RequestMenu() {
	if c.active != nil {
		return
	}
	c.menu.Request()
}

// SelectEntry commits menu entry i, as a pointer selection does. It reports
// whether the menu was open and i valid.
func (c *Composer) SelectEntry(i int) bool {
	if !c.menu.Select(i) {
		return false
	}
	c.commit(i)
	return true
}

// PointerOutside closes the menu without changing the mode.
func (c *Composer) PointerOutside() { c.DismissMenu() }

// DismissMenu closes the menu without changing the mode or the buffer.
func (c *Composer) DismissMenu() {
	c.menu.Close()
}

func (c *Composer) commit(i int) {
	m := c.registry.At(i)
	c.buffer = ""
	c.logger.Debugw("mode committed from menu", "mode", m.ID)
	c.SetMode(&m)
}

// SetMode sets the active mode; nil leaves the current mode. Setting a mode
// always closes the menu. A staged file is dropped when the new mode is not
// the file mode.
func (c *Composer) SetMode(m *mode.Mode) {
	if m == nil || m.ID != mode.File {
		c.stage.Clear()
	}
	if m != nil {
		cp := *m
		c.active = &cp
		c.menu.Close()
	} else {
		c.active = nil
	}
	c.ports.Mode.SetActiveMode(c.ActiveMode())
}

// SetModeID sets the active mode by id. It reports false for unknown ids.
func (c *Composer) SetModeID(id mode.ID) bool {
	m, ok := c.registry.Resolve(id)
	if !ok {
		return false
	}
	c.SetMode(&m)
	return true
}

// ClearMode leaves the active mode.
func (c *Composer) ClearMode() { c.SetMode(nil) }

// ActiveMode returns a copy of the active mode, or nil.
func (c *Composer) ActiveMode() *mode.Mode {
	if c.active == nil {
		return nil
	}
	cp := *c.active
	return &cp
}

// Placeholder returns the placeholder text for the active mode.
func (c *Composer) Placeholder() string {
	if c.active == nil {
		return mode.DefaultPlaceholder
	}
	return c.registry.Placeholder(c.active.ID)
}

// SelectFile stages f. A non-PDF file empties the stage and sets the status.
func (c *Composer) SelectFile(f StagedFile) error {
	if err := c.stage.Select(f); err != nil {
		c.status = StatusInvalidFile
		c.logger.Infow("rejected file", "name", f.Name, "type", f.MIMEType)
		return err
	}
	c.logger.Debugw("staged file", "name", f.Name, "bytes", len(f.Bytes))
	return nil
}

// ClearFile empties the stage.
func (c *Composer) ClearFile() { c.stage.Clear() }

// StagedFile returns the staged file, or nil.
func (c *Composer) StagedFile() *StagedFile { return c.stage.File() }

// Status returns the transient status string.
func (c *Composer) Status() string { return c.status }

// Loading reports whether a submission is outstanding.
func (c *Composer) Loading() bool { return c.loading }

// Submission is an accepted submission waiting to be run.
type Submission struct {
	router *Router
	req    Request
	route  Route
	upload bool
}

// Outcome is the result of running a Submission.
type Outcome struct {
	Reply  Reply
	Err    error
	Route  Route
	Upload bool
}

// Begin validates the current input and starts a submission: it clears the
// status, raises the loading flag and, for routes that clear on request,
// empties the buffer. The returned Submission must be run and its Outcome
// passed to Finish.
func (c *Composer) Begin() (*Submission, error) {
	if c.loading {
		return nil, ErrBusy
	}
	c.status = ""

	var credential string
	if tok, ok := c.ports.Credential.Credential(); ok {
		credential = tok
	}
	req := Request{
		Mode:       c.ActiveMode(),
		Text:       c.buffer,
		File:       c.stage.File(),
		Credential: credential,
	}
	rt, err := c.router.RouteFor(req.Mode)
	if err != nil {
		c.status = StatusSubmitFailed
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	upload := rt.Upload && req.File != nil
	if !upload && strings.TrimSpace(req.Text) == "" {
		c.status = StatusEmptyInput
		return nil, ErrEmptyInput
	}

	c.loading = true
	c.ports.Loading.SetLoading(true)
	if !upload && rt.Clear == ClearOnRequest {
		c.buffer = ""
	}
	return &Submission{router: c.router, req: req, route: rt, upload: upload}, nil
}

// Run performs the network call. It may run on any goroutine.
func (s *Submission) Run(ctx context.Context) Outcome {
	reply, err := s.router.Submit(ctx, s.req)
	return Outcome{Reply: reply, Err: err, Route: s.route, Upload: s.upload}
}

// Finish applies an outcome: it lowers the loading flag, sets the status,
// clears the stage after uploads and clears the buffer for routes that clear
// on success.
func (c *Composer) Finish(o Outcome) {
	c.loading = false
	c.ports.Loading.SetLoading(false)

	if o.Upload {
		c.stage.Clear()
	}
	switch {
	case o.Err != nil:
		c.status = StatusFor(o.Err)
	case o.Upload:
		c.status = StatusUploadSucceeded
	case o.Route.Clear == ClearOnSuccess:
		c.buffer = ""
	}
}

// Submit runs Begin, Run and Finish in sequence.
func (c *Composer) Submit(ctx context.Context) error {
	s, err := c.Begin()
	if err != nil {
		return err
	}
	o := s.Run(ctx)
	c.Finish(o)
	return o.Err
}

// IsReported reports whether err is one of the composer's user-facing
// failures, which surfaces show as a status rather than a fault.
func IsReported(err error) bool {
	for _, target := range []error{ErrEmptyInput, ErrSubmissionFailed, ErrUploadFailed, ErrInvalidFileType, ErrBusy} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
