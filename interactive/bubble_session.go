package interactive

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/tmc/slashchat/composer"
	"github.com/tmc/slashchat/message"
	"github.com/tmc/slashchat/mode"
	"github.com/tmc/slashchat/ui/editor"
	"github.com/tmc/slashchat/ui/help"
	"github.com/tmc/slashchat/ui/keymap"
	"github.com/tmc/slashchat/ui/menu"
	uimessage "github.com/tmc/slashchat/ui/message"
	"github.com/tmc/slashchat/ui/statusbar"
)

var _ Session = (*BubbleSession)(nil)

// logChangedMsg is sent when the message log changes.
type logChangedMsg struct{}

// submissionDoneMsg carries the outcome of a submission run off the update
// loop.
type submissionDoneMsg struct {
	outcome composer.Outcome
}

var pickerTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))

// BubbleSession implements Session using Bubble Tea.
type BubbleSession struct {
	config  Config
	program *tea.Program
}

// NewBubbleSession creates a new Bubble Tea based session.
func NewBubbleSession(cfg Config) (*BubbleSession, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &BubbleSession{config: cfg}, nil
}

// Run starts the Bubble Tea application loop. It returns when the user
// quits or ctx is done; an in-flight submission is cancelled.
func (s *BubbleSession) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newBubbleModel(ctx, s.config)
	defer m.zones.Close()
	s.program = tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithInput(s.config.Stdin),
		tea.WithOutput(s.config.Stdout),
	)

	p := s.program
	s.config.Messages.SetOnChange(func(message.Msg) { p.Send(logChangedMsg{}) })
	defer s.config.Messages.SetOnChange(nil)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// bubbleModel is the Bubble Tea model driving a composer.
type bubbleModel struct {
	ctx      context.Context
	config   Config
	composer *composer.Composer
	keyMap   keymap.KeyMap

	editor   editor.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	picker   filepicker.Model
	picking  bool
	renderer *uimessage.Renderer

	// zones tracks where the menu rows and the composer surface were last
	// drawn.
	zones     *zone.Manager
	menuZones *menu.Zones
	surfaceID string

	width, height int
	ready         bool
	quitting      bool
}

func newBubbleModel(ctx context.Context, cfg Config) *bubbleModel {
	km := keymap.DefaultKeyMap()

	ed := editor.New(km)
	ed.SetHistory(cfg.History)
	ed.SetPlaceholder(cfg.Composer.Placeholder())
	ed.SetValue(cfg.Composer.Buffer())
	ed.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf"}
	fp.CurrentDirectory = cfg.FileDir
	if fp.CurrentDirectory == "" {
		fp.CurrentDirectory = "."
	}

	zm := zone.New()
	return &bubbleModel{
		ctx:      ctx,
		config:   cfg,
		composer: cfg.Composer,
		keyMap:   km,
		editor:   ed,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		help:     help.New(km),
		picker:   fp,
		renderer: uimessage.NewRenderer(cfg.MarkdownStyle),
		width:    80,
		height:   24,

		zones:     zm,
		menuZones: menu.NewZones(zm),
		surfaceID: zm.NewPrefix() + "composer",
	}
}

func (m *bubbleModel) Init() tea.Cmd {
	return nil
}

func (m *bubbleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height, m.ready = msg.Width, msg.Height, true
		m.editor.SetWidth(msg.Width)
		m.help.SetWidth(msg.Width)
		m.layout()
		m.refreshConversation()
		return m, nil

	case logChangedMsg:
		m.refreshConversation()
		return m, nil

	case submissionDoneMsg:
		m.composer.Finish(msg.outcome)
		if err := msg.outcome.Err; err != nil && !composer.IsReported(err) {
			m.config.Logger.Errorw("submission failed", "error", err)
		}
		m.syncEditor()
		return m, nil

	case spinner.TickMsg:
		if !m.composer.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keyMap.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.picking {
			return m, m.updatePicker(msg)
		}
		if key.Matches(msg, m.keyMap.ToggleHelp) {
			m.help, _ = m.help.Update(msg)
			m.layout()
			return m, nil
		}
		return m, m.handleKey(msg)
	}

	if m.picking {
		return m, m.updatePicker(msg)
	}
	return m, nil
}

// composerKey maps a key press to the menu's vocabulary.
func composerKey(msg tea.KeyMsg) composer.Key {
	if msg.Alt {
		return composer.KeyOther
	}
	switch msg.Type {
	case tea.KeyUp:
		return composer.KeyUp
	case tea.KeyDown:
		return composer.KeyDown
	case tea.KeyEnter:
		return composer.KeyEnter
	case tea.KeyBackspace:
		return composer.KeyBackspace
	}
	return composer.KeyOther
}

func (m *bubbleModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	c := m.composer
	if c.Menu().Open {
		if c.HandleKey(composerKey(msg)) {
			m.syncEditor()
			return nil
		}
		if key.Matches(msg, m.keyMap.ExitMode) {
			c.DismissMenu()
			m.layout()
			return nil
		}
		return m.updateEditor(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()
	case key.Matches(msg, m.keyMap.OpenMenu):
		c.RequestMenu()
		m.layout()
		return nil
	case key.Matches(msg, m.keyMap.ExitMode):
		c.ClearMode()
		m.syncEditor()
		return nil
	case key.Matches(msg, m.keyMap.PickFile):
		if a := c.ActiveMode(); a != nil && a.ID == mode.File {
			m.picking = true
			return m.picker.Init()
		}
		return m.updateEditor(msg)
	case key.Matches(msg, m.keyMap.ClearFile):
		c.ClearFile()
		return nil
	case key.Matches(msg, m.keyMap.PageUp), key.Matches(msg, m.keyMap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return m.updateEditor(msg)
}

func (m *bubbleModel) updateEditor(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.composer.SetBuffer(m.editor.Value())
	m.layout()
	return cmd
}

// submit starts a submission and runs it in a command.
func (m *bubbleModel) submit() tea.Cmd {
	text := m.composer.Buffer()
	s, err := m.composer.Begin()
	if err != nil {
		m.config.Logger.Debugw("submission not started", "error", err)
		return nil
	}
	m.editor.AddHistory(strings.TrimSpace(text))
	m.syncEditor()
	ctx := m.ctx
	run := func() tea.Msg {
		return submissionDoneMsg{outcome: s.Run(ctx)}
	}
	return tea.Batch(m.spinner.Tick, run)
}

func (m *bubbleModel) updatePicker(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, m.keyMap.ExitMode) {
		m.picking = false
		return nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	path := ""
	if ok, p := m.picker.DidSelectFile(msg); ok {
		path = p
	} else if ok, p := m.picker.DidSelectDisabledFile(msg); ok {
		path = p
	}
	if path == "" {
		return cmd
	}
	m.picking = false
	m.stageFile(path)
	return cmd
}

func (m *bubbleModel) stageFile(path string) {
	f, err := composer.FileFromPath(path)
	if err != nil {
		m.config.Logger.Warnw("could not read file", "path", path, "error", err)
		f.Name = path
	}
	m.composer.SelectFile(f)
}

func (m *bubbleModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	c := m.composer
	if msg.Action != tea.MouseActionPress {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	case tea.MouseButtonLeft:
	default:
		return nil
	}
	if !c.Menu().Open {
		return nil
	}
	if i, ok := m.menuZones.EntryAt(c.Registry(), msg); ok {
		c.SelectEntry(i)
		m.syncEditor()
		return nil
	}
	if !m.zones.Get(m.surfaceID).InBounds(msg) {
		c.PointerOutside()
		m.layout()
	}
	return nil
}

// syncEditor copies composer-owned state into the editor.
func (m *bubbleModel) syncEditor() {
	if v := m.composer.Buffer(); v != m.editor.Value() {
		m.editor.SetValue(v)
	}
	m.editor.SetPlaceholder(m.composer.Placeholder())
	m.layout()
}

func (m *bubbleModel) menuHeight() int {
	if !m.composer.Menu().Open {
		return 0
	}
	return menu.Height(m.composer.Registry())
}

func (m *bubbleModel) layout() {
	chrome := m.editor.Height() + m.menuHeight() + 1 + lipgloss.Height(m.help.View())
	h := m.height - chrome
	if h < 1 {
		h = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = h
}

func (m *bubbleModel) refreshConversation() {
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderer.RenderAll(m.config.Messages.Messages(), m.width))
	if atBottom || m.viewport.TotalLineCount() <= m.viewport.Height {
		m.viewport.GotoBottom()
	}
}

func (m *bubbleModel) statusData() statusbar.StatusData {
	c := m.composer
	var d statusbar.StatusData
	if a := c.ActiveMode(); a != nil {
		d.Mode = a.Icon + " " + a.Label
	}
	if f := c.StagedFile(); f != nil {
		d.Attachment = f.Name
	}
	d.Status = c.Status()
	if c.Loading() {
		d.Busy = m.spinner.View()
	}
	return d
}

func (m *bubbleModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	if m.picking {
		b.WriteString(pickerTitleStyle.Render("Select a PDF (esc to cancel)"))
		b.WriteString("\n")
		b.WriteString(m.picker.View())
		b.WriteString("\n")
		b.WriteString(statusbar.Render(m.width, m.statusData()))
	} else {
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(m.zones.Mark(m.surfaceID, m.surfaceView()))
	}
	if hv := m.help.View(); hv != "" {
		b.WriteString("\n")
		b.WriteString(hv)
	}
	return m.zones.Scan(b.String())
}

// surfaceView renders the composer surface: the menu when open, the editor
// and the status bar.
func (m *bubbleModel) surfaceView() string {
	var b strings.Builder
	if mv := menu.View(m.composer.Registry(), m.composer.Menu(), m.width, m.menuZones); mv != "" {
		b.WriteString(mv)
		b.WriteString("\n")
	}
	b.WriteString(m.editor.View())
	b.WriteString("\n")
	b.WriteString(statusbar.Render(m.width, m.statusData()))
	return b.String()
}
