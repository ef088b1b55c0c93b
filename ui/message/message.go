// Package message renders conversation entries for the terminal.
package message

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/tmc/slashchat/message"
)

var (
	UserStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // Bright blue

	BotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // Cyan

	PendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	TimestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Faint(true)

	MessagePadding = lipgloss.NewStyle().PaddingLeft(1)
)

// Renderer formats messages. Bot replies are rendered as markdown with
// glamour; a renderer is built per width and reused.
type Renderer struct {
	style string
	width int
	md    *glamour.TermRenderer
}

// NewRenderer returns a renderer using the named glamour style ("dark",
// "light", "notty"). Empty selects "dark".
func NewRenderer(style string) *Renderer {
	if style == "" {
		style = "dark"
	}
	return &Renderer{style: style}
}

func (r *Renderer) markdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return md
	}
	if r.md == nil || r.width != width {
		tr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		r.md, r.width = tr, width
	}
	out, err := r.md.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

// Render formats one message for display at the given terminal width.
func (r *Renderer) Render(msg message.Msg, width int) string {
	timeDisplay := TimestampStyle.Render(msg.Time.Format("15:04"))
	timeWidth := lipgloss.Width(timeDisplay)

	var prefix, content string
	switch msg.Role {
	case message.RoleUser:
		prefix = UserStyle.Bold(true).Render("You:")
	default:
		prefix = BotStyle.Bold(true).Render("Bot:")
	}
	prefixWidth := lipgloss.Width(prefix)
	available := width - timeWidth - 1 - prefixWidth - MessagePadding.GetPaddingLeft()
	if available < 10 {
		available = 10
	}

	switch {
	case msg.Pending:
		content = PendingStyle.Width(available).Render(msg.Content)
	case msg.Role == message.RoleUser:
		content = UserStyle.Width(available).Render(msg.Content)
	default:
		content = r.markdown(msg.Content, available)
	}

	lines := strings.Split(content, "\n")
	first := timeDisplay + " " + prefix + MessagePadding.Render(lines[0])
	if len(lines) == 1 {
		return first
	}
	indent := strings.Repeat(" ", timeWidth+1+prefixWidth+MessagePadding.GetPaddingLeft())
	return first + "\n" + indent + strings.Join(lines[1:], "\n"+indent)
}

// RenderAll formats msgs separated by blank lines.
func (r *Renderer) RenderAll(msgs []message.Msg, width int) string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, r.Render(m, width))
	}
	return strings.Join(out, "\n\n")
}
