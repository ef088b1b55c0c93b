package statusbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	statusBarStyle = lipgloss.NewStyle().Reverse(true)

	statusTextStyle = lipgloss.NewStyle().Inherit(statusBarStyle)

	separatorStyle = statusTextStyle.Foreground(lipgloss.Color("240"))

	modeStyle   = statusTextStyle.Bold(true)
	fileStyle   = statusTextStyle.Foreground(lipgloss.Color("214"))
	statusStyle = statusTextStyle.Italic(true)
)

// StatusData holds the information for the status bar.
type StatusData struct {
	Mode       string // active mode label, empty for none
	Attachment string // staged file name
	Status     string // transient status message
	Busy       string // rendered spinner while a submission is outstanding
}

// Render creates the status bar string.
func Render(width int, data StatusData) string {
	if width <= 0 {
		return ""
	}
	sep := separatorStyle.Render(" │ ")

	mode := data.Mode
	if mode == "" {
		mode = "no mode"
	}
	left := []string{modeStyle.Render(fmt.Sprintf(" %s ", mode))}
	if data.Attachment != "" {
		left = append(left, fileStyle.Render(fmt.Sprintf(" ▤ %s ", data.Attachment)))
	}
	leftStr := strings.Join(left, sep)

	var right string
	switch {
	case data.Busy != "":
		right = statusStyle.Render(fmt.Sprintf(" %s sending ", data.Busy))
	case data.Status != "":
		right = statusStyle.Render(fmt.Sprintf(" %s ", data.Status))
	}

	padding := width - lipgloss.Width(leftStr) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	return statusBarStyle.Width(width).MaxWidth(width).Render(leftStr + strings.Repeat(" ", padding) + right)
}
