// Package menu renders the mode picker and maps pointer events to its
// entries.
package menu

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/tmc/slashchat/composer"
	"github.com/tmc/slashchat/mode"
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))

	entryStyle       = lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
	highlightedStyle = entryStyle.Reverse(true).Bold(true)
	descStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// border rows and columns around the entries
const (
	borderTop  = 1
	borderLeft = 1
)

// Height returns the number of rows the menu occupies.
func Height(reg *mode.Registry) int {
	return reg.Len() + 2*borderTop
}

// Zones marks menu rows so pointer events can be mapped back to entries.
type Zones struct {
	manager *zone.Manager
	prefix  string
}

// NewZones returns row marks registered with m.
func NewZones(m *zone.Manager) *Zones {
	return &Zones{manager: m, prefix: m.NewPrefix()}
}

func (z *Zones) id(i int) string { return z.prefix + "entry-" + strconv.Itoa(i) }

// Entry returns the last rendered bounds of entry i.
func (z *Zones) Entry(i int) *zone.ZoneInfo { return z.manager.Get(z.id(i)) }

// EntryAt returns the entry of reg under the pointer.
func (z *Zones) EntryAt(reg *mode.Registry, msg tea.MouseMsg) (int, bool) {
	for i := 0; i < reg.Len(); i++ {
		if z.Entry(i).InBounds(msg) {
			return i, true
		}
	}
	return 0, false
}

func (z *Zones) mark(i int, row string) string {
	if z == nil {
		return row
	}
	return z.manager.Mark(z.id(i), row)
}

// View renders the menu. It returns "" when the menu is closed. Rows are
// marked in zones unless it is nil.
func View(reg *mode.Registry, st composer.MenuState, width int, zones *Zones) string {
	if !st.Open || reg.Len() == 0 {
		return ""
	}
	inner := width - 2*borderLeft
	if inner < 10 {
		inner = 10
	}
	rows := make([]string, 0, reg.Len())
	for i, m := range reg.Modes() {
		label := fmt.Sprintf("%s %s", m.Icon, m.Label)
		line := label
		if pad := inner - 2 - lipgloss.Width(label) - 2 - lipgloss.Width(m.Description); pad >= 0 {
			line = label + "  " + strings.Repeat(" ", pad) + descStyle.Render(m.Description)
		}
		style := entryStyle
		if i == st.Highlighted {
			style = highlightedStyle
		}
		rows = append(rows, zones.mark(i, style.Width(inner).MaxWidth(inner).Render(line)))
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}
