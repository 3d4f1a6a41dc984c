package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// maxLines caps the scrollback kept in memory
const maxLines = 5000

// Terminal is a follow-mode scrollback of formatted RX/TX lines
type Terminal struct {
	viewport  viewport.Model
	formatter *DataFormatter
	raw       []DataMsg
}

func NewTerminal(width, height int) *Terminal {
	return &Terminal{
		viewport:  viewport.New(width, height),
		formatter: NewDataFormatter(true, true),
	}
}

func (t *Terminal) SetSize(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = height
}

func (t *Terminal) Width() int { return t.viewport.Width }

func (t *Terminal) AddMessage(msg DataMsg) {
	t.raw = append(t.raw, msg)
	if len(t.raw) > maxLines {
		t.raw = t.raw[len(t.raw)-maxLines:]
	}
	t.refresh()
}

func (t *Terminal) Len() int { return len(t.raw) }

func (t *Terminal) Clear() {
	t.raw = nil
	t.viewport.SetContent("")
}

func (t *Terminal) ToggleHex() {
	t.formatter.ToggleHex()
	t.refresh()
}

func (t *Terminal) ToggleASCII() {
	t.formatter.ToggleASCII()
	t.refresh()
}

func (t *Terminal) GetDisplayMode() DisplayMode {
	return t.formatter.GetDisplayMode()
}

func (t *Terminal) refresh() {
	t.viewport.SetContent(strings.Join(t.formatter.FormatMessages(t.raw), "\n"))
	t.viewport.GotoBottom()
}

// Update forwards scroll keys and mouse wheel events to the viewport
func (t *Terminal) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return cmd
}

func (t *Terminal) View() string {
	return t.viewport.View()
}
