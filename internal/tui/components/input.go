package components

import (
	"github.com/allbin/go-uart/internal/bytefmt"
	"github.com/allbin/go-uart/internal/tui/styles"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type SendingMode int

const (
	SendingModeASCII SendingMode = iota
	SendingModeHex
)

func (s SendingMode) String() string {
	if s == SendingModeHex {
		return "HEX"
	}
	return "ASCII"
}

// Input is the send line with ASCII/hex modes and history
type Input struct {
	textInput    textinput.Model
	sendingMode  SendingMode
	newline      bool
	history      []string
	historyIndex int
	draft        string
}

func NewInput(placeholder string, newline bool) *Input {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 512
	ti.Prompt = "> "

	return &Input{
		textInput:    ti,
		newline:      newline,
		historyIndex: -1,
	}
}

func (i *Input) SetWidth(width int) {
	// border + padding + prompt
	usable := width - 6
	if usable < 20 {
		usable = 20
	}
	i.textInput.Width = usable
}

func (i *Input) Focus() tea.Cmd { return i.textInput.Focus() }
func (i *Input) Blur()          { i.textInput.Blur() }
func (i *Input) Value() string  { return i.textInput.Value() }
func (i *Input) SetValue(v string) {
	i.textInput.SetValue(v)
}

func (i *Input) Mode() SendingMode { return i.sendingMode }

func (i *Input) ToggleMode() {
	if i.sendingMode == SendingModeASCII {
		i.sendingMode = SendingModeHex
	} else {
		i.sendingMode = SendingModeASCII
	}
}

// Payload parses the current value according to the sending mode
func (i *Input) Payload() ([]byte, error) {
	return bytefmt.Payload(i.Value(), i.sendingMode == SendingModeHex, i.newline)
}

// Commit records the current value in history and clears the line
func (i *Input) Commit() {
	if v := i.Value(); v != "" {
		if n := len(i.history); n == 0 || i.history[n-1] != v {
			i.history = append(i.history, v)
		}
	}
	i.historyIndex = -1
	i.draft = ""
	i.textInput.SetValue("")
}

// HistoryPrev steps back through sent lines
func (i *Input) HistoryPrev() {
	if len(i.history) == 0 {
		return
	}
	switch {
	case i.historyIndex == -1:
		i.draft = i.Value()
		i.historyIndex = len(i.history) - 1
	case i.historyIndex > 0:
		i.historyIndex--
	}
	i.textInput.SetValue(i.history[i.historyIndex])
	i.textInput.CursorEnd()
}

// HistoryNext steps forward, ending at the line being typed
func (i *Input) HistoryNext() {
	if i.historyIndex == -1 {
		return
	}
	if i.historyIndex < len(i.history)-1 {
		i.historyIndex++
		i.textInput.SetValue(i.history[i.historyIndex])
	} else {
		i.historyIndex = -1
		i.textInput.SetValue(i.draft)
	}
	i.textInput.CursorEnd()
}

func (i *Input) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)
	return cmd
}

func (i *Input) View() string {
	mode := styles.PromptStyle.Render("[" + i.sendingMode.String() + "]")
	return styles.InputStyle.Render(mode + " " + i.textInput.View())
}
