/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/allbin/go-uart"
	"github.com/allbin/go-uart/internal/tui/components"
	"github.com/allbin/go-uart/internal/tui/keys"
	"github.com/allbin/go-uart/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor <port>",
	Short: "Interactive terminal for a serial device",
	Long: `Open a serial device and show received data live, with a line for sending.

Keys work vim-like: press i to type, Enter to send, Esc to go back to
normal mode. In normal mode h and a toggle the hex and ASCII columns,
c clears the buffer and q quits. Tab switches the input between ASCII
and hex.

Examples:
  uartctl monitor /dev/ttyUSB0
  uartctl monitor /dev/ttyUSB0 -b 115200 --newline`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		newline, _ := cmd.Flags().GetBool("newline")

		s, err := newSession(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := runMonitor(uart.NewLockedSession(s), newline); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().Bool("newline", true, "Append \\n to lines sent in ASCII mode")
}

type inputMode int

const (
	inputModeNormal inputMode = iota
	inputModeInsert
)

func (m inputMode) String() string {
	if m == inputModeInsert {
		return "INSERT"
	}
	return "NORMAL"
}

type connectionStatusMsg struct {
	err error
}

type monitorModel struct {
	session   *uart.LockedSession
	terminal  *components.Terminal
	statusBar *components.StatusBar
	input     *components.Input
	help      help.Model
	keys      keys.MonitorKeys
	mode      inputMode
	ready     bool
	width     int
	height    int
}

func newMonitorModel(session *uart.LockedSession, newline bool) *monitorModel {
	cfg := session.Session().Config()
	return &monitorModel{
		session:  session,
		terminal: components.NewTerminal(0, 0),
		statusBar: components.NewStatusBar(session.Session().Device(), components.ConnectionInfo{
			BaudRate:    session.Session().BaudRate(),
			ReadTimeout: cfg.ReadTimeout,
		}),
		input: components.NewInput("Type and press Enter to send...", newline),
		help:  help.New(),
		keys:  keys.NewMonitorKeys(),
	}
}

func runMonitor(session *uart.LockedSession, newline bool) error {
	logger.Debug("starting monitor",
		zap.String("device", session.Session().Device()),
		zap.Int("baud", session.Session().BaudRate()))

	m := newMonitorModel(session, newline)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := session.Open(); err != nil {
			p.Send(connectionStatusMsg{err: err})
			return
		}
		p.Send(connectionStatusMsg{})
		readLoop(ctx, session, p.Send)
	}()

	_, err := p.Run()

	// the reader returns within one read timeout of cancel
	cancel()
	wg.Wait()
	if cerr := session.Close(); cerr != nil {
		logger.Warn("close failed", zap.Error(cerr))
	}
	return err
}

// readLoop forwards received chunks until ctx is done or the device fails
func readLoop(ctx context.Context, session *uart.LockedSession, send func(tea.Msg)) {
	for {
		data, err := session.Poll(ctx)
		if err != nil {
			if ctx.Err() == nil {
				send(connectionStatusMsg{err: err})
			}
			return
		}
		send(components.DataMsg{
			Timestamp: time.Now(),
			Data:      data,
			Direction: components.DirectionRX,
		})
	}
}

// writeCmd writes data off the UI goroutine and reports the outcome
func writeCmd(session *uart.LockedSession, data []byte) tea.Cmd {
	return func() tea.Msg {
		n, err := session.Send(data)
		if err != nil {
			logger.Debug("send failed", zap.Error(err))
		}
		return components.DataMsg{
			Timestamp: time.Now(),
			Data:      data,
			Direction: components.DirectionTX,
			Written:   n,
			Err:       err,
		}
	}
}

func (m *monitorModel) Init() tea.Cmd {
	return nil
}

func (m *monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		m.ready = true

	case connectionStatusMsg:
		if msg.err != nil {
			m.statusBar.SetDisconnected(msg.err)
		} else {
			m.statusBar.SetConnected()
		}

	case components.DataMsg:
		m.statusBar.Count(msg.Direction, msg.Bytes())
		m.terminal.AddMessage(msg)

	case tea.KeyMsg:
		if m.mode == inputModeInsert {
			switch {
			case key.Matches(msg, m.keys.Escape):
				m.mode = inputModeNormal
				m.input.Blur()
				return m, nil
			case key.Matches(msg, m.keys.Send):
				return m, m.send()
			case key.Matches(msg, m.keys.Up):
				m.input.HistoryPrev()
				return m, nil
			case key.Matches(msg, m.keys.Down):
				m.input.HistoryNext()
				return m, nil
			case key.Matches(msg, m.keys.ToggleSendMode):
				m.input.ToggleMode()
				return m, nil
			}
			cmds = append(cmds, m.input.Update(msg))
			return m, tea.Batch(cmds...)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.InsertMode):
			m.mode = inputModeInsert
			return m, m.input.Focus()
		case key.Matches(msg, m.keys.Clear):
			m.terminal.Clear()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.layout()
		case key.Matches(msg, m.keys.ToggleHex):
			m.terminal.ToggleHex()
		case key.Matches(msg, m.keys.ToggleASCII):
			m.terminal.ToggleASCII()
		case key.Matches(msg, m.keys.ToggleSendMode):
			m.input.ToggleMode()
		default:
			cmds = append(cmds, m.terminal.Update(msg))
		}

	case tea.MouseMsg:
		cmds = append(cmds, m.terminal.Update(msg))
	}

	return m, tea.Batch(cmds...)
}

// layout gives the terminal whatever the status bar, input box and help leave
func (m *monitorModel) layout() {
	helpHeight := lipgloss.Height(m.help.View(m.keys))
	// status bar, terminal top border, bordered input
	chrome := 1 + 1 + 3 + helpHeight
	m.terminal.SetSize(m.width, max(m.height-chrome, 1))
	m.input.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)
	m.help.Width = m.width
}

// send parses the input line and hands it to the writer
func (m *monitorModel) send() tea.Cmd {
	if m.input.Value() == "" {
		return nil
	}
	data, err := m.input.Payload()
	if err != nil {
		m.terminal.AddMessage(components.DataMsg{
			Timestamp: time.Now(),
			Direction: components.DirectionTX,
			Err:       fmt.Errorf("invalid input: %w", err),
		})
		return nil
	}
	m.input.Commit()
	if !m.session.IsOpen() {
		m.terminal.AddMessage(components.DataMsg{
			Timestamp: time.Now(),
			Data:      data,
			Direction: components.DirectionTX,
			Err:       uart.ErrNotOpen,
		})
		return nil
	}
	return writeCmd(m.session, data)
}

func (m *monitorModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.statusBar.View(m.mode.String()),
		styles.ContentBorderStyle.Render(m.terminal.View()),
		m.input.View(),
		styles.HelpStyle.Render(m.help.View(m.keys)),
	)
}
