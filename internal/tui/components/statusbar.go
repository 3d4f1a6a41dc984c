package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/allbin/go-uart/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// ConnectionInfo is what the status bar shows about the line
type ConnectionInfo struct {
	BaudRate    int
	ReadTimeout time.Duration
}

type StatusBar struct {
	portPath string
	info     ConnectionInfo
	status   styles.StatusType
	err      error
	width    int
	rx, tx   int
}

func NewStatusBar(portPath string, info ConnectionInfo) *StatusBar {
	return &StatusBar{portPath: portPath, info: info, status: styles.StatusConnecting}
}

func (sb *StatusBar) SetWidth(width int) { sb.width = width }

func (sb *StatusBar) SetConnected() {
	sb.status = styles.StatusConnected
	sb.err = nil
}

func (sb *StatusBar) SetDisconnected(err error) {
	sb.err = err
	if err != nil {
		sb.status = styles.StatusError
	} else {
		sb.status = styles.StatusDisconnected
	}
}

// Count adds n bytes to the RX or TX counter
func (sb *StatusBar) Count(dir Direction, n int) {
	if dir == DirectionRX {
		sb.rx += n
	} else {
		sb.tx += n
	}
}

func (sb *StatusBar) statusText() string {
	switch sb.status {
	case styles.StatusConnected:
		return "● connected"
	case styles.StatusConnecting:
		return "○ connecting"
	case styles.StatusError:
		return fmt.Sprintf("✗ %v", sb.err)
	default:
		return "○ closed"
	}
}

// View renders mode, port, line settings, counters and connection state
func (sb *StatusBar) View(mode string) string {
	mode = styles.TitleStyle.Render(mode)
	port := styles.PromptStyle.Render(sb.portPath)
	line := fmt.Sprintf("%d 8N1 %v", sb.info.BaudRate, sb.info.ReadTimeout)
	counters := fmt.Sprintf("RX %d  TX %d", sb.rx, sb.tx)
	status := styles.GetStatusStyle(sb.status).Render(sb.statusText())

	left := lipgloss.JoinHorizontal(lipgloss.Top, mode, " ", port, "  ", line, "  ", counters)
	gap := sb.width - lipgloss.Width(left) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + status
}
