package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/allbin/go-uart/internal/bytefmt"
	"github.com/allbin/go-uart/internal/tui/styles"
)

type Direction int

const (
	DirectionRX Direction = iota
	DirectionTX
)

// DataMsg is one chunk received from, or sent to, the device
type DataMsg struct {
	Timestamp time.Time
	Data      []byte
	Direction Direction
	Written   int   // TX only: bytes the device accepted
	Err       error // TX only: the send failed
}

// Bytes is what the message adds to its direction's counter. A failed or
// short TX counts only what was written.
func (m DataMsg) Bytes() int {
	if m.Direction == DirectionRX {
		return len(m.Data)
	}
	return m.Written
}

type DisplayMode struct {
	ShowHex   bool
	ShowASCII bool
}

type DataFormatter struct {
	mode DisplayMode
}

func NewDataFormatter(showHex, showASCII bool) *DataFormatter {
	return &DataFormatter{
		mode: DisplayMode{ShowHex: showHex, ShowASCII: showASCII},
	}
}

func (df *DataFormatter) GetDisplayMode() DisplayMode {
	return df.mode
}

func (df *DataFormatter) ToggleHex() {
	df.mode.ShowHex = !df.mode.ShowHex
}

func (df *DataFormatter) ToggleASCII() {
	df.mode.ShowASCII = !df.mode.ShowASCII
}

func (df *DataFormatter) FormatMessage(msg DataMsg) string {
	var indicator string
	switch {
	case msg.Direction == DirectionRX:
		indicator = styles.RXStyle.Render("↙ RX")
	case msg.Err != nil:
		indicator = styles.TXErrorStyle.Render("↗ TX ✗")
	default:
		indicator = styles.TXOKStyle.Render("↗ TX ✓")
	}

	var parts []string
	if df.mode.ShowHex {
		parts = append(parts, "HEX: "+bytefmt.Hex(msg.Data))
	}
	if df.mode.ShowASCII {
		// control bytes must not reach the terminal
		parts = append(parts, "ASCII: "+bytefmt.Printable(msg.Data, 0))
	}
	if !df.mode.ShowHex && !df.mode.ShowASCII {
		parts = append(parts, fmt.Sprintf("BYTES: %d", len(msg.Data)))
	}
	if msg.Err != nil {
		parts = append(parts, "ERROR: "+msg.Err.Error())
	}

	timestamp := styles.TimestampStyle.Render("[" + msg.Timestamp.Format("15:04:05.000") + "]")
	return fmt.Sprintf("%s %s: %s", timestamp, indicator, strings.Join(parts, "  "))
}

func (df *DataFormatter) FormatMessages(messages []DataMsg) []string {
	formatted := make([]string, len(messages))
	for i, msg := range messages {
		formatted[i] = df.FormatMessage(msg)
	}
	return formatted
}
