// Package bytefmt converts between user-typed text and raw device bytes.
package bytefmt

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ParseHex accepts "48656c6c6f", "48 65 6C" or "0x48 0x65" forms
func ParseHex(s string) ([]byte, error) {
	s = strings.NewReplacer(" ", "", "\t", "", "0x", "", "0X", "", ":", "").Replace(s)
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("hex string must have even length")
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex data: %w", err)
	}
	return data, nil
}

// Hex renders data as space separated upper-case pairs
func Hex(data []byte) string {
	return fmt.Sprintf("% X", data)
}

// Printable replaces non-printable ASCII with '·' and truncates to max bytes
// (0 means no limit).
func Printable(data []byte, max int) string {
	truncated := false
	if max > 0 && len(data) > max {
		data = data[:max]
		truncated = true
	}

	var b strings.Builder
	for _, c := range data {
		if c < 32 || c > 126 {
			b.WriteRune('·')
		} else {
			b.WriteByte(c)
		}
	}
	if truncated {
		b.WriteString("...")
	}
	return b.String()
}

// Payload builds the bytes to send from user input
func Payload(input string, isHex, newline bool) ([]byte, error) {
	if isHex {
		return ParseHex(input)
	}
	data := []byte(input)
	if newline {
		data = append(data, '\n')
	}
	return data, nil
}
