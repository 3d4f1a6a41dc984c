package uart

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Predefined error types for robust error handling
var (
	ErrDeviceNotFound   = errors.New("serial device not found")
	ErrPermissionDenied = errors.New("permission denied accessing serial device")
	ErrDeviceInUse      = errors.New("serial device already in use")
	ErrInvalidBaudRate  = errors.New("invalid baud rate")
	ErrInvalidConfig    = errors.New("invalid serial configuration")

	// Session state errors
	ErrNotOpen     = errors.New("serial session is not open")
	ErrAlreadyOpen = errors.New("serial session is already open")

	// ErrConfiguration matches any *ConfigError.
	ErrConfiguration = errors.New("serial line configuration rejected")
)

// OpenError is returned by Session.Open when the device could not be acquired.
// Err carries the OS diagnostic; errors.Is also matches the ErrDevice*/ErrPermission*
// sentinel that classifies it.
type OpenError struct {
	Device string
	Kind   error
	Err    error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("failed to open %s: %v", e.Device, e.Err)
}

func (e *OpenError) Unwrap() []error {
	if e.Kind == nil {
		return []error{e.Err}
	}
	return []error{e.Kind, e.Err}
}

// ConfigError reports that the OS rejected, or did not retain, the requested
// line settings.
type ConfigError struct {
	Device string
	// Fields lists attributes that differ from the request. Empty when the
	// OS call itself failed.
	Fields []string
	Err    error
}

func (e *ConfigError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("configuration mismatch on %s: %s", e.Device, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("failed to configure %s: %v", e.Device, e.Err)
}

func (e *ConfigError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConfiguration}
	}
	return []error{ErrConfiguration, e.Err}
}

// WriteError is returned by Session.Send when the OS did not accept every byte
// in a single write call.
type WriteError struct {
	Written   int
	Requested int
	Err       error
}

func (e *WriteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("write failed after %d of %d bytes: %v", e.Written, e.Requested, e.Err)
	}
	return fmt.Sprintf("short write: %d of %d bytes", e.Written, e.Requested)
}

func (e *WriteError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return io.ErrShortWrite
}

// Short reports whether the write was partial rather than an OS failure.
func (e *WriteError) Short() bool {
	return e.Err == nil
}
