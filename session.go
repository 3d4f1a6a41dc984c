package uart

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Session is one connection to a serial device. It starts closed; Open
// acquires and configures the device, Close releases it.
//
// A Session is not safe for concurrent use. Share it through LockedSession
// or keep it on a single goroutine.
type Session struct {
	device   string
	baudRate int
	config   Config
	log      *zap.Logger
	handle   Handle
}

// NewSession creates a closed session for device at baudRate. The baud rate
// must be one the platform recognizes.
func NewSession(device string, baudRate int, opts ...Option) (*Session, error) {
	if _, err := getBaudRate(baudRate); err != nil {
		return nil, err
	}
	if device == "" {
		return nil, ErrInvalidConfig
	}

	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}

	return &Session{
		device:   device,
		baudRate: baudRate,
		config:   config,
		log:      config.Logger.With(zap.String("device", device)),
	}, nil
}

// Device returns the device path the session was created for
func (s *Session) Device() string { return s.device }

// BaudRate returns the requested baud rate
func (s *Session) BaudRate() int { return s.baudRate }

// Config returns the session configuration
func (s *Session) Config() Config { return s.config }

// IsOpen reports whether the session currently holds a device handle
func (s *Session) IsOpen() bool { return s.handle != nil }

// Open acquires the device and applies the line configuration. A rejected
// configuration is logged and Open still succeeds unless WithStrictConfig
// was given.
func (s *Session) Open() error {
	if s.handle != nil {
		return ErrAlreadyOpen
	}

	h, err := s.config.Backend.Open(s.device, s.config)
	if err != nil {
		return &OpenError{Device: s.device, Kind: classifyOpenError(err), Err: err}
	}

	if err := h.Configure(s.baudRate, s.config); err != nil {
		cerr := &ConfigError{Device: s.device, Err: err}
		if s.config.StrictConfig {
			if closeErr := h.Close(); closeErr != nil {
				s.log.Warn("close after rejected configuration failed", zap.Error(closeErr))
			}
			return cerr
		}
		s.log.Warn("line configuration rejected, continuing with retained settings", zap.Error(err))
	}

	s.handle = h
	s.log.Debug("session opened",
		zap.Int("baud", s.baudRate),
		zap.Duration("read_timeout", s.config.ReadTimeout))
	return nil
}

// Close releases the device. Closing a closed session is a no-op.
func (s *Session) Close() error {
	if s.handle == nil {
		return nil
	}

	h := s.handle
	s.handle = nil
	if err := h.Close(); err != nil {
		s.log.Warn("close failed", zap.Error(err))
		return fmt.Errorf("failed to close %s: %w", s.device, err)
	}
	s.log.Debug("session closed")
	return nil
}

// Send writes data in a single write call. Anything short of the whole
// slice is reported as a *WriteError; there is no retry.
func (s *Session) Send(data []byte) (int, error) {
	if s.handle == nil {
		return 0, ErrNotOpen
	}
	if len(data) == 0 {
		return 0, nil
	}

	n, err := s.handle.Write(data)
	if n < 0 {
		n = 0
	}
	if err != nil {
		return n, &WriteError{Written: n, Requested: len(data), Err: err}
	}
	if n != len(data) {
		return n, &WriteError{Written: n, Requested: len(data)}
	}
	return n, nil
}

// Receive reads whatever arrives within one read timeout window, up to the
// configured buffer size. An empty result with a nil error means nothing
// arrived in time.
func (s *Session) Receive() ([]byte, error) {
	if s.handle == nil {
		return nil, ErrNotOpen
	}

	buf := make([]byte, s.config.BufferSize)
	n, err := s.handle.Read(buf)
	if err != nil {
		if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
			return []byte{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.device, err)
	}
	if n <= 0 {
		return []byte{}, nil
	}
	return buf[:n], nil
}

// Poll repeats Receive until data arrives or ctx is done. Cancellation is
// noticed between read windows.
func (s *Session) Poll(ctx context.Context) ([]byte, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := s.Receive()
		if err != nil {
			return nil, err
		}
		if len(data) > 0 {
			return data, nil
		}
	}
}

// Exchange sends data and polls for the first response chunk
func (s *Session) Exchange(ctx context.Context, data []byte) ([]byte, error) {
	if _, err := s.Send(data); err != nil {
		return nil, err
	}
	return s.Poll(ctx)
}

// Attributes reads the line settings currently held by the OS
func (s *Session) Attributes() (Attributes, error) {
	if s.handle == nil {
		return Attributes{}, ErrNotOpen
	}
	return s.handle.Attributes()
}

// VerifyConfig checks that the OS retained the raw 8-N-1 settings requested
// at Open.
func (s *Session) VerifyConfig() error {
	attrs, err := s.Attributes()
	if err != nil {
		if errors.Is(err, ErrNotOpen) {
			return err
		}
		return &ConfigError{Device: s.device, Err: err}
	}

	if fields := s.mismatches(attrs); len(fields) > 0 {
		return &ConfigError{Device: s.device, Fields: fields}
	}
	return nil
}

func (s *Session) mismatches(a Attributes) []string {
	var fields []string
	if a.BaudRate != s.baudRate {
		fields = append(fields, fmt.Sprintf("baud=%d", a.BaudRate))
	}
	if a.DataBits != 8 {
		fields = append(fields, fmt.Sprintf("data_bits=%d", a.DataBits))
	}
	if a.Parity {
		fields = append(fields, "parity")
	}
	if a.StopBits != 1 {
		fields = append(fields, fmt.Sprintf("stop_bits=%d", a.StopBits))
	}
	if a.Canonical {
		fields = append(fields, "canonical")
	}
	if a.Echo {
		fields = append(fields, "echo")
	}
	if a.OutputProcessing {
		fields = append(fields, "opost")
	}
	if a.BreakInterrupt {
		fields = append(fields, "brkint")
	}
	if a.VMin != 0 {
		fields = append(fields, fmt.Sprintf("vmin=%d", a.VMin))
	}
	if want := s.config.readTimeoutTenths(); a.VTime != want {
		fields = append(fields, fmt.Sprintf("vtime=%d", a.VTime))
	}
	return fields
}

// Use opens a session, runs fn and closes the session on every exit path.
// A close error is returned only when fn succeeded.
func Use(device string, baudRate int, fn func(*Session) error, opts ...Option) (err error) {
	s, err := NewSession(device, baudRate, opts...)
	if err != nil {
		return err
	}
	if err := s.Open(); err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}
