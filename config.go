package uart

import (
	"time"

	"go.uber.org/zap"
)

const (
	// MinReadTimeout is the shortest window VTIME can express (1 decisecond).
	MinReadTimeout = 100 * time.Millisecond

	// MaxReadTimeout is the longest window VTIME can express (255 deciseconds).
	MaxReadTimeout = 255 * 100 * time.Millisecond

	// MaxBufferSize bounds the per-call receive buffer.
	MaxBufferSize = 64 * 1024
)

// Config holds the configuration for a serial session
type Config struct {
	ReadTimeout  time.Duration // Receive window, applied as VTIME (multiple of 100ms)
	BufferSize   int           // Max bytes returned by one Receive
	SyncWrite    bool          // Open with O_SYNC
	Exclusive    bool          // Request TIOCEXCL after open
	StrictConfig bool          // Fail Open when the OS rejects the line settings
	Logger       *zap.Logger
	Backend      Backend
}

// Option is a functional option for configuring a serial session
type Option func(*Config) error

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		ReadTimeout: 500 * time.Millisecond,
		BufferSize:  256,
		SyncWrite:   true,
		Exclusive:   true,
		Logger:      zap.NewNop(),
		Backend:     unixBackend{},
	}
}

// readTimeoutTenths converts ReadTimeout to the VTIME value
func (c Config) readTimeoutTenths() uint8 {
	return uint8(c.ReadTimeout / (100 * time.Millisecond))
}

// WithReadTimeout sets how long one Receive waits for data. The duration must
// be a multiple of 100ms between 100ms and 25.5s. VTIME 0 would make every
// read window return at once and Poll spin.
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout < MinReadTimeout || timeout > MaxReadTimeout {
			return ErrInvalidConfig
		}
		if timeout%(100*time.Millisecond) != 0 {
			return ErrInvalidConfig
		}
		c.ReadTimeout = timeout
		return nil
	}
}

// WithBufferSize sets the maximum number of bytes one Receive returns
func WithBufferSize(size int) Option {
	return func(c *Config) error {
		if size < 1 || size > MaxBufferSize {
			return ErrInvalidConfig
		}
		c.BufferSize = size
		return nil
	}
}

// WithSyncWrite controls O_SYNC on open
func WithSyncWrite(enabled bool) Option {
	return func(c *Config) error {
		c.SyncWrite = enabled
		return nil
	}
}

// WithExclusive controls whether the session asks the kernel for exclusive
// access (TIOCEXCL). Root bypasses the lock regardless.
func WithExclusive(enabled bool) Option {
	return func(c *Config) error {
		c.Exclusive = enabled
		return nil
	}
}

// WithStrictConfig makes Open fail, and release the device, when the OS
// rejects the line settings. By default the rejection is only logged.
func WithStrictConfig() Option {
	return func(c *Config) error {
		c.StrictConfig = true
		return nil
	}
}

// WithLogger sets the logger used for session diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			return ErrInvalidConfig
		}
		c.Logger = logger
		return nil
	}
}

// WithBackend replaces the OS device backend
func WithBackend(b Backend) Option {
	return func(c *Config) error {
		if b == nil {
			return ErrInvalidConfig
		}
		c.Backend = b
		return nil
	}
}
