package uart

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.ReadTimeout != 500*time.Millisecond {
		t.Errorf("Expected ReadTimeout 500ms, got %v", config.ReadTimeout)
	}
	if config.readTimeoutTenths() != 5 {
		t.Errorf("Expected VTIME 5, got %d", config.readTimeoutTenths())
	}
	if config.BufferSize != 256 {
		t.Errorf("Expected BufferSize 256, got %d", config.BufferSize)
	}
	if !config.SyncWrite {
		t.Error("Expected SyncWrite to be enabled by default")
	}
	if !config.Exclusive {
		t.Error("Expected Exclusive to be enabled by default")
	}
	if config.StrictConfig {
		t.Error("Expected StrictConfig to be disabled by default")
	}
	if config.Logger == nil || config.Backend == nil {
		t.Error("Expected default logger and backend")
	}
}

func TestWithReadTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		wantErr bool
	}{
		{"0ms (would never block)", 0, true},
		{"100ms (valid)", 100 * time.Millisecond, false},
		{"500ms (valid)", 500 * time.Millisecond, false},
		{"2500ms (valid)", 2500 * time.Millisecond, false},
		{"25500ms (max)", 25500 * time.Millisecond, false},
		{"150ms (not multiple of 100ms)", 150 * time.Millisecond, true},
		{"250ns (not multiple of 100ms)", 250 * time.Nanosecond, true},
		{"25600ms (exceeds max)", 25600 * time.Millisecond, true},
		{"-100ms (negative)", -100 * time.Millisecond, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			opt := WithReadTimeout(tt.timeout)
			err := opt(&config)
			if (err != nil) != tt.wantErr {
				t.Errorf("WithReadTimeout(%v) error = %v, wantErr %v", tt.timeout, err, tt.wantErr)
			}
			if err == nil && config.ReadTimeout != tt.timeout {
				t.Errorf("ReadTimeout = %v, want %v", config.ReadTimeout, tt.timeout)
			}
		})
	}
}

func TestWithReadTimeoutMaxTenths(t *testing.T) {
	config := DefaultConfig()
	if err := WithReadTimeout(MaxReadTimeout)(&config); err != nil {
		t.Fatalf("WithReadTimeout(max) failed: %v", err)
	}
	if config.readTimeoutTenths() != 255 {
		t.Errorf("Expected VTIME 255, got %d", config.readTimeoutTenths())
	}
}

func TestZeroReadTimeoutRejectedBySession(t *testing.T) {
	_, err := NewSession("/dev/ttyS0", 9600, WithReadTimeout(0))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for a zero read timeout, got %v", err)
	}
}

func TestWithBufferSize(t *testing.T) {
	tests := []struct {
		size    int
		wantErr bool
	}{
		{1, false},
		{256, false},
		{MaxBufferSize, false},
		{0, true},
		{-1, true},
		{MaxBufferSize + 1, true},
	}

	for _, tt := range tests {
		config := DefaultConfig()
		err := WithBufferSize(tt.size)(&config)
		if (err != nil) != tt.wantErr {
			t.Errorf("WithBufferSize(%d) error = %v, wantErr %v", tt.size, err, tt.wantErr)
		}
		if err == nil && config.BufferSize != tt.size {
			t.Errorf("BufferSize = %d, want %d", config.BufferSize, tt.size)
		}
	}
}

func TestFunctionalOptions(t *testing.T) {
	config := DefaultConfig()
	logger := zap.NewExample()
	backend := newFakeBackend()

	opts := []Option{
		WithSyncWrite(false),
		WithExclusive(false),
		WithStrictConfig(),
		WithLogger(logger),
		WithBackend(backend),
	}
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			t.Fatalf("option failed: %v", err)
		}
	}

	if config.SyncWrite {
		t.Error("Expected SyncWrite disabled")
	}
	if config.Exclusive {
		t.Error("Expected Exclusive disabled")
	}
	if !config.StrictConfig {
		t.Error("Expected StrictConfig enabled")
	}
	if config.Logger != logger {
		t.Error("Expected custom logger")
	}
	if config.Backend != backend {
		t.Error("Expected custom backend")
	}
}

func TestNilOptionsRejected(t *testing.T) {
	config := DefaultConfig()
	if err := WithLogger(nil)(&config); err != ErrInvalidConfig {
		t.Errorf("Expected ErrInvalidConfig for nil logger, got %v", err)
	}
	if err := WithBackend(nil)(&config); err != ErrInvalidConfig {
		t.Errorf("Expected ErrInvalidConfig for nil backend, got %v", err)
	}
}
