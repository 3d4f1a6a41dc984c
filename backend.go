package uart

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Backend acquires OS device handles. The default backend talks to the kernel
// through termios ioctls; tests substitute their own.
type Backend interface {
	Open(device string, config Config) (Handle, error)
}

// Handle is one acquired device. Sessions call Configure exactly once,
// immediately after Open succeeds.
type Handle interface {
	Configure(baudRate int, config Config) error
	Attributes() (Attributes, error)
	Read(buf []byte) (int, error)
	Write(data []byte) (int, error)
	Close() error
}

// Attributes is the line discipline state read back from the device
type Attributes struct {
	BaudRate         int
	DataBits         int
	Parity           bool
	StopBits         int
	Canonical        bool
	Echo             bool
	OutputProcessing bool
	BreakInterrupt   bool
	VMin             uint8
	VTime            uint8
}

var baudRates = map[int]uint32{
	50:      unix.B50,
	75:      unix.B75,
	110:     unix.B110,
	134:     unix.B134,
	150:     unix.B150,
	200:     unix.B200,
	300:     unix.B300,
	600:     unix.B600,
	1200:    unix.B1200,
	1800:    unix.B1800,
	2400:    unix.B2400,
	4800:    unix.B4800,
	9600:    unix.B9600,
	19200:   unix.B19200,
	38400:   unix.B38400,
	57600:   unix.B57600,
	115200:  unix.B115200,
	230400:  unix.B230400,
	460800:  unix.B460800,
	500000:  unix.B500000,
	576000:  unix.B576000,
	921600:  unix.B921600,
	1000000: unix.B1000000,
	1152000: unix.B1152000,
	1500000: unix.B1500000,
	2000000: unix.B2000000,
	2500000: unix.B2500000,
	3000000: unix.B3000000,
	3500000: unix.B3500000,
	4000000: unix.B4000000,
}

// getBaudRate converts an integer baud rate to the unix constant
func getBaudRate(rate int) (uint32, error) {
	speed, ok := baudRates[rate]
	if !ok {
		return 0, ErrInvalidBaudRate
	}
	return speed, nil
}

// baudRateFromSpeed is the inverse of getBaudRate; 0 for unknown speeds
func baudRateFromSpeed(speed uint32) int {
	for rate, s := range baudRates {
		if s == speed {
			return rate
		}
	}
	return 0
}

// classifyOpenError maps an open(2) errno to one of the device sentinels
func classifyOpenError(err error) error {
	switch {
	case errors.Is(err, unix.ENOENT), errors.Is(err, unix.ENXIO), errors.Is(err, unix.ENODEV):
		return ErrDeviceNotFound
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		return ErrPermissionDenied
	case errors.Is(err, unix.EBUSY):
		return ErrDeviceInUse
	default:
		return nil
	}
}

type unixBackend struct{}

// Open acquires the device read/write without making it the controlling
// terminal. O_NONBLOCK keeps open from waiting on carrier detect and is
// cleared before returning so VMIN/VTIME govern reads.
func (unixBackend) Open(device string, config Config) (Handle, error) {
	flags := unix.O_RDWR | unix.O_NOCTTY | unix.O_NONBLOCK | unix.O_CLOEXEC
	if config.SyncWrite {
		flags |= unix.O_SYNC
	}

	fd, err := unix.Open(device, flags, 0)
	if err != nil {
		return nil, err
	}

	if err := unix.SetNonblock(fd, false); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to restore blocking mode: %w", err)
	}

	if config.Exclusive {
		if err := unix.IoctlSetInt(fd, unix.TIOCEXCL, 0); err != nil {
			config.Logger.Warn("exclusive access not granted",
				zap.String("device", device), zap.Error(err))
		}
	}

	return &unixHandle{fd: fd}, nil
}

type unixHandle struct {
	fd int
}

// Configure puts the line in raw 8-N-1 mode at the requested speed
func (h *unixHandle) Configure(baudRate int, config Config) error {
	speed, err := getBaudRate(baudRate)
	if err != nil {
		return err
	}

	termios, err := unix.IoctlGetTermios(h.fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("failed to get termios: %w", err)
	}

	termios.Cflag &^= unix.CSIZE | unix.PARENB | unix.PARODD | unix.CSTOPB | unix.CRTSCTS | unix.CBAUD
	termios.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL | speed
	termios.Ispeed = speed
	termios.Ospeed = speed

	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON | unix.IXOFF | unix.IXANY
	termios.Oflag &^= unix.OPOST
	termios.Lflag &^= unix.ICANON | unix.ECHO | unix.ECHOE | unix.ECHONL | unix.ISIG | unix.IEXTEN

	termios.Cc[unix.VMIN] = 0
	termios.Cc[unix.VTIME] = config.readTimeoutTenths()

	if err := unix.IoctlSetTermios(h.fd, unix.TCSETS, termios); err != nil {
		return fmt.Errorf("failed to set termios: %w", err)
	}
	return nil
}

func (h *unixHandle) Attributes() (Attributes, error) {
	termios, err := unix.IoctlGetTermios(h.fd, unix.TCGETS)
	if err != nil {
		return Attributes{}, fmt.Errorf("failed to get termios: %w", err)
	}

	attrs := Attributes{
		BaudRate:         baudRateFromSpeed(termios.Cflag & unix.CBAUD),
		Parity:           termios.Cflag&unix.PARENB != 0,
		StopBits:         1,
		Canonical:        termios.Lflag&unix.ICANON != 0,
		Echo:             termios.Lflag&unix.ECHO != 0,
		OutputProcessing: termios.Oflag&unix.OPOST != 0,
		BreakInterrupt:   termios.Iflag&unix.BRKINT != 0,
		VMin:             termios.Cc[unix.VMIN],
		VTime:            termios.Cc[unix.VTIME],
	}
	if termios.Cflag&unix.CSTOPB != 0 {
		attrs.StopBits = 2
	}
	switch termios.Cflag & unix.CSIZE {
	case unix.CS5:
		attrs.DataBits = 5
	case unix.CS6:
		attrs.DataBits = 6
	case unix.CS7:
		attrs.DataBits = 7
	case unix.CS8:
		attrs.DataBits = 8
	}
	return attrs, nil
}

func (h *unixHandle) Read(buf []byte) (int, error) {
	return unix.Read(h.fd, buf)
}

func (h *unixHandle) Write(data []byte) (int, error) {
	return unix.Write(h.fd, data)
}

func (h *unixHandle) Close() error {
	return unix.Close(h.fd)
}
