// Package uart provides a byte-stream transport over a single serial device
// with deterministic read timeouts.
//
// A Session owns one exclusive OS handle. It puts the line in raw 8-N-1 mode
// at the requested baud rate when opened, and exposes Send and Receive on
// unmodified bytes. It defines no message protocol; see the frame package
// for delimiter and length-prefix framing on top of it.
//
// # Basic Usage
//
//	s, err := uart.NewSession("/dev/ttyUSB0", 9600)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := s.Open(); err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	if _, err := s.Send([]byte("PING")); err != nil {
//	    log.Fatal(err)
//	}
//	data, err := s.Receive() // empty when nothing arrived within the timeout
//
// Use wraps the open/close pairing so the device is released on every path:
//
//	err := uart.Use("/dev/ttyUSB0", 9600, func(s *uart.Session) error {
//	    resp, err := s.Exchange(ctx, []byte("AT\r"))
//	    ...
//	})
//
// # Timeouts
//
// Receive waits at most ReadTimeout (VTIME, 100ms granularity) and returns
// whatever arrived, possibly nothing. Poll and Exchange repeat that window
// until data arrives or the context is done, which replaces sleeping between
// a write and a read.
//
// # Configuration Options
//
//	s, err := uart.NewSession("/dev/ttyUSB0", 115200,
//	    uart.WithReadTimeout(200*time.Millisecond),
//	    uart.WithBufferSize(1024),
//	    uart.WithStrictConfig(),
//	    uart.WithLogger(logger),
//	)
//
// If the OS rejects the line settings, Open logs a warning and succeeds with
// whatever the OS retained. WithStrictConfig turns that into an Open failure;
// VerifyConfig checks the retained settings after the fact.
//
// # Error Handling
//
//	var (
//	    ErrNotOpen          // send/receive on a closed session
//	    ErrAlreadyOpen      // Open on an open session
//	    ErrDeviceNotFound   // classified *OpenError
//	    ErrPermissionDenied // classified *OpenError
//	    ErrDeviceInUse      // classified *OpenError
//	    ErrConfiguration    // any *ConfigError
//	)
//
// Short writes are returned as *WriteError and match io.ErrShortWrite.
//
// # Concurrency
//
// A Session is not safe for concurrent use. Wrap it in a LockedSession to
// share it between goroutines.
package uart
