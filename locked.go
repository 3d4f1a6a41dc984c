package uart

import (
	"context"
	"sync"
)

// LockedSession serializes access to a Session so it can be shared between
// goroutines. A Receive holds the lock for up to one read timeout, so a
// concurrent Send waits at most that long.
type LockedSession struct {
	mu sync.Mutex
	s  *Session
}

// NewLockedSession wraps s
func NewLockedSession(s *Session) *LockedSession {
	return &LockedSession{s: s}
}

func (l *LockedSession) Open() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Open()
}

func (l *LockedSession) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Close()
}

func (l *LockedSession) IsOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.IsOpen()
}

func (l *LockedSession) Send(data []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Send(data)
}

func (l *LockedSession) Receive() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Receive()
}

// Poll releases the lock between read windows so senders can interleave
func (l *LockedSession) Poll(ctx context.Context) ([]byte, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := l.Receive()
		if err != nil {
			return nil, err
		}
		if len(data) > 0 {
			return data, nil
		}
	}
}

// Session returns the wrapped session. Callers must not use it concurrently
// with the LockedSession.
func (l *LockedSession) Session() *Session {
	return l.s
}
