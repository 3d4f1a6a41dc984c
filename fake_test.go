package uart

import "sync"

// fakeBackend records every call made through it, in order
type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	openErr      error
	configureErr error
	writeLimit   int // accept at most this many bytes per write; 0 means all
	writeErr     error
	reads        [][]byte
	readErr      error
	closeErr     error
	attrs        Attributes

	opened int
	closed int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		attrs: Attributes{BaudRate: 9600, DataBits: 8, StopBits: 1, VTime: 5},
	}
}

func (b *fakeBackend) record(call string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, call)
}

func (b *fakeBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *fakeBackend) Open(device string, config Config) (Handle, error) {
	b.record("open")
	if b.openErr != nil {
		return nil, b.openErr
	}
	b.mu.Lock()
	b.opened++
	b.mu.Unlock()
	return &fakeHandle{b: b}, nil
}

type fakeHandle struct {
	b *fakeBackend
}

func (h *fakeHandle) Configure(baudRate int, config Config) error {
	h.b.record("configure")
	return h.b.configureErr
}

func (h *fakeHandle) Attributes() (Attributes, error) {
	h.b.record("attributes")
	return h.b.attrs, nil
}

func (h *fakeHandle) Read(buf []byte) (int, error) {
	h.b.record("read")
	if h.b.readErr != nil {
		return -1, h.b.readErr
	}
	h.b.mu.Lock()
	defer h.b.mu.Unlock()
	if len(h.b.reads) == 0 {
		return 0, nil
	}
	next := h.b.reads[0]
	n := copy(buf, next)
	if n < len(next) {
		h.b.reads[0] = next[n:]
	} else {
		h.b.reads = h.b.reads[1:]
	}
	return n, nil
}

func (h *fakeHandle) Write(data []byte) (int, error) {
	h.b.record("write")
	if h.b.writeErr != nil {
		return -1, h.b.writeErr
	}
	if h.b.writeLimit > 0 && len(data) > h.b.writeLimit {
		return h.b.writeLimit, nil
	}
	return len(data), nil
}

func (h *fakeHandle) Close() error {
	h.b.record("close")
	h.b.mu.Lock()
	h.b.closed++
	h.b.mu.Unlock()
	return h.b.closeErr
}
