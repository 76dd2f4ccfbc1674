package mux

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/muesli/termenv"

	"github.com/dshills/sshlm/internal/input/key"
	"github.com/dshills/sshlm/internal/renderer/screen"
)

// syncBuffer is a bytes.Buffer safe for concurrent use.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// fakeSession is an in-memory session. Output queued with emit is
// returned by Read; Read returns io.EOF once the session is closed.
type fakeSession struct {
	mu         sync.Mutex
	written    bytes.Buffer
	sizes      [][2]int
	terminated int

	output chan []byte
	closed chan struct{}
	once   sync.Once

	noEcho chan struct{}
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		output: make(chan []byte, 16),
		closed: make(chan struct{}),
		noEcho: make(chan struct{}),
	}
}

func (s *fakeSession) emit(p string) {
	s.output <- []byte(p)
}

// exit makes Read return io.EOF after the queued output.
func (s *fakeSession) exit() {
	s.once.Do(func() { close(s.closed) })
}

func (s *fakeSession) Read(p []byte) (int, error) {
	select {
	case data := <-s.output:
		return copy(p, data), nil
	default:
	}
	select {
	case data := <-s.output:
		return copy(p, data), nil
	case <-s.closed:
		return 0, io.EOF
	}
}

func (s *fakeSession) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written.Write(p)
}

func (s *fakeSession) Written() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written.String()
}

func (s *fakeSession) IsAlive() bool {
	select {
	case <-s.closed:
		return false
	default:
		return true
	}
}

func (s *fakeSession) SetWindowSize(rows, cols int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sizes = append(s.sizes, [2]int{rows, cols})
	return nil
}

func (s *fakeSession) Sizes() [][2]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][2]int(nil), s.sizes...)
}

func (s *fakeSession) WaitNoEcho(ctx context.Context) error {
	select {
	case <-s.noEcho:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *fakeSession) Terminate() error {
	s.mu.Lock()
	s.terminated++
	s.mu.Unlock()
	s.exit()
	return nil
}

func (s *fakeSession) Terminated() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminated
}

// fakeKeys delivers queued keystrokes.
type fakeKeys struct {
	ch     chan key.Event
	panics bool
}

func newFakeKeys() *fakeKeys {
	return &fakeKeys{ch: make(chan key.Event, 64)}
}

func (k *fakeKeys) Next(timeout time.Duration) (key.Event, bool, error) {
	if k.panics {
		panic("keyboard on fire")
	}
	select {
	case ev := <-k.ch:
		return ev, true, nil
	case <-time.After(timeout):
		return key.Event{}, false, nil
	}
}

func (k *fakeKeys) Inject(ev key.Event) {
	k.ch <- ev
}

// typeKeys queues raw keystrokes.
func (k *fakeKeys) typeKeys(raws ...string) {
	for _, raw := range raws {
		k.Inject(key.FromRaw(raw))
	}
}

// fakeTerminal counts raw mode changes.
type fakeTerminal struct {
	mu       sync.Mutex
	raw      int
	restored int
	rows     int
	cols     int
}

func (t *fakeTerminal) MakeRaw() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.raw++
	return nil
}

func (t *fakeTerminal) Restore() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.restored++
	return nil
}

func (t *fakeTerminal) Size() (int, int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rows, t.cols, nil
}

func (t *fakeTerminal) counts() (raw, restored int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.raw, t.restored
}

type harness struct {
	mux     *Mux
	session *fakeSession
	keys    *fakeKeys
	term    *fakeTerminal
	out     *syncBuffer
}

// testConfig uses short durations so notices do not slow tests down.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.NotifierDuration = 10 * time.Millisecond
	cfg.WarningDuration = 10 * time.Millisecond
	cfg.InputTimeout = 10 * time.Millisecond
	cfg.ResizeInterval = 10 * time.Millisecond
	return cfg
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{
		session: newFakeSession(),
		keys:    newFakeKeys(),
		term:    &fakeTerminal{rows: 30, cols: 100},
		out:     &syncBuffer{},
	}
	scr := screen.New(h.out, screen.WithProfile(termenv.Ascii))
	h.mux = New(cfg, h.session, h.keys, h.term, scr)
	t.Cleanup(func() { h.mux.End(nil) })
	return h
}

// press routes raw keystrokes synchronously.
func (h *harness) press(t *testing.T, raws ...string) {
	t.Helper()
	for _, raw := range raws {
		if err := h.mux.route(context.Background(), key.FromRaw(raw)); err != nil {
			t.Fatalf("route(%q) error = %v", raw, err)
		}
	}
}

// settle waits for any visible notice to go away.
func (h *harness) settle(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.mux.notifier.Gate().Wait(ctx); err != nil {
		t.Fatalf("notice never cleared: %v", err)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
