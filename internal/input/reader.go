package input

import (
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/dshills/sshlm/internal/input/key"
)

// DefaultEscapeTimeout is how long a lone ESC waits for the rest of an
// escape sequence before it is reported as the Escape key.
const DefaultEscapeTimeout = 50 * time.Millisecond

// readChunk bounds a single read from the terminal.
const readChunk = 256

// Reader reads keystrokes from a terminal file descriptor.
//
// Next never blocks longer than its timeout, which lets the caller notice
// shutdown between keystrokes. Reader is meant to be used by one goroutine.
type Reader struct {
	file       *os.File
	fd         int
	escTimeout time.Duration

	mu      sync.Mutex
	dec     key.Decoder
	buf     []byte
	pending []key.Event
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithEscapeTimeout sets how long an incomplete escape sequence waits for more bytes.
func WithEscapeTimeout(d time.Duration) ReaderOption {
	return func(r *Reader) {
		r.escTimeout = d
	}
}

// NewReader creates a Reader on f, usually os.Stdin in raw mode.
func NewReader(f *os.File, opts ...ReaderOption) *Reader {
	r := &Reader{
		file:       f,
		fd:         int(f.Fd()),
		escTimeout: DefaultEscapeTimeout,
		buf:        make([]byte, readChunk),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Inject queues a keystroke ahead of terminal input. It is safe to call
// from any goroutine.
func (r *Reader) Inject(ev key.Event) {
	r.mu.Lock()
	r.pending = append(r.pending, ev)
	r.mu.Unlock()
}

// Next returns the next keystroke. It returns false if none arrived within
// timeout, and io.EOF once the terminal input is closed.
func (r *Reader) Next(timeout time.Duration) (key.Event, bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		if ev, ok := r.take(false); ok {
			return ev, true, nil
		}

		wait := time.Until(deadline)
		partial := r.dec.Buffered() > 0
		if partial && (wait > r.escTimeout || wait <= 0) {
			wait = r.escTimeout
		}
		if wait <= 0 {
			return key.Event{}, false, nil
		}

		ready, err := r.wait(wait)
		if err != nil {
			return key.Event{}, false, err
		}
		if !ready {
			if partial {
				// The rest of the sequence never came.
				ev, ok := r.take(true)
				return ev, ok, nil
			}
			if time.Now().After(deadline) {
				return key.Event{}, false, nil
			}
			continue
		}

		n, err := r.file.Read(r.buf)
		if n > 0 {
			r.dec.Feed(r.buf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) && r.dec.Buffered() > 0 {
				ev, ok := r.take(true)
				return ev, ok, nil
			}
			return key.Event{}, false, err
		}
		if n == 0 {
			return key.Event{}, false, io.EOF
		}
	}
}

// take returns an injected keystroke or the next decoded one.
func (r *Reader) take(flush bool) (key.Event, bool) {
	r.mu.Lock()
	if len(r.pending) > 0 {
		ev := r.pending[0]
		r.pending = r.pending[1:]
		r.mu.Unlock()
		return ev, true
	}
	r.mu.Unlock()
	return r.dec.Next(flush)
}

// wait blocks until the descriptor is readable or d elapses.
// An interrupted wait reports not ready.
func (r *Reader) wait(d time.Duration) (bool, error) {
	ms := int(d / time.Millisecond)
	if ms <= 0 {
		ms = 1
	}
	fds := []unix.PollFd{{Fd: int32(r.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, ms)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return false, nil
		}
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	if fds[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) == 0 {
		return false, nil
	}
	return true, nil
}
