package terminal

import (
	"errors"
	"os"
	"testing"

	"github.com/creack/pty"
	"golang.org/x/term"
)

func openPTY(t *testing.T) (*os.File, *os.File) {
	t.Helper()
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pseudo-terminals unavailable: %v", err)
	}
	t.Cleanup(func() {
		tty.Close()
		ptmx.Close()
	})
	return ptmx, tty
}

func TestNewRejectsPipe(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	if _, err := New(r, w); !errors.Is(err, ErrNotTerminal) {
		t.Errorf("New(pipe) error = %v, want ErrNotTerminal", err)
	}
}

func TestMakeRawRestore(t *testing.T) {
	_, tty := openPTY(t)

	before, err := term.GetState(int(tty.Fd()))
	if err != nil {
		t.Fatal(err)
	}

	tm, err := New(tty, tty)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := tm.MakeRaw(); err != nil {
		t.Fatalf("MakeRaw() error = %v", err)
	}
	if !tm.IsRaw() {
		t.Error("IsRaw() = false after MakeRaw")
	}

	if err := tm.Restore(); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if err := tm.Restore(); err != nil {
		t.Errorf("second Restore() error = %v", err)
	}
	if tm.IsRaw() {
		t.Error("IsRaw() = true after Restore")
	}

	after, err := term.GetState(int(tty.Fd()))
	if err != nil {
		t.Fatal(err)
	}
	if *before != *after {
		t.Error("terminal attributes differ after Restore")
	}
}

func TestRestoreWithoutRaw(t *testing.T) {
	_, tty := openPTY(t)
	tm, err := New(tty, tty)
	if err != nil {
		t.Fatal(err)
	}
	if err := tm.Restore(); err != nil {
		t.Errorf("Restore() without MakeRaw error = %v", err)
	}
}

func TestSize(t *testing.T) {
	ptmx, tty := openPTY(t)
	if err := pty.Setsize(ptmx, &pty.Winsize{Rows: 33, Cols: 101}); err != nil {
		t.Fatal(err)
	}

	tm, err := New(tty, tty)
	if err != nil {
		t.Fatal(err)
	}
	rows, cols, err := tm.Size()
	if err != nil {
		t.Fatalf("Size() error = %v", err)
	}
	if rows != 33 || cols != 101 {
		t.Errorf("Size() = %d, %d; want 33, 101", rows, cols)
	}
}
