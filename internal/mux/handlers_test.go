package mux

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dshills/sshlm/internal/input/key"
	"github.com/dshills/sshlm/internal/input/mode"
	"github.com/dshills/sshlm/internal/renderer/screen"
)

const (
	lineHotkey = "\x1d" // Ctrl+]
	quitHotkey = "\x1c" // Ctrl+\
)

func TestPassthroughForwardsVerbatim(t *testing.T) {
	h := newHarness(t, testConfig())

	h.press(t, "l", "s", "\r", "\x03", "\x1b[A")

	if got, want := h.session.Written(), "ls\r\x03\x1b[A"; got != want {
		t.Errorf("session got %q, want %q", got, want)
	}
	if h.out.String() != "" {
		t.Errorf("screen got %q, want nothing", h.out.String())
	}
}

func TestHotkeyTogglesLineMode(t *testing.T) {
	h := newHarness(t, testConfig())

	h.press(t, lineHotkey)
	if h.mux.Mode() != mode.LineBuffered {
		t.Fatalf("Mode() = %v, want line", h.mux.Mode())
	}
	if !strings.Contains(h.out.String(), "[line]") {
		t.Errorf("screen = %q, want [line] notice", h.out.String())
	}

	h.settle(t)
	h.press(t, lineHotkey)
	if h.mux.Mode() != mode.Passthrough {
		t.Fatalf("Mode() = %v, want passthrough", h.mux.Mode())
	}
	if !strings.Contains(h.out.String(), `[\line]`) {
		t.Errorf("screen = %q, want [\\line] notice", h.out.String())
	}
	if h.session.Written() != "" {
		t.Errorf("hotkeys reached the session: %q", h.session.Written())
	}
}

func enterLineMode(t *testing.T, h *harness) {
	t.Helper()
	h.press(t, lineHotkey)
	h.settle(t)
	h.out.Reset()
}

func TestLineBuffered_TypeAndDelete(t *testing.T) {
	h := newHarness(t, testConfig())
	enterLineMode(t, h)

	h.press(t, "a", "b", "\x7f")

	if got := h.mux.line.String(); got != "a" {
		t.Errorf("line = %q, want a", got)
	}
	if got, want := h.out.String(), "ab"+screen.EraseSequence(1); got != want {
		t.Errorf("screen = %q, want %q", got, want)
	}
	if h.session.Written() != "" {
		t.Errorf("session got %q before Enter", h.session.Written())
	}
}

func TestLineBuffered_DeleteOnEmpty(t *testing.T) {
	h := newHarness(t, testConfig())
	enterLineMode(t, h)

	h.press(t, "\x7f", "\x08")

	if h.out.String() != "" {
		t.Errorf("screen = %q, want nothing", h.out.String())
	}
	if h.mux.line.Len() != 0 {
		t.Errorf("line = %q, want empty", h.mux.line.String())
	}
}

func TestLineBuffered_DeleteWideRune(t *testing.T) {
	h := newHarness(t, testConfig())
	enterLineMode(t, h)

	h.press(t, "日", "\x7f")

	if got, want := h.out.String(), "日"+screen.EraseSequence(2); got != want {
		t.Errorf("screen = %q, want %q", got, want)
	}
}

func TestLineBuffered_EnterSendsLine(t *testing.T) {
	h := newHarness(t, testConfig())
	enterLineMode(t, h)

	h.press(t, "h", "e", "l", "l", "o")
	h.out.Reset()
	h.press(t, "\r")

	if got := h.session.Written(); got != "hello\r" {
		t.Errorf("session got %q, want %q", got, "hello\r")
	}
	if h.mux.line.Len() != 0 {
		t.Errorf("line = %q, want empty", h.mux.line.String())
	}
	if got, want := h.out.String(), screen.EraseSequence(5); got != want {
		t.Errorf("screen = %q, want %q", got, want)
	}
}

func TestLineBuffered_EnterOnEmptyLine(t *testing.T) {
	h := newHarness(t, testConfig())
	enterLineMode(t, h)

	h.press(t, "\r")

	if got := h.session.Written(); got != "\r" {
		t.Errorf("session got %q, want a bare CR", got)
	}
}

func TestLineBuffered_InterruptClearsLine(t *testing.T) {
	h := newHarness(t, testConfig())
	enterLineMode(t, h)

	h.press(t, "a", "b", "c", "\x03")

	if h.mux.line.Len() != 0 {
		t.Errorf("line = %q, want empty", h.mux.line.String())
	}
	out := h.out.String()
	if !strings.Contains(out, "abc"+screen.EraseSequence(3)+noticeClearedLine) {
		t.Errorf("screen = %q, want line erased then %s", out, noticeClearedLine)
	}
	if h.session.Written() != "" {
		t.Errorf("session got %q", h.session.Written())
	}
}

func TestLineBuffered_ControlCharacters(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		notice string
	}{
		{"ctrl-d", "\x04", noticeCtrlD},
		{"tab", "\t", noticeControlChars},
		{"ctrl-a", "\x01", noticeControlChars},
		{"escape", "\x1b", noticeControlChars},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, testConfig())
			enterLineMode(t, h)

			h.press(t, tt.raw)

			if got := h.out.String(); !strings.HasPrefix(got, tt.notice) {
				t.Errorf("screen = %q, want %q", got, tt.notice)
			}
			if h.session.Written() != "" || h.mux.line.Len() != 0 {
				t.Errorf("control char leaked: session %q, line %q", h.session.Written(), h.mux.line.String())
			}
		})
	}
}

func TestLineBuffered_TypesNonGraphicRunes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no-break space", "\u00a0"},
		{"ideographic space", "\u3000"},
		{"zero width joiner", "\u200d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, testConfig())
			enterLineMode(t, h)

			h.press(t, "a", tt.raw, "b")

			want := "a" + tt.raw + "b"
			if got := h.mux.line.String(); got != want {
				t.Errorf("line = %q, want %q", got, want)
			}
			if got := h.out.String(); got != want {
				t.Errorf("screen = %q, want %q", got, want)
			}
		})
	}
}

func TestLineBuffered_RejectsInvalidBytes(t *testing.T) {
	h := newHarness(t, testConfig())
	enterLineMode(t, h)

	h.press(t, "a")
	h.out.Reset()
	h.press(t, "\xff")

	if got := h.out.String(); !strings.HasPrefix(got, noticeInvalidInput) {
		t.Errorf("screen = %q, want %q", got, noticeInvalidInput)
	}
	if got := h.mux.line.String(); got != "a" {
		t.Errorf("line = %q, want a", got)
	}
	if h.session.Written() != "" {
		t.Errorf("session got %q", h.session.Written())
	}
}

func TestLineBuffered_IgnoresEscapeSequences(t *testing.T) {
	h := newHarness(t, testConfig())
	enterLineMode(t, h)

	h.press(t, "x", "\x1b[A", "\x1b[1;5C", "\x1bOP")

	if got := h.mux.line.String(); got != "x" {
		t.Errorf("line = %q, want x", got)
	}
	if got := h.out.String(); got != "x" {
		t.Errorf("screen = %q, want x", got)
	}
}

func TestLeavingLineModeCancelsEdits(t *testing.T) {
	h := newHarness(t, testConfig())
	enterLineMode(t, h)

	h.press(t, "a", "b", lineHotkey)

	if h.mux.line.Len() != 0 {
		t.Errorf("line = %q, want empty", h.mux.line.String())
	}
	if got, want := h.out.String(), "ab"+screen.EraseSequence(2)+`[\line]`; !strings.HasPrefix(got, want) {
		t.Errorf("screen = %q, want prefix %q", got, want)
	}
	if h.session.Written() != "" {
		t.Errorf("cancelled edits were sent: %q", h.session.Written())
	}
}

func TestQuitPrompt_NoReturnsToPrevious(t *testing.T) {
	for _, answer := range []string{"n", "N"} {
		t.Run(answer, func(t *testing.T) {
			h := newHarness(t, testConfig())
			enterLineMode(t, h)
			h.press(t, "a")

			h.press(t, quitHotkey)
			if h.mux.Mode() != mode.QuitPrompt {
				t.Fatalf("Mode() = %v, want quit", h.mux.Mode())
			}

			h.press(t, "q", lineHotkey, answer)

			if h.mux.Mode() != mode.LineBuffered {
				t.Errorf("Mode() = %v, want line", h.mux.Mode())
			}
			prompt := h.mux.cfg.QuitPrompt
			if got, want := h.out.String(), "a"+prompt+screen.EraseSequence(screen.Width(prompt)); got != want {
				t.Errorf("screen = %q, want %q", got, want)
			}
			if got := h.mux.line.String(); got != "a" {
				t.Errorf("line = %q, want a kept", got)
			}
			if h.mux.Over() {
				t.Error("session ended on n")
			}
		})
	}
}

func TestQuitPrompt_ConfirmEndsSession(t *testing.T) {
	for _, answer := range []string{"y", "Y", "\r"} {
		t.Run(answer, func(t *testing.T) {
			h := newHarness(t, testConfig())

			h.press(t, quitHotkey, answer)

			if !h.mux.Over() {
				t.Fatal("session not over after confirming quit")
			}
			if h.mux.Err() != nil {
				t.Errorf("Err() = %v, want nil", h.mux.Err())
			}
			if h.session.Terminated() != 1 {
				t.Errorf("Terminate called %d times, want 1", h.session.Terminated())
			}
		})
	}
}

func TestQuitPrompt_FromPassthroughReturns(t *testing.T) {
	h := newHarness(t, testConfig())

	h.press(t, quitHotkey, "n")

	if h.mux.Mode() != mode.Passthrough {
		t.Errorf("Mode() = %v, want passthrough", h.mux.Mode())
	}
	if h.session.Written() != "" {
		t.Errorf("session got %q", h.session.Written())
	}
}

func TestRouteWaitsForNotice(t *testing.T) {
	h := newHarness(t, testConfig())

	if err := h.mux.notifier.Display("[busy]", 60*time.Millisecond); err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	h.press(t, "x")

	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("keystroke routed after %v, want it held until the notice cleared", elapsed)
	}
	if got := h.session.Written(); got != "x" {
		t.Errorf("session got %q, want x", got)
	}
}

func TestRouteCancelledWhileWaiting(t *testing.T) {
	h := newHarness(t, testConfig())

	if err := h.mux.notifier.Display("[busy]", time.Hour); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.mux.route(ctx, key.FromRaw("x")); err == nil {
		t.Error("route() = nil, want context error")
	}
	if h.session.Written() != "" {
		t.Errorf("session got %q", h.session.Written())
	}
	_ = h.mux.notifier.Clear()
}

func TestSendAfterEnd(t *testing.T) {
	h := newHarness(t, testConfig())
	h.mux.End(nil)

	if err := h.mux.route(context.Background(), key.FromRaw("x")); err != ErrSessionOver {
		t.Errorf("route() error = %v, want ErrSessionOver", err)
	}
}

func TestHandlerTableCoversEveryMode(t *testing.T) {
	handlers := handlerTable()
	for _, md := range mode.All() {
		if handlers[md] == nil {
			t.Errorf("no handler for %s", md)
		}
	}
}
