//go:build e2e && unix

package main

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

// set by TestMain
var binPath = "logagrip_e2e"

const (
	outputLimit = 1 << 20
	waitTimeout = 3 * time.Second
	exitTimeout = 2 * time.Second
)

// Keys the browser binds by default
const (
	KeyEnter  = "\r"
	KeyEsc    = "\x1b"
	KeyCtrlC  = "\x03"
	KeyDown   = "j"
	KeyUp     = "k"
	KeyQuit   = "q"
	KeySearch = "/"
	KeyHelp   = "?"
	KeySort   = "s"
	KeyNext   = "n"
)

var escapes = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07]*\x07|\x1b[()][A-Za-z]|\x1b[=>]|\r`)

func plain(raw []byte) string {
	return escapes.ReplaceAllString(string(raw), "")
}

// home is an isolated $HOME with an AWS shared config
type home struct {
	dir string
}

func newHome(t *testing.T, profiles ...string) home {
	t.Helper()
	h := home{dir: t.TempDir()}
	if len(profiles) == 0 {
		return h
	}

	var b strings.Builder
	for _, name := range profiles {
		if name == "default" {
			b.WriteString("[default]\n")
		} else {
			b.WriteString("[profile " + name + "]\n")
		}
		b.WriteString("region = us-east-1\n\n")
	}
	if err := os.MkdirAll(filepath.Dir(h.awsConfig()), 0o755); err != nil {
		t.Fatalf("create aws dir: %v", err)
	}
	if err := os.WriteFile(h.awsConfig(), []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write aws config: %v", err)
	}
	return h
}

func (h home) awsConfig() string { return filepath.Join(h.dir, ".aws", "config") }

// configPath is where logagrip writes its config on first run
func (h home) configPath() string {
	return filepath.Join(h.dir, ".config", "logagrip", "config.toml")
}

func (h home) env() []string {
	return append(os.Environ(),
		"TERM=xterm-256color",
		"LANG=C",
		"LC_ALL=C",
		"HOME="+h.dir,
		"AWS_CONFIG_FILE="+h.awsConfig(),
		"AWS_EC2_METADATA_DISABLED=true",
	)
}

// browser is a logagrip process on a 120x40 pseudo terminal
type browser struct {
	t   *testing.T
	pty *os.File
	cmd *exec.Cmd

	mu      sync.Mutex
	out     []byte
	trimmed int

	exited  chan struct{}
	exitErr error
}

func launch(t *testing.T, h home, args ...string) *browser {
	t.Helper()
	cmd := exec.Command(binPath, args...)
	cmd.Env = h.env()

	f, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: 40, Cols: 120})
	if err != nil {
		t.Fatalf("start %s: %v", binPath, err)
	}

	b := &browser{t: t, pty: f, cmd: cmd, exited: make(chan struct{})}
	go b.capture()
	go func() {
		b.exitErr = cmd.Wait()
		close(b.exited)
	}()
	t.Cleanup(b.close)
	return b
}

// browse starts logagrip for profiles and waits for its first frame
func browse(t *testing.T, profiles []string, args ...string) *browser {
	t.Helper()
	b := launch(t, newHome(t, profiles...), args...)
	b.ready()
	return b
}

func (b *browser) capture() {
	chunk := make([]byte, 8192)
	for {
		n, err := b.pty.Read(chunk)
		if n > 0 {
			b.mu.Lock()
			b.out = append(b.out, chunk[:n]...)
			if over := len(b.out) - outputLimit; over > 0 {
				b.out = append(b.out[:0], b.out[over:]...)
				b.trimmed += over
			}
			b.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

func (b *browser) close() {
	select {
	case <-b.exited:
	default:
		_ = b.cmd.Process.Kill()
		<-b.exited
	}
	_ = b.pty.Close()
}

// mark returns the output position that later waits can start from
func (b *browser) mark() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.trimmed + len(b.out)
}

func (b *browser) screen(from int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	from -= b.trimmed
	if from < 0 {
		from = 0
	}
	return plain(b.out[from:])
}

func (b *browser) waitAfter(from int, text string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if strings.Contains(b.screen(from), text) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// see waits for text anywhere in the output
func (b *browser) see(text string) bool {
	b.t.Helper()
	return b.waitAfter(0, text, waitTimeout)
}

// seeAfter waits for text drawn after mark
func (b *browser) seeAfter(mark int, text string) bool {
	b.t.Helper()
	return b.waitAfter(mark, text, waitTimeout)
}

// ready waits until the shell holds the keys and all three regions are drawn
func (b *browser) ready() {
	b.t.Helper()
	for _, want := range []string{"focus: Shell", "Presets", "Profiles", "Groups"} {
		if !b.waitAfter(0, want, 5*time.Second) {
			b.fail("browser never drew %q", want)
		}
	}
}

// status presses keys and waits for msg on the status line
func (b *browser) status(keys, msg string) {
	b.t.Helper()
	mark := b.mark()
	b.press(keys)
	if !b.seeAfter(mark, msg) {
		b.fail("status %q never showed after %q", msg, keys)
	}
}

func (b *browser) press(keys string) {
	b.t.Helper()
	if _, err := b.pty.Write([]byte(keys)); err != nil {
		b.t.Fatalf("write %q: %v", keys, err)
	}
}

func (b *browser) up()             { b.press(KeyUp) }
func (b *browser) down()           { b.press(KeyDown) }
func (b *browser) search(q string) { b.press(KeySearch + q + KeyEnter) }

// wait blocks until the process exits or timeout passes
func (b *browser) wait(timeout time.Duration) (exited bool, err error) {
	select {
	case <-b.exited:
		return true, b.exitErr
	case <-time.After(timeout):
		return false, nil
	}
}

// exitsCleanly waits for a zero exit status
func (b *browser) exitsCleanly() {
	b.t.Helper()
	ok, err := b.wait(exitTimeout)
	if !ok {
		b.fail("browser did not exit")
	}
	if err != nil {
		b.fail("browser exited with %v", err)
	}
}

// exitsWithError waits for a non-zero exit status
func (b *browser) exitsWithError() {
	b.t.Helper()
	ok, err := b.wait(waitTimeout)
	if !ok {
		b.fail("browser kept running")
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		b.fail("expected a failing exit status, got %v", err)
	}
}

func (b *browser) fail(format string, args ...any) {
	b.t.Helper()
	tail := b.screen(0)
	if len(tail) > 4096 {
		tail = tail[len(tail)-4096:]
	}
	b.t.Fatalf(format+"\n--- screen tail ---\n%s", append(args, tail)...)
}
