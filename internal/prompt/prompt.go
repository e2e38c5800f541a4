// Package prompt asks the user to confirm destructive actions and shows
// notices, independent of whether the user sits at a terminal or a browser.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Prompter is how non-UI code talks to the user.
type Prompter interface {
	// Confirm asks a yes/no question. It returns false when ctx is done.
	Confirm(ctx context.Context, message string) bool
	// Notify shows an informational or warning message.
	Notify(ctx context.Context, message string)
}

// Terminal prompts on a line-oriented terminal. A single goroutine reads the
// input for the life of the Terminal, so a Confirm abandoned on ctx never
// strands a reader that would swallow the next answer.
type Terminal struct {
	mu    sync.Mutex
	in    *bufio.Reader
	out   io.Writer
	once  sync.Once
	lines chan string
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out, lines: make(chan string)}
}

func (t *Terminal) readLoop() {
	defer close(t.lines)
	for {
		line, err := t.in.ReadString('\n')
		if line != "" {
			t.lines <- line
		}
		if err != nil {
			return
		}
	}
}

// next waits for the next input line. It returns io.EOF once the input is
// exhausted and ctx.Err() when ctx is done first; an unread line stays
// queued for the following call.
func (t *Terminal) next(ctx context.Context) (string, error) {
	t.once.Do(func() { go t.readLoop() })
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-t.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}

func (t *Terminal) Confirm(ctx context.Context, message string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ctx.Err() != nil {
		return false
	}
	fmt.Fprintf(t.out, "%s [y/N]: ", message)

	line, err := t.next(ctx)
	if err != nil {
		fmt.Fprintln(t.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// ReadLine prints label and returns the next line without its line ending.
func (t *Terminal) ReadLine(ctx context.Context, label string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(t.out, label)
	return t.next(ctx)
}

func (t *Terminal) Notify(ctx context.Context, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "! %s\n", message)
}

// Recorder collects notices so an HTTP handler can return them, and answers
// every Confirm with a fixed value.
type Recorder struct {
	mu      sync.Mutex
	answer  bool
	notices []string
	asked   []string
}

func NewRecorder(answer bool) *Recorder {
	return &Recorder{answer: answer}
}

func (r *Recorder) Confirm(ctx context.Context, message string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.asked = append(r.asked, message)
	return r.answer && ctx.Err() == nil
}

func (r *Recorder) Notify(ctx context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, message)
}

// Notices returns a copy of the recorded notices.
func (r *Recorder) Notices() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.notices...)
}

// Asked returns the questions Confirm was called with.
func (r *Recorder) Asked() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.asked...)
}
