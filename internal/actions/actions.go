// Package actions performs the side effects a user can trigger on a catalog
// item: sharing its link and opening it in a browser. Actions never touch
// paginator state.
package actions

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/torosent/scrollfeed/internal/catalog"
)

// DefaultOpenTimeout bounds how long the opener command may run.
const DefaultOpenTimeout = 5 * time.Second

var (
	// ErrNoURL is returned when an item has no link to act on.
	ErrNoURL = errors.New("item has no url")
	// ErrShareUnsupported is returned when no clipboard utility is available.
	ErrShareUnsupported = errors.New("clipboard is not available on this system")
)

// Sharer copies an item's link to the system clipboard.
type Sharer struct {
	write func(string) error
}

// NewSharer creates a Sharer backed by the system clipboard.
func NewSharer() *Sharer {
	return &Sharer{write: clipboard.WriteAll}
}

// Share copies the item's link and returns the text written.
func (s *Sharer) Share(item catalog.Item) (string, error) {
	if item.URL == "" {
		return "", ErrNoURL
	}
	if s.write == nil || clipboard.Unsupported {
		return "", ErrShareUnsupported
	}
	text := item.URL
	if err := s.write(text); err != nil {
		return "", fmt.Errorf("write clipboard: %w", err)
	}
	return text, nil
}

// OpenError reports a URL that could not be opened.
type OpenError struct {
	URL string
	Err error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %q: %v", e.URL, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// Runner executes an external command.
type Runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Opener opens item links with the platform opener or a configured command.
type Opener struct {
	command []string
	run     Runner
	timeout time.Duration
}

// NewOpener creates an Opener. An empty command selects the platform
// default; otherwise the command is split on whitespace and the URL is
// appended as the last argument. A nil run executes the command for real.
func NewOpener(command string, run Runner) *Opener {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		argv = platformCommand(runtime.GOOS)
	}
	if run == nil {
		run = execRunner
	}
	return &Opener{command: argv, run: run, timeout: DefaultOpenTimeout}
}

// Command returns the opener argv without the URL.
func (o *Opener) Command() []string {
	return append([]string(nil), o.command...)
}

// Open launches the opener for the item's URL. Every failure is an *OpenError.
func (o *Opener) Open(ctx context.Context, item catalog.Item) error {
	if err := checkURL(item.URL); err != nil {
		return &OpenError{URL: item.URL, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	args := append(o.command[1:len(o.command):len(o.command)], item.URL)
	if err := o.run(ctx, o.command[0], args...); err != nil {
		return &OpenError{URL: item.URL, Err: err}
	}
	return nil
}

func checkURL(raw string) error {
	if raw == "" {
		return ErrNoURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

func platformCommand(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	default:
		return []string{"xdg-open"}
	}
}
