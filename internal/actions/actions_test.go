package actions

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/torosent/scrollfeed/internal/catalog"
)

var testItem = catalog.Item{
	ID:     1,
	Title:  "DevExtreme Roadmap (Angular, React, Vue, jQuery)",
	Author: "Vlada",
	URL:    "https://community.devexpress.com/blogs/javascript/archive/2023/02/22/devextreme-components-roadmap-2023-1.aspx",
}

func TestShareWritesURLOnly(t *testing.T) {
	var got string
	s := &Sharer{write: func(text string) error {
		got = text
		return nil
	}}

	text, err := s.Share(testItem)
	if err != nil {
		if errors.Is(err, ErrShareUnsupported) {
			t.Skip("clipboard unsupported on this host")
		}
		t.Fatalf("Share() error = %v", err)
	}
	want := testItem.URL
	if strings.Contains(got, testItem.Title) {
		t.Errorf("clipboard text %q includes the title", got)
	}
	if text != want || got != want {
		t.Fatalf("Share() = %q (wrote %q), want %q", text, got, want)
	}
}

func TestShareErrors(t *testing.T) {
	s := &Sharer{write: func(string) error { return errors.New("no display") }}

	if _, err := s.Share(catalog.Item{Title: "x"}); !errors.Is(err, ErrNoURL) {
		t.Fatalf("Share(no url) error = %v, want ErrNoURL", err)
	}

	_, err := s.Share(testItem)
	if err == nil {
		t.Fatal("Share() error = nil, want clipboard failure")
	}
	if !errors.Is(err, ErrShareUnsupported) && !strings.Contains(err.Error(), "no display") {
		t.Fatalf("Share() error = %v", err)
	}

	var nilWriter Sharer
	if _, err := nilWriter.Share(testItem); !errors.Is(err, ErrShareUnsupported) {
		t.Fatalf("Share() with no writer error = %v, want ErrShareUnsupported", err)
	}
}

func TestOpenRunsConfiguredCommand(t *testing.T) {
	var gotName string
	var gotArgs []string
	o := NewOpener("firefox --new-tab", func(ctx context.Context, name string, args ...string) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("opener context has no deadline")
		}
		gotName, gotArgs = name, args
		return nil
	})

	if err := o.Open(context.Background(), testItem); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if gotName != "firefox" {
		t.Errorf("command = %q, want firefox", gotName)
	}
	if want := []string{"--new-tab", testItem.URL}; !reflect.DeepEqual(gotArgs, want) {
		t.Errorf("args = %v, want %v", gotArgs, want)
	}

	// a second call must not reuse the previous URL slot
	other := testItem
	other.URL = "https://example.com/other"
	if err := o.Open(context.Background(), other); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if want := []string{"--new-tab", other.URL}; !reflect.DeepEqual(gotArgs, want) {
		t.Errorf("args = %v, want %v", gotArgs, want)
	}
	if want := []string{"firefox", "--new-tab"}; !reflect.DeepEqual(o.Command(), want) {
		t.Errorf("Command() = %v, want %v", o.Command(), want)
	}
}

func TestOpenFailuresAreOpenErrors(t *testing.T) {
	runErr := errors.New("exit status 3")
	failing := NewOpener("xdg-open", func(context.Context, string, ...string) error { return runErr })
	calls := 0
	counting := NewOpener("xdg-open", func(context.Context, string, ...string) error {
		calls++
		return nil
	})

	tests := []struct {
		name    string
		opener  *Opener
		url     string
		wantErr error
		wantMsg string
	}{
		{"runner failure", failing, testItem.URL, runErr, "exit status 3"},
		{"empty url", counting, "", ErrNoURL, "item has no url"},
		{"bad scheme", counting, "javascript:alert(1)", nil, "unsupported scheme"},
		{"no host", counting, "https://", nil, "missing host"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := testItem
			item.URL = tt.url
			err := tt.opener.Open(context.Background(), item)

			var openErr *OpenError
			if !errors.As(err, &openErr) {
				t.Fatalf("Open() error = %v, want *OpenError", err)
			}
			if openErr.URL != tt.url {
				t.Errorf("OpenError.URL = %q, want %q", openErr.URL, tt.url)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Open() error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Open() error = %q, want substring %q", err, tt.wantMsg)
			}
		})
	}
	if calls != 0 {
		t.Fatalf("runner called %d times for invalid urls", calls)
	}
}

func TestPlatformCommand(t *testing.T) {
	tests := map[string][]string{
		"linux":   {"xdg-open"},
		"freebsd": {"xdg-open"},
		"darwin":  {"open"},
		"windows": {"rundll32", "url.dll,FileProtocolHandler"},
	}
	for goos, want := range tests {
		if got := platformCommand(goos); !reflect.DeepEqual(got, want) {
			t.Errorf("platformCommand(%q) = %v, want %v", goos, got, want)
		}
	}
}

func TestNewOpenerDefaultsToPlatform(t *testing.T) {
	o := NewOpener("  ", nil)
	if len(o.Command()) == 0 {
		t.Fatal("Command() is empty")
	}
	if o.run == nil {
		t.Fatal("run is nil")
	}
}
