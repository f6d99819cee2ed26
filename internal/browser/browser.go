// Package browser defines the contract between the harness and the
// automation client that drives a real browser.
//
// The harness only ever talks to a Session. Concrete clients live in
// subpackages (see cdp); tests use the fakes in internal/testutil.
package browser

import (
	"context"
	"log/slog"
	"time"
)

// Options configures a browser launch.
type Options struct {
	Headless bool
	// Width and Height set the window size. Zero keeps the client default.
	Width  int
	Height int
	// Timeout bounds the whole session. Zero means no limit.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Launcher starts browser sessions.
type Launcher interface {
	Launch(ctx context.Context, opts Options) (Session, error)
}

// Session is one running browser.
//
// Evaluate runs a script body (a function body that may `return` a value)
// in the page and hands back whatever the client decoded. Results may carry
// client-specific wrappers; callers normalize them with ir.NormalizeRaw.
type Session interface {
	Navigate(ctx context.Context, url string) error
	Find(ctx context.Context, selector string) (Element, error)
	Evaluate(ctx context.Context, script string) (any, error)
	// Screenshot returns a PNG of the full page.
	Screenshot(ctx context.Context) ([]byte, error)
	Wait(ctx context.Context, d time.Duration) error
	Close(ctx context.Context) error
}

// Element is a node located by Find.
type Element interface {
	Click(ctx context.Context) error
	Type(ctx context.Context, text string) error
	Text(ctx context.Context) (string, error)
}
