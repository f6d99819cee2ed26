// Package cdp drives Chrome over the DevTools protocol with chromedp.
package cdp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/roach88/pagecheck/internal/browser"
	"github.com/roach88/pagecheck/internal/ir"
)

// screenshotQuality of 100 makes FullScreenshot produce a PNG.
const screenshotQuality = 100

// Launcher starts a local Chrome through chromedp's exec allocator.
type Launcher struct {
	// ExecPath overrides the Chrome binary lookup.
	ExecPath string
}

// Launch implements browser.Launcher.
func (l Launcher) Launch(ctx context.Context, opts browser.Options) (browser.Session, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
	)
	if opts.Width > 0 && opts.Height > 0 {
		allocOpts = append(allocOpts, chromedp.WindowSize(opts.Width, opts.Height))
	}
	if l.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(l.ExecPath))
	}

	// The browser outlives the launch call; it is bound to Close, not ctx.
	parent := context.WithoutCancel(ctx)
	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocOpts...)

	var ctxOpts []chromedp.ContextOption
	if opts.Logger != nil {
		logger := opts.Logger
		ctxOpts = append(ctxOpts,
			chromedp.WithLogf(func(format string, args ...any) {
				logger.Debug(fmt.Sprintf(format, args...), "source", "chromedp")
			}),
			chromedp.WithErrorf(func(format string, args ...any) {
				logger.Warn(fmt.Sprintf(format, args...), "source", "chromedp")
			}),
		)
	}
	browserCtx, browserCancel := chromedp.NewContext(allocCtx, ctxOpts...)

	cancel := func() {
		browserCancel()
		allocCancel()
	}
	if opts.Timeout > 0 {
		var timeoutCancel context.CancelFunc
		browserCtx, timeoutCancel = context.WithTimeout(browserCtx, opts.Timeout)
		prev := cancel
		cancel = func() {
			timeoutCancel()
			prev()
		}
	}

	// The first Run starts the browser process.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		return nil, browser.Wrap("launch", err)
	}

	return &Session{ctx: browserCtx, cancel: cancel}, nil
}

// Session is a running Chrome tab.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// run executes actions on the browser context while honouring the caller's
// cancellation.
func (s *Session) run(ctx context.Context, op string, actions ...chromedp.Action) error {
	if s.closed {
		return browser.ErrSessionClosed
	}
	runCtx, stop := context.WithCancel(s.ctx)
	defer stop()
	unwatch := context.AfterFunc(ctx, stop)
	defer unwatch()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return browser.Wrap(op, err)
	}
	return nil
}

// Navigate implements browser.Session.
func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, "navigate", chromedp.Navigate(url))
}

// Find implements browser.Session. It does not wait for the selector to
// appear; scenarios wait explicitly.
func (s *Session) Find(ctx context.Context, selector string) (browser.Element, error) {
	quoted, err := json.Marshal(selector)
	if err != nil {
		return nil, err
	}
	var found bool
	probe := fmt.Sprintf("document.querySelector(%s) !== null", quoted)
	if err := s.run(ctx, "find", chromedp.Evaluate(probe, &found)); err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", browser.ErrElementNotFound, selector)
	}
	return &Element{session: s, selector: selector}, nil
}

// Evaluate implements browser.Session. The script is a function body and is
// wrapped in an immediately invoked function. The result is decoded from
// the protocol's JSON with ir.DecodeRemoteJSON, so integers keep full
// precision. A script returning undefined yields ir.Undefined.
func (s *Session) Evaluate(ctx context.Context, script string) (any, error) {
	var raw []byte
	err := s.run(ctx, "evaluate", chromedp.Evaluate(wrapScript(script), &raw))
	if errors.Is(err, chromedp.ErrJSUndefined) {
		return ir.Undefined, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeResult(raw)
}

// decodeResult classifies a by-value result. An empty payload is how the
// protocol reports undefined.
func decodeResult(raw []byte) (any, error) {
	if len(raw) == 0 {
		return ir.Undefined, nil
	}
	r, err := ir.DecodeRemoteJSON(raw)
	if err != nil {
		return nil, browser.Wrap("evaluate", err)
	}
	return r, nil
}

func wrapScript(body string) string {
	return "(() => {\n" + body + "\n})()"
}

// Screenshot implements browser.Session.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := s.run(ctx, "screenshot", chromedp.FullScreenshot(&buf, screenshotQuality)); err != nil {
		return nil, err
	}
	return buf, nil
}

// Wait implements browser.Session.
func (s *Session) Wait(ctx context.Context, d time.Duration) error {
	return s.run(ctx, "wait", chromedp.Sleep(d))
}

// Close shuts the browser down gracefully. Later calls return
// browser.ErrSessionClosed.
func (s *Session) Close(_ context.Context) error {
	if s.closed {
		return browser.ErrSessionClosed
	}
	s.closed = true
	defer s.cancel()
	return browser.Wrap("close", chromedp.Cancel(s.ctx))
}

// Element addresses a node by its CSS selector.
type Element struct {
	session  *Session
	selector string
}

// Click implements browser.Element.
func (e *Element) Click(ctx context.Context) error {
	return e.session.run(ctx, "click", chromedp.Click(e.selector, chromedp.ByQuery, chromedp.NodeVisible))
}

// Type implements browser.Element.
func (e *Element) Type(ctx context.Context, text string) error {
	return e.session.run(ctx, "type", chromedp.SendKeys(e.selector, text, chromedp.ByQuery))
}

// Text implements browser.Element.
func (e *Element) Text(ctx context.Context) (string, error) {
	var text string
	if err := e.session.run(ctx, "text", chromedp.Text(e.selector, &text, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return text, nil
}
