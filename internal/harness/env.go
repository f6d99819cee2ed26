package harness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/pagecheck/internal/browser"
	"github.com/roach88/pagecheck/internal/ir"
)

// Sink persists the artifacts of a run.
type Sink interface {
	// ScreenshotName returns the file name a snapshot is stored under.
	ScreenshotName(name string) string
	SaveScreenshot(name string, png []byte) error
	SaveReport(report string) error
}

// Env is what a step sees of the run: the live session plus helpers that
// normalize results and persist snapshots.
type Env struct {
	Session browser.Session

	sink      Sink
	scheduler Scheduler
	logger    *slog.Logger
}

// Navigate loads url in the session.
func (e *Env) Navigate(ctx context.Context, url string) error {
	e.logger.Debug("navigate", "url", url)
	return e.Session.Navigate(ctx, url)
}

// Find locates an element by CSS selector.
func (e *Env) Find(ctx context.Context, selector string) (browser.Element, error) {
	return e.Session.Find(ctx, selector)
}

// Click finds selector and clicks it.
func (e *Env) Click(ctx context.Context, selector string) error {
	el, err := e.Find(ctx, selector)
	if err != nil {
		return err
	}
	return el.Click(ctx)
}

// Type finds selector and types text into it.
func (e *Env) Type(ctx context.Context, selector, text string) error {
	el, err := e.Find(ctx, selector)
	if err != nil {
		return err
	}
	return el.Type(ctx, text)
}

// Text finds selector and returns its text.
func (e *Env) Text(ctx context.Context, selector string) (string, error) {
	el, err := e.Find(ctx, selector)
	if err != nil {
		return "", err
	}
	return el.Text(ctx)
}

// Evaluate runs a script body in the page and returns its normalized result.
func (e *Env) Evaluate(ctx context.Context, script string) (ir.Value, error) {
	raw, err := e.Session.Evaluate(ctx, script)
	if err != nil {
		return nil, err
	}
	v, err := ir.NormalizeRaw(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize result: %w", err)
	}
	return v, nil
}

// Screenshot captures the page and hands it to the sink under name.
func (e *Env) Screenshot(ctx context.Context, name string) error {
	png, err := e.Session.Screenshot(ctx)
	if err != nil {
		return err
	}
	if e.sink != nil {
		if err := e.sink.SaveScreenshot(name, png); err != nil {
			return fmt.Errorf("save screenshot %s: %w", name, err)
		}
	}
	e.logger.Info("screenshot saved", "name", name, "bytes", len(png))
	return nil
}

// Wait suspends through the run's scheduler.
func (e *Env) Wait(ctx context.Context, d time.Duration) error {
	return e.scheduler.Wait(ctx, d)
}

// Logger returns the run logger.
func (e *Env) Logger() *slog.Logger {
	return e.logger
}
