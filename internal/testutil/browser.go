package testutil

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/pagecheck/internal/browser"
)

// FakeLauncher hands out a single FakeSession.
//
// Not safe for concurrent use; the harness is sequential.
type FakeLauncher struct {
	Session   *FakeSession
	LaunchErr error
	// LastOptions holds the options of the most recent Launch.
	LastOptions browser.Options

	launches int
}

// NewFakeLauncher creates a launcher with an empty FakeSession.
func NewFakeLauncher() *FakeLauncher {
	return &FakeLauncher{Session: NewFakeSession()}
}

// Launch implements browser.Launcher.
func (l *FakeLauncher) Launch(_ context.Context, opts browser.Options) (browser.Session, error) {
	l.LastOptions = opts
	if l.LaunchErr != nil {
		return nil, l.LaunchErr
	}
	l.launches++
	return l.Session, nil
}

// Launches returns the number of successful launches.
func (l *FakeLauncher) Launches() int {
	return l.launches
}

// FakeSession is a scriptable browser.Session.
//
// Elements are looked up by exact selector. Evaluate calls OnEvaluate when
// set, otherwise returns Results[script] or nil. Every call is appended to
// Calls as "<op> <arg>" for order assertions.
type FakeSession struct {
	Elements      map[string]*FakeElement
	Results       map[string]any
	OnEvaluate    func(script string) (any, error)
	NavigateErr   map[string]error
	ScreenshotErr error
	CloseErr      error

	Calls   []string
	URLs    []string
	Waits   []time.Duration
	Scripts []string

	shots       int
	closeCalls  int
	closed      bool
	closeCtxErr error
}

// NewFakeSession creates an empty session.
func NewFakeSession() *FakeSession {
	return &FakeSession{
		Elements:    make(map[string]*FakeElement),
		Results:     make(map[string]any),
		NavigateErr: make(map[string]error),
	}
}

// AddElement registers an element under selector and returns it.
func (s *FakeSession) AddElement(selector, text string) *FakeElement {
	el := &FakeElement{Selector: selector, Content: text, session: s}
	s.Elements[selector] = el
	return el
}

func (s *FakeSession) call(op, arg string) error {
	s.Calls = append(s.Calls, strings.TrimSpace(op+" "+arg))
	if s.closed {
		return browser.ErrSessionClosed
	}
	return nil
}

// Navigate implements browser.Session.
func (s *FakeSession) Navigate(_ context.Context, url string) error {
	if err := s.call("navigate", url); err != nil {
		return err
	}
	s.URLs = append(s.URLs, url)
	if err := s.NavigateErr[url]; err != nil {
		return browser.Wrap("navigate", err)
	}
	return nil
}

// Find implements browser.Session.
func (s *FakeSession) Find(_ context.Context, selector string) (browser.Element, error) {
	if err := s.call("find", selector); err != nil {
		return nil, err
	}
	el, ok := s.Elements[selector]
	if !ok {
		return nil, fmt.Errorf("%w: %s", browser.ErrElementNotFound, selector)
	}
	return el, nil
}

// Evaluate implements browser.Session.
func (s *FakeSession) Evaluate(_ context.Context, script string) (any, error) {
	if err := s.call("evaluate", ""); err != nil {
		return nil, err
	}
	s.Scripts = append(s.Scripts, script)
	if s.OnEvaluate != nil {
		return s.OnEvaluate(script)
	}
	return s.Results[script], nil
}

// Screenshot implements browser.Session. The bytes identify the shot.
func (s *FakeSession) Screenshot(_ context.Context) ([]byte, error) {
	if err := s.call("screenshot", ""); err != nil {
		return nil, err
	}
	if s.ScreenshotErr != nil {
		return nil, browser.Wrap("screenshot", s.ScreenshotErr)
	}
	s.shots++
	return []byte(fmt.Sprintf("png-%d", s.shots)), nil
}

// Wait implements browser.Session.
func (s *FakeSession) Wait(ctx context.Context, d time.Duration) error {
	if err := s.call("wait", d.String()); err != nil {
		return err
	}
	s.Waits = append(s.Waits, d)
	return ctx.Err()
}

// Close implements browser.Session. Only the first call reaches CloseErr.
func (s *FakeSession) Close(ctx context.Context) error {
	s.Calls = append(s.Calls, "close")
	s.closeCalls++
	if s.closed {
		return browser.ErrSessionClosed
	}
	s.closed = true
	s.closeCtxErr = ctx.Err()
	return s.CloseErr
}

// CloseCalls returns how many times Close was called.
func (s *FakeSession) CloseCalls() int {
	return s.closeCalls
}

// CloseCtxErr returns the error of the context seen by the first Close.
func (s *FakeSession) CloseCtxErr() error {
	return s.closeCtxErr
}

// Shots returns the number of screenshots taken.
func (s *FakeSession) Shots() int {
	return s.shots
}

// FakeElement is a scriptable browser.Element.
type FakeElement struct {
	Selector string
	Content  string
	ClickErr error
	TypeErr  error
	// OnClick runs after a successful click, e.g. to reveal other elements.
	OnClick func()

	Clicks int
	Typed  []string

	session *FakeSession
}

// Click implements browser.Element.
func (e *FakeElement) Click(_ context.Context) error {
	if err := e.session.call("click", e.Selector); err != nil {
		return err
	}
	if e.ClickErr != nil {
		return browser.Wrap("click", e.ClickErr)
	}
	e.Clicks++
	if e.OnClick != nil {
		e.OnClick()
	}
	return nil
}

// Type implements browser.Element. Typed text is appended to Content.
func (e *FakeElement) Type(_ context.Context, text string) error {
	if err := e.session.call("type", e.Selector); err != nil {
		return err
	}
	if e.TypeErr != nil {
		return browser.Wrap("type", e.TypeErr)
	}
	e.Typed = append(e.Typed, text)
	e.Content += text
	return nil
}

// Text implements browser.Element.
func (e *FakeElement) Text(_ context.Context) (string, error) {
	if err := e.session.call("text", e.Selector); err != nil {
		return "", err
	}
	return e.Content, nil
}

// RecordingScheduler records requested waits without sleeping.
type RecordingScheduler struct {
	Waits []time.Duration
}

// Wait records d and returns ctx.Err().
func (s *RecordingScheduler) Wait(ctx context.Context, d time.Duration) error {
	s.Waits = append(s.Waits, d)
	return ctx.Err()
}

// Total returns the sum of all recorded waits.
func (s *RecordingScheduler) Total() time.Duration {
	var total time.Duration
	for _, d := range s.Waits {
		total += d
	}
	return total
}
