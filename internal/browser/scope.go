package browser

import (
	"context"
	"errors"
)

// WithSession launches a session, passes it to fn and closes it exactly once
// when fn returns or panics.
//
// A launch failure is returned as *LaunchError and fn is not called. A close
// failure is returned as *CloseError, joined with fn's error if there is one.
// Close runs with a context detached from ctx's cancellation, so an
// interrupted run still releases the browser.
func WithSession(ctx context.Context, l Launcher, opts Options, fn func(Session) error) (err error) {
	s, err := l.Launch(ctx, opts)
	if err != nil {
		return &LaunchError{Err: err}
	}

	defer func() {
		if cerr := s.Close(context.WithoutCancel(ctx)); cerr != nil {
			err = errors.Join(err, &CloseError{Err: cerr})
		}
	}()

	return fn(s)
}
