// Package browser abstracts a headless browser session behind a small
// capability interface, so page extraction logic can be tested against a
// fake without driving a real browser.
package browser

import "context"

// Session is one exclusive browser tab. Implementations must be released
// with Close on every exit path; a Session is not safe for concurrent use.
type Session interface {
	// Navigate loads the given URL and returns once the DOM is ready.
	Navigate(ctx context.Context, url string) error
	// WaitVisible blocks until the selector matches a visible element or the
	// wait budget elapses. A timeout is returned as an error; callers decide
	// whether that is fatal (pages may legitimately render empty).
	WaitVisible(ctx context.Context, selector string) error
	// HTML returns the rendered document markup.
	HTML(ctx context.Context) (string, error)
	// ClickIfPresent clicks the first element matching selector. It reports
	// false when no such element exists, which pagination treats as "no more
	// pages" rather than an error.
	ClickIfPresent(ctx context.Context, selector string) (bool, error)
	// Close releases the underlying browser resources.
	Close() error
}

// Launcher opens fresh browser sessions. Each harvesting call owns exactly
// one session, so concurrent harvests never share browser state.
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}
