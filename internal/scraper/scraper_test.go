package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/Sarthak-Malla/gradsearch-demo/internal/browser"
)

// fakeSession serves canned HTML pages; ClickIfPresent advances to the next
// page and reports false once none remain, mirroring a disabled or missing
// next-page control.
type fakeSession struct {
	pages     []string
	page      int
	navErr    error
	waitErr   error
	waitCalls int
	htmlErr   error
	clickErr  error
	closed    bool
}

func (s *fakeSession) Navigate(ctx context.Context, url string) error { return s.navErr }

func (s *fakeSession) WaitVisible(ctx context.Context, selector string) error {
	s.waitCalls++
	return s.waitErr
}

func (s *fakeSession) HTML(ctx context.Context) (string, error) {
	if s.htmlErr != nil {
		return "", s.htmlErr
	}
	if s.page >= len(s.pages) {
		return "<html></html>", nil
	}
	return s.pages[s.page], nil
}

func (s *fakeSession) ClickIfPresent(ctx context.Context, selector string) (bool, error) {
	if s.clickErr != nil {
		return false, s.clickErr
	}
	if s.page+1 >= len(s.pages) {
		return false, nil
	}
	s.page++
	return true, nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeLauncher struct {
	sess      *fakeSession
	launchErr error
}

func (l *fakeLauncher) Launch(ctx context.Context) (browser.Session, error) {
	if l.launchErr != nil {
		return nil, l.launchErr
	}
	return l.sess, nil
}

var errBoom = errors.New("boom")

// ── shared search loop ─────────────────────────────────────────────────────

func TestSearch_LaunchFailurePropagates(t *testing.T) {
	ex := NewLinkedIn(&fakeLauncher{launchErr: errBoom})
	if _, err := ex.Search(context.Background(), "Remote", 3); !errors.Is(err, errBoom) {
		t.Errorf("Search with launch failure returned err=%v, want %v", err, errBoom)
	}
}

func TestSearch_NavigationFailureYieldsEmptyNotError(t *testing.T) {
	sess := &fakeSession{navErr: errBoom}
	ex := NewLinkedIn(&fakeLauncher{sess: sess})

	listings, err := ex.Search(context.Background(), "Remote", 3)
	if err != nil {
		t.Fatalf("Search returned unexpected error: %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("Search after navigation failure returned %d listings, want 0", len(listings))
	}
	if !sess.closed {
		t.Error("session was not closed on the navigation-failure path")
	}
}

func TestSearch_SelectorTimeoutProceedsAnyway(t *testing.T) {
	sess := &fakeSession{waitErr: errBoom, pages: []string{linkedInSearchHTML}}
	ex := NewLinkedIn(&fakeLauncher{sess: sess})

	listings, err := ex.Search(context.Background(), "Remote", 1)
	if err != nil {
		t.Fatalf("Search returned unexpected error: %v", err)
	}
	if len(listings) != 2 {
		t.Errorf("Search after selector timeout returned %d listings, want 2", len(listings))
	}
}

func TestSearch_StopsWhenNextControlAbsent(t *testing.T) {
	// Only one page exists; asking for three must process exactly one and
	// stop without error.
	sess := &fakeSession{pages: []string{linkedInSearchHTML}}
	ex := NewLinkedIn(&fakeLauncher{sess: sess})

	listings, err := ex.Search(context.Background(), "Remote", 3)
	if err != nil {
		t.Fatalf("Search returned unexpected error: %v", err)
	}
	if len(listings) != 2 {
		t.Errorf("Search returned %d listings, want 2 (one page's worth)", len(listings))
	}
	if !sess.closed {
		t.Error("session was not closed after search")
	}
}

func TestSearch_PagesThroughAllResults(t *testing.T) {
	sess := &fakeSession{pages: []string{linkedInSearchHTML, linkedInSearchHTMLPage2}}
	ex := NewLinkedIn(&fakeLauncher{sess: sess})
	ex.settleDelay = 0

	listings, err := ex.Search(context.Background(), "Remote", 2)
	if err != nil {
		t.Fatalf("Search returned unexpected error: %v", err)
	}
	if len(listings) != 3 {
		t.Errorf("Search across 2 pages returned %d listings, want 3", len(listings))
	}
}

func TestSearch_ReawaitsResultsAfterPaging(t *testing.T) {
	// Pagination is script-driven; each page turn must wait for the results
	// container again rather than trusting the settle delay alone.
	sess := &fakeSession{pages: []string{linkedInSearchHTML, linkedInSearchHTMLPage2}}
	ex := NewLinkedIn(&fakeLauncher{sess: sess})
	ex.settleDelay = 0

	if _, err := ex.Search(context.Background(), "Remote", 2); err != nil {
		t.Fatalf("Search returned unexpected error: %v", err)
	}
	// One wait after the initial navigation plus one per page turn.
	if sess.waitCalls != 2 {
		t.Errorf("WaitVisible called %d times, want 2", sess.waitCalls)
	}
}

func TestSearch_DoesNotClickPastRequestedPages(t *testing.T) {
	sess := &fakeSession{pages: []string{linkedInSearchHTML, linkedInSearchHTMLPage2}}
	ex := NewLinkedIn(&fakeLauncher{sess: sess})

	listings, err := ex.Search(context.Background(), "Remote", 1)
	if err != nil {
		t.Fatalf("Search returned unexpected error: %v", err)
	}
	if len(listings) != 2 {
		t.Errorf("Search with pages=1 returned %d listings, want 2", len(listings))
	}
	if sess.page != 0 {
		t.Errorf("Search with pages=1 advanced to page index %d, want 0", sess.page)
	}
}
