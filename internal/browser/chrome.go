package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/96.0.4664.110 Safari/537.36"

	navigateTimeout = 60 * time.Second
	selectorTimeout = 10 * time.Second
	actionTimeout   = 15 * time.Second
)

// ChromeLauncher launches headless Chrome tabs via chromedp.
type ChromeLauncher struct{}

// NewChromeLauncher constructs a launcher with the default headless options.
func NewChromeLauncher() *ChromeLauncher { return &ChromeLauncher{} }

// Launch starts a headless Chrome process and opens one tab. The returned
// session owns the process; Close tears both down.
func (l *ChromeLauncher) Launch(ctx context.Context) (Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.UserAgent(defaultUserAgent),
		chromedp.WindowSize(1280, 800),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// Force the browser to actually start so launch failures surface here,
	// not on the first navigation.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	return &chromeSession{
		tabCtx: tabCtx,
		cancel: func() {
			cancelTab()
			cancelAlloc()
		},
	}, nil
}

type chromeSession struct {
	tabCtx context.Context
	cancel context.CancelFunc
}

func (s *chromeSession) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(s.tabCtx, timeout)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, navigateTimeout, chromedp.Navigate(url))
}

func (s *chromeSession) WaitVisible(ctx context.Context, selector string) error {
	return s.run(ctx, selectorTimeout, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (s *chromeSession) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, actionTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

func (s *chromeSession) ClickIfPresent(ctx context.Context, selector string) (bool, error) {
	var nodes []*cdp.Node
	err := s.run(ctx, actionTimeout, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		return false, err
	}
	if len(nodes) == 0 {
		return false, nil
	}
	if err := s.run(ctx, actionTimeout, chromedp.Click(selector, chromedp.ByQuery)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *chromeSession) Close() error {
	s.cancel()
	return nil
}
