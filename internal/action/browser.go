package action

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// firstResult selects the thumbnail link of the first video on a YouTube
// results page.
const firstResult = "ytd-video-renderer a#thumbnail"

// Browser plays videos in a Chrome instance driven over the DevTools
// protocol. The browser is started on first use and each query opens a new
// tab that keeps playing after the call returns.
type Browser struct {
	headless bool
	timeout  time.Duration
	execPath string
	logger   *slog.Logger

	mu            sync.Mutex
	browserCtx    context.Context
	cancelAlloc   context.CancelFunc
	cancelBrowser context.CancelFunc
}

// NewBrowser creates a Browser. An empty execPath lets chromedp locate Chrome.
func NewBrowser(headless bool, timeout time.Duration, execPath string, logger *slog.Logger) *Browser {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Browser{headless: headless, timeout: timeout, execPath: execPath, logger: logger}
}

// Play opens the results page for query and clicks the first video.
func (b *Browser) Play(ctx context.Context, query string) error {
	browserCtx, err := b.ensure()
	if err != nil {
		return err
	}

	// The tab must remain open after we return, so its context is never
	// cancelled here. Close tears every tab down with the browser.
	tabCtx, _ := chromedp.NewContext(browserCtx)
	if err := chromedp.Run(tabCtx); err != nil {
		return fmt.Errorf("browser: opening tab: %w", err)
	}

	runCtx, cancel := context.WithTimeout(tabCtx, b.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	u := YouTubeResultsURL(query)
	b.logger.Info("playing video", "query", query, "url", u)

	err = chromedp.Run(runCtx,
		chromedp.Navigate(u),
		chromedp.WaitVisible(firstResult, chromedp.ByQuery),
		chromedp.Click(firstResult, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("browser: playing %q: %w", query, err)
	}
	return nil
}

// Close shuts the browser down. It is safe to call when the browser never
// started.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browserCtx == nil {
		return
	}
	b.cancelBrowser()
	b.cancelAlloc()
	b.browserCtx = nil
}

func (b *Browser) ensure() (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browserCtx != nil {
		return b.browserCtx, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.headless),
		chromedp.Flag("autoplay-policy", "no-user-gesture-required"),
	)
	if b.execPath != "" {
		opts = append(opts, chromedp.ExecPath(b.execPath))
	}

	// The browser outlives individual requests.
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("browser: starting chrome: %w", err)
	}

	b.logger.Info("browser started", "headless", b.headless)
	b.browserCtx = browserCtx
	b.cancelAlloc = cancelAlloc
	b.cancelBrowser = cancelBrowser
	return browserCtx, nil
}
