package search

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Browser renders a results page in headless Chrome for engines where
// the static HTML comes back empty. One allocator is shared; each render
// runs in its own tab context.
type Browser struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	logger   *zap.Logger
}

func NewBrowser(logger *zap.Logger, proxyURL string) *Browser {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(profiles[rand.Intn(len(profiles))].userAgent),
	)
	if proxyURL != "" {
		opts = append(opts, chromedp.ProxyServer(proxyURL))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &Browser{
		allocCtx: allocCtx,
		cancel:   cancel,
		logger:   logger,
	}
}

// Render navigates to the URL and returns the DOM after scripts settle.
func (b *Browser) Render(ctx context.Context, pageURL string) ([]byte, error) {
	tabCtx, cancelTab := chromedp.NewContext(b.allocCtx)
	defer cancelTab()

	runCtx, cancelRun := context.WithTimeout(tabCtx, 30*time.Second)
	defer cancelRun()

	var rendered string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.OuterHTML("html", &rendered),
	)
	if err != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		return nil, fmt.Errorf("failed to render page: %w", err)
	}

	b.logger.Debug("browser_render",
		zap.String("url", pageURL),
		zap.Int("html_size", len(rendered)))

	return []byte(rendered), nil
}

func (b *Browser) Close() {
	b.cancel()
}
