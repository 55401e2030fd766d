package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
)

// Browser drives one headless Chrome tab for adapters whose platform has no
// stable HTTP surface. One Browser per Collect invocation; adapters stay
// stateless by closing it before returning.
type Browser struct {
	ctx     context.Context
	cancels []context.CancelFunc
}

func NewBrowser(ctx context.Context) (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// Spinning up the tab eagerly surfaces "chrome not installed" class
	// failures at construction time instead of on first navigation.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, errors.Wrap(err, "fail to start headless chrome")
	}

	return &Browser{ctx: tabCtx, cancels: []context.CancelFunc{cancelTab, cancelAlloc}}, nil
}

// Visit navigates to url and waits settle for dynamic content to render.
func (b *Browser) Visit(url string, settle time.Duration) error {
	return chromedp.Run(b.ctx,
		chromedp.Navigate(url),
		chromedp.Sleep(settle),
	)
}

// ScrollBy scrolls the page down px pixels, triggering lazy loaded content.
func (b *Browser) ScrollBy(px int) error {
	return chromedp.Run(b.ctx,
		chromedp.Evaluate(fmt.Sprintf("window.scrollBy(0, %d)", px), nil),
	)
}

// Click clicks the first match of sel if present.
func (b *Browser) Click(sel string) error {
	return chromedp.Run(b.ctx, chromedp.Click(sel, chromedp.ByQuery, chromedp.NodeVisible))
}

// Document snapshots the rendered page into a goquery document.
func (b *Browser) Document() (*goquery.Document, error) {
	var html string
	if err := chromedp.Run(b.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, errors.Wrap(err, "fail to snapshot page")
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (b *Browser) Close() {
	for _, cancel := range b.cancels {
		cancel()
	}
}
