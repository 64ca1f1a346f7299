// Package fetch - browser.go provides headless browser rendering for script-heavy job boards.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Renderer produces fully rendered HTML for a URL.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// RenderOptions configures the headless browser session.
type RenderOptions struct {
	UserAgent         string
	Width, Height     int
	Locale            string
	Timezone          string
	NavigationTimeout time.Duration
	SelectorTimeout   time.Duration
	SettleTime        time.Duration
	// ExecPath overrides the Chrome binary; empty uses chromedp's lookup.
	ExecPath string
}

// DefaultRenderOptions returns the desktop-browser profile used for rendering.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Width:             1280,
		Height:            900,
		Locale:            "en-US",
		Timezone:          "America/Toronto",
		NavigationTimeout: 20 * time.Second,
		SelectorTimeout:   6 * time.Second,
		SettleTime:        1500 * time.Millisecond,
	}
}

// ChromeRenderer renders pages in a fresh headless Chrome per call.
// Requires Chrome/Chromium to be installed on the system.
type ChromeRenderer struct {
	opts   RenderOptions
	logger *zap.Logger
}

// NewChromeRenderer creates a renderer; zero-valued options fall back to defaults.
func NewChromeRenderer(opts RenderOptions, logger *zap.Logger) *ChromeRenderer {
	defaults := DefaultRenderOptions()
	if opts.UserAgent == "" {
		opts.UserAgent = defaults.UserAgent
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = defaults.Width, defaults.Height
	}
	if opts.Locale == "" {
		opts.Locale = defaults.Locale
	}
	if opts.Timezone == "" {
		opts.Timezone = defaults.Timezone
	}
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = defaults.NavigationTimeout
	}
	if opts.SelectorTimeout <= 0 {
		opts.SelectorTimeout = defaults.SelectorTimeout
	}
	if opts.SettleTime < 0 {
		opts.SettleTime = defaults.SettleTime
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChromeRenderer{opts: opts, logger: logger}
}

// Render navigates to url, waits for a known content selector to appear and
// returns the rendered document HTML.
func (r *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	r.logger.Debug("starting headless browser", zap.String("url", url))

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("lang", r.opts.Locale),
		chromedp.UserAgent(r.opts.UserAgent),
		chromedp.WindowSize(r.opts.Width, r.opts.Height),
	)
	if r.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(r.opts.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	// The first Run starts the browser; its context must outlive the later steps.
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(int64(r.opts.Width), int64(r.opts.Height)),
		emulation.SetLocaleOverride().WithLocale(r.opts.Locale),
		emulation.SetTimezoneOverride(r.opts.Timezone),
	)
	if err != nil {
		return "", fmt.Errorf("browser launch failed: %w", err)
	}

	navCtx, cancelNav := context.WithTimeout(browserCtx, r.opts.NavigationTimeout)
	err = chromedp.Run(navCtx, chromedp.Navigate(url))
	cancelNav()
	if err != nil {
		return "", fmt.Errorf("navigation failed: %w", err)
	}

	r.waitForContent(browserCtx, renderSelectorsFor(DetectPlatform(url)))

	var html string
	err = chromedp.Run(browserCtx,
		chromedp.Sleep(r.opts.SettleTime),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("capturing rendered HTML failed: %w", err)
	}

	r.logger.Debug("rendered page", zap.String("url", url), zap.Int("bytes", len(html)))
	return html, nil
}

// waitForContent waits for the first selector that shows up, giving each its own
// timeout. Missing selectors are not an error.
func (r *ChromeRenderer) waitForContent(ctx context.Context, selectors []string) {
	for _, sel := range selectors {
		waitCtx, cancel := context.WithTimeout(ctx, r.opts.SelectorTimeout)
		err := chromedp.Run(waitCtx, chromedp.WaitReady(sel, chromedp.ByQuery))
		cancel()
		if err == nil {
			r.logger.Debug("content selector ready", zap.String("selector", sel))
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// BreakerRenderer stops invoking the wrapped renderer after repeated failures, so a
// host without a working browser degrades to static-only fetching.
type BreakerRenderer struct {
	next Renderer
	cb   *gobreaker.CircuitBreaker
}

// ErrRendererUnavailable is returned while the breaker is open.
var ErrRendererUnavailable = errors.New("scripted rendering temporarily unavailable")

// NewBreakerRenderer trips after maxFailures consecutive failures and probes again
// after cooldown.
func NewBreakerRenderer(next Renderer, maxFailures uint32, cooldown time.Duration, logger *zap.Logger) *BreakerRenderer {
	if maxFailures == 0 {
		maxFailures = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	settings := gobreaker.Settings{
		Name:        "scripted-render",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("renderer circuit state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &BreakerRenderer{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Render implements Renderer.
func (b *BreakerRenderer) Render(ctx context.Context, url string) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Render(ctx, url)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %v", ErrRendererUnavailable, err)
	}
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// State exposes the breaker state for diagnostics.
func (b *BreakerRenderer) State() gobreaker.State {
	return b.cb.State()
}
