package fetch

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/jonathan/resume-fit/internal/cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// MinContentLength is the static text length that skips the scripted fallback.
const MinContentLength = MinCandidateLength

// MinUsableLength is the text length below which a fetch yielded no usable content.
const MinUsableLength = MinDocumentLength

// Source tells which stage produced a result's text.
type Source string

const (
	SourceNone     Source = "none"
	SourceStatic   Source = "static"
	SourceScripted Source = "scripted"
)

// Result is the best text obtained for a URL. A fetch never fails outright: transport,
// parse and browser problems leave the text obtained so far and set Degraded.
type Result struct {
	URL               string
	Text              string
	Source            Source
	Platform          Platform
	StatusCode        int
	ScriptedAttempted bool
	FromCache         bool
	// Degraded holds the failure that cut the fetch short, if any.
	Degraded error
}

// Len returns the text length in characters.
func (r *Result) Len() int {
	return utf8.RuneCountInString(r.Text)
}

// Usable reports whether the text is long enough to be a job description.
func (r *Result) Usable() bool {
	return r.Len() >= MinUsableLength
}

// Config wires a Fetcher's collaborators. Zero values select static-only fetching
// without caching.
type Config struct {
	Options  *Options
	Renderer Renderer
	Cache    cache.Store
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// Fetcher implements the static-then-scripted job page retrieval.
type Fetcher struct {
	options  *Options
	renderer Renderer
	cache    cache.Store
	cacheTTL time.Duration
	logger   *zap.Logger
	group    singleflight.Group
}

// New creates a Fetcher.
func New(cfg Config) *Fetcher {
	if cfg.Options == nil {
		cfg.Options = DefaultOptions()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = cache.DefaultTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Fetcher{
		options:  cfg.Options,
		renderer: cfg.Renderer,
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		logger:   cfg.Logger,
	}
}

// ScriptingAvailable reports whether a renderer is configured.
func (f *Fetcher) ScriptingAvailable() bool {
	return f.renderer != nil
}

// FetchPageText returns job posting text for url. When allowScripted is set and the
// static pass is too short for a board known to render client-side, the page is
// rendered in a headless browser. Results are cached per URL and mode, and concurrent
// identical requests share one fetch.
func (f *Fetcher) FetchPageText(ctx context.Context, url string, allowScripted bool) *Result {
	key := cacheKey(url, allowScripted)

	if cached, ok := f.lookup(ctx, key, url); ok {
		return cached
	}

	// Waiters share this fetch, so one caller going away must not cancel it.
	// The static and render timeouts still bound it.
	shared := context.WithoutCancel(ctx)
	v, _, _ := f.group.Do(key, func() (interface{}, error) {
		res := f.fetch(shared, url, allowScripted)
		f.store(shared, key, res)
		return res, nil
	})
	res := *v.(*Result)
	return &res
}

func (f *Fetcher) fetch(ctx context.Context, url string, allowScripted bool) *Result {
	res := &Result{URL: url, Source: SourceNone, Platform: DetectPlatform(url)}
	log := f.logger.With(zap.String("url", url), zap.String("platform", string(res.Platform)))

	page, err := Get(ctx, url, f.options)
	switch {
	case err != nil && page != nil:
		// Non-200: an empty result, not a failure.
		res.StatusCode = page.StatusCode
		log.Debug("static fetch returned non-success status", zap.Int("status", page.StatusCode))
	case err != nil:
		res.Degraded = err
		log.Warn("static fetch failed", zap.Error(err))
	default:
		res.StatusCode = page.StatusCode
		text, err := ExtractJobText(page.HTML, StaticSelectors())
		if err != nil {
			res.Degraded = err
			log.Warn("static extraction failed", zap.Error(err))
		} else {
			res.Text = text
			res.Source = SourceStatic
		}
	}
	log.Debug("static pass complete", zap.Int("chars", res.Len()))

	if res.Len() >= MinContentLength {
		return res
	}
	if !allowScripted || !RequiresScripting(res.Platform) {
		return res
	}
	if f.renderer == nil {
		log.Debug("scripted rendering not configured, keeping static result")
		return res
	}

	res.ScriptedAttempted = true
	log.Debug("static content too short, rendering with browser",
		zap.Int("chars", res.Len()), zap.Int("threshold", MinContentLength))

	rendered, err := f.renderer.Render(ctx, url)
	if err != nil {
		res.Degraded = err
		log.Warn("scripted rendering failed, keeping static result", zap.Error(err))
		return res
	}

	text, err := ExtractJobText(rendered, renderSelectorsFor(res.Platform))
	if err != nil {
		res.Degraded = err
		log.Warn("rendered extraction failed, keeping static result", zap.Error(err))
		return res
	}
	if text == "" {
		return res
	}

	res.Text = text
	res.Source = SourceScripted
	res.Degraded = nil
	log.Debug("scripted pass complete", zap.Int("chars", res.Len()))
	return res
}
