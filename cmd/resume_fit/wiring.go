package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-fit/internal/analysis"
	"github.com/jonathan/resume-fit/internal/cache"
	"github.com/jonathan/resume-fit/internal/config"
	"github.com/jonathan/resume-fit/internal/fetch"
	"github.com/jonathan/resume-fit/internal/llm"
	"github.com/jonathan/resume-fit/internal/scoring"
)

const memorySweepInterval = time.Minute

// closers releases resources in reverse order of acquisition.
type closers []func() error

func (c *closers) add(fn func() error) {
	*c = append(*c, fn)
}

func (c closers) Close() {
	for i := len(c) - 1; i >= 0; i-- {
		_ = c[i]()
	}
}

// newStore builds the fetch cache for the configured backend. A nil store
// disables caching.
func newStore(ctx context.Context, cfg config.CacheConfig, cleanup *closers) (cache.Store, error) {
	switch cfg.Backend {
	case "redis":
		store, client, err := cache.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		cleanup.add(client.Close)
		return store, nil
	case "memory":
		store := cache.NewMemory(memorySweepInterval)
		cleanup.add(store.Close)
		return store, nil
	default:
		return nil, nil
	}
}

// newFetcher wires the static fetcher, the breaker-guarded headless renderer
// and the cache.
func newFetcher(ctx context.Context, cfg *config.Config, logger *zap.Logger, cleanup *closers) (*fetch.Fetcher, error) {
	store, err := newStore(ctx, cfg.Cache, cleanup)
	if err != nil {
		return nil, err
	}

	opts := fetch.DefaultOptions()
	opts.Timeout = cfg.Fetch.Timeout
	opts.UserAgent = cfg.Fetch.UserAgent

	fc := fetch.Config{
		Options:  opts,
		Cache:    store,
		CacheTTL: cfg.Cache.TTL,
		Logger:   logger,
	}
	if cfg.Fetch.Scripted {
		chrome := fetch.NewChromeRenderer(fetch.RenderOptions{ExecPath: cfg.Fetch.ChromePath}, logger)
		fc.Renderer = fetch.NewBreakerRenderer(chrome, cfg.Fetch.BreakerFailures, cfg.Fetch.BreakerCooldown, logger)
	}
	return fetch.New(fc), nil
}

// newAnalyzer wires the provider client, the assessor and the fetcher into an
// Analyzer.
func newAnalyzer(ctx context.Context, cfg *config.Config, logger *zap.Logger, fetcher *fetch.Fetcher, cleanup *closers) (*analysis.Analyzer, error) {
	client, err := llm.NewClient(ctx, cfg.LLMClientConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}
	cleanup.add(client.Close)

	acfg := analysis.Config{
		Embedder: client,
		Assessor: scoring.NewAssessor(client, cfg.Scoring.StrictScore, logger),
		Logger:   logger,
		MaxChars: cfg.Scoring.MaxChars,
	}
	if fetcher != nil {
		acfg.Fetcher = fetcher
	}
	return analysis.New(acfg)
}
