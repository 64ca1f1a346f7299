package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRenderOptions(t *testing.T) {
	opts := DefaultRenderOptions()
	assert.Contains(t, opts.UserAgent, "Chrome/120")
	assert.Equal(t, 1280, opts.Width)
	assert.Equal(t, 900, opts.Height)
	assert.Equal(t, "America/Toronto", opts.Timezone)
	assert.Equal(t, 20*time.Second, opts.NavigationTimeout)
	assert.Equal(t, 6*time.Second, opts.SelectorTimeout)
	assert.Equal(t, 1500*time.Millisecond, opts.SettleTime)
}

func TestNewChromeRenderer_FillsDefaults(t *testing.T) {
	r := NewChromeRenderer(RenderOptions{Locale: "en-CA"}, nil)
	assert.Equal(t, "en-CA", r.opts.Locale)
	assert.Equal(t, DefaultRenderOptions().UserAgent, r.opts.UserAgent)
	assert.Equal(t, 20*time.Second, r.opts.NavigationTimeout)
	assert.NotNil(t, r.logger)
}

func TestBreakerRenderer_PassesThrough(t *testing.T) {
	next := &mockRenderer{html: "<html></html>"}
	b := NewBreakerRenderer(next, 2, time.Minute, nil)

	html, err := b.Render(context.Background(), "https://jobs.lever.co/x")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", html)
}

func TestBreakerRenderer_OpensAfterConsecutiveFailures(t *testing.T) {
	next := &mockRenderer{err: errors.New("no chrome")}
	b := NewBreakerRenderer(next, 2, time.Minute, nil)
	ctx := context.Background()

	_, err := b.Render(ctx, "u")
	assert.EqualError(t, err, "no chrome")
	_, err = b.Render(ctx, "u")
	assert.EqualError(t, err, "no chrome")

	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err = b.Render(ctx, "u")
	assert.ErrorIs(t, err, ErrRendererUnavailable)
	assert.Equal(t, int32(2), next.calls.Load(), "open breaker must not call the browser")
}
