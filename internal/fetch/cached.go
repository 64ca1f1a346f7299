package fetch

import (
	"context"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"
)

// cachedResult is the serialized form of a Result in the cache.
type cachedResult struct {
	Text              string `json:"text"`
	Source            Source `json:"source"`
	StatusCode        int    `json:"status_code"`
	ScriptedAttempted bool   `json:"scripted_attempted"`
}

func cacheKey(url string, allowScripted bool) string {
	return url + "|scripted=" + strconv.FormatBool(allowScripted)
}

// lookup returns a fresh cached result. Cache errors are logged and treated as misses.
func (f *Fetcher) lookup(ctx context.Context, key, url string) (*Result, bool) {
	if f.cache == nil {
		return nil, false
	}
	raw, ok, err := f.cache.Get(ctx, key)
	if err != nil {
		f.logger.Warn("fetch cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var entry cachedResult
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		f.logger.Warn("discarding unreadable fetch cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	return &Result{
		URL:               url,
		Text:              entry.Text,
		Source:            entry.Source,
		Platform:          DetectPlatform(url),
		StatusCode:        entry.StatusCode,
		ScriptedAttempted: entry.ScriptedAttempted,
		FromCache:         true,
	}, true
}

// store caches res unless it was cut short by a failure worth retrying.
func (f *Fetcher) store(ctx context.Context, key string, res *Result) {
	if f.cache == nil || res.Degraded != nil {
		return
	}
	raw, err := json.Marshal(cachedResult{
		Text:              res.Text,
		Source:            res.Source,
		StatusCode:        res.StatusCode,
		ScriptedAttempted: res.ScriptedAttempted,
	})
	if err != nil {
		return
	}
	if err := f.cache.Set(ctx, key, string(raw), f.cacheTTL); err != nil {
		f.logger.Warn("fetch cache write failed", zap.String("key", key), zap.Error(err))
	}
}
