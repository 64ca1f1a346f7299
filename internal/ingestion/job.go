package ingestion

import (
	"context"

	"github.com/jonathan/resume-fit/internal/fetch"
	"github.com/jonathan/resume-fit/internal/types"
)

// PageFetcher retrieves the readable text of a job posting.
type PageFetcher interface {
	FetchPageText(ctx context.Context, url string, allowScripted bool) *fetch.Result
}

// JobFromURL fetches a job posting and wraps its text. The fetch result is
// returned alongside so callers can judge whether the text is usable.
func JobFromURL(ctx context.Context, f PageFetcher, url string, allowScripted bool) (types.Document, *fetch.Result) {
	res := f.FetchPageText(ctx, url, allowScripted)
	doc := types.Document{
		Origin: types.OriginFetchedJob,
		Text:   CleanText(res.Text),
		Source: url,
	}
	return doc, res
}
