package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-fit/internal/fetch"
)

func TestLowContentError(t *testing.T) {
	err := &LowContentError{URL: "https://jobs.lever.co/acme/1", Chars: 12, StatusCode: 403}

	assert.Equal(t, "no job description text detected from https://jobs.lever.co/acme/1 (12 characters, HTTP 403)", err.Error())
	assert.Contains(t, err.Suggestion(), "enable scripted rendering")

	err.ScriptedAttempted = true
	assert.Contains(t, err.Suggestion(), "enable scripted rendering")

	err.AllowScripted = true
	assert.Contains(t, err.Suggestion(), "was allowed")
}

func TestCheckFetched(t *testing.T) {
	assert.NoError(t, CheckFetched(&fetch.Result{URL: "u", Text: string(make([]byte, 250))}, false))

	err := CheckFetched(&fetch.Result{URL: "u", Text: "short"}, true)
	var lowErr *LowContentError
	require.True(t, errors.As(err, &lowErr))
	assert.Equal(t, 5, lowErr.Chars)
	assert.True(t, lowErr.AllowScripted)
}

func TestExtractionError(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	err := &ExtractionError{Filename: "cv.docx", Cause: cause}

	assert.Contains(t, err.Error(), ExtractionGuidance)
	assert.Contains(t, err.Error(), "cv.docx")
	assert.True(t, errors.Is(err, cause))
}

func TestIsInputError(t *testing.T) {
	assert.True(t, IsInputError(&InputError{Message: MissingInputMessage}))
	assert.False(t, IsInputError(errors.New("other")))
}
