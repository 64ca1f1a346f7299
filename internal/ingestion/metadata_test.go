package ingestion

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-fit/internal/fetch"
	"github.com/jonathan/resume-fit/internal/types"
)

func TestNewMetadata_FromFetch(t *testing.T) {
	doc := types.Document{Origin: types.OriginFetchedJob, Text: "Senior Go engineer", Source: "https://jobs.lever.co/acme/1"}
	res := &fetch.Result{
		URL:               "https://jobs.lever.co/acme/1",
		Source:            fetch.SourceScripted,
		Platform:          fetch.PlatformLever,
		StatusCode:        200,
		ScriptedAttempted: true,
		Degraded:          errors.New("settle timeout"),
	}

	meta := NewMetadata(doc, res)

	assert.Equal(t, res.URL, meta.URL)
	assert.Equal(t, "lever", meta.Platform)
	assert.Equal(t, "scripted", meta.Source)
	assert.Equal(t, 18, meta.Chars)
	assert.True(t, meta.ScriptedAttempted)
	assert.Equal(t, "settle timeout", meta.Degraded)
	assert.Equal(t, computeHash("Senior Go engineer"), meta.Hash)
	assert.Len(t, meta.Hash, 64)
}

func TestNewMetadata_WithoutFetch(t *testing.T) {
	doc := JobFromText("Backend role")

	meta := NewMetadata(doc, nil)

	assert.Empty(t, meta.Platform)
	assert.False(t, meta.ScriptedAttempted)
	assert.NotEmpty(t, meta.Timestamp)
}

func TestWriteOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	doc := JobFromText("Backend role\nGo and Redis")

	require.NoError(t, WriteOutput(dir, doc, NewMetadata(doc, nil)))

	text, err := os.ReadFile(filepath.Join(dir, "job_posting.txt"))
	require.NoError(t, err)
	assert.Equal(t, doc.Text, string(text))

	raw, err := os.ReadFile(filepath.Join(dir, "job_posting.meta.json"))
	require.NoError(t, err)
	var meta Metadata
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, doc.Len(), meta.Chars)
}
