package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/resume-fit/internal/fetch"
	"github.com/jonathan/resume-fit/internal/types"
)

// Metadata describes how a job posting was obtained.
type Metadata struct {
	URL               string `json:"url,omitempty"`
	Timestamp         string `json:"timestamp"` // RFC3339
	Hash              string `json:"hash"`      // SHA256 hex of the cleaned text
	Chars             int    `json:"chars"`
	Platform          string `json:"platform,omitempty"`
	Source            string `json:"source,omitempty"` // static or scripted
	StatusCode        int    `json:"status_code,omitempty"`
	ScriptedAttempted bool   `json:"scripted_attempted"`
	FromCache         bool   `json:"from_cache,omitempty"`
	Degraded          string `json:"degraded,omitempty"`
}

// NewMetadata builds Metadata for a document and, when fetched, its fetch result.
func NewMetadata(doc types.Document, res *fetch.Result) *Metadata {
	m := &Metadata{
		URL:       doc.Source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(doc.Text),
		Chars:     doc.Len(),
	}
	if res != nil {
		m.URL = res.URL
		m.Platform = string(res.Platform)
		m.Source = string(res.Source)
		m.StatusCode = res.StatusCode
		m.ScriptedAttempted = res.ScriptedAttempted
		m.FromCache = res.FromCache
		if res.Degraded != nil {
			m.Degraded = res.Degraded.Error()
		}
	}
	return m
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to indented JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return b, nil
}

// WriteOutput writes the job text and its metadata into outDir.
func WriteOutput(outDir string, doc types.Document, metadata *Metadata) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	textPath := filepath.Join(outDir, "job_posting.txt")
	if err := os.WriteFile(textPath, []byte(doc.Text), 0644); err != nil {
		return fmt.Errorf("failed to write job text: %w", err)
	}

	metaJSON, err := metadata.ToJSON()
	if err != nil {
		return err
	}
	metaPath := filepath.Join(outDir, "job_posting.meta.json")
	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}
	return nil
}
