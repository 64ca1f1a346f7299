// Package prompts holds the LLM prompt templates. Templates live in JSON files
// embedded at compile time, keyed by name within each file.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// ScoringFile holds the narrative assessment templates.
const ScoringFile = "scoring.json"

// FitAssessmentKey names the resume/JD fit assessment template.
const FitAssessmentKey = "fit-assessment"

//go:embed *.json
var promptFiles embed.FS

var (
	loaded   = make(map[string]map[string]string)
	loadedMu sync.Mutex
)

// Get retrieves a template by file and key.
func Get(filename, key string) (string, error) {
	templates, err := load(filename)
	if err != nil {
		return "", err
	}

	tmpl, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return tmpl, nil
}

// MustGet is Get for templates that ship with the binary; a missing one is a
// build defect and panics.
func MustGet(filename, key string) string {
	tmpl, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return tmpl
}

// Format substitutes {{.Key}} placeholders. Values are inserted verbatim and are
// not themselves expanded, so user text containing braces is safe.
func Format(template string, data map[string]string) string {
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func load(filename string) (map[string]string, error) {
	loadedMu.Lock()
	defer loadedMu.Unlock()

	if templates, ok := loaded[filename]; ok {
		return templates, nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var templates map[string]string
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	loaded[filename] = templates
	return templates, nil
}
