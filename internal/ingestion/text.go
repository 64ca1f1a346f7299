// Package ingestion resolves raw user input into documents ready for scoring.
package ingestion

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/jonathan/resume-fit/internal/types"
)

var (
	innerSpace  = regexp.MustCompile(`[ \t\f\v\p{Zs}]+`)
	blankLineRe = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes line endings and intra-line whitespace while keeping
// line structure, bullets and indentation.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankLineRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine collapses runs of spaces inside a line, keeping its leading indent.
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return ""
	}

	// Headings lose their indent so they stay recognisable.
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	indent := len(line) - len(trimmed)
	body := innerSpace.ReplaceAllString(trimmed, " ")
	if indent > 0 {
		return strings.Repeat(" ", indent) + body
	}
	return body
}

// ResumeFromText wraps pasted resume text.
func ResumeFromText(text string) types.Document {
	return types.Document{Origin: types.OriginPastedResume, Text: CleanText(text)}
}

// JobFromText wraps pasted job description text.
func JobFromText(text string) types.Document {
	return types.Document{Origin: types.OriginPastedJob, Text: CleanText(text)}
}

// JobFromFile reads a job description saved as plain text.
func JobFromFile(path string) (types.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.Document{}, fmt.Errorf("file not found: %w", err)
		}
		return types.Document{}, fmt.Errorf("failed to read file: %w", err)
	}

	doc := JobFromText(string(content))
	doc.Source = path
	return doc, nil
}
