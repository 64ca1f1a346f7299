package ingestion

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-fit/internal/extract"
	"github.com/jonathan/resume-fit/internal/types"
)

// ErrNoText is returned when a file parses but holds no text.
var ErrNoText = errors.New("no text found in file")

// ResumeFromUpload extracts resume text from PDF or DOCX bytes. The file type
// comes from the filename extension.
func ResumeFromUpload(data []byte, filename string) (types.Document, error) {
	kind, err := extract.KindFromFilename(filename)
	if err != nil {
		return types.Document{}, err
	}

	text, err := extract.ExtractText(data, kind)
	if err != nil {
		return types.Document{}, err
	}

	text = CleanText(text)
	if strings.TrimSpace(text) == "" {
		return types.Document{}, fmt.Errorf("%s: %w", filepath.Base(filename), ErrNoText)
	}

	return types.Document{
		Origin: types.OriginUploadedResume,
		Text:   text,
		Source: filepath.Base(filename),
	}, nil
}
