// Package extract converts uploaded resume documents into plain text.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind is a supported binary document format.
type Kind string

const (
	// KindPDF is a Portable Document Format file
	KindPDF Kind = "pdf"
	// KindDOCX is an Office Open XML word processing document
	KindDOCX Kind = "docx"
)

// ParseError is returned when a document cannot be parsed at all.
type ParseError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("could not extract text from %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("could not extract text from %s: %s", e.Kind, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// KindFromFilename picks the document kind from a file extension.
func KindFromFilename(name string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF, nil
	case ".docx":
		return KindDOCX, nil
	default:
		return "", fmt.Errorf("unsupported resume format %q: expected .pdf or .docx", filepath.Ext(name))
	}
}

// ExtractText returns the plain text of a document. The result may be empty when the
// document holds no extractable text; only unreadable input is an error.
func ExtractText(data []byte, kind Kind) (string, error) {
	if len(data) == 0 {
		return "", &ParseError{Kind: kind, Message: "empty input"}
	}
	switch kind {
	case KindPDF:
		return extractPDF(data)
	case KindDOCX:
		return extractDOCX(data)
	default:
		return "", &ParseError{Kind: kind, Message: "unsupported format"}
	}
}
