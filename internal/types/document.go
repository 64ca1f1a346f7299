// Package types provides the shared entities passed between the resume-fit components.
package types

import "unicode/utf8"

// MaxDocumentChars bounds the text handed to the scoring providers.
const MaxDocumentChars = 15000

// Origin tags where a document's text came from.
type Origin string

const (
	// OriginUploadedResume is text extracted from an uploaded PDF or DOCX
	OriginUploadedResume Origin = "uploaded-resume"
	// OriginPastedResume is resume text supplied directly
	OriginPastedResume Origin = "pasted-resume"
	// OriginPastedJob is job description text supplied directly
	OriginPastedJob Origin = "pasted-jd"
	// OriginFetchedJob is job description text fetched from a URL
	OriginFetchedJob Origin = "fetched-jd"
)

// Document is an immutable piece of input text with its origin.
type Document struct {
	Origin Origin `json:"origin"`
	Text   string `json:"text"`
	// Source is the filename or URL the text was read from, if any.
	Source string `json:"source,omitempty"`
}

// Len returns the document length in characters.
func (d Document) Len() int {
	return utf8.RuneCountInString(d.Text)
}

// Truncated returns a copy of the document holding at most max characters.
func (d Document) Truncated(max int) Document {
	d.Text = TruncateChars(d.Text, max)
	return d
}

// TruncateChars cuts s to at most max runes.
func TruncateChars(s string, max int) string {
	if max < 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
