package analysis

import (
	"errors"
	"fmt"
)

// MissingInputMessage is shown when either side of the comparison is blank.
const MissingInputMessage = "Please provide BOTH: resume and job description."

// ExtractionGuidance is shown when an uploaded resume yields no text.
const ExtractionGuidance = "Could not extract text. Try DOCX or switch to Paste Text."

// InputError is returned before any provider call when input is unusable.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// LowContentError reports that a job URL produced too little text to analyze.
type LowContentError struct {
	URL               string
	Chars             int
	StatusCode        int
	AllowScripted     bool
	ScriptedAttempted bool
}

func (e *LowContentError) Error() string {
	msg := fmt.Sprintf("no job description text detected from %s (%d characters", e.URL, e.Chars)
	if e.StatusCode != 0 && e.StatusCode != 200 {
		msg += fmt.Sprintf(", HTTP %d", e.StatusCode)
	}
	return msg + ")"
}

// Suggestion tells the user what to try next, based on whether they allowed
// scripted rendering.
func (e *LowContentError) Suggestion() string {
	if e.AllowScripted {
		return "Scripted rendering was allowed and some sites still block it; paste the job description text instead."
	}
	return "Sites such as Workday, Greenhouse and Lever load content with JavaScript; enable scripted rendering and retry, or paste the job description text."
}

// ExtractionError wraps a failure to read text from an uploaded resume.
type ExtractionError struct {
	Filename string
	Cause    error
}

func (e *ExtractionError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("%s (%v)", ExtractionGuidance, e.Cause)
	}
	return fmt.Sprintf("%s (%s: %v)", ExtractionGuidance, e.Filename, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// IsInputError reports whether err is an *InputError.
func IsInputError(err error) bool {
	var inputErr *InputError
	return errors.As(err, &inputErr)
}
