package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-fit/internal/analysis"
	"github.com/jonathan/resume-fit/internal/ingestion"
	"github.com/jonathan/resume-fit/internal/schemas"
)

// AnalyzeRequest is the JSON body for /analyze and /analyze/stream.
// AllowScripted defaults to true when absent.
type AnalyzeRequest struct {
	ResumeText    string `json:"resume_text"`
	JobText       string `json:"job_text,omitempty"`
	JobURL        string `json:"job_url,omitempty"`
	AllowScripted *bool  `json:"allow_scripted,omitempty"`
}

// FetchRequest is the JSON body for /fetch.
type FetchRequest struct {
	URL           string `json:"url"`
	AllowScripted *bool  `json:"allow_scripted,omitempty"`
}

// allowScripted resolves an optional toggle; scripted rendering is on unless
// the caller turns it off.
func allowScripted(v *bool) bool {
	return v == nil || *v
}

// FetchResponse is the response for /fetch.
type FetchResponse struct {
	Text     string              `json:"text"`
	Metadata *ingestion.Metadata `json:"metadata"`
}

// Multipart form fields accepted by the analyze endpoints.
const (
	fieldResumeFile    = "resume_file"
	fieldResumeText    = "resume_text"
	fieldJobText       = "job_text"
	fieldJobURL        = "job_url"
	fieldAllowScripted = "allow_scripted"
)

// handleAnalyze runs one analysis and returns the report.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	in, err := s.parseAnalyzeInput(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	report, err := s.analyzer.Analyze(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleAnalyzeStream runs one analysis and streams progress as SSE, ending with
// a report event.
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	in, err := s.parseAnalyzeInput(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	analyzer := s.analyzer.WithProgress(func(event analysis.ProgressEvent) {
		if err := sse.WriteEvent("progress", event); err != nil {
			s.logger.Debug("dropping progress event", zap.Error(err))
		}
	})

	report, err := analyzer.Analyze(r.Context(), in)
	if err != nil {
		sse.WriteError(err.Error())
		return
	}
	if err := sse.WriteEvent("report", report); err != nil {
		s.logger.Warn("writing report event", zap.Error(err))
		return
	}
	sse.WriteComplete(report.ID.String(), report.Outcome)
}

// handleFetch retrieves a job page and returns its text with fetch metadata.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	if s.fetcher == nil {
		s.writeError(w, &ErrUnavailable{Feature: "job URL fetching"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxUploadBytes))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req FetchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, &ErrValidation{Field: "(root)", Message: "invalid JSON: " + err.Error()})
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
		s.writeError(w, &ErrValidation{Field: "url", Message: "must be an http or https URL"})
		return
	}

	doc, res := ingestion.JobFromURL(r.Context(), s.fetcher, req.URL, allowScripted(req.AllowScripted))
	if err := analysis.CheckFetched(res, allowScripted(req.AllowScripted)); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, FetchResponse{
		Text:     doc.Text,
		Metadata: ingestion.NewMetadata(doc, res),
	})
}

// parseAnalyzeInput reads either a schema-validated JSON body or a multipart
// form carrying an optional resume file.
func (s *Server) parseAnalyzeInput(w http.ResponseWriter, r *http.Request) (analysis.Input, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return s.parseMultipart(r)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return analysis.Input{}, err
	}
	if err := schemas.ValidateAnalyzeRequest(body); err != nil {
		return analysis.Input{}, err
	}
	var req AnalyzeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return analysis.Input{}, &ErrValidation{Field: "(root)", Message: err.Error()}
	}
	return analysis.Input{
		ResumeText:    req.ResumeText,
		UseJobURL:     req.JobURL != "",
		JobURL:        req.JobURL,
		JobText:       req.JobText,
		AllowScripted: allowScripted(req.AllowScripted),
	}, nil
}

func (s *Server) parseMultipart(r *http.Request) (analysis.Input, error) {
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return analysis.Input{}, err
		}
		return analysis.Input{}, &ErrValidation{Field: "(form)", Message: err.Error()}
	}

	in := analysis.Input{
		ResumeText:    r.FormValue(fieldResumeText),
		JobText:       r.FormValue(fieldJobText),
		JobURL:        strings.TrimSpace(r.FormValue(fieldJobURL)),
		AllowScripted: true,
	}
	in.UseJobURL = in.JobURL != ""

	if v := r.FormValue(fieldAllowScripted); v != "" {
		allow, err := strconv.ParseBool(v)
		if err != nil {
			return analysis.Input{}, &ErrValidation{Field: fieldAllowScripted, Message: "must be a boolean"}
		}
		in.AllowScripted = allow
	}

	file, header, err := r.FormFile(fieldResumeFile)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return in, nil
	case err != nil:
		return analysis.Input{}, &ErrValidation{Field: fieldResumeFile, Message: err.Error()}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return analysis.Input{}, fmt.Errorf("reading %s: %w", fieldResumeFile, err)
	}
	in.ResumeFile = data
	in.ResumeFilename = header.Filename
	return in, nil
}
