// Package analysis runs a resume against a job description and assembles the
// fit report.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-fit/internal/fetch"
	"github.com/jonathan/resume-fit/internal/ingestion"
	"github.com/jonathan/resume-fit/internal/llm"
	"github.com/jonathan/resume-fit/internal/scoring"
	"github.com/jonathan/resume-fit/internal/types"
)

// Step names reported through ProgressCallback.
const (
	StepResume    = "resume"
	StepJob       = "job"
	StepSemantic  = "semantic"
	StepNarrative = "narrative"
	StepFusion    = "fusion"
)

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
}

// ProgressCallback is called as each step of a run completes
type ProgressCallback func(event ProgressEvent)

// Assessor produces a narrative assessment with its parsed score.
type Assessor interface {
	Assess(ctx context.Context, resume, job string) (*scoring.Narrative, error)
}

// Input is one analysis request before resolution.
type Input struct {
	// ResumeFile takes precedence over ResumeText; extraction failure falls back to ResumeText.
	ResumeFile     []byte
	ResumeFilename string
	ResumeText     string

	// UseJobURL selects JobURL over JobText; a short or failed fetch falls back to JobText.
	UseJobURL     bool
	JobURL        string
	JobText       string
	AllowScripted bool
}

// Config wires an Analyzer.
type Config struct {
	Fetcher  ingestion.PageFetcher
	Embedder llm.Embedder
	Assessor Assessor
	Logger   *zap.Logger
	// MaxChars bounds each document sent to the providers; zero uses types.MaxDocumentChars.
	MaxChars   int
	OnProgress ProgressCallback
}

// Analyzer computes fit reports. It holds no per-run state and is safe for
// concurrent use.
type Analyzer struct {
	fetcher    ingestion.PageFetcher
	embedder   llm.Embedder
	assessor   Assessor
	logger     *zap.Logger
	maxChars   int
	onProgress ProgressCallback
}

// New creates an Analyzer.
func New(cfg Config) (*Analyzer, error) {
	if cfg.Embedder == nil {
		return nil, errors.New("analysis: embedder is required")
	}
	if cfg.Assessor == nil {
		return nil, errors.New("analysis: assessor is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = types.MaxDocumentChars
	}
	return &Analyzer{
		fetcher:    cfg.Fetcher,
		embedder:   cfg.Embedder,
		assessor:   cfg.Assessor,
		logger:     cfg.Logger,
		maxChars:   cfg.MaxChars,
		onProgress: cfg.OnProgress,
	}, nil
}

// WithProgress returns a copy of the Analyzer that reports progress to cb.
func (a *Analyzer) WithProgress(cb ProgressCallback) *Analyzer {
	c := *a
	c.onProgress = cb
	return &c
}

// Analyze resolves the input and runs the analysis.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (*types.Report, error) {
	resume, job, notices := a.Prepare(ctx, in)
	report, err := a.Run(ctx, resume, job)
	if report != nil {
		report.Notices = append(notices, report.Notices...)
	}
	return report, err
}

// Prepare turns raw input into documents. Problems with an upload or URL become
// notices and the pasted text is used instead.
func (a *Analyzer) Prepare(ctx context.Context, in Input) (resume, job types.Document, notices []types.Notice) {
	resume = ingestion.ResumeFromText(in.ResumeText)
	if len(in.ResumeFile) > 0 {
		doc, err := ingestion.ResumeFromUpload(in.ResumeFile, in.ResumeFilename)
		if err != nil {
			extErr := &ExtractionError{Filename: in.ResumeFilename, Cause: err}
			a.logger.Warn("resume extraction failed", zap.String("file", in.ResumeFilename), zap.Error(err))
			notices = append(notices, types.Notice{Kind: types.NoticeExtraction, Message: extErr.Error()})
		} else {
			resume = doc
		}
	}
	a.emit(ProgressEvent{Step: StepResume, Message: fmt.Sprintf("Resume ready (%d characters)", resume.Len())})

	job = ingestion.JobFromText(in.JobText)
	if in.UseJobURL {
		url := strings.TrimSpace(in.JobURL)
		switch {
		case url == "":
			notices = append(notices, types.Notice{
				Kind:    types.NoticeInput,
				Message: "No URL provided; enter a link or paste the job description.",
			})
		case a.fetcher == nil:
			notices = append(notices, types.Notice{
				Kind:    types.NoticeInput,
				Message: "Fetching job URLs is not available; paste the job description.",
			})
		default:
			doc, res := ingestion.JobFromURL(ctx, a.fetcher, url, in.AllowScripted)
			if lowErr := lowContent(res, in.AllowScripted); lowErr != nil {
				a.logger.Warn("job page has too little text",
					zap.String("url", url),
					zap.Int("chars", res.Len()),
					zap.Bool("scripted_attempted", res.ScriptedAttempted),
				)
				notices = append(notices, types.Notice{
					Kind:    types.NoticeLowContent,
					Message: lowErr.Error() + ". " + lowErr.Suggestion(),
				})
			} else {
				job = doc
			}
		}
	}
	a.emit(ProgressEvent{Step: StepJob, Message: fmt.Sprintf("Job description ready (%d characters)", job.Len())})

	return resume, job, notices
}

// CheckFetched returns a *LowContentError when a fetch result is too short to use.
// allowScripted is the caller's rendering toggle for that fetch.
func CheckFetched(res *fetch.Result, allowScripted bool) error {
	if err := lowContent(res, allowScripted); err != nil {
		return err
	}
	return nil
}

func lowContent(res *fetch.Result, allowScripted bool) *LowContentError {
	if res.Usable() {
		return nil
	}
	return &LowContentError{
		URL:               res.URL,
		Chars:             res.Len(),
		StatusCode:        res.StatusCode,
		AllowScripted:     allowScripted,
		ScriptedAttempted: res.ScriptedAttempted,
	}
}

// Run scores a resume against a job description. Only *InputError is returned
// as an error; provider and parse failures become notices on the report.
func (a *Analyzer) Run(ctx context.Context, resume, job types.Document) (*types.Report, error) {
	if strings.TrimSpace(resume.Text) == "" || strings.TrimSpace(job.Text) == "" {
		return nil, &InputError{Message: MissingInputMessage}
	}

	start := time.Now()
	report := &types.Report{ID: uuid.New()}
	runID := report.ID.String()
	log := a.logger.With(zap.String("run_id", runID))

	resume = resume.Truncated(a.maxChars)
	job = job.Truncated(a.maxChars)
	log.Debug("starting analysis",
		zap.String("resume_origin", string(resume.Origin)),
		zap.String("job_origin", string(job.Origin)),
		zap.Int("resume_chars", resume.Len()),
		zap.Int("job_chars", job.Len()),
	)

	var (
		mu        sync.Mutex
		semantic  *int
		narrative *scoring.Narrative
	)
	addNotice := func(n types.Notice) {
		mu.Lock()
		report.Notices = append(report.Notices, n)
		mu.Unlock()
	}

	// Branches record failures as notices and never return errors, so one
	// failing does not cancel the other.
	var g errgroup.Group

	g.Go(func() error {
		score, err := scoring.SemanticScore(ctx, a.embedder, resume.Text, job.Text)
		if err != nil {
			log.Warn("semantic score unavailable", zap.Error(err))
			addNotice(types.Notice{Kind: types.NoticeEmbedding, Message: "Could not compute embeddings: " + err.Error()})
			return nil
		}
		semantic = &score
		log.Debug("semantic score computed", zap.Int("score", score))
		a.emit(ProgressEvent{Step: StepSemantic, Message: fmt.Sprintf("Semantic score %d", score), RunID: runID})
		return nil
	})

	g.Go(func() error {
		n, err := a.assessor.Assess(ctx, resume.Text, job.Text)
		narrative = n
		var parseErr *scoring.ParseError
		switch {
		case errors.As(err, &parseErr):
			addNotice(types.Notice{Kind: types.NoticeParse, Message: parseErr.Error()})
		case err != nil:
			log.Warn("narrative assessment unavailable", zap.Error(err))
			addNotice(types.Notice{Kind: types.NoticeNarrative, Message: "Error contacting the AI provider: " + err.Error()})
			return nil
		}
		a.emit(ProgressEvent{Step: StepNarrative, Message: "Narrative assessment received", RunID: runID})
		return nil
	})

	_ = g.Wait()

	var narrativeScore *int
	if narrative != nil {
		narrativeScore = narrative.Score
		report.Narrative = narrative.Display
	}

	fit := scoring.Fuse(semantic, narrativeScore)
	report.Outcome = string(fit.Outcome)
	report.Label = fit.Label
	report.Score = fit.Score
	report.DisplayedScore = fit.Displayed()
	report.Annotation = fit.Annotation
	report.SemanticScore = semantic
	report.NarrativeScore = narrativeScore
	report.Duration = time.Since(start)

	log.Info("analysis complete",
		zap.String("outcome", report.Outcome),
		zap.Intp("score", report.Score),
		zap.Duration("duration", report.Duration),
	)
	a.emit(ProgressEvent{Step: StepFusion, Message: fusionMessage(fit), RunID: runID})

	return report, nil
}

func fusionMessage(fit scoring.Fit) string {
	if fit.Score == nil {
		return fit.Annotation
	}
	return fmt.Sprintf("%s: %d/100", fit.Label, *fit.Displayed())
}

func (a *Analyzer) emit(event ProgressEvent) {
	if a.onProgress != nil {
		a.onProgress(event)
	}
}
