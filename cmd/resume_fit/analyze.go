package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-fit/internal/analysis"
	"github.com/jonathan/resume-fit/internal/ingestion"
	"github.com/jonathan/resume-fit/internal/observability"
)

type analyzeOptions struct {
	resumeFile string
	resumeText string
	jobURL     string
	jobFile    string
	jobText    string
	noScripted bool
	jsonOut    bool
}

func newAnalyzeCmd(a *app) *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score a resume against a job description",
		Long: "Score a resume (PDF, DOCX or pasted text) against a job description given as a URL, " +
			"a text file or pasted text. Prints the fused fit score and the AI assessment.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, a, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.resumeFile, "resume-file", "", "Resume file (.pdf or .docx)")
	f.StringVar(&opts.resumeText, "resume-text", "", "Resume as plain text")
	f.StringVar(&opts.jobURL, "job-url", "", "URL of the job posting")
	f.StringVar(&opts.jobFile, "job-file", "", "Text file containing the job description")
	f.StringVar(&opts.jobText, "job-text", "", "Job description as plain text; with --job-url, used when the page has too little text")
	f.BoolVar(&opts.noScripted, "no-scripted", false, "Never render the job page in a headless browser")
	f.BoolVar(&opts.jsonOut, "json", false, "Print the report as JSON")

	cmd.MarkFlagsMutuallyExclusive("resume-file", "resume-text")
	cmd.MarkFlagsOneRequired("resume-file", "resume-text")
	cmd.MarkFlagsMutuallyExclusive("job-file", "job-text")
	cmd.MarkFlagsMutuallyExclusive("job-file", "job-url")
	cmd.MarkFlagsOneRequired("job-url", "job-file", "job-text")
	return cmd
}

func runAnalyze(cmd *cobra.Command, a *app, opts *analyzeOptions) error {
	in, err := opts.input()
	if err != nil {
		return err
	}

	cfg, logger, err := a.load(false)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx := cmd.Context()
	var cleanup closers
	defer cleanup.Close()

	fetcher, err := newFetcher(ctx, cfg, logger, &cleanup)
	if err != nil {
		return err
	}
	analyzer, err := newAnalyzer(ctx, cfg, logger, fetcher, &cleanup)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	if !opts.jsonOut {
		analyzer = analyzer.WithProgress(printer.Progress)
	}

	report, err := analyzer.Analyze(ctx, in)
	if err != nil {
		return err
	}

	if opts.jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printer.PrintReport(report)
	return nil
}

// input reads files named by the flags. A resume file is extracted here so a
// bad upload fails the command instead of scoring nothing.
func (o *analyzeOptions) input() (analysis.Input, error) {
	in := analysis.Input{
		ResumeText:    o.resumeText,
		UseJobURL:     o.jobURL != "",
		JobURL:        o.jobURL,
		JobText:       o.jobText,
		AllowScripted: !o.noScripted,
	}

	if o.resumeFile != "" {
		data, err := os.ReadFile(o.resumeFile)
		if err != nil {
			return analysis.Input{}, fmt.Errorf("failed to read resume: %w", err)
		}
		doc, err := ingestion.ResumeFromUpload(data, filepath.Base(o.resumeFile))
		if err != nil {
			return analysis.Input{}, &analysis.ExtractionError{Filename: o.resumeFile, Cause: err}
		}
		in.ResumeText = doc.Text
	}

	if o.jobFile != "" {
		doc, err := ingestion.JobFromFile(o.jobFile)
		if err != nil {
			return analysis.Input{}, fmt.Errorf("failed to read job description: %w", err)
		}
		in.JobText = doc.Text
	}
	return in, nil
}
