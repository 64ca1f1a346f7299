package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-fit/internal/analysis"
	"github.com/jonathan/resume-fit/internal/ingestion"
	"github.com/jonathan/resume-fit/internal/observability"
)

type fetchJobOptions struct {
	url        string
	outDir     string
	noScripted bool
	jsonOut    bool
}

func newFetchJobCmd(a *app) *cobra.Command {
	opts := &fetchJobOptions{}
	cmd := &cobra.Command{
		Use:   "fetch-job",
		Short: "Fetch a job posting and print its text",
		Long: "Fetch a job posting URL with a static request, falling back to a headless browser " +
			"for script-heavy boards, and print the extracted text. With --out, also write the " +
			"text and fetch metadata to a directory.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetchJob(cmd, a, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.url, "url", "u", "", "URL to fetch job posting from (required)")
	f.StringVarP(&opts.outDir, "out", "o", "", "Output directory for job_posting.txt and job_posting.meta.json")
	f.BoolVar(&opts.noScripted, "no-scripted", false, "Never render the page in a headless browser")
	f.BoolVar(&opts.jsonOut, "json", false, "Print text and metadata as JSON")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func runFetchJob(cmd *cobra.Command, a *app, opts *fetchJobOptions) error {
	cfg, logger, err := a.load(true)
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

	doc, res := ingestion.JobFromURL(ctx, fetcher, opts.url, !opts.noScripted)
	meta := ingestion.NewMetadata(doc, res)
	out := cmd.OutOrStdout()

	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{"text": doc.Text, "metadata": meta}); err != nil {
			return err
		}
	} else {
		observability.NewPrinter(out).PrintFetchResult(res)
	}

	if err := analysis.CheckFetched(res, !opts.noScripted); err != nil {
		var lowErr *analysis.LowContentError
		if errors.As(err, &lowErr) {
			return fmt.Errorf("%w. %s", err, lowErr.Suggestion())
		}
		return err
	}

	if !opts.jsonOut {
		fmt.Fprintln(out)
		fmt.Fprintln(out, doc.Text)
	}

	if opts.outDir != "" {
		if err := ingestion.WriteOutput(opts.outDir, doc, meta); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		logger.Info("wrote job posting", zap.String("dir", opts.outDir))
	}
	return nil
}
