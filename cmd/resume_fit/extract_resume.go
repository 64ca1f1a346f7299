package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-fit/internal/analysis"
	"github.com/jonathan/resume-fit/internal/ingestion"
)

func newExtractResumeCmd(a *app) *cobra.Command {
	var file, out string
	cmd := &cobra.Command{
		Use:   "extract-resume",
		Short: "Extract plain text from a PDF or DOCX resume",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, logger, err := a.load(true)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read resume: %w", err)
			}
			doc, err := ingestion.ResumeFromUpload(data, filepath.Base(file))
			if err != nil {
				return &analysis.ExtractionError{Filename: file, Cause: err}
			}

			if out != "" {
				if err := os.WriteFile(out, []byte(doc.Text+"\n"), 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), doc.Text)
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Resume file (.pdf or .docx) (required)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the text to this file instead of stdout")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
