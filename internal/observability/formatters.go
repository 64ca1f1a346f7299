// Package observability provides logging setup and human-readable CLI output.
package observability

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jonathan/resume-fit/internal/analysis"
	"github.com/jonathan/resume-fit/internal/fetch"
	"github.com/jonathan/resume-fit/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// barWidth is the number of cells in the score bar
	barWidth = 30
)

// Printer writes reports for terminal users.
type Printer struct {
	out io.Writer
	// mu serializes Progress, which runs on concurrent scoring branches.
	mu sync.Mutex
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, part := range wrap(line, boxWidth-4) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(part, boxWidth-4))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// ScoreBar renders a 0-100 score as a fixed-width bar.
func ScoreBar(score int) string {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	filled := score * barWidth / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]"
}

// PrintReport outputs the score, its components and the narrative.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintReport(report *types.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	if report.DisplayedScore != nil {
		sb.WriteString(fmt.Sprintf("%s: %d/100\n", report.Label, *report.DisplayedScore))
		sb.WriteString(ScoreBar(*report.DisplayedScore) + "\n")
	}
	if report.Annotation != "" {
		sb.WriteString(report.Annotation + "\n")
	}
	if report.SemanticScore != nil && report.NarrativeScore != nil {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Semantic score: %d/100\n", *report.SemanticScore))
		sb.WriteString(fmt.Sprintf("AI score:       %d/100\n", *report.NarrativeScore))
	}
	p.printBox("FIT SCORE", strings.TrimSuffix(sb.String(), "\n"))

	p.PrintNotices(report.Notices)

	if strings.TrimSpace(report.Narrative) != "" {
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, "AI analysis")
		fmt.Fprintln(p.out, strings.Repeat("─", len("AI analysis")))
		fmt.Fprintln(p.out, report.Narrative)
	}
}

// PrintNotices lists degraded steps, one per line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintNotices(notices []types.Notice) {
	for _, n := range notices {
		fmt.Fprintf(p.out, "! [%s] %s\n", n.Kind, n.Message)
	}
}

// PrintFetchResult summarizes how a job page was retrieved.
func (p *Printer) PrintFetchResult(res *fetch.Result) {
	if res == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("URL:       %s\n", res.URL))
	sb.WriteString(fmt.Sprintf("Platform:  %s\n", res.Platform))
	sb.WriteString(fmt.Sprintf("Source:    %s\n", res.Source))
	sb.WriteString(fmt.Sprintf("Chars:     %d\n", res.Len()))
	if res.StatusCode != 0 {
		sb.WriteString(fmt.Sprintf("HTTP:      %d\n", res.StatusCode))
	}
	sb.WriteString(fmt.Sprintf("Scripted:  %t\n", res.ScriptedAttempted))
	if res.FromCache {
		sb.WriteString("Cached:    true\n")
	}
	if res.Degraded != nil {
		sb.WriteString(fmt.Sprintf("Degraded:  %v\n", res.Degraded))
	}
	p.printBox("JOB PAGE", strings.TrimSuffix(sb.String(), "\n"))
}

// Progress prints one line per pipeline step.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) Progress(event analysis.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "• %-9s %s\n", event.Step, event.Message)
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// wrap splits a line at word boundaries so no part exceeds width runes.
func wrap(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}

	var parts []string
	var cur []rune
	for _, word := range strings.Fields(line) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				parts = append(parts, string(cur))
				cur = nil
			}
			parts = append(parts, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = w
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			parts = append(parts, string(cur))
			cur = w
		}
	}
	if len(cur) > 0 {
		parts = append(parts, string(cur))
	}
	return parts
}
