package scoring

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-fit/internal/llm"
	"github.com/jonathan/resume-fit/internal/prompts"
)

var (
	scorePattern     = regexp.MustCompile(`\b(100|[0-9]{1,2})\b`)
	scoreLinePattern = regexp.MustCompile(`^(100|[0-9]{1,2})$`)
)

// ParseError is returned when no score can be read from a narrative.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return "could not read a fit score from the assessment: " + e.Message
}

// Narrative is a provider assessment with its extracted score.
type Narrative struct {
	Raw string
	// Score is nil when the response carried no readable score.
	Score   *int
	Display string
}

// BuildPrompt renders the fit assessment prompt for a resume and job description.
func BuildPrompt(resume, job string) string {
	return prompts.Format(prompts.MustGet(prompts.ScoringFile, prompts.FitAssessmentKey), map[string]string{
		"Resume":         resume,
		"JobDescription": job,
	})
}

// ParseScore returns the first whole-word integer that is 100 or has one or two digits.
func ParseScore(text string) (int, bool) {
	m := scorePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseLeadingScore reads the score only from the first non-empty line, which
// must hold nothing but the number.
func ParseLeadingScore(text string) (int, error) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !scoreLinePattern.MatchString(line) {
			return 0, &ParseError{Message: fmt.Sprintf("first line %q is not a bare score", truncateForError(line))}
		}
		n, _ := strconv.Atoi(line)
		return n, nil
	}
	return 0, &ParseError{Message: "empty response"}
}

// DisplayText drops the first non-blank line when it is a bare score and
// otherwise returns the response unchanged.
func DisplayText(raw string) string {
	first, rest, found := strings.Cut(strings.TrimSpace(raw), "\n")
	if !scoreLinePattern.MatchString(strings.TrimSpace(first)) {
		return raw
	}
	if !found {
		return ""
	}
	return strings.TrimLeft(rest, "\n")
}

// Assessor asks a text-generation provider for a narrative fit assessment.
type Assessor struct {
	gen    llm.Generator
	strict bool
	logger *zap.Logger
}

// NewAssessor creates an Assessor. In strict mode the score must be the first
// non-empty line of the response.
func NewAssessor(gen llm.Generator, strict bool, logger *zap.Logger) *Assessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assessor{gen: gen, strict: strict, logger: logger}
}

// Assess sends one prompt and parses the reply. A provider failure returns a nil
// Narrative. A reply without a readable score returns the Narrative alongside a
// *ParseError so the text can still be shown.
func (a *Assessor) Assess(ctx context.Context, resume, job string) (*Narrative, error) {
	raw, err := a.gen.Generate(ctx, BuildPrompt(resume, job))
	if err != nil {
		return nil, err
	}

	n := &Narrative{Raw: raw, Display: DisplayText(raw)}

	if a.strict {
		score, err := ParseLeadingScore(raw)
		if err != nil {
			a.logger.Warn("narrative score rejected", zap.Error(err))
			return n, err
		}
		n.Score = &score
		return n, nil
	}

	score, ok := ParseScore(raw)
	if !ok {
		a.logger.Warn("narrative response has no score", zap.Int("chars", len(raw)))
		return n, &ParseError{Message: "no score found in response"}
	}
	n.Score = &score
	a.logger.Debug("narrative score parsed", zap.Int("score", score))
	return n, nil
}

func truncateForError(s string) string {
	const max = 40
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
