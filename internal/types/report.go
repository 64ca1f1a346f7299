package types

import (
	"time"

	"github.com/google/uuid"
)

// NoticeKind classifies a non-fatal problem surfaced to the user.
type NoticeKind string

const (
	NoticeLowContent NoticeKind = "low_content"
	NoticeExtraction NoticeKind = "extraction"
	NoticeEmbedding  NoticeKind = "embedding"
	NoticeNarrative  NoticeKind = "narrative"
	NoticeParse      NoticeKind = "parse"
	NoticeInput      NoticeKind = "input"
)

// Notice is a human-readable message about a degraded step.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Report is the outcome of one analysis run.
type Report struct {
	ID             uuid.UUID     `json:"id"`
	Outcome        string        `json:"outcome"`
	Label          string        `json:"label"`
	Score          *int          `json:"score,omitempty"`
	DisplayedScore *int          `json:"displayed_score,omitempty"`
	Annotation     string        `json:"annotation,omitempty"`
	SemanticScore  *int          `json:"semantic_score,omitempty"`
	NarrativeScore *int          `json:"narrative_score,omitempty"`
	Narrative      string        `json:"narrative,omitempty"`
	Notices        []Notice      `json:"notices,omitempty"`
	Duration       time.Duration `json:"duration_ns"`
}

// HasScore reports whether a numeric fit score was produced.
func (r *Report) HasScore() bool {
	return r != nil && r.Score != nil
}
