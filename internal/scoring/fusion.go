package scoring

import "math"

// Fusion weights for the combined score.
const (
	SemanticWeight  = 0.6
	NarrativeWeight = 0.4
)

// Outcome names which component scores contributed to a Fit.
type Outcome string

const (
	OutcomeCombined      Outcome = "combined"
	OutcomeSemanticOnly  Outcome = "semantic_only"
	OutcomeNarrativeOnly Outcome = "narrative_only"
	OutcomeNone          Outcome = "none"
)

// Labels and annotations shown with a Fit.
const (
	LabelOverall = "Overall Fit Score"
	LabelFit     = "Fit Score"

	AnnotationNarrativeMissing = "AI score unavailable; showing semantic score only."
	AnnotationSemanticMissing  = "Semantic score unavailable; showing AI score only."
	AnnotationNoScore          = "Couldn't compute a numeric score. See analysis below."
)

// Fit is the fused result.
type Fit struct {
	Outcome    Outcome
	Score      *int
	Label      string
	Annotation string
}

// Fuse combines whichever component scores are present.
func Fuse(semantic, narrative *int) Fit {
	switch {
	case semantic != nil && narrative != nil:
		score := int(math.Round(SemanticWeight*float64(*semantic) + NarrativeWeight*float64(*narrative)))
		return Fit{Outcome: OutcomeCombined, Score: &score, Label: LabelOverall}
	case semantic != nil:
		score := *semantic
		return Fit{Outcome: OutcomeSemanticOnly, Score: &score, Label: LabelFit, Annotation: AnnotationNarrativeMissing}
	case narrative != nil:
		score := *narrative
		return Fit{Outcome: OutcomeNarrativeOnly, Score: &score, Label: LabelFit, Annotation: AnnotationSemanticMissing}
	default:
		return Fit{Outcome: OutcomeNone, Annotation: AnnotationNoScore}
	}
}

// Displayed returns the score clamped to 0-100, or nil when there is none.
func (f Fit) Displayed() *int {
	if f.Score == nil {
		return nil
	}
	v := Clamp(*f.Score)
	return &v
}
