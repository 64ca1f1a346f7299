// Package scoring turns embeddings and narrative assessments into fit scores.
package scoring

import (
	"context"
	"math"

	"github.com/jonathan/resume-fit/internal/llm"
)

// CosineSimilarity returns the cosine of the angle between a and b. Vectors of
// different lengths, empty vectors and zero-norm vectors yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// ToScore scales a cosine to an integer score. The result is not clamped;
// negative similarity produces a negative score.
func ToScore(cosine float64) int {
	return int(math.Round(cosine * 100))
}

// Clamp limits a score to the displayable 0-100 range.
func Clamp(score int) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}

// SemanticScore embeds both texts, one request each, and scores their similarity.
func SemanticScore(ctx context.Context, embedder llm.Embedder, resume, job string) (int, error) {
	resumeVec, err := embedder.Embed(ctx, resume)
	if err != nil {
		return 0, err
	}
	jobVec, err := embedder.Embed(ctx, job)
	if err != nil {
		return 0, err
	}
	return ToScore(CosineSimilarity(resumeVec, jobVec)), nil
}
