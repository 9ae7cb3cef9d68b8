package sentiment

import (
	"fmt"
	"math"

	"reviewsense/internal/domain"
	"reviewsense/internal/emoji"
	"reviewsense/internal/model"
)

// Threshold is the decision boundary the classifier was calibrated with.
// Scores strictly above it are Positive.
const Threshold = -0.5456117703308974

type Pipeline struct {
	artifacts *model.Artifacts
}

func NewPipeline(artifacts *model.Artifacts) *Pipeline {
	return &Pipeline{artifacts: artifacts}
}

// Fingerprint identifies the artifacts behind this pipeline, or "" when none
// are loaded.
func (p *Pipeline) Fingerprint() string {
	if !p.artifacts.Loaded() {
		return ""
	}
	return p.artifacts.Fingerprint
}

// Score classifies text. It returns ErrInvalidInput for empty text,
// ErrModelNotLoaded without artifacts, a *DimensionError when the fused
// vector does not fit the classifier and ErrModelComputation for a
// non-finite score.
func (p *Pipeline) Score(text string) (*domain.ScoreResult, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: review text is required", domain.ErrInvalidInput)
	}
	if !p.artifacts.Loaded() {
		return nil, domain.ErrModelNotLoaded
	}

	emojis, clean := emoji.Extract(text)
	scalar := emoji.Score(p.artifacts.Emoji, emojis)

	features := Fuse(p.artifacts.Vectorizer.Transform(clean), scalar)

	score, err := p.artifacts.Classifier.DecisionFunction(features)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelComputation, score)
	}

	if emojis == nil {
		emojis = []string{}
	}

	return &domain.ScoreResult{
		RawScore:    score,
		Label:       Decide(score),
		Emojis:      emojis,
		EmojiScalar: scalar,
	}, nil
}

// Fuse appends the emoji scalar to the text vector as one trailing column.
// The input slice is not modified.
func Fuse(text []float64, emojiScalar int) []float64 {
	fused := make([]float64, len(text)+1)
	copy(fused, text)
	fused[len(text)] = float64(emojiScalar)
	return fused
}

func Decide(score float64) domain.Label {
	if score > Threshold {
		return domain.LabelPositive
	}
	return domain.LabelNegative
}
