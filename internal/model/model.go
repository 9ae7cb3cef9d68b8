// Package model holds the pre-fitted numeric artifacts used to score reviews:
// a text vectorizer, a linear polarity classifier and the emoji weight table.
package model

import (
	"fmt"

	"reviewsense/internal/domain"
	"reviewsense/internal/emoji"
)

// Vectorizer turns normalized text into a fixed-width numeric vector.
type Vectorizer interface {
	Transform(text string) []float64
	Width() int
}

// Classifier is a linear decision-function model over fused feature vectors.
type Classifier interface {
	DecisionFunction(features []float64) (float64, error)
	Width() int
}

// Artifacts is the read-only set of models shared by every scoring call.
type Artifacts struct {
	Vectorizer Vectorizer
	Classifier Classifier
	Emoji      emoji.Weights

	// Fingerprint identifies the artifact files this set was loaded from.
	Fingerprint string
}

// Loaded reports whether all three artifacts are present.
func (a *Artifacts) Loaded() bool {
	return a != nil && a.Vectorizer != nil && a.Classifier != nil && a.Emoji != nil
}

// Check verifies that the vectorizer output plus the emoji column matches the
// classifier's input width.
func (a *Artifacts) Check() error {
	if !a.Loaded() {
		return domain.ErrModelNotLoaded
	}
	got := a.Vectorizer.Width() + 1
	if want := a.Classifier.Width(); got != want {
		return fmt.Errorf("vectorizer and classifier disagree: %w", &domain.DimensionError{Got: got, Want: want})
	}
	return nil
}
