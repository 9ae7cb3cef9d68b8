package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"

	"reviewsense/internal/domain"
)

// LinearClassifier scores a feature vector as coef·x + intercept.
type LinearClassifier struct {
	coef      []float64
	intercept float64
}

type classifierFile struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

func NewLinearClassifier(coef []float64, intercept float64) *LinearClassifier {
	return &LinearClassifier{
		coef:      append([]float64(nil), coef...),
		intercept: intercept,
	}
}

// LoadClassifier decodes a linear classifier exported as JSON.
func LoadClassifier(r io.Reader) (*LinearClassifier, error) {
	var f classifierFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode classifier: %w", err)
	}
	if len(f.Coef) == 0 {
		return nil, errors.New("decode classifier: empty coef")
	}
	return &LinearClassifier{coef: f.Coef, intercept: f.Intercept}, nil
}

func (c *LinearClassifier) Width() int {
	return len(c.coef)
}

// DecisionFunction returns the signed distance of features from the decision
// boundary, scaled by the weight norm.
func (c *LinearClassifier) DecisionFunction(features []float64) (float64, error) {
	if len(features) != len(c.coef) {
		return 0, &domain.DimensionError{Got: len(features), Want: len(c.coef)}
	}
	return floats.Dot(c.coef, features) + c.intercept, nil
}
