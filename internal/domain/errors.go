package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrModelNotLoaded   = errors.New("model artifacts not loaded")
	ErrModelComputation = errors.New("model produced a non-finite score")
	ErrDimension        = errors.New("feature dimension mismatch")
	ErrReviewNotFound   = errors.New("review not found")
)

// DimensionError reports a fused feature vector whose width differs from the
// width the classifier was trained on.
type DimensionError struct {
	Got  int
	Want int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: got %d features, classifier expects %d", ErrDimension, e.Got, e.Want)
}

func (e *DimensionError) Is(target error) bool {
	return target == ErrDimension
}
