package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewsense/internal/domain"
)

func TestLinearClassifier_DecisionFunction(t *testing.T) {
	c := NewLinearClassifier([]float64{0.5, -1.0, 2.0}, -0.25)

	score, err := c.DecisionFunction([]float64{1, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.25, score, 1e-12)

	score, err = c.DecisionFunction([]float64{0, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, -0.25, score, 1e-12)
}

func TestLinearClassifier_DimensionMismatch(t *testing.T) {
	c := NewLinearClassifier([]float64{1, 2, 3}, 0)

	_, err := c.DecisionFunction([]float64{1, 2})
	require.ErrorIs(t, err, domain.ErrDimension)

	var dimErr *domain.DimensionError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 2, dimErr.Got)
	assert.Equal(t, 3, dimErr.Want)
}

func TestLoadClassifier(t *testing.T) {
	c, err := LoadClassifier(strings.NewReader(`{"coef": [0.1, 0.2], "intercept": -0.5}`))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Width())

	_, err = LoadClassifier(strings.NewReader(`{"coef": [], "intercept": 1}`))
	assert.Error(t, err)

	_, err = LoadClassifier(strings.NewReader(`[]`))
	assert.Error(t, err)
}
