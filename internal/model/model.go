// Package model evaluates the pre-fitted artifacts exported by the offline
// training notebooks: a standard scaler, an ordered feature list, a binary
// classifier and a regressor. Artifacts are JSON documents; see Decode*.
package model

import (
	"errors"
	"fmt"
	"math"
)

// Classifier scores rows; PredictProba returns the positive-class probability
// of each row.
type Classifier interface {
	PredictProba(x [][]float64) ([]float64, error)
	NumFeatures() int
}

// Regressor predicts one numeric target per row.
type Regressor interface {
	Predict(x [][]float64) ([]float64, error)
	NumFeatures() int
}

var ErrFeatureMismatch = errors.New("feature count mismatch")

func checkWidth(x [][]float64, n int) error {
	for i, row := range x {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d features, model expects %d", ErrFeatureMismatch, i, len(row), n)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("row %d feature %d is not finite", i, j)
			}
		}
	}
	return nil
}

// LogisticRegression is a binary linear classifier.
type LogisticRegression struct {
	Coef      []float64
	Intercept float64
}

func (m *LogisticRegression) NumFeatures() int { return len(m.Coef) }

func (m *LogisticRegression) PredictProba(x [][]float64) ([]float64, error) {
	if err := checkWidth(x, len(m.Coef)); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = sigmoid(dot(m.Coef, row) + m.Intercept)
	}
	return out, nil
}

// LinearRegression is an ordinary linear model.
type LinearRegression struct {
	Coef      []float64
	Intercept float64
}

func (m *LinearRegression) NumFeatures() int { return len(m.Coef) }

func (m *LinearRegression) Predict(x [][]float64) ([]float64, error) {
	if err := checkWidth(x, len(m.Coef)); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = dot(m.Coef, row) + m.Intercept
	}
	return out, nil
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
