package model

import (
	"errors"
	"fmt"
)

// Scaler standardises features as (x - mean) / scale. A zero scale is
// treated as 1, matching how the scaler was fitted on constant columns.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func (s *Scaler) NumFeatures() int { return len(s.Mean) }

func (s *Scaler) validate() error {
	if len(s.Mean) == 0 {
		return errors.New("scaler has no features")
	}
	if len(s.Mean) != len(s.Scale) {
		return fmt.Errorf("scaler mean has %d entries but scale has %d", len(s.Mean), len(s.Scale))
	}
	return nil
}

// Transform returns a scaled copy of x.
func (s *Scaler) Transform(x [][]float64) ([][]float64, error) {
	out := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != len(s.Mean) {
			return nil, fmt.Errorf("%w: row %d has %d features, scaler expects %d", ErrFeatureMismatch, i, len(row), len(s.Mean))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			sc := s.Scale[j]
			if sc == 0 {
				sc = 1
			}
			scaled[j] = (v - s.Mean[j]) / sc
		}
		out[i] = scaled
	}
	return out, nil
}
