package model

import (
	"errors"
	"fmt"
)

// Node is one split or leaf of a decision tree, laid out like the arrays of a
// fitted tree: Left == -1 marks a leaf.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value"`
}

type Tree struct {
	Nodes []Node `json:"nodes"`
}

func (t *Tree) leaf(x []float64) []float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Left == -1 {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// validate checks indexes so evaluation can never loop or go out of range.
func (t *Tree) validate(nFeatures, valueWidth int) error {
	if len(t.Nodes) == 0 {
		return errors.New("tree has no nodes")
	}
	for i, n := range t.Nodes {
		if n.Left == -1 {
			if len(n.Value) < valueWidth {
				return fmt.Errorf("leaf %d has %d values, want %d", i, len(n.Value), valueWidth)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d, model has %d", i, n.Feature, nFeatures)
		}
		// children always come after their parent in the exported arrays
		if n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d has invalid children %d/%d", i, n.Left, n.Right)
		}
	}
	return nil
}

// ForestClassifier averages the per-tree class distributions; class index 1
// is the positive class.
type ForestClassifier struct {
	Features int
	Trees    []Tree
}

func (m *ForestClassifier) NumFeatures() int { return m.Features }

func (m *ForestClassifier) PredictProba(x [][]float64) ([]float64, error) {
	if err := checkWidth(x, m.Features); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, row := range x {
		var sum float64
		for t := range m.Trees {
			v := m.Trees[t].leaf(row)
			total := v[0] + v[1]
			if total > 0 {
				sum += v[1] / total
			}
		}
		out[i] = sum / float64(len(m.Trees))
	}
	return out, nil
}

// ForestRegressor averages the leaf values of its trees.
type ForestRegressor struct {
	Features int
	Trees    []Tree
}

func (m *ForestRegressor) NumFeatures() int { return m.Features }

func (m *ForestRegressor) Predict(x [][]float64) ([]float64, error) {
	if err := checkWidth(x, m.Features); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, row := range x {
		var sum float64
		for t := range m.Trees {
			sum += m.Trees[t].leaf(row)[0]
		}
		out[i] = sum / float64(len(m.Trees))
	}
	return out, nil
}
