package model

import (
	"errors"
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestScalerTransform(t *testing.T) {
	s, err := DecodeScaler([]byte(`{"mean":[1,10],"scale":[2,0]}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	out, err := s.Transform([][]float64{{3, 12}})
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}
	if !near(out[0][0], 1) || !near(out[0][1], 2) {
		t.Fatalf("unexpected scaled row %v", out[0])
	}
	if _, err := s.Transform([][]float64{{1}}); !errors.Is(err, ErrFeatureMismatch) {
		t.Fatalf("expected feature mismatch, got %v", err)
	}
	if _, err := DecodeScaler([]byte(`{"mean":[1],"scale":[1,2]}`)); err == nil {
		t.Fatalf("expected mismatched scaler to be rejected")
	}
}

func TestLogisticRegression(t *testing.T) {
	c, err := DecodeClassifier([]byte(`{"kind":"logistic_regression","coef":[1,-1],"intercept":0}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	p, err := c.PredictProba([][]float64{{0, 0}, {2, 0}, {0, 50}})
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	if !near(p[0], 0.5) {
		t.Fatalf("expected 0.5 at the decision boundary, got %v", p[0])
	}
	if !near(p[1], 1/(1+math.Exp(-2))) {
		t.Fatalf("unexpected probability %v", p[1])
	}
	if p[2] <= 0 || p[2] > 1e-20 {
		t.Fatalf("expected tiny but positive probability, got %v", p[2])
	}
	if _, err := c.PredictProba([][]float64{{math.NaN(), 1}}); err == nil {
		t.Fatalf("expected NaN input to be rejected")
	}
}

const forestDoc = `{
  "kind": "random_forest_classifier",
  "n_features": 2,
  "trees": [
    {"nodes": [
      {"feature": 0, "threshold": 0.5, "left": 1, "right": 2},
      {"left": -1, "right": -1, "value": [3, 1]},
      {"left": -1, "right": -1, "value": [0, 4]}
    ]},
    {"nodes": [
      {"left": -1, "right": -1, "value": [1, 1]}
    ]}
  ]
}`

func TestForestClassifier(t *testing.T) {
	c, err := DecodeClassifier([]byte(forestDoc))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if c.NumFeatures() != 2 {
		t.Fatalf("expected 2 features, got %d", c.NumFeatures())
	}
	p, err := c.PredictProba([][]float64{{0, 0}, {1, 0}})
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	if !near(p[0], (0.25+0.5)/2) || !near(p[1], (1+0.5)/2) {
		t.Fatalf("unexpected probabilities %v", p)
	}
}

func TestForestRejectsBadTrees(t *testing.T) {
	bad := `{"kind":"random_forest_classifier","n_features":1,"trees":[{"nodes":[{"feature":3,"threshold":0,"left":1,"right":2}]}]}`
	if _, err := DecodeClassifier([]byte(bad)); err == nil {
		t.Fatalf("expected out-of-range feature to be rejected")
	}
	cyc := `{"kind":"random_forest_regressor","n_features":1,"trees":[{"nodes":[{"feature":0,"threshold":0,"left":0,"right":0}]}]}`
	if _, err := DecodeRegressor([]byte(cyc)); err == nil {
		t.Fatalf("expected self-referencing node to be rejected")
	}
}

func TestRegressors(t *testing.T) {
	lin, err := DecodeRegressor([]byte(`{"kind":"linear_regression","coef":[0.5,2],"intercept":6}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	y, err := lin.Predict([][]float64{{2, 0.25}})
	if err != nil || !near(y[0], 7.5) {
		t.Fatalf("expected 7.5, got %v (%v)", y, err)
	}

	forest, err := DecodeRegressor([]byte(`{"kind":"random_forest_regressor","n_features":1,"trees":[
		{"nodes":[{"feature":0,"threshold":1,"left":1,"right":2},{"left":-1,"right":-1,"value":[6]},{"left":-1,"right":-1,"value":[8]}]},
		{"nodes":[{"left":-1,"right":-1,"value":[7]}]}]}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	y, err = forest.Predict([][]float64{{0}, {5}})
	if err != nil || !near(y[0], 6.5) || !near(y[1], 7.5) {
		t.Fatalf("unexpected forest predictions %v (%v)", y, err)
	}

	if _, err := DecodeRegressor([]byte(`{"kind":"svm"}`)); err == nil {
		t.Fatalf("expected unsupported kind error")
	}
}

func TestFeaturesAndPipelineCheck(t *testing.T) {
	fl, err := DecodeFeatures([]byte(`["a","b"]`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if _, err := DecodeFeatures([]byte(`["a","a"]`)); err == nil {
		t.Fatalf("expected duplicate feature to be rejected")
	}
	s := &Scaler{Mean: []float64{0, 0}, Scale: []float64{1, 1}}
	if err := (Pipeline{Features: fl, Scaler: s}).Check(2); err != nil {
		t.Fatalf("expected consistent pipeline, got %v", err)
	}
	if err := (Pipeline{Features: fl, Scaler: s}).Check(3); !errors.Is(err, ErrFeatureMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
}
