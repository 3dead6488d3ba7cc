package model

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// Artifact kinds accepted in the "kind" field of model documents.
const (
	KindLogisticRegression     = "logistic_regression"
	KindRandomForestClassifier = "random_forest_classifier"
	KindLinearRegression       = "linear_regression"
	KindRandomForestRegressor  = "random_forest_regressor"
)

type document struct {
	Kind      string    `json:"kind"`
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
	Features  int       `json:"n_features"`
	Trees     []Tree    `json:"trees"`
}

// FeatureList is the ordered list of columns a model was trained on.
type FeatureList []string

func DecodeFeatures(data []byte) (FeatureList, error) {
	var fl FeatureList
	if err := json.Unmarshal(data, &fl); err != nil {
		return nil, fmt.Errorf("decoding feature list: %w", err)
	}
	if len(fl) == 0 {
		return nil, errors.New("feature list is empty")
	}
	seen := make(map[string]struct{}, len(fl))
	for _, f := range fl {
		if _, dup := seen[f]; dup {
			return nil, fmt.Errorf("feature %q listed twice", f)
		}
		seen[f] = struct{}{}
	}
	return fl, nil
}

func DecodeScaler(data []byte) (*Scaler, error) {
	var s Scaler
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding scaler: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func DecodeClassifier(data []byte) (Classifier, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding classifier: %w", err)
	}
	switch doc.Kind {
	case KindLogisticRegression:
		if len(doc.Coef) == 0 {
			return nil, errors.New("logistic regression has no coefficients")
		}
		return &LogisticRegression{Coef: doc.Coef, Intercept: doc.Intercept}, nil
	case KindRandomForestClassifier:
		if err := validateForest(doc, 2); err != nil {
			return nil, err
		}
		return &ForestClassifier{Features: doc.Features, Trees: doc.Trees}, nil
	default:
		return nil, fmt.Errorf("unsupported classifier kind %q", doc.Kind)
	}
}

func DecodeRegressor(data []byte) (Regressor, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding regressor: %w", err)
	}
	switch doc.Kind {
	case KindLinearRegression:
		if len(doc.Coef) == 0 {
			return nil, errors.New("linear regression has no coefficients")
		}
		return &LinearRegression{Coef: doc.Coef, Intercept: doc.Intercept}, nil
	case KindRandomForestRegressor:
		if err := validateForest(doc, 1); err != nil {
			return nil, err
		}
		return &ForestRegressor{Features: doc.Features, Trees: doc.Trees}, nil
	default:
		return nil, fmt.Errorf("unsupported regressor kind %q", doc.Kind)
	}
}

func validateForest(doc document, valueWidth int) error {
	if doc.Features <= 0 {
		return errors.New("forest must declare n_features")
	}
	if len(doc.Trees) == 0 {
		return errors.New("forest has no trees")
	}
	for i := range doc.Trees {
		if err := doc.Trees[i].validate(doc.Features, valueWidth); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

func LoadFeatures(path string) (FeatureList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeFeatures(data)
}

func LoadScaler(path string) (*Scaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeScaler(data)
}

func LoadClassifier(path string) (Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeClassifier(data)
}

func LoadRegressor(path string) (Regressor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeRegressor(data)
}

// Pipeline pairs a scaler and a feature list with the model they feed.
type Pipeline struct {
	Features FeatureList
	Scaler   *Scaler
}

// Check verifies the feature list, scaler and model agree on width.
func (p Pipeline) Check(modelFeatures int) error {
	if p.Scaler.NumFeatures() != len(p.Features) {
		return fmt.Errorf("%w: scaler has %d features, feature list has %d", ErrFeatureMismatch, p.Scaler.NumFeatures(), len(p.Features))
	}
	if modelFeatures != len(p.Features) {
		return fmt.Errorf("%w: model has %d features, feature list has %d", ErrFeatureMismatch, modelFeatures, len(p.Features))
	}
	return nil
}
