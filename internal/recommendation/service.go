// Package recommendation scores unseen anime for a user with the fitted
// classifier.
package recommendation

import (
	"errors"
	"fmt"
	"time"

	"github.com/kinetsulist/kinetsulist-backend/internal/catalog"
	"github.com/kinetsulist/kinetsulist-backend/internal/dataset"
	"github.com/kinetsulist/kinetsulist-backend/internal/image"
	"github.com/kinetsulist/kinetsulist-backend/internal/metrics"
)

var ErrAnimeNotFound = errors.New("anime not found")

// ColProbability holds the positive-class probability of each candidate.
const ColProbability = "probabilidad_interes"

// OutputColumns are present in every recommendation record, in this order.
var OutputColumns = []string{
	catalog.ColAnimeID,
	catalog.ColTitle,
	catalog.ColRating,
	catalog.ColEpisodes,
	catalog.ColPopularity,
	catalog.ColFavorites,
	catalog.ColSynopsis,
	ColProbability,
	image.Column,
}

type Options struct {
	// LikeThreshold is the probability at or above which Predict says "Sí".
	LikeThreshold float64
	Placeholder   string
}

type Service struct {
	catalog *catalog.Catalog
	opts    Options
}

func NewService(c *catalog.Catalog, opts Options) *Service {
	return &Service{catalog: c, opts: opts}
}

// Recommend returns up to limit unseen items ordered by predicted interest.
func (s *Service) Recommend(userID, limit int) (*dataset.Table, error) {
	history, err := s.catalog.History(userID)
	if err != nil {
		return nil, err
	}
	seen := s.catalog.SeenIDs(userID)
	candidates := s.catalog.Items().Filter(func(r dataset.Row) bool {
		id, err := r.Int(catalog.ColAnimeID)
		if err != nil {
			return false
		}
		_, ok := seen[id]
		return !ok
	})

	fields := OutputColumns[:len(OutputColumns)-1]
	if candidates.Len() == 0 {
		return dataset.MustNew(OutputColumns), nil
	}

	probs, err := s.score(candidates, history.Row(0))
	if err != nil {
		return nil, err
	}
	metrics.CandidatesScored.Observe(float64(candidates.Len()))

	vals := make([]dataset.Value, len(probs))
	for i, p := range probs {
		vals[i] = dataset.Number(p)
	}
	ranked, err := candidates.WithColumn(ColProbability, vals).SortBy(ColProbability, true)
	if err != nil {
		return nil, err
	}
	out := ranked.Head(limit).Ensure(fields...).Project(fields...)
	return image.Join(out, catalog.ColAnimeID, s.catalog.Images(), s.opts.Placeholder), nil
}

// Prediction is the single-item answer of Predict.
type Prediction struct {
	AnimeID     int     `json:"id_anime"`
	Title       string  `json:"titulo"`
	Probability float64 `json:"probabilidad"`
	Percentage  string  `json:"porcentaje"`
	Label       string  `json:"prediccion"`
	Message     string  `json:"mensaje"`
}

// Predict scores one item for userID.
func (s *Service) Predict(userID, animeID int) (*Prediction, error) {
	history, err := s.catalog.History(userID)
	if err != nil {
		return nil, err
	}
	item := s.catalog.Items().Filter(func(r dataset.Row) bool {
		id, err := r.Int(catalog.ColAnimeID)
		return err == nil && id == animeID
	})
	if item.Len() == 0 {
		return nil, fmt.Errorf("%w: %d", ErrAnimeNotFound, animeID)
	}

	probs, err := s.score(item, history.Row(0))
	if err != nil {
		return nil, err
	}
	p := probs[0]
	pct := fmt.Sprintf("%.1f%%", p*100)

	pred := &Prediction{
		AnimeID:     animeID,
		Title:       item.Row(0).Str(catalog.ColTitle),
		Probability: p,
		Percentage:  pct,
		Label:       "No",
		Message:     fmt.Sprintf("Hay un %s de probabilidad de que te guste este anime", pct),
	}
	if p >= s.opts.LikeThreshold {
		pred.Label = "Sí"
	}
	return pred, nil
}

// score overwrites the user-level features of every candidate with the
// values from profile and returns the classifier's positive-class
// probabilities.
func (s *Service) score(candidates *dataset.Table, profile dataset.Row) ([]float64, error) {
	pipe, clf := s.catalog.Classifier()
	x, err := candidates.Matrix(pipe.Features)
	if err != nil {
		return nil, err
	}
	for j, f := range pipe.Features {
		if !catalog.IsPreferenceFeature(f) {
			continue
		}
		v, err := profile.Float(f)
		if err != nil {
			return nil, err
		}
		for i := range x {
			x[i][j] = v
		}
	}

	defer metrics.ObserveInference("classifier", time.Now())
	scaled, err := pipe.Scaler.Transform(x)
	if err != nil {
		return nil, err
	}
	return clf.PredictProba(scaled)
}
