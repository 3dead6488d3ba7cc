// Package admin hosts the ad-hoc regression demo used by the admin page.
package admin

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kinetsulist/kinetsulist-backend/internal/catalog"
	"github.com/kinetsulist/kinetsulist-backend/internal/dataset"
	"github.com/kinetsulist/kinetsulist-backend/internal/metrics"
)

var ErrTitleNotFound = errors.New("no anime matches the title")

// DemoResult is the regression answer for one title. Every field is a
// plain Go primitive so it encodes the same way regardless of the source.
type DemoResult struct {
	AnimeID         int     `json:"id_anime"`
	Name            string  `json:"nombre_anime"`
	PredictedRating float64 `json:"rating_predicho"`
	Recommendable   bool    `json:"es_recomendable"`
	ImageURL        string  `json:"image_url"`
}

type Options struct {
	// RatingThreshold is the predicted rating from which a title is
	// recommendable.
	RatingThreshold float64
	// FallbackImage is used when the image lookup has no URL.
	FallbackImage string
}

type Service struct {
	catalog *catalog.Catalog
	opts    Options
}

func NewService(c *catalog.Catalog, opts Options) *Service {
	return &Service{catalog: c, opts: opts}
}

// DemoLocal finds the first title containing name (case-insensitive) and
// predicts its rating with the regressor.
func (s *Service) DemoLocal(name string) (*DemoResult, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	titleCol := s.catalog.TitleColumn()
	matches := s.catalog.RegressionItems().Filter(func(r dataset.Row) bool {
		return strings.Contains(strings.ToLower(r.Str(titleCol)), query)
	})
	if matches.Len() == 0 {
		return nil, fmt.Errorf("%w: %q", ErrTitleNotFound, name)
	}
	row := matches.Row(0)

	pipe, reg := s.catalog.Regressor()
	x, err := row.Vector(pipe.Features)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	scaled, err := pipe.Scaler.Transform([][]float64{x})
	if err != nil {
		return nil, err
	}
	y, err := reg.Predict(scaled)
	if err != nil {
		return nil, err
	}
	metrics.ObserveInference("regressor", start)

	id, err := row.Int(catalog.ColAnimeID)
	if err != nil {
		return nil, err
	}
	rating := y[0]
	return &DemoResult{
		AnimeID:         id,
		Name:            row.Str(titleCol),
		PredictedRating: rating,
		Recommendable:   rating >= s.opts.RatingThreshold,
		ImageURL:        s.imageURL(id),
	}, nil
}

func (s *Service) imageURL(id int) string {
	lookup := s.catalog.Images()
	if lookup == nil {
		return s.opts.FallbackImage
	}
	if u, ok := lookup.URL(id); ok {
		return u
	}
	return s.opts.FallbackImage
}
