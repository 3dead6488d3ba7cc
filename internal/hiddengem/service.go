// Package hiddengem serves the items of the "hidden gems" cluster.
package hiddengem

import (
	"errors"

	"github.com/kinetsulist/kinetsulist-backend/internal/catalog"
	"github.com/kinetsulist/kinetsulist-backend/internal/dataset"
	"github.com/kinetsulist/kinetsulist-backend/internal/image"
)

var (
	ErrNoClusters   = errors.New("clustering dataset has no cluster column")
	ErrEmptyCluster = errors.New("hidden gem cluster is empty")
)

var outputColumns = []string{
	catalog.ColAnimeID,
	catalog.ColTitle,
	catalog.ColRating,
	catalog.ColEpisodes,
	catalog.ColPopularity,
	catalog.ColFavorites,
	catalog.ColSynopsis,
}

type Options struct {
	// Cluster is the label picked as hidden gems during offline analysis.
	Cluster     int
	Placeholder string
}

type Service struct {
	catalog *catalog.Catalog
	opts    Options
}

func NewService(c *catalog.Catalog, opts Options) *Service {
	return &Service{catalog: c, opts: opts}
}

// List returns up to limit hidden gems, best rated first. When hasUser is
// set, items from that user's history are left out; a user without history
// gets the unfiltered list.
func (s *Service) List(userID int, hasUser bool, limit int) (*dataset.Table, error) {
	if !s.catalog.HasClusters() {
		return nil, ErrNoClusters
	}
	gems := s.catalog.ClusterItems().Filter(func(r dataset.Row) bool {
		label, err := r.Int(catalog.ColCluster)
		return err == nil && label == s.opts.Cluster
	})
	if gems.Len() == 0 {
		return nil, ErrEmptyCluster
	}

	if hasUser {
		if seen := s.catalog.SeenIDs(userID); len(seen) > 0 {
			gems = gems.Filter(func(r dataset.Row) bool {
				id, err := r.Int(catalog.ColAnimeID)
				if err != nil {
					return false
				}
				_, ok := seen[id]
				return !ok
			})
		}
	}

	if gems.HasColumn(catalog.ColRating) {
		sorted, err := gems.SortBy(catalog.ColRating, true)
		if err != nil {
			return nil, err
		}
		gems = sorted
	}
	out := gems.Project(outputColumns...).Head(limit)
	return image.Join(out, catalog.ColAnimeID, s.catalog.Images(), s.opts.Placeholder), nil
}
