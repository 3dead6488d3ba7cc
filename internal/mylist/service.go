// Package mylist returns the anime a user has already rated.
package mylist

import (
	"github.com/kinetsulist/kinetsulist-backend/internal/catalog"
	"github.com/kinetsulist/kinetsulist-backend/internal/dataset"
	"github.com/kinetsulist/kinetsulist-backend/internal/image"
)

var outputColumns = []string{
	catalog.ColAnimeID,
	catalog.ColTitle,
	catalog.ColUserRating,
	catalog.ColRating,
	catalog.ColEpisodes,
}

type Service struct {
	catalog     *catalog.Catalog
	placeholder string
}

func NewService(c *catalog.Catalog, placeholder string) *Service {
	return &Service{catalog: c, placeholder: placeholder}
}

// List returns the user's rows sorted by their own rating, highest first.
func (s *Service) List(userID, limit int) (*dataset.Table, error) {
	history, err := s.catalog.History(userID)
	if err != nil {
		return nil, err
	}
	sorted, err := history.SortBy(catalog.ColUserRating, true)
	if err != nil {
		return nil, err
	}
	out := sorted.Project(outputColumns...).Head(limit)
	return image.Join(out, catalog.ColAnimeID, s.catalog.Images(), s.placeholder), nil
}
