package image

import (
	"fmt"
	"strings"

	"github.com/kinetsulist/kinetsulist-backend/internal/dataset"
)

// InMemoryRepository is a read-only id → URL map built once at startup.
type InMemoryRepository struct {
	urls map[int]string
}

func NewInMemoryRepository(seed map[int]string) *InMemoryRepository {
	r := &InMemoryRepository{urls: make(map[int]string, len(seed))}
	for id, u := range seed {
		if strings.TrimSpace(u) != "" {
			r.urls[id] = u
		}
	}
	return r
}

func (r *InMemoryRepository) URL(animeID int) (string, bool) {
	u, ok := r.urls[animeID]
	return u, ok
}

func (r *InMemoryRepository) Len() int { return len(r.urls) }

// FromTable builds a repository from the id and url columns of t. Rows with a
// non-numeric id or an empty url are skipped; the first row per id wins.
func FromTable(t *dataset.Table, idColumn, urlColumn string) (*InMemoryRepository, error) {
	if err := t.Require(idColumn, urlColumn); err != nil {
		return nil, fmt.Errorf("image table: %w", err)
	}
	urls := make(map[int]string, t.Len())
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		id, err := row.Int(idColumn)
		if err != nil {
			continue
		}
		u := strings.TrimSpace(row.Str(urlColumn))
		if u == "" {
			continue
		}
		if _, dup := urls[id]; !dup {
			urls[id] = u
		}
	}
	return &InMemoryRepository{urls: urls}, nil
}

// LoadCSV reads the image table at path.
func LoadCSV(path, idColumn, urlColumn string) (*InMemoryRepository, error) {
	t, err := dataset.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	return FromTable(t, idColumn, urlColumn)
}
