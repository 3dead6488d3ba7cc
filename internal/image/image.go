// Package image resolves anime ids to cover image URLs and joins them onto
// result tables.
package image

import "github.com/kinetsulist/kinetsulist-backend/internal/dataset"

// Column is the name of the column Join adds.
const Column = "image_url"

// Lookup resolves an anime id to its image URL.
type Lookup interface {
	URL(animeID int) (string, bool)
}

// Join returns a copy of t with an image_url column holding the URL for each
// row's idColumn value, or placeholder when none is known. Only the image
// column is added; t itself is left untouched.
func Join(t *dataset.Table, idColumn string, lookup Lookup, placeholder string) *dataset.Table {
	vals := make([]dataset.Value, t.Len())
	for i := range vals {
		vals[i] = dataset.Text(placeholder)
		if lookup == nil {
			continue
		}
		id, err := t.Row(i).Int(idColumn)
		if err != nil {
			continue
		}
		if url, ok := lookup.URL(id); ok {
			vals[i] = dataset.Text(url)
		}
	}
	return t.WithColumn(Column, vals)
}
