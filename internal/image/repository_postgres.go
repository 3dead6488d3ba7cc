package image

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// PostgresRepository reads image URLs from a table with id_anime and
// image_url columns.
type PostgresRepository struct {
	db    *sql.DB
	query string
}

func NewPostgresRepository(db *sql.DB, table string) *PostgresRepository {
	return &PostgresRepository{
		db:    db,
		query: fmt.Sprintf(`SELECT id_anime, image_url FROM %s WHERE id_anime = ANY($1)`, pq.QuoteIdentifier(table)),
	}
}

// Snapshot fetches the URLs of ids and returns them as an in-memory
// repository, so requests never touch the database.
func (r *PostgresRepository) Snapshot(ctx context.Context, ids []int) (*InMemoryRepository, error) {
	keys := make([]int64, len(ids))
	for i, id := range ids {
		keys[i] = int64(id)
	}
	rows, err := r.db.QueryContext(ctx, r.query, pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("query images: %w", err)
	}
	defer rows.Close()

	urls := make(map[int]string, len(ids))
	for rows.Next() {
		var (
			id  int
			url sql.NullString
		)
		if err := rows.Scan(&id, &url); err != nil {
			return nil, fmt.Errorf("scan image row: %w", err)
		}
		if !url.Valid || strings.TrimSpace(url.String) == "" {
			continue
		}
		if _, dup := urls[id]; !dup {
			urls[id] = url.String
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate images: %w", err)
	}
	return &InMemoryRepository{urls: urls}, nil
}
