// Package catalogtest builds a small in-memory Catalog for handler tests.
//
// Users: 1 has seen anime 1 and 2 with action preference; 2 has seen 3, 1
// and 5 without it; 3 has seen 4; 4 has seen every anime. The classifier scores
// pref_accion + puntuacion - 8 through a sigmoid and the regressor returns
// puntuacion unchanged, so expected outputs can be worked out by hand.
package catalogtest

import (
	"testing"

	"github.com/kinetsulist/kinetsulist-backend/internal/catalog"
	"github.com/kinetsulist/kinetsulist-backend/internal/dataset"
	"github.com/kinetsulist/kinetsulist-backend/internal/image"
	"github.com/kinetsulist/kinetsulist-backend/internal/model"
)

const Placeholder = "https://example.test/sin-imagen.png"

// Option adjusts the resources before the catalog is built.
type Option func(*catalog.Resources)

// WithoutClusters drops the cluster column from the clustering dataset.
func WithoutClusters() Option {
	return func(r *catalog.Resources) {
		cols := r.Clustering.Columns()
		keep := cols[:0]
		for _, c := range cols {
			if c != catalog.ColCluster {
				keep = append(keep, c)
			}
		}
		r.Clustering = r.Clustering.Project(keep...)
	}
}

// Classifier replaces the classification model.
func Classifier(clf model.Classifier) Option {
	return func(r *catalog.Resources) { r.Classifier = clf }
}

// Images replaces the image lookup.
func Images(lookup image.Lookup) Option {
	return func(r *catalog.Resources) { r.Images = lookup }
}

func Resources() catalog.Resources {
	classification := dataset.MustNew(
		[]string{"id_usuario", "id_anime", "titulo_anime", "puntuacion_usuario", "puntuacion", "total_episodios", "popularidad", "favoritos", "sinopsis", "pref_accion", "promedio_usuario"},
		[]any{1, 1, "Naruto", 9, 8.0, 220, 10, 5000, "Ninjas", 1, 8},
		[]any{1, 2, "Bleach", 7, 7.5, 366, 30, 3000, "Shinigamis", 1, 8},
		[]any{2, 3, "Monster", 10, 8.9, 74, 150, 4000, "Thriller", 0, 6},
		[]any{2, 1, "Naruto", 6, 8.0, 220, 10, 5000, "Ninjas", 0, 6},
		[]any{2, 5, "Mushishi", 9, 8.6, 26, 300, 1200, "Calma", 0, 6},
		[]any{3, 4, "One Piece", 8, 8.7, 1000, 20, 9000, "Piratas", 1, 7},
		[]any{4, 1, "Naruto", 5, 8.0, 220, 10, 5000, "Ninjas", 0, 7},
		[]any{4, 2, "Bleach", 6, 7.5, 366, 30, 3000, "Shinigamis", 0, 7},
		[]any{4, 3, "Monster", 9, 8.9, 74, 150, 4000, "Thriller", 0, 7},
		[]any{4, 4, "One Piece", 8, 8.7, 1000, 20, 9000, "Piratas", 0, 7},
		[]any{4, 5, "Mushishi", 8, 8.6, 26, 300, 1200, "Calma", 0, 7},
	)
	regression := dataset.MustNew(
		[]string{"id_anime", "titulo_anime", "puntuacion", "popularidad"},
		[]any{1, "Naruto", 8.0, 10},
		[]any{2, "Bleach", 7.4, 30},
		[]any{3, "Monster", 8.9, 150},
		[]any{1, "Naruto", 8.0, 10},
	)
	clustering := dataset.MustNew(
		[]string{"id_anime", "titulo_anime", "puntuacion", "total_episodios", "popularidad", "favoritos", "sinopsis", "cluster"},
		[]any{1, "Naruto", 8.0, 220, 10, 5000, "Ninjas", 1},
		[]any{2, "Bleach", 7.5, 366, 30, 3000, "Shinigamis", 0},
		[]any{3, "Monster", 8.9, 74, 150, 4000, "Thriller", 1},
		[]any{5, "Mushishi", 8.6, 26, 300, 1200, "Calma", 1},
		[]any{4, "One Piece", 8.7, 1000, 20, 9000, "Piratas", 2},
		[]any{3, "Monster", 8.9, 74, 150, 4000, "Thriller", 1},
	)

	classFeatures := model.FeatureList{"pref_accion", "promedio_usuario", "puntuacion", "popularidad"}
	regFeatures := model.FeatureList{"puntuacion", "popularidad"}

	return catalog.Resources{
		Classification: classification,
		Regression:     regression,
		Clustering:     clustering,
		ClassifierPipeline: model.Pipeline{
			Features: classFeatures,
			Scaler:   identity(len(classFeatures)),
		},
		Classifier: &model.LogisticRegression{Coef: []float64{1, 0, 1, 0}, Intercept: -8},
		RegressorPipeline: model.Pipeline{
			Features: regFeatures,
			Scaler:   identity(len(regFeatures)),
		},
		Regressor: &model.LinearRegression{Coef: []float64{1, 0}, Intercept: 0},
		Images: image.NewInMemoryRepository(map[int]string{
			1: "https://cdn.test/naruto.jpg",
			3: "https://cdn.test/monster.jpg",
		}),
	}
}

// New builds the fixture catalog or fails the test.
func New(tb testing.TB, opts ...Option) *catalog.Catalog {
	tb.Helper()
	res := Resources()
	for _, opt := range opts {
		opt(&res)
	}
	c, err := catalog.New(res, []string{"titulo_anime", "nombre_anime"})
	if err != nil {
		tb.Fatalf("building fixture catalog: %v", err)
	}
	return c
}

func identity(n int) *model.Scaler {
	s := &model.Scaler{Mean: make([]float64, n), Scale: make([]float64, n)}
	for i := range s.Scale {
		s.Scale[i] = 1
	}
	return s
}
