package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"

	"github.com/kinetsulist/kinetsulist-backend/internal/config"
	"github.com/kinetsulist/kinetsulist-backend/internal/dataset"
	"github.com/kinetsulist/kinetsulist-backend/internal/image"
	"github.com/kinetsulist/kinetsulist-backend/internal/model"
)

// Load reads every artifact from the configured layout and builds the
// Catalog. Any failure is returned; callers treat it as fatal.
func Load(ctx context.Context, cfg *config.Config, log *logrus.Entry) (*Catalog, error) {
	d := cfg.Data
	var (
		res Resources
		err error
	)

	if res.ClassifierPipeline, err = loadPipeline(d.Path(d.ClassifierFeatures), d.Path(d.ClassifierScaler)); err != nil {
		return nil, fmt.Errorf("classifier pipeline: %w", err)
	}
	if res.Classifier, err = model.LoadClassifier(d.Path(d.ClassifierModel)); err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	if res.RegressorPipeline, err = loadPipeline(d.Path(d.RegressorFeatures), d.Path(d.RegressorScaler)); err != nil {
		return nil, fmt.Errorf("regressor pipeline: %w", err)
	}
	if res.Regressor, err = model.LoadRegressor(d.Path(d.RegressorModel)); err != nil {
		return nil, fmt.Errorf("regressor: %w", err)
	}

	if res.Classification, err = dataset.LoadCSV(d.Path(d.ClassificationTable)); err != nil {
		return nil, fmt.Errorf("classification dataset: %w", err)
	}
	if res.Regression, err = dataset.LoadCSV(d.Path(d.RegressionTable)); err != nil {
		return nil, fmt.Errorf("regression dataset: %w", err)
	}
	if res.Clustering, err = dataset.LoadCSV(d.Path(d.ClusteringTable)); err != nil {
		return nil, fmt.Errorf("clustering dataset: %w", err)
	}

	c, err := New(res, cfg.Recommend.TitleColumns)
	if err != nil {
		return nil, err
	}

	images, err := loadImages(ctx, cfg, c)
	if err != nil {
		return nil, fmt.Errorf("images: %w", err)
	}
	c.res.Images = images

	if !c.HasClusters() {
		log.WithField("column", ColCluster).Warn("clustering dataset has no cluster column, hidden gems disabled")
	}
	log.WithFields(logrus.Fields{
		"users":        c.Users(),
		"items":        c.Items().Len(),
		"title_column": c.TitleColumn(),
		"images":       images.Len(),
	}).Info("catalog loaded")
	return c, nil
}

func loadPipeline(featuresPath, scalerPath string) (model.Pipeline, error) {
	features, err := model.LoadFeatures(featuresPath)
	if err != nil {
		return model.Pipeline{}, err
	}
	scaler, err := model.LoadScaler(scalerPath)
	if err != nil {
		return model.Pipeline{}, err
	}
	return model.Pipeline{Features: features, Scaler: scaler}, nil
}

// loadImages reads the image table from CSV, or from Postgres when
// images.database_url is set. The Postgres rows are copied into memory once.
func loadImages(ctx context.Context, cfg *config.Config, c *Catalog) (*image.InMemoryRepository, error) {
	if cfg.Images.DatabaseURL == "" {
		return image.LoadCSV(cfg.Data.Path(cfg.Data.ImageTable), cfg.Images.IDColumn, cfg.Images.URLColumn)
	}

	db, err := sql.Open("pgx", cfg.Images.DatabaseURL)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return image.NewPostgresRepository(db, cfg.Images.TableName).Snapshot(ctx, c.animeIDs())
}

// animeIDs lists every anime id referenced by any dataset.
func (c *Catalog) animeIDs() []int {
	seen := make(map[int]struct{})
	var ids []int
	for _, t := range []*dataset.Table{c.items, c.regressionItems, c.clusterItems} {
		for i := 0; i < t.Len(); i++ {
			id, err := t.Row(i).Int(ColAnimeID)
			if err != nil {
				continue
			}
			if _, dup := seen[id]; !dup {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	return ids
}
