// Package catalog holds everything loaded at startup: the datasets, the
// fitted models and the image lookup. A Catalog is never mutated after New
// returns and is shared by every handler.
package catalog

import (
	"errors"
	"fmt"

	"github.com/kinetsulist/kinetsulist-backend/internal/dataset"
	"github.com/kinetsulist/kinetsulist-backend/internal/image"
	"github.com/kinetsulist/kinetsulist-backend/internal/model"
)

var ErrUserNotFound = errors.New("user has no interactions")

// Resources are the raw artifacts a Catalog is built from.
type Resources struct {
	Classification *dataset.Table
	Regression     *dataset.Table
	Clustering     *dataset.Table

	ClassifierPipeline model.Pipeline
	Classifier         model.Classifier
	RegressorPipeline  model.Pipeline
	Regressor          model.Regressor

	Images image.Lookup
}

type Catalog struct {
	res Resources

	items           *dataset.Table
	regressionItems *dataset.Table
	clusterItems    *dataset.Table
	hasClusters     bool
	titleColumn     string
	history         map[int]*dataset.Table
}

// New checks the schema contract and builds the derived indexes. Only the
// cluster column is optional; every other missing column is an error.
func New(res Resources, titleColumns []string) (*Catalog, error) {
	if res.Classification == nil || res.Regression == nil || res.Clustering == nil {
		return nil, errors.New("catalog: all three datasets are required")
	}
	if res.Classifier == nil || res.Regressor == nil || res.ClassifierPipeline.Scaler == nil || res.RegressorPipeline.Scaler == nil {
		return nil, errors.New("catalog: classifier and regressor pipelines are required")
	}
	if err := res.ClassifierPipeline.Check(res.Classifier.NumFeatures()); err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	if err := res.RegressorPipeline.Check(res.Regressor.NumFeatures()); err != nil {
		return nil, fmt.Errorf("regressor: %w", err)
	}

	required := append([]string{ColUserID, ColAnimeID, ColUserRating}, res.ClassifierPipeline.Features...)
	if err := res.Classification.Require(required...); err != nil {
		return nil, fmt.Errorf("classification dataset: %w", err)
	}
	if err := res.Regression.Require(append([]string{ColAnimeID}, res.RegressorPipeline.Features...)...); err != nil {
		return nil, fmt.Errorf("regression dataset: %w", err)
	}
	if err := res.Clustering.Require(ColAnimeID); err != nil {
		return nil, fmt.Errorf("clustering dataset: %w", err)
	}

	c := &Catalog{res: res, hasClusters: res.Clustering.HasColumn(ColCluster)}
	var err error
	if c.items, err = res.Classification.DedupBy(ColAnimeID); err != nil {
		return nil, err
	}
	if c.regressionItems, err = res.Regression.DedupBy(ColAnimeID); err != nil {
		return nil, err
	}
	if c.clusterItems, err = res.Clustering.DedupBy(ColAnimeID); err != nil {
		return nil, err
	}
	if c.history, err = res.Classification.GroupByInt(ColUserID); err != nil {
		return nil, err
	}
	c.titleColumn = resolveTitleColumn(res.Regression, titleColumns)
	return c, nil
}

func resolveTitleColumn(t *dataset.Table, candidates []string) string {
	for _, name := range candidates {
		if t.HasColumn(name) {
			return name
		}
	}
	if cols := t.Columns(); len(cols) > 0 {
		return cols[0]
	}
	return ""
}

// Items is the classification dataset deduplicated by anime id.
func (c *Catalog) Items() *dataset.Table { return c.items }

// RegressionItems is the regression dataset deduplicated by anime id.
func (c *Catalog) RegressionItems() *dataset.Table { return c.regressionItems }

// ClusterItems is the clustering dataset deduplicated by anime id.
func (c *Catalog) ClusterItems() *dataset.Table { return c.clusterItems }

// HasClusters reports whether the clustering dataset carries cluster labels.
func (c *Catalog) HasClusters() bool { return c.hasClusters }

// TitleColumn is the regression dataset column searched by title.
func (c *Catalog) TitleColumn() string { return c.titleColumn }

func (c *Catalog) Classifier() (model.Pipeline, model.Classifier) {
	return c.res.ClassifierPipeline, c.res.Classifier
}

func (c *Catalog) Regressor() (model.Pipeline, model.Regressor) {
	return c.res.RegressorPipeline, c.res.Regressor
}

func (c *Catalog) Images() image.Lookup { return c.res.Images }

// History returns every interaction row of userID in dataset order.
func (c *Catalog) History(userID int) (*dataset.Table, error) {
	h, ok := c.history[userID]
	if !ok || h.Len() == 0 {
		return nil, fmt.Errorf("%w: %d", ErrUserNotFound, userID)
	}
	return h, nil
}

// SeenIDs returns the anime ids userID has interacted with; empty when the
// user has no history.
func (c *Catalog) SeenIDs(userID int) map[int]struct{} {
	seen := make(map[int]struct{})
	h, ok := c.history[userID]
	if !ok {
		return seen
	}
	for i := 0; i < h.Len(); i++ {
		if id, err := h.Row(i).Int(ColAnimeID); err == nil {
			seen[id] = struct{}{}
		}
	}
	return seen
}

// Users is the number of distinct users with history.
func (c *Catalog) Users() int { return len(c.history) }
