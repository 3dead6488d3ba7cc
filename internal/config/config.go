package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds all service configuration. Values come from struct defaults,
// an optional YAML file and environment variables (see Load).
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
	Images    ImagesConfig    `koanf:"images"`
	Admin     AdminConfig     `koanf:"admin"`
	Logging   LoggingConfig   `koanf:"logging"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Version         string        `koanf:"version"`
}

// DataConfig describes where the model artifacts, datasets, templates and
// static assets live. A relative Dir is resolved against the directory of the
// running executable.
type DataConfig struct {
	Dir                  string `koanf:"dir"`
	ClassifierModel      string `koanf:"classifier_model"`
	ClassifierScaler     string `koanf:"classifier_scaler"`
	ClassifierFeatures   string `koanf:"classifier_features"`
	RegressorModel       string `koanf:"regressor_model"`
	RegressorScaler      string `koanf:"regressor_scaler"`
	RegressorFeatures    string `koanf:"regressor_features"`
	ClassificationTable  string `koanf:"classification_table"`
	RegressionTable      string `koanf:"regression_table"`
	ClusteringTable      string `koanf:"clustering_table"`
	ImageTable           string `koanf:"image_table"`
	TemplatesDir         string `koanf:"templates_dir"`
	StaticDir            string `koanf:"static_dir"`
	AssetVersionFilePath string `koanf:"asset_version_file"`
}

// RecommendConfig carries the tuning values picked during offline analysis.
type RecommendConfig struct {
	DefaultUserID            int      `koanf:"default_user_id"`
	DefaultLimit             int      `koanf:"default_limit"`
	ListLimit                int      `koanf:"list_limit"`
	HiddenGemCluster         int      `koanf:"hidden_gem_cluster"`
	HiddenGemLimit           int      `koanf:"hidden_gem_limit"`
	LikeThreshold            float64  `koanf:"like_threshold"`
	RecommendRatingThreshold float64  `koanf:"recommend_rating_threshold"`
	TitleColumns             []string `koanf:"title_columns"`
}

type ImagesConfig struct {
	IDColumn       string `koanf:"id_column"`
	URLColumn      string `koanf:"url_column"`
	PlaceholderURL string `koanf:"placeholder_url"`
	FallbackPath   string `koanf:"fallback_path"`
	// DatabaseURL switches the image source from the CSV table to Postgres.
	DatabaseURL string `koanf:"database_url"`
	TableName   string `koanf:"table_name"`
}

type AdminConfig struct {
	// JWTSecret enables bearer auth on /api/admin when set.
	JWTSecret string `koanf:"jwt_secret"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the built-in configuration before any file or env overrides.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8000",
			ShutdownTimeout: 10 * time.Second,
			Version:         "1.0.0",
		},
		Data: DataConfig{
			Dir:                  ".",
			ClassifierModel:      "models/modelo_clasificacion.json",
			ClassifierScaler:     "models/scaler_clasificacion.json",
			ClassifierFeatures:   "models/features_clasificacion.json",
			RegressorModel:       "models/modelo_regresion.json",
			RegressorScaler:      "models/scaler_regresion.json",
			RegressorFeatures:    "models/features_regresion.json",
			ClassificationTable:  "data/anime_clasificacion_aumentado.csv",
			RegressionTable:      "data/anime_regresion_aumentado.csv",
			ClusteringTable:      "data/anime_clustering_aumentado.csv",
			ImageTable:           "data/imagenes_anime.csv",
			TemplatesDir:         "templates",
			StaticDir:            "static",
			AssetVersionFilePath: "static/js/app.js",
		},
		Recommend: RecommendConfig{
			DefaultUserID:            1,
			DefaultLimit:             10,
			ListLimit:                20,
			HiddenGemCluster:         1,
			HiddenGemLimit:           20,
			LikeThreshold:            0.5,
			RecommendRatingThreshold: 7.5,
			TitleColumns:             []string{"titulo_anime", "nombre_anime"},
		},
		Images: ImagesConfig{
			IDColumn:       "id_anime",
			URLColumn:      "image_url",
			PlaceholderURL: "https://via.placeholder.com/225x320?text=Sin+Imagen",
			FallbackPath:   "/static/img/imagen_no_encontrada.png",
			TableName:      "anime_images",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate rejects values the service cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr must not be empty")
	}
	if c.Recommend.DefaultLimit <= 0 || c.Recommend.ListLimit <= 0 || c.Recommend.HiddenGemLimit <= 0 {
		return errors.New("recommend limits must be > 0")
	}
	if c.Recommend.LikeThreshold < 0 || c.Recommend.LikeThreshold > 1 {
		return fmt.Errorf("recommend.like_threshold must be within [0,1], got %v", c.Recommend.LikeThreshold)
	}
	if len(c.Recommend.TitleColumns) == 0 {
		return errors.New("recommend.title_columns must list at least one column")
	}
	if c.Images.IDColumn == "" || c.Images.URLColumn == "" {
		return errors.New("images.id_column and images.url_column are required")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}
	return nil
}

// BaseDir returns the absolute directory every data path is relative to.
func (d DataConfig) BaseDir() string {
	if filepath.IsAbs(d.Dir) {
		return d.Dir
	}
	exe, err := os.Executable()
	if err != nil {
		return d.Dir
	}
	return filepath.Join(filepath.Dir(exe), d.Dir)
}

// Path joins rel onto BaseDir unless rel is already absolute.
func (d DataConfig) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(d.BaseDir(), rel)
}
