package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is not set.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

const ConfigPathEnvVar = "CONFIG_PATH"

// envMappings maps the environment variables we honour to koanf paths.
var envMappings = map[string]string{
	"addr":                       "server.addr",
	"shutdown_timeout":           "server.shutdown_timeout",
	"app_version":                "server.version",
	"data_dir":                   "data.dir",
	"default_user_id":            "recommend.default_user_id",
	"default_limit":              "recommend.default_limit",
	"list_limit":                 "recommend.list_limit",
	"hidden_gem_cluster":         "recommend.hidden_gem_cluster",
	"hidden_gem_limit":           "recommend.hidden_gem_limit",
	"like_threshold":             "recommend.like_threshold",
	"recommend_rating_threshold": "recommend.recommend_rating_threshold",
	"title_columns":              "recommend.title_columns",
	"images_database_url":        "images.database_url",
	"images_table_name":          "images.table_name",
	"images_placeholder_url":     "images.placeholder_url",
	"admin_jwt_secret":           "admin.jwt_secret",
	"log_level":                  "logging.level",
	"log_format":                 "logging.format",
}

// comma-separated when they arrive through the environment
var sliceConfigPaths = []string{
	"recommend.title_columns",
}

// Load builds the configuration: struct defaults, then an optional YAML file,
// then environment variables (a local .env file is read first).
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envTransformFunc returns "" for variables we do not know so koanf skips them.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
