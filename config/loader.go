package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultPort = 16190

// Load reads the YAML configuration, applies environment overrides and
// validates the result. A missing file yields defaults; env vars still apply.
func Load(path string) (AppConfig, error) {
	// Load .env into the environment (ignore if missing).
	_ = godotenv.Load()

	var cfg AppConfig
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return AppConfig{}, err
		}
	}

	if v := os.Getenv("GTFS_FEED_PATH"); v != "" {
		cfg.Feed.Path = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("ANALYSIS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.Workers = n
		}
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Analysis.MetricsAddr = v
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}

	v := validator.New()
	if err := v.Struct(cfg.Server); err != nil {
		return AppConfig{}, err
	}
	if err := v.Struct(cfg.Feed); err != nil {
		return AppConfig{}, err
	}
	if err := v.Struct(cfg.Analysis); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}
