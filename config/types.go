package config

// ServerConfig contains the HTTP query surface configuration.
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

// FeedConfig locates the static GTFS feed.
type FeedConfig struct {
	Path string `yaml:"path" validate:"omitempty,filepath"`
}

// AnalysisConfig tunes the interstop analyzer.
type AnalysisConfig struct {
	Workers     int    `yaml:"workers" validate:"gte=0"`
	MetricsAddr string `yaml:"metricsAddr"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Feed     FeedConfig     `yaml:"feed"`
	Analysis AnalysisConfig `yaml:"analysis"`
}
