package config

import (
	"fmt"
	"log/slog"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every tunable of the service. The date-year inference and the
// region keyword lists are deliberately configuration, not constants: both are
// heuristics tied to one customer's data and have no principled default.
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Year assigned to dates that arrive without one: month 12 belongs to the
	// previous campaign year, everything else to the current one.
	YearDefault  int `envconfig:"DATE_DEFAULT_YEAR" default:"2025"`
	YearDecember int `envconfig:"DATE_DECEMBER_YEAR" default:"2024"`

	// Minimum count for a province to keep its own slice in the geography
	// chart; smaller buckets fold into "Otro".
	GeoMinCount int `envconfig:"GEO_MIN_COUNT" default:"10"`

	// Substring keywords (matched lowercase, accent-stripped) for the coarse
	// region buckets. Anything matching neither list lands in the catch-all.
	RegionTargetKeywords []string `envconfig:"REGION_TARGET_KEYWORDS" default:"buenos aires,caba,capital"`
	RegionNearbyKeywords []string `envconfig:"REGION_NEARBY_KEYWORDS" default:"cordoba,santa fe,entre rios,la pampa"`
}

func FromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c Config) SlogLevel() slog.Level {
	if c.LogLevel == "debug" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
