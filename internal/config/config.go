// Package config loads generation and output settings from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all regiongen configuration.
type Config struct {
	Region     RegionConfig     `yaml:"region"`
	Generation GenerationConfig `yaml:"generation"`
	Output     OutputConfig     `yaml:"output"`
}

// RegionConfig identifies the region to generate.
type RegionConfig struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Seed   int32  `yaml:"seed"` // 0 = derive from current time
}

// GenerationConfig holds pipeline tuning parameters.
type GenerationConfig struct {
	LandFraction  float64 `yaml:"land_fraction"`
	RiverFraction float64 `yaml:"river_fraction"`
}

// OutputConfig controls where region files and the catalog live.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	CatalogPath string `yaml:"catalog_path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Region: RegionConfig{
			Name:   "Unnamed Region",
			Width:  64,
			Height: 48,
		},
		Generation: GenerationConfig{
			LandFraction:  0.5,
			RiverFraction: 0.05,
		},
		Output: OutputConfig{
			Dir:         "data",
			CatalogPath: "data/regions.db",
		},
	}
}

// Load reads configuration from path, layered over the defaults. A missing
// file is not an error; the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
