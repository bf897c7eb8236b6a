// Package config handles configuration loading and management for the
// dedup engine.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/neardedup/neardedup/internal/dedup"
)

// Config represents the global configuration for a dedup run.
type Config struct {
	Bloom   BloomConfig   `yaml:"bloom"`
	Shingle ShingleConfig `yaml:"shingle"`
	MinHash MinHashConfig `yaml:"minhash"`
	LSH     LSHConfig     `yaml:"lsh"`
	Dedup   DedupConfig   `yaml:"dedup"`
	Output  OutputConfig  `yaml:"output"`
}

// BloomConfig sizes the exact-duplicate pre-filter.
type BloomConfig struct {
	Capacity          int     `yaml:"capacity"`
	FalsePositiveRate float64 `yaml:"false_positive_rate"`
}

// ShingleConfig controls character-shingle extraction.
type ShingleConfig struct {
	Width int `yaml:"width"`
}

// MinHashConfig controls signature length.
type MinHashConfig struct {
	NumHashes int `yaml:"num_hashes"`
}

// LSHConfig controls band/row geometry and multi-probe recall.
type LSHConfig struct {
	NumBands    int `yaml:"num_bands"`
	RowsPerBand int `yaml:"rows_per_band"`
	Probes      int `yaml:"probes"`
}

// DedupConfig controls clustering behavior.
type DedupConfig struct {
	RefineJaccard     bool    `yaml:"refine_jaccard"`
	RefineThreshold   float64 `yaml:"refine_threshold"`
	IncludeSingletons bool    `yaml:"include_singletons"`
}

// OutputConfig controls how results are written.
type OutputConfig struct {
	Format     string `yaml:"format"` // text, json
	OutputFile string `yaml:"output_file"`
	Verbose    bool   `yaml:"verbose"`
	QuietMode  bool   `yaml:"quiet_mode"`
}

// DefaultConfig returns the default configuration, matching the spec's
// default geometry (B=10, R=5, H=50, shingle width 5).
func DefaultConfig() *Config {
	return &Config{
		Bloom: BloomConfig{
			Capacity:          10000,
			FalsePositiveRate: 0.01,
		},
		Shingle: ShingleConfig{Width: 5},
		MinHash: MinHashConfig{NumHashes: 50},
		LSH: LSHConfig{
			NumBands:    10,
			RowsPerBand: 5,
			Probes:      0,
		},
		Dedup: DedupConfig{
			RefineJaccard:     false,
			RefineThreshold:   0.7,
			IncludeSingletons: false,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// Load reads a YAML configuration file and merges it over the defaults.
// A missing field in the file keeps its default value.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks geometry and range constraints that would otherwise
// surface as construction errors deeper in the pipeline, so command-line
// validation can fail fast before any I/O.
func (c *Config) Validate() error {
	if c.MinHash.NumHashes != c.LSH.NumBands*c.LSH.RowsPerBand {
		return fmt.Errorf("config: num_hashes (%d) must equal num_bands*rows_per_band (%d*%d=%d)",
			c.MinHash.NumHashes, c.LSH.NumBands, c.LSH.RowsPerBand, c.LSH.NumBands*c.LSH.RowsPerBand)
	}
	if c.Shingle.Width <= 0 {
		return fmt.Errorf("config: shingle width must be positive, got %d", c.Shingle.Width)
	}
	if c.Bloom.Capacity <= 0 {
		return fmt.Errorf("config: bloom capacity must be positive, got %d", c.Bloom.Capacity)
	}
	if c.Bloom.FalsePositiveRate <= 0 || c.Bloom.FalsePositiveRate >= 1 {
		return fmt.Errorf("config: bloom false-positive rate must be in (0,1), got %v", c.Bloom.FalsePositiveRate)
	}
	if c.LSH.Probes < 0 {
		return fmt.Errorf("config: probes must be non-negative, got %d", c.LSH.Probes)
	}
	return nil
}

// ToDedupConfig translates the YAML-facing Config into the internal
// dedup.Config the orchestrator actually consumes.
func (c *Config) ToDedupConfig() dedup.Config {
	return dedup.Config{
		ShingleWidth:           c.Shingle.Width,
		NumHashes:              c.MinHash.NumHashes,
		NumBands:               c.LSH.NumBands,
		RowsPerBand:            c.LSH.RowsPerBand,
		Probes:                 c.LSH.Probes,
		BloomCapacity:          c.Bloom.Capacity,
		BloomFalsePositiveRate: c.Bloom.FalsePositiveRate,
		RefineJaccard:          c.Dedup.RefineJaccard,
		RefineThreshold:        c.Dedup.RefineThreshold,
		IncludeSingletons:      c.Dedup.IncludeSingletons,
	}
}
