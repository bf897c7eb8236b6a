package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to validate, got %v", err)
	}
}

func TestValidateRejectsBadGeometry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinHash.NumHashes = 51
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for mismatched geometry")
	}
}

func TestValidateRejectsBadBloomParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bloom.FalsePositiveRate = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out-of-range false-positive rate")
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "lsh:\n  num_bands: 20\n  rows_per_band: 4\nminhash:\n  num_hashes: 80\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LSH.NumBands != 20 || cfg.LSH.RowsPerBand != 4 {
		t.Errorf("expected overridden LSH geometry, got %+v", cfg.LSH)
	}
	if cfg.Bloom.Capacity != 10000 {
		t.Errorf("expected untouched field to keep its default, got %d", cfg.Bloom.Capacity)
	}
}

func TestToDedupConfigCarriesGeometry(t *testing.T) {
	cfg := DefaultConfig()
	dc := cfg.ToDedupConfig()
	if dc.NumHashes != cfg.MinHash.NumHashes || dc.NumBands != cfg.LSH.NumBands {
		t.Errorf("expected dedup config geometry to mirror source config, got %+v", dc)
	}
}
