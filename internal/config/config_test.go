package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing config should not error: %v", err)
	}
	def := Default()
	if cfg != def {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, def)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regiongen.yaml")
	data := []byte(`
region:
  name: Emberfall
  width: 120
  height: 90
  seed: 42
generation:
  land_fraction: 0.65
output:
  dir: /var/regions
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Region.Name != "Emberfall" || cfg.Region.Width != 120 || cfg.Region.Seed != 42 {
		t.Errorf("region config = %+v", cfg.Region)
	}
	if cfg.Generation.LandFraction != 0.65 {
		t.Errorf("land fraction = %v, want 0.65", cfg.Generation.LandFraction)
	}
	// Unset keys keep their defaults.
	if cfg.Generation.RiverFraction != Default().Generation.RiverFraction {
		t.Errorf("river fraction = %v, want default", cfg.Generation.RiverFraction)
	}
	if cfg.Output.Dir != "/var/regions" {
		t.Errorf("output dir = %v", cfg.Output.Dir)
	}
	if cfg.Output.CatalogPath != Default().Output.CatalogPath {
		t.Errorf("catalog path = %v, want default", cfg.Output.CatalogPath)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("region: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed yaml should fail")
	}
}
