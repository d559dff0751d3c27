package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ringlabs/saturn/internal/spiral"
)

// Config is the YAML pipeline configuration:
//
//	spiral:
//	  a: 1.0
//	  b: 0.5
//	  c: 0.1
//	snapshot_path: graph.json   # optional, enables graph persistence
//	archive_path: chain.db      # optional, enables the block archive
//	schema_path: tx.cue         # optional, enables payload validation
type Config struct {
	Spiral struct {
		A float64 `yaml:"a"`
		B float64 `yaml:"b"`
		C float64 `yaml:"c"`
	} `yaml:"spiral"`
	SnapshotPath string `yaml:"snapshot_path"`
	ArchivePath  string `yaml:"archive_path"`
	SchemaPath   string `yaml:"schema_path"`
}

// LoadConfig reads a YAML config file. A missing path yields the zero
// config (all defaults).
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Coefficients converts the spiral section, falling back to the
// defaults when the section is absent.
func (c Config) Coefficients() spiral.Coefficients {
	coeffs := spiral.Coefficients{A: c.Spiral.A, B: c.Spiral.B, C: c.Spiral.C}
	if coeffs == (spiral.Coefficients{}) {
		return spiral.DefaultCoefficients
	}
	return coeffs
}
