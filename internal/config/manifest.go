package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultManifestFile is the manifest read by `mobgen manifest` when no path is given.
const DefaultManifestFile = "mobgen.yaml"

// Job is one generator run listed in a manifest. Empty fields fall back to
// the environment configuration.
type Job struct {
	Generator      string `yaml:"generator"`
	SpreadsheetID  string `yaml:"spreadsheet_id,omitempty"`
	SheetGID       string `yaml:"sheet_gid,omitempty"`
	DatapackDir    string `yaml:"datapack_dir,omitempty"`
	SpawnFunctions *bool  `yaml:"spawn_functions,omitempty"`
}

// Manifest models mobgen.yaml.
type Manifest struct {
	Jobs []Job `yaml:"jobs"`
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	return ParseManifest(data)
}

// ParseManifest decodes manifest YAML.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}
	if len(m.Jobs) == 0 {
		return nil, errors.New("manifest: no jobs defined")
	}
	for i, job := range m.Jobs {
		if strings.TrimSpace(job.Generator) == "" {
			return nil, fmt.Errorf("manifest: job %d: generator is required", i+1)
		}
	}
	return &m, nil
}

// Apply returns a copy of base with the job's overrides applied.
func (j Job) Apply(base Config) Config {
	cfg := base
	if j.SpreadsheetID != "" {
		cfg.Sheet.SpreadsheetID = j.SpreadsheetID
	}
	if j.SheetGID != "" {
		if j.Generator == "item" {
			cfg.Sheet.ItemGID = j.SheetGID
		} else {
			cfg.Sheet.MobGID = j.SheetGID
		}
	}
	if j.DatapackDir != "" {
		cfg.Output.DatapackDir = j.DatapackDir
	}
	if j.SpawnFunctions != nil {
		cfg.Output.SpawnFunctions = *j.SpawnFunctions
	}
	return cfg
}
