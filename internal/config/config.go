// Package config decodes the optional build-config YAML file described in
// SPEC_FULL.md §4.F (component H): a small, flat file listing the output
// directory and source files for a repeated invocation, so a build system
// doesn't have to restate a long flag line on every run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the decoded shape of a --config YAML file.
type File struct {
	OutDir  string   `yaml:"outdir"`
	Sources []string `yaml:"sources"`
}

// Load reads and decodes the YAML file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &f, nil
}

// Merge layers CLI-supplied outDir and sources over f, per SPEC_FULL.md's
// "CLI flags override file values when both are given." An empty CLI value
// leaves the file's value in place.
func (f *File) Merge(outDir string, sources []string) (mergedOutDir string, mergedSources []string) {
	mergedOutDir = f.OutDir
	if outDir != "" {
		mergedOutDir = outDir
	}
	mergedSources = f.Sources
	if len(sources) > 0 {
		mergedSources = sources
	}
	return mergedOutDir, mergedSources
}
