package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAndMerge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lcmgen.yaml")
	contents := "outdir: gen/cpp\nsources:\n  - a.lcm\n  - b.lcm\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.OutDir != "gen/cpp" {
		t.Errorf("OutDir = %q, want %q", f.OutDir, "gen/cpp")
	}
	if len(f.Sources) != 2 || f.Sources[0] != "a.lcm" || f.Sources[1] != "b.lcm" {
		t.Errorf("Sources = %v", f.Sources)
	}
}

func TestMergeCLIOverridesFile(t *testing.T) {
	f := &File{OutDir: "from-file", Sources: []string{"file1.lcm"}}

	outDir, sources := f.Merge("from-cli", []string{"cli1.lcm", "cli2.lcm"})
	if outDir != "from-cli" {
		t.Errorf("outDir = %q, want CLI value", outDir)
	}
	if len(sources) != 2 || sources[0] != "cli1.lcm" {
		t.Errorf("sources = %v, want CLI values", sources)
	}
}

func TestMergeFallsBackToFileWhenCLIEmpty(t *testing.T) {
	f := &File{OutDir: "from-file", Sources: []string{"file1.lcm"}}

	outDir, sources := f.Merge("", nil)
	if outDir != "from-file" {
		t.Errorf("outDir = %q, want file value", outDir)
	}
	if len(sources) != 1 || sources[0] != "file1.lcm" {
		t.Errorf("sources = %v, want file values", sources)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() succeeded, want error for missing file")
	}
}
