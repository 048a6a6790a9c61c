// Package driver wires internal/parser, internal/codegen together into a
// per-file read → parse → emit → write pipeline, and aggregates per-file
// failures the way a caller needs to report a final, non-zero exit status
// without stopping after the first bad file.
package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bufbuild/lcmgen/internal/codegen"
	"github.com/bufbuild/lcmgen/internal/parser"
)

// Config describes one invocation of the generator.
type Config struct {
	// OutDir is the directory generated headers are written to. Created if
	// it doesn't already exist.
	OutDir string
	// Sources is the list of .lcm file paths to process, already resolved
	// from the CLI's positional arguments and any directory expansion.
	Sources []string
	// Verbose, when true, logs each file processed to Log.
	Verbose bool
	// Log receives progress lines when Verbose is set. Defaults to
	// os.Stderr when nil.
	Log func(format string, args ...interface{})
}

// Run processes every source in cfg.Sources independently: there is no
// shared state between files, so one file's failure never prevents the
// rest from being attempted. It returns a non-nil *MultiError iff at least
// one file failed.
func Run(cfg Config) error {
	logf := cfg.Log
	if logf == nil {
		logf = func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", cfg.OutDir, err)
	}

	var multi MultiError
	for _, src := range cfg.Sources {
		if cfg.Verbose {
			logf("lcmgen: processing %s", src)
		}
		if err := processFile(cfg.OutDir, src); err != nil {
			multi.Errors = append(multi.Errors, fmt.Errorf("%s: %w", src, err))
			continue
		}
	}
	if len(multi.Errors) > 0 {
		return &multi
	}
	return nil
}

func processFile(outDir, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}

	s, err := parser.Parse(path, string(source))
	if err != nil {
		return err
	}

	header, err := codegen.Emit(s)
	if err != nil {
		return fmt.Errorf("generating header: %w", err)
	}

	outPath := filepath.Join(outDir, s.Type.Name+".hpp")
	return writeAtomic(outPath, header)
}

// writeAtomic writes contents to a temp file beside path and renames it
// into place, so a reader never observes a partially-written header.
func writeAtomic(path, contents string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once the rename below succeeds

	if _, err := tmp.WriteString(contents); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", tmpName, path, err)
	}
	return nil
}

// MultiError collects one error per failed source file.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Error() string {
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	lines := make([]string, len(m.Errors))
	for i, err := range m.Errors {
		lines[i] = err.Error()
	}
	return fmt.Sprintf("%d files failed:\n%s", len(m.Errors), strings.Join(lines, "\n"))
}

// Unwrap lets errors.Is/As see through to the individual file failures.
func (m *MultiError) Unwrap() []error { return m.Errors }
