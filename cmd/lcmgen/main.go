// Command lcmgen translates LCM message definitions into self-contained
// C++ headers. Usage:
//
//	lcmgen --outdir <dir> [--config <file.yaml>] <file.lcm|dir> ...
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bufbuild/lcmgen/internal/config"
	"github.com/bufbuild/lcmgen/internal/driver"
	"github.com/bufbuild/lcmgen/internal/reporter"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("lcmgen", flag.ContinueOnError)
	outDir := fs.String("outdir", "", "directory where generated headers are written")
	configPath := fs.String("config", "", "optional YAML file providing outdir/sources")
	verbose := fs.Bool("verbose", false, "log each file as it is processed")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if wd := os.Getenv("BUILD_WORKING_DIRECTORY"); wd != "" {
		if err := os.Chdir(wd); err != nil {
			fmt.Fprintf(os.Stderr, "lcmgen: chdir to BUILD_WORKING_DIRECTORY %s: %v\n", wd, err)
			return 1
		}
	}

	resolvedOutDir, resolvedSources := *outDir, fs.Args()
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "lcmgen:", err)
			return 1
		}
		resolvedOutDir, resolvedSources = cfg.Merge(*outDir, resolvedSources)
	}

	if resolvedOutDir == "" {
		fmt.Fprintln(os.Stderr, "lcmgen: --outdir is required (directly or via --config)")
		return 2
	}
	if len(resolvedSources) == 0 {
		fmt.Fprintln(os.Stderr, "lcmgen: at least one .lcm source file or directory is required")
		return 2
	}

	sources, err := expandSources(resolvedSources)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lcmgen:", err)
		return 1
	}

	err = driver.Run(driver.Config{
		OutDir:  resolvedOutDir,
		Sources: sources,
		Verbose: *verbose,
	})
	if err == nil {
		return 0
	}

	reportFailure(err)
	return 1
}

// expandSources resolves the CLI's positional arguments into a flat list of
// .lcm file paths: plain files pass through untouched, directories are
// expanded with a recursive "**/*.lcm" glob, matching how this pack's own
// golden-test harness discovers corpus files by directory.
func expandSources(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		matches, err := doublestar.Glob(os.DirFS(arg), "**/*.lcm")
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", arg, err)
		}
		for _, m := range matches {
			out = append(out, arg+string(os.PathSeparator)+m)
		}
	}
	return out, nil
}

// reportFailure prints every per-file error in err, rendering
// reporter.Error values as a full diagnostic with a source snippet and
// caret, and everything else as a plain message.
func reportFailure(err error) {
	var multi *driver.MultiError
	if errors.As(err, &multi) {
		for _, fileErr := range multi.Errors {
			printOne(fileErr)
		}
		return
	}
	printOne(err)
}

func printOne(err error) {
	var rerr *reporter.Error
	if errors.As(err, &rerr) {
		fmt.Fprintln(os.Stderr, rerr.Diagnostic())
		return
	}
	fmt.Fprintln(os.Stderr, "lcmgen:", err)
}
