// Package cli owns everything the spec treats as an external front-end
// to the core: command-line parsing (manual, following the teacher's own
// cmd/funxy/main.go and pkg/cli/entry.go idiom of switching on os.Args
// rather than a flag library), source-file discovery, turning raw C/C++
// files into ppinput.TranslationUnits via the bundled lexer, wiring the
// checks.Registry and driver.Driver, and delivering the result through
// pkg/report.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/funvibe/cppgo/internal/checks"
	"github.com/funvibe/cppgo/internal/config"
	"github.com/funvibe/cppgo/internal/driver"
	"github.com/funvibe/cppgo/internal/libconfig"
	"github.com/funvibe/cppgo/internal/ppinput"
	"github.com/funvibe/cppgo/internal/rules"
	"github.com/funvibe/cppgo/internal/suppress"
	"github.com/funvibe/cppgo/internal/tokenlist"
	"github.com/funvibe/cppgo/internal/utils"
	"github.com/funvibe/cppgo/pkg/report"
)

const usage = `usage: cppgo [options] <file|dir>...

options:
  -j, --jobs N          number of translation units analyzed concurrently (default 1)
  --config PATH         load analysis options from a cppgo.yaml-style file
  --enable LIST         comma-separated severities to enable (default: error,warning,style,performance,portability,information)
  --inconclusive         enable inconclusive checks
  --library PATH         load a library-config file (repeatable)
  --suppress PATH        load a suppression file (repeatable)
  --cache-dir PATH        enable the persistent build-dir cache at PATH
  -v, --verbose           print informational logging to stderr
  --version               print the version and exit
  -h, --help              print this message and exit
`

// Run parses args (os.Args[1:]), runs the analysis, and returns the
// process exit code.
func Run(args []string) int {
	opts, paths, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if opts.helpRequested {
		fmt.Fprint(os.Stderr, usage)
		return 0
	}
	if opts.versionRequested {
		fmt.Println("cppgo " + config.Version)
		return 0
	}
	utils.Stderr.Verbose = opts.Verbose

	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "cppgo: no input files")
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	libcfg, err := loadLibConfig(opts.Library)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cppgo:", err)
		return 2
	}

	global, exitOnly, err := loadSuppressRules(opts.Suppress)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cppgo:", err)
		return 2
	}

	files := discoverFiles(paths)
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "cppgo: no recognized C/C++ source files found")
		return 2
	}

	units := make([]*ppinput.TranslationUnit, 0, len(files))
	var inline []suppress.InlineComment
	linesWithCode := make(map[string]map[int]bool)
	for i, f := range files {
		src, err := os.ReadFile(f)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cppgo:", err)
			continue
		}
		toks, ic := lexFile(i, f, string(src))
		inline = append(inline, ic...)
		tu := &ppinput.TranslationUnit{Files: []string{f}, Tokens: toks}
		units = append(units, tu)
		for file, lines := range suppress.LinesWithCode(tokenlist.FromPreprocessed(tu)) {
			linesWithCode[file] = lines
		}
	}
	eng := suppress.NewEngine(inline, global, exitOnly, linesWithCode)

	reg := checks.NewRegistry()
	rules.Register(reg)

	cfg := opts.Options.ToDriverConfig(config.Version)
	cfg.Enabled.SuppressedRule = func(ruleID string) bool {
		return globallySuppressed(global, ruleID)
	}

	d, err := driver.New(reg, libcfg, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cppgo:", err)
		return 2
	}
	defer d.Close()
	d.Suppress = eng

	rep := report.NewReporter(os.Stdout)
	exitCode, err := d.Run(context.Background(), units, rep)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cppgo:", err)
		return 1
	}
	utils.Stderr.Infof("run %s analyzed %d translation unit(s)", d.LastRunID(), len(units))
	return exitCode
}

// discoverFiles walks paths (files or directories) and returns every
// file with a recognized C/C++ extension, in a deterministic order.
func discoverFiles(paths []string) []string {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cppgo:", err)
			continue
		}
		if !info.IsDir() {
			if config.HasSourceExt(p) {
				files = append(files, p)
			}
			continue
		}
		filepath.Walk(p, func(path string, fi os.FileInfo, err error) error {
			if err != nil || fi.IsDir() {
				return nil
			}
			if config.HasSourceExt(path) {
				files = append(files, path)
			}
			return nil
		})
	}
	return files
}

func loadLibConfig(paths []string) (*libconfig.Config, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	cfgs := make([]*libconfig.Config, 0, len(paths))
	for _, p := range paths {
		c, err := libconfig.Load(p)
		if err != nil {
			return nil, fmt.Errorf("loading library config %s: %w", p, err)
		}
		cfgs = append(cfgs, c)
	}
	return libconfig.Merge(cfgs...), nil
}

func loadSuppressRules(paths []string) (global, exitOnly []suppress.GlobalRule, err error) {
	for _, p := range paths {
		g, e, err := suppress.LoadGlobalRules(p)
		if err != nil {
			return nil, nil, err
		}
		global = append(global, g...)
		exitOnly = append(exitOnly, e...)
	}
	return global, exitOnly, nil
}

// globallySuppressed reports whether ruleID is suppressed unconditionally
// (no file or line restriction), the one case §4.6 rule (b) lets the
// registry skip invoking the check at all rather than only filtering its
// output after the fact.
func globallySuppressed(global []suppress.GlobalRule, ruleID string) bool {
	for _, r := range global {
		if r.RuleID == ruleID && r.File == "" && r.Line == 0 {
			return true
		}
	}
	return false
}
