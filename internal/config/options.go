package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/cppgo/internal/checks"
	"github.com/funvibe/cppgo/internal/driver"
)

// Options is the analysis-options surface: everything a cppgo.yaml file
// or the CLI's flags can set, mirroring cppcheck's own cmdlineparser.h
// field set (enabled severities, `--inconclusive`, `--jobs`, `--library`,
// `--suppress`, job timeouts, cache directory). Parse logic for the
// command line itself stays in pkg/cli; this struct is only the shared
// shape both a YAML file and the flag parser populate.
type Options struct {
	Enable       []string `yaml:"enable"`       // severities to enable; empty means "all but debug"
	Inconclusive bool     `yaml:"inconclusive"`
	Jobs         int      `yaml:"jobs"`

	Library    []string `yaml:"library"`    // library-config file paths (internal/libconfig)
	Suppress   []string `yaml:"suppress"`   // suppression file paths (internal/suppress)
	SuppressID []string `yaml:"suppressId"` // inline (id[:file[:line]]) suppressions given directly

	CTUMaxDepth int `yaml:"ctuMaxDepth"`

	TUTimeoutSeconds        int `yaml:"tuTimeoutSeconds"`
	CheckTimeoutSeconds     int `yaml:"checkTimeoutSeconds"`
	ValueflowTimeoutSeconds int `yaml:"valueflowTimeoutSeconds"`

	CacheDir string `yaml:"cacheDir"`

	Quiet   bool `yaml:"quiet"`
	Verbose bool `yaml:"verbose"`
}

// DefaultOptions mirrors driver.DefaultConfig's defaults: single worker,
// every severity but debug, no cache.
func DefaultOptions() Options {
	return Options{
		Enable: []string{"error", "warning", "style", "performance", "portability", "information"},
		Jobs:   1,
	}
}

// LoadOptionsFile parses a cppgo.yaml-style file at path into Options,
// starting from DefaultOptions so a file that only overrides a couple of
// fields still leaves sensible values for the rest.
func LoadOptionsFile(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return opts, nil
}

// ToDriverConfig converts Options into a driver.Config. SuppressedRule
// is left nil; the CLI wires it from the suppress.Engine it builds
// separately, since rule-level suppression needs the fully-loaded
// suppression set, not just these options.
func (o Options) ToDriverConfig(toolVersion string) driver.Config {
	sev := make(map[string]bool, len(o.Enable))
	for _, s := range o.Enable {
		sev[s] = true
	}
	if len(sev) == 0 {
		sev = map[string]bool{
			"error": true, "warning": true, "style": true,
			"performance": true, "portability": true, "information": true,
		}
	}
	return driver.Config{
		Jobs: o.Jobs,
		Enabled: checks.EnabledSet{
			Severities:   sev,
			Inconclusive: o.Inconclusive,
		},
		CTUMaxDepth:      o.CTUMaxDepth,
		TUTimeout:        seconds(o.TUTimeoutSeconds),
		CheckTimeout:     seconds(o.CheckTimeoutSeconds),
		ValueflowTimeout: seconds(o.ValueflowTimeoutSeconds),
		ToolVersion:      toolVersion,
		CacheDir:         o.CacheDir,
	}
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
