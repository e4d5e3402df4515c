package suppress

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileRule is one entry of a suppression file's YAML form, the
// yaml.v3-backed alternate to `--suppress id:file:line` command-line
// arguments (cppcheck's own suppressions-list file, reworked here as
// YAML to match internal/libconfig's and internal/config's own loader
// idiom rather than inventing a third file syntax).
type fileRule struct {
	ID       string `yaml:"id"`
	File     string `yaml:"file"`
	Line     int    `yaml:"line"`
	ExitOnly bool   `yaml:"exitOnly"`
}

type fileRules struct {
	Suppress []fileRule `yaml:"suppress"`
}

// LoadGlobalRules parses a suppression file at path into global and
// exit-only GlobalRule slices (§4.8 rules 2/3).
func LoadGlobalRules(path string) (global, exitOnly []GlobalRule, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("suppress: reading %s: %w", path, err)
	}
	var parsed fileRules
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, nil, fmt.Errorf("suppress: parsing %s: %w", path, err)
	}
	for _, r := range parsed.Suppress {
		rule := GlobalRule{RuleID: r.ID, File: r.File, Line: r.Line}
		if r.ExitOnly {
			exitOnly = append(exitOnly, rule)
		} else {
			global = append(global, rule)
		}
	}
	return global, exitOnly, nil
}
