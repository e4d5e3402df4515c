package driver

import (
	"time"

	"github.com/funvibe/cppgo/internal/checks"
)

// Config is §4.10's "configuration value": enabled severities,
// suppressions, job count, per-check timeouts, CTU depth.
type Config struct {
	// Jobs is the number of translation units analyzed concurrently
	// (§5 "the number of workers is configurable (jobs); the default is
	// one"). Values <= 0 are treated as 1.
	Jobs int

	Enabled checks.EnabledSet

	// CTUMaxDepth bounds §4.7's cross-translation-unit recursion; 0
	// selects ctu.DefaultMaxDepth.
	CTUMaxDepth int

	// TUTimeout, CheckTimeout, and ValueflowTimeout are the per-TU,
	// per-check, and per-valueflow deadlines of §4.10/§5. Zero disables
	// the corresponding deadline.
	TUTimeout        time.Duration
	CheckTimeout     time.Duration
	ValueflowTimeout time.Duration

	// ToolVersion is folded into the cache fingerprint (§6) so a tool
	// upgrade invalidates stale cache entries.
	ToolVersion string

	// CacheDir, if non-empty, enables the persistent build-dir cache
	// (§6); empty disables caching entirely.
	CacheDir string

	// DiagnosticBufferSize overrides diag.DefaultBufferSize; 0 selects
	// the default.
	DiagnosticBufferSize int
}

func (c Config) jobs() int {
	if c.Jobs <= 0 {
		return 1
	}
	return c.Jobs
}

// DefaultConfig returns the single-worker, all-severities-but-debug,
// uncached configuration a bare invocation starts from.
func DefaultConfig() Config {
	return Config{
		Jobs: 1,
		Enabled: checks.EnabledSet{
			Severities: map[string]bool{
				"error": true, "warning": true, "style": true,
				"performance": true, "portability": true, "information": true,
			},
		},
	}
}
