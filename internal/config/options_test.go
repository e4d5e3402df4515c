package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptionsToDriverConfigEnablesDefaultSeverities(t *testing.T) {
	cfg := DefaultOptions().ToDriverConfig("test-version")
	for _, sev := range []string{"error", "warning", "style", "performance", "portability", "information"} {
		assert.True(t, cfg.Enabled.Severities[sev], "expected %s enabled by default", sev)
	}
	assert.False(t, cfg.Enabled.Severities["debug"], "expected debug disabled by default")
	assert.Equal(t, "test-version", cfg.ToolVersion)
}

func TestLoadOptionsFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "cppgo.yaml")
	content := "jobs: 4\ninconclusive: true\nenable:\n  - error\n  - warning\n"
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	opts, err := LoadOptionsFile(p)
	require.NoError(t, err)
	assert.Equal(t, 4, opts.Jobs)
	assert.True(t, opts.Inconclusive)

	cfg := opts.ToDriverConfig("v")
	assert.Equal(t, 4, cfg.Jobs)
	assert.True(t, cfg.Enabled.Inconclusive)
	assert.False(t, cfg.Enabled.Severities["style"], "expected style disabled when enable list only names error/warning")
}

func TestLoadOptionsFileRejectsMissingFile(t *testing.T) {
	_, err := LoadOptionsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestTrimAndHasSourceExt(t *testing.T) {
	assert.True(t, HasSourceExt("foo.cpp"))
	assert.False(t, HasSourceExt("foo.py"))
	assert.Equal(t, "foo", TrimSourceExt("foo.cpp"))
}
