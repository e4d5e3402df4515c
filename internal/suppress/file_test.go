package suppress

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGlobalRulesSplitsExitOnly(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "suppressions.yaml")
	content := "suppress:\n" +
		"  - id: nullPointer\n" +
		"    file: a.c\n" +
		"  - id: unusedFunction\n" +
		"    exitOnly: true\n"
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	global, exitOnly, err := LoadGlobalRules(p)
	require.NoError(t, err)
	require.Len(t, global, 1)
	assert.Equal(t, "nullPointer", global[0].RuleID)
	assert.Equal(t, "a.c", global[0].File)
	require.Len(t, exitOnly, 1)
	assert.Equal(t, "unusedFunction", exitOnly[0].RuleID)
}

func TestLoadGlobalRulesRejectsMissingFile(t *testing.T) {
	_, _, err := LoadGlobalRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
