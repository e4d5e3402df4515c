package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAnalyzesARealFileEndToEnd(t *testing.T) {
	dir := t.TempDir()
	src := "int f() {\n  int a[4];\n  a[0] = 0;\n  return a[0];\n}\n"
	p := filepath.Join(dir, "sample.c")
	require.NoError(t, os.WriteFile(p, []byte(src), 0o644))

	code := Run([]string{p})
	assert.Equal(t, 0, code, "expected a clean exit for a file with no error-severity findings")
}

func TestRunFlagsUnsuppressedNullPointerDereference(t *testing.T) {
	dir := t.TempDir()
	src := "*p = 0;\n"
	p := filepath.Join(dir, "sample.c")
	require.NoError(t, os.WriteFile(p, []byte(src), 0o644))

	code := Run([]string{p})
	assert.NotEqual(t, 0, code, "expected a nonzero exit for an unsuppressed error-severity nullPointer finding")
}

func TestRunHonorsInlineCppcheckSuppressComment(t *testing.T) {
	dir := t.TempDir()
	src := "// cppcheck-suppress nullPointer\n*p = 0;\n"
	p := filepath.Join(dir, "sample.c")
	require.NoError(t, os.WriteFile(p, []byte(src), 0o644))

	code := Run([]string{p})
	assert.Equal(t, 0, code, "expected the cppcheck-suppress comment to suppress the nullPointer finding (§8 scenario 5)")
}

func TestRunReportsExitCodeTwoForNoInput(t *testing.T) {
	code := Run(nil)
	assert.Equal(t, 2, code)
}

func TestRunReportsExitCodeTwoForUnrecognizedFlag(t *testing.T) {
	code := Run([]string{"--bogus"})
	assert.Equal(t, 2, code)
}

func TestRunHelpReturnsZero(t *testing.T) {
	code := Run([]string{"--help"})
	assert.Equal(t, 0, code)
}
