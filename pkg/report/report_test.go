package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/cppgo/internal/diag"
)

func TestWriteFormatsPrimaryLine(t *testing.T) {
	var buf bytes.Buffer
	r := &Reporter{Out: &buf}

	d := diag.Diagnostic{
		ID:           "nullPointer",
		Severity:     diag.Error,
		Certainty:    diag.Definite,
		ShortMessage: "dereference of a possibly null pointer",
		CallStack:    []diag.Location{{File: "a.c", Line: 10, Column: 5}},
	}
	require.NoError(t, r.Write(d))

	want := "a.c:10:5: error: dereference of a possibly null pointer [nullPointer]\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteMarksInconclusive(t *testing.T) {
	var buf bytes.Buffer
	r := &Reporter{Out: &buf}

	d := diag.Diagnostic{
		ID:           "zerodiv",
		Severity:     diag.Error,
		Certainty:    diag.Inconclusive,
		ShortMessage: "division by a value that may be zero",
		CallStack:    []diag.Location{{File: "b.c", Line: 3, Column: 1}},
	}
	require.NoError(t, r.Write(d))
	assert.Contains(t, buf.String(), "error, inconclusive:")
}

func TestWriteRendersOuterCallStackFrames(t *testing.T) {
	var buf bytes.Buffer
	r := &Reporter{Out: &buf}

	d := diag.Diagnostic{
		ID:           "ctuNullPointer",
		Severity:     diag.Warning,
		ShortMessage: "argument may be null at the call site",
		CallStack: []diag.Location{
			{File: "caller.c", Line: 7, Column: 2},
			{File: "callee.c", Line: 20, Column: 4},
		},
	}
	require.NoError(t, r.Write(d))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2, "expected a primary line plus one caller frame")
	assert.True(t, strings.HasPrefix(lines[0], "callee.c:20:4:"), "expected the primary line to use the innermost frame")
	assert.Contains(t, lines[1], "caller.c:7:2")
}

func TestNewReporterDisablesColorForNonFileWriter(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)
	assert.False(t, r.Color, "expected color disabled for a non-*os.File writer")
}

func TestSummarizeReportsNoIssues(t *testing.T) {
	var buf bytes.Buffer
	r := &Reporter{Out: &buf}
	require.NoError(t, r.Summarize(nil))
	assert.Equal(t, "no issues found\n", buf.String())
}

func TestSummarizeCountsBySeverity(t *testing.T) {
	var buf bytes.Buffer
	r := &Reporter{Out: &buf}
	ds := []diag.Diagnostic{
		{Severity: diag.Error},
		{Severity: diag.Error},
		{Severity: diag.Warning},
	}
	require.NoError(t, r.Summarize(ds))
	assert.Equal(t, "2 error, 1 warning\n", buf.String())
}

func TestColorSeverityNoOpWhenColorDisabled(t *testing.T) {
	r := &Reporter{Color: false}
	assert.Equal(t, "error", r.colorSeverity(diag.Error, "error"))
}
