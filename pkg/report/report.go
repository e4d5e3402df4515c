// Package report implements the one concrete diagnostic formatter this
// core ships: a cppcheck/compiler-style text report written to an
// io.Writer. XML/SARIF/plist formatters are named in the module map but
// stay out of scope; everything downstream of the diagnostic bus (C10)
// funnels through this package's Reporter.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/cppgo/internal/diag"
)

// Reporter writes diag.Diagnostic values to Out as they are delivered,
// one per call to Write (so a cli front-end can stream them as the bus
// flushes rather than buffering the whole run).
type Reporter struct {
	Out   io.Writer
	Color bool
}

// NewReporter builds a Reporter over out, deciding color the same way
// the color-aware builtins of the example corpus do: respect NO_COLOR
// (https://no-color.org/), then fall back to an isatty check on out's
// file descriptor when out is an *os.File. A writer that isn't a file
// (a bytes.Buffer in a test, a pipe feeding another tool) never gets
// escape codes, matching the "not a terminal" branch of that precedent.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{Out: out, Color: shouldColor(out)}
}

func shouldColor(out io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Write renders one diagnostic as a primary "file:line:col: severity:
// message [id]" line, followed by one indented continuation line per
// outer call-stack frame (CallStack is ordered outermost-first; the
// innermost, reporting frame is last and is what the primary line
// uses).
func (r *Reporter) Write(d diag.Diagnostic) error {
	loc := d.PrimaryLocation()
	sev := d.Severity.String()
	if d.Certainty == diag.Inconclusive {
		sev += ", inconclusive"
	}

	line := fmt.Sprintf("%s: %s: %s [%s]\n", loc, r.colorSeverity(d.Severity, sev), d.ShortMessage, d.ID)
	if _, err := io.WriteString(r.Out, line); err != nil {
		return err
	}

	if len(d.CallStack) > 1 {
		for _, frame := range d.CallStack[:len(d.CallStack)-1] {
			if _, err := fmt.Fprintf(r.Out, "  (caller) %s\n", frame); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteAll renders every diagnostic in ds in order, stopping at the
// first write error.
func (r *Reporter) WriteAll(ds []diag.Diagnostic) error {
	for _, d := range ds {
		if err := r.Write(d); err != nil {
			return err
		}
	}
	return nil
}

// Summarize writes a one-line count-by-severity footer, the way a
// compiler front-end ends a build with "N errors, M warnings".
func (r *Reporter) Summarize(ds []diag.Diagnostic) error {
	counts := make(map[diag.Severity]int)
	for _, d := range ds {
		counts[d.Severity]++
	}
	if len(ds) == 0 {
		_, err := io.WriteString(r.Out, "no issues found\n")
		return err
	}
	var parts []string
	for _, sev := range []diag.Severity{diag.Error, diag.Warning, diag.Style, diag.Performance, diag.Portability, diag.Information, diag.Debug, diag.Internal} {
		if n := counts[sev]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, sev))
		}
	}
	_, err := fmt.Fprintf(r.Out, "%s\n", strings.Join(parts, ", "))
	return err
}

// colorSeverity wraps sev in an ANSI color code matched to severity,
// when r.Color is set; otherwise sev is returned unchanged.
func (r *Reporter) colorSeverity(sev diag.Severity, text string) string {
	if !r.Color {
		return text
	}
	code := severityColor(sev)
	if code == 0 {
		return text
	}
	return fmt.Sprintf("\033[%dm%s\033[39m", code, text)
}

func severityColor(sev diag.Severity) int {
	switch sev {
	case diag.Error:
		return 31 // red
	case diag.Warning:
		return 33 // yellow
	case diag.Style, diag.Portability:
		return 36 // cyan
	case diag.Performance:
		return 35 // magenta
	case diag.Information, diag.Debug:
		return 34 // blue
	case diag.Internal:
		return 31 // red
	default:
		return 0
	}
}

// Deliver writes every diagnostic in ds and then the Summarize footer;
// it makes Reporter satisfy diag.Sink, so a driver.Driver.Run call can
// deliver its final diagnostic stream directly to one.
func (r *Reporter) Deliver(ds []diag.Diagnostic) error {
	if err := r.WriteAll(ds); err != nil {
		return err
	}
	return r.Summarize(ds)
}
