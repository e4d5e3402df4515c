package diag

import "fmt"

// SyntaxError marks malformed input the parser/simplifier could not recover
// from at a single site (§7 "Syntactic"). The affected region is left in
// original form and analysis continues past it.
type SyntaxError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: syntax error: %s", e.File, e.Line, e.Column, e.Message)
}

func NewSyntaxError(file string, line, column int, message string) *SyntaxError {
	return &SyntaxError{File: file, Line: line, Column: column, Message: message}
}

// InternalError marks a broken invariant, an exhausted algorithm cap, or a
// check's internal failure (§7 "Internal"). Carries enough context (stage,
// location) to triage.
type InternalError struct {
	Stage   string
	File    string
	Line    int
	Message string
}

func (e *InternalError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("internal error in %s: %s", e.Stage, e.Message)
	}
	return fmt.Sprintf("%s:%d: internal error in %s: %s", e.File, e.Line, e.Stage, e.Message)
}

func NewInternalError(stage, file string, line int, message string) *InternalError {
	return &InternalError{Stage: stage, File: file, Line: line, Message: message}
}

// ToDiagnostic converts an InternalError into the internalError diagnostic
// of §7. Its severity is Internal, so it does not count toward the
// exit-code decision, which counts only Error-severity diagnostics.
func (e *InternalError) ToDiagnostic() Diagnostic {
	return Diagnostic{
		ID:             "internalError",
		Severity:       Internal,
		Certainty:      Definite,
		ShortMessage:   fmt.Sprintf("internal error in %s: %s", e.Stage, e.Message),
		VerboseMessage: e.Error(),
		CallStack:      []Location{{File: e.File, Line: e.Line}},
	}
}

// ConfigError marks a bad command line, unreadable rule file, or
// library-config parse failure (§7 "Configuration"). Produced before
// analysis begins; never emitted through the bus.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return "configuration error: " + e.Message }

func NewConfigError(message string) *ConfigError {
	return &ConfigError{Message: message}
}
