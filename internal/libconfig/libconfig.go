// Package libconfig loads the external library API description consumed
// by §6 "Library config (consumed)": a declarative, per-symbol
// description of argument directions, nullability, post-conditions,
// purity and format-string indices for functions the analyzer never
// sees a body for. Its own file format is out of scope (spec.md §1
// non-goals name the "library/config XML loader" as an external
// collaborator); this package only owns the parsed shape, expressed here
// as yaml the way the teacher's own `internal/ext` config is yaml.
package libconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Direction classifies how a function treats a pointer/reference
// argument (§6 "argument directions {in, out, inout}").
type Direction string

const (
	DirIn    Direction = "in"
	DirOut   Direction = "out"
	DirInOut Direction = "inout"
)

// Nullability marks whether a pointer argument may legally be null.
type Nullability string

const (
	NullableUnspecified Nullability = ""
	NullableYes         Nullability = "nullable"
	NullableNo          Nullability = "notnull"
)

// Argument is one parameter's entry in a Function's config.
type Argument struct {
	Direction      Direction   `yaml:"direction,omitempty"`
	Null           Nullability `yaml:"null,omitempty"`
	NotNullTerminated bool     `yaml:"not_null_terminated,omitempty"`
}

// ReturnRange is a known post-condition on a function's return value
// (§6 "post-conditions (return-value range...)", spec.md §4.5 rule 6's
// `strlen` example: return range [0, SIZE_MAX)).
type ReturnRange struct {
	Known bool  `yaml:"known,omitempty"`
	Lo    int64 `yaml:"lo"`
	Hi    int64 `yaml:"hi"`
}

// Function is one external API symbol's complete config entry.
type Function struct {
	Name string `yaml:"name"`

	// Args is indexed by parameter position; a position past the end of
	// this slice (or a variadic tail) is treated as DirIn/unspecified.
	Args []Argument `yaml:"args,omitempty"`

	Returns ReturnRange `yaml:"returns,omitempty"`

	// Allocates/Frees name the resource-management post-condition (§6
	// "allocates/frees"): Allocates is true if the return value is a
	// freshly owned allocation, Frees holds the 1-based argument index
	// the call frees (0 meaning "does not free").
	Allocates bool `yaml:"allocates,omitempty"`
	Frees     int  `yaml:"frees,omitempty"`

	// SetsErrno is true for calls whose post-condition includes setting
	// errno on failure (§6 "post-conditions (... errno set ...)").
	SetsErrno bool `yaml:"sets_errno,omitempty"`

	// Pure marks a call with no observable side effect on any argument or
	// global state (§6 "purity flag"); a pure call's out/inout arguments
	// are not conservatively marked written by §4.5 rule 5.
	Pure bool `yaml:"pure,omitempty"`

	// FormatStringArg is the 1-based argument index of a printf-family
	// format string, 0 if this function takes none (§6 "format-string
	// index (for printf-family)").
	FormatStringArg int `yaml:"format_string_arg,omitempty"`
}

// ArgAt returns f's config for parameter index i (0-based), or the zero
// Argument if i is beyond what was declared — callers then fall back to
// §4.5 rule 5's conservative default.
func (f Function) ArgAt(i int) Argument {
	if i < 0 || i >= len(f.Args) {
		return Argument{}
	}
	return f.Args[i]
}

// Library is a named collection of Function entries, mirroring how a
// real config groups by header/library (e.g. "posix", "glibc").
type Library struct {
	Name      string     `yaml:"name"`
	Functions []Function `yaml:"functions"`
}

// Config is the top-level parsed library description: possibly several
// libraries, flattened at load time into a single by-name lookup table.
type Config struct {
	Libraries []Library `yaml:"libraries"`

	byName map[string]Function
}

// Load reads and parses a library config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("libconfig: reading %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses library config content from bytes. path is used only in
// error messages.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("libconfig: parsing %s: %w", path, err)
	}
	cfg.index()
	return &cfg, nil
}

// Merge combines cfgs in order, a later config's entries taking precedence
// on name collisions; nil entries are skipped (§6 implies later/more specific configs override
// earlier ones, the same override order as `--library` appearing more
// than once on cppcheck's own command line).
func Merge(cfgs ...*Config) *Config {
	out := &Config{byName: map[string]Function{}}
	for _, c := range cfgs {
		if c == nil {
			continue
		}
		for name, fn := range c.byName {
			out.byName[name] = fn
		}
	}
	return out
}

func (c *Config) index() {
	c.byName = make(map[string]Function)
	for _, lib := range c.Libraries {
		for _, fn := range lib.Functions {
			c.byName[fn.Name] = fn
		}
	}
}

// Lookup returns the config entry for a called function's symbol name.
func (c *Config) Lookup(name string) (Function, bool) {
	if c == nil {
		return Function{}, false
	}
	fn, ok := c.byName[name]
	return fn, ok
}

// IsPure reports whether name is a known pure function.
func (c *Config) IsPure(name string) bool {
	fn, ok := c.Lookup(name)
	return ok && fn.Pure
}

// FormatStringArg returns the 1-based format-string argument index for
// name, or 0 if name is unknown or takes no format string.
func (c *Config) FormatStringArg(name string) int {
	fn, ok := c.Lookup(name)
	if !ok {
		return 0
	}
	return fn.FormatStringArg
}
