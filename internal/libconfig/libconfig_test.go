package libconfig

import "testing"

const sampleYAML = `
libraries:
  - name: posix
    functions:
      - name: strlen
        args:
          - direction: in
            null: notnull
        returns:
          known: true
          lo: 0
          hi: 9223372036854775807
        pure: true
      - name: malloc
        allocates: true
      - name: free
        frees: 1
      - name: printf
        format_string_arg: 1
        sets_errno: false
        args:
          - direction: in
            null: notnull
`

func TestParseAndLookup(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML), "sample.yaml")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	strlen, ok := cfg.Lookup("strlen")
	if !ok {
		t.Fatalf("expected strlen to be found")
	}
	if !strlen.Pure {
		t.Fatalf("expected strlen to be marked pure")
	}
	if !strlen.Returns.Known || strlen.Returns.Lo != 0 {
		t.Fatalf("expected strlen's return range to be known starting at 0, got %+v", strlen.Returns)
	}
	if strlen.ArgAt(0).Null != NullableNo {
		t.Fatalf("expected strlen's first argument to be notnull, got %+v", strlen.ArgAt(0))
	}
	if strlen.ArgAt(5) != (Argument{}) {
		t.Fatalf("expected an out-of-range argument index to return the zero Argument")
	}

	malloc, ok := cfg.Lookup("malloc")
	if !ok || !malloc.Allocates {
		t.Fatalf("expected malloc to be marked as allocating")
	}

	free, ok := cfg.Lookup("free")
	if !ok || free.Frees != 1 {
		t.Fatalf("expected free to free argument 1, got %+v", free)
	}

	if cfg.FormatStringArg("printf") != 1 {
		t.Fatalf("expected printf's format string arg to be 1")
	}
	if cfg.FormatStringArg("strlen") != 0 {
		t.Fatalf("expected strlen to have no format string arg")
	}
}

func TestLookupUnknownFunction(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML), "sample.yaml")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if _, ok := cfg.Lookup("frobnicate"); ok {
		t.Fatalf("expected an unknown symbol to miss")
	}
	if cfg.IsPure("frobnicate") {
		t.Fatalf("expected an unknown symbol to not be pure")
	}
}

func TestMergeLaterConfigOverridesEarlier(t *testing.T) {
	base, err := Parse([]byte(sampleYAML), "base.yaml")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	override, err := Parse([]byte(`
libraries:
  - name: overrides
    functions:
      - name: strlen
        pure: false
`), "override.yaml")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	merged := Merge(base, override)
	fn, ok := merged.Lookup("strlen")
	if !ok {
		t.Fatalf("expected strlen to survive the merge")
	}
	if fn.Pure {
		t.Fatalf("expected the later config's pure:false to win")
	}
	if _, ok := merged.Lookup("malloc"); !ok {
		t.Fatalf("expected entries only present in the base config to survive the merge")
	}
}

func TestNilConfigLookupMisses(t *testing.T) {
	var cfg *Config
	if _, ok := cfg.Lookup("strlen"); ok {
		t.Fatalf("expected a nil *Config to miss every lookup")
	}
	if cfg.IsPure("strlen") {
		t.Fatalf("expected a nil *Config to never report purity")
	}
}
