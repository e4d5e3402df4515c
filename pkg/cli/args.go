package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/cppgo/internal/config"
)

// parsedOptions is the result of manually walking os.Args: the shared
// config.Options surface plus the handful of CLI-only switches
// (--library/--suppress paths, help/version) that a cppgo.yaml file has
// no reason to carry.
type parsedOptions struct {
	config.Options

	Library []string
	Suppress []string

	helpRequested    bool
	versionRequested bool
}

// parseArgs walks args the way the teacher's cmd/funxy/main.go and
// pkg/cli/entry.go do: a manual switch over each argument rather than a
// flag-parsing library, consuming the next argument as a value for
// flags that take one. Remaining, non-flag arguments are returned as
// the list of files/directories to analyze.
func parseArgs(args []string) (parsedOptions, []string, error) {
	opts := parsedOptions{Options: config.DefaultOptions()}
	var paths []string

	next := func(i int, flag string) (string, int, error) {
		if i+1 >= len(args) {
			return "", i, fmt.Errorf("cppgo: %s requires an argument", flag)
		}
		return args[i+1], i + 1, nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-h", "--help", "help":
			opts.helpRequested = true
		case "-version", "--version":
			opts.versionRequested = true
		case "-v", "--verbose":
			opts.Verbose = true
		case "--inconclusive":
			opts.Inconclusive = true
		case "-j", "--jobs":
			v, ni, err := next(i, arg)
			if err != nil {
				return opts, nil, err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return opts, nil, fmt.Errorf("cppgo: invalid --jobs value %q", v)
			}
			opts.Jobs = n
			i = ni
		case "--enable":
			v, ni, err := next(i, arg)
			if err != nil {
				return opts, nil, err
			}
			opts.Enable = strings.Split(v, ",")
			i = ni
		case "--library":
			v, ni, err := next(i, arg)
			if err != nil {
				return opts, nil, err
			}
			opts.Library = append(opts.Library, v)
			i = ni
		case "--suppress":
			v, ni, err := next(i, arg)
			if err != nil {
				return opts, nil, err
			}
			opts.Suppress = append(opts.Suppress, v)
			i = ni
		case "--cache-dir":
			v, ni, err := next(i, arg)
			if err != nil {
				return opts, nil, err
			}
			opts.CacheDir = v
			i = ni
		case "--config":
			v, ni, err := next(i, arg)
			if err != nil {
				return opts, nil, err
			}
			fromFile, err := config.LoadOptionsFile(v)
			if err != nil {
				return opts, nil, fmt.Errorf("cppgo: %w", err)
			}
			opts.Options = fromFile
			i = ni
		default:
			if strings.HasPrefix(arg, "-") {
				return opts, nil, fmt.Errorf("cppgo: unrecognized option %q", arg)
			}
			paths = append(paths, arg)
		}
	}
	return opts, paths, nil
}
