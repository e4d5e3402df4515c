// Command cppgo is the main binary: a thin entry point that hands
// os.Args straight to pkg/cli, following the teacher's own
// cmd/funxy/main.go split between a minimal main and a pkg/cli that owns
// the actual logic.
package main

import (
	"fmt"
	"os"

	"github.com/funvibe/cppgo/pkg/cli"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "cppgo: internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()
	os.Exit(cli.Run(os.Args[1:]))
}
