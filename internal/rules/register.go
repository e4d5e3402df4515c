package rules

import "github.com/funvibe/cppgo/internal/checks"

// Register adds every check in this catalogue to reg, so a caller (the
// CLI entry point) only needs to name this package once rather than
// enumerate each check by hand.
func Register(reg *checks.Registry) {
	reg.Register(NullPointer{})
	reg.Register(ArrayIndex{})
	reg.Register(ZeroDiv{})
	reg.Register(DanglingLifetime{})
	reg.Register(BufferOverrun{})
	reg.Register(NewUnusedFunction())
}
