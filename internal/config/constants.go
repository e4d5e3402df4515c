// Package config holds the program's ambient constants and its
// file/flag-driven analysis Options, following the teacher's own
// constants.go convention of a small file of package-level values
// rather than a dependency-injected settings object.
package config

// Version is the current cppgo version, set at build time via -ldflags
// or by editing this file directly, same as the teacher's own Version.
var Version = "0.1.0"

// SourceFileExtensions are the file extensions file discovery (pkg/cli)
// treats as C/C++ translation units.
var SourceFileExtensions = []string{".c", ".cc", ".cpp", ".cxx", ".h", ".hh", ".hpp", ".hxx"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode indicates the program is running under `cppgo test` (or an
// analogous harness mode), the same switch the teacher flips once at
// startup rather than threading a flag through every call.
var IsTestMode = false
