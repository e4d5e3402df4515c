// Package ppinput defines the interface the preprocessor (an external
// collaborator, §1) delivers to the analysis driver: an already-expanded
// translation unit as a flat token record stream plus file/define metadata.
// The core never preprocesses source itself.
package ppinput

// Record is one raw lexical token as delivered by the preprocessor, before
// it becomes a token.Token in an arena. Text never contains a newline.
type Record struct {
	Text      string
	FileIndex int
	Line      int
	Column    int
}

// TranslationUnit is everything the driver receives for one analysis input
// (§6 "Preprocessor input").
type TranslationUnit struct {
	// Files is the ordered file list; index 0 is the primary source file,
	// nonzero indices are included headers in first-inclusion order.
	Files []string

	Tokens []Record

	// Defines and Undefines are retained only for diagnostic provenance
	// (e.g. reporting which macro produced a construct); the core never
	// acts on them directly.
	Defines   []string
	Undefines []string
}

// Primary returns the path of the primary source file, or "" if Files is
// empty.
func (tu *TranslationUnit) Primary() string {
	if len(tu.Files) == 0 {
		return ""
	}
	return tu.Files[0]
}
