package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexFileSplitsBasicDeclaration(t *testing.T) {
	recs, _ := lexFile(0, "test.c", "int a[4];")
	var got []string
	for _, r := range recs {
		got = append(got, r.Text)
	}
	assert.Equal(t, []string{"int", "a", "[", "4", "]", ";"}, got)
}

func TestLexFileStripsComments(t *testing.T) {
	recs, _ := lexFile(0, "test.c", "int a; // trailing\n/* block */ int b;")
	var got []string
	for _, r := range recs {
		got = append(got, r.Text)
	}
	assert.Equal(t, []string{"int", "a", ";", "int", "b", ";"}, got)
}

func TestLexFileGreedilyMatchesMultiCharOperators(t *testing.T) {
	recs, _ := lexFile(0, "test.c", "a <<= b; c->d;")
	var got []string
	for _, r := range recs {
		got = append(got, r.Text)
	}
	assert.Equal(t, []string{"a", "<<=", "b", ";", "c", "->", "d", ";"}, got)
}

func TestLexFileHandlesStringAndCharLiterals(t *testing.T) {
	recs, _ := lexFile(0, "test.c", `char *s = "he said \"hi\""; char c = '\n';`)
	var got []string
	for _, r := range recs {
		got = append(got, r.Text)
	}
	assert.Equal(t, `"he said \"hi\""`, got[4])
	assert.Equal(t, `'\n'`, got[len(got)-2])
}

func TestLexFileFoldsQualifiedNames(t *testing.T) {
	recs, _ := lexFile(0, "test.c", "std::vector v;")
	assert.Equal(t, "std::vector", recs[0].Text)
}

func TestLexFileExtractsInlineSuppressComment(t *testing.T) {
	_, inline := lexFile(0, "test.c", "// cppcheck-suppress nullPointer\n*p = 0;")
	assert.Len(t, inline, 1)
	assert.Equal(t, "nullPointer", inline[0].RuleID)
	assert.Equal(t, "test.c", inline[0].File)
	assert.Equal(t, 1, inline[0].Line)
}

func TestLexFileExtractsInlineSuppressSymbolName(t *testing.T) {
	_, inline := lexFile(0, "test.c", "// cppcheck-suppress nullPointer symbolName=p\n*p = 0;")
	assert.Len(t, inline, 1)
	assert.Equal(t, "p", inline[0].SymbolName)
}

func TestLexFileIgnoresOrdinaryComments(t *testing.T) {
	_, inline := lexFile(0, "test.c", "// just a note\nint a;")
	assert.Empty(t, inline)
}
