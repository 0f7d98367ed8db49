package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"watc/internal/ast"
)

func TestKindOfClassification(t *testing.T) {
	assert.Equal(t, Definition, KindOf(DuplicateLocal))
	assert.Equal(t, Definition, KindOf(UnresolvedIdentifier))
	assert.Equal(t, TypeError, KindOf(NonIntrinsicOperand))
	assert.Equal(t, Internal, KindOf(Code("W999")))
}

func TestRecorderAppendOnly(t *testing.T) {
	rec := NewRecorder()
	assert.False(t, rec.HasErrors())

	rec.Report(DuplicateLocal, ast.Position{Filename: "a", Line: 3, Column: 2}, "", nil)
	assert.True(t, rec.HasErrors())
	assert.Len(t, rec.Entries, 1)
	assert.Equal(t, DuplicateLocal, rec.Entries[0].Code)
}

func TestReporterFormatIncludesCodeAndCaret(t *testing.T) {
	src := "let x = y + 1\n"
	rec := NewRecorder()
	rec.Report(UnresolvedIdentifier, ast.Position{Filename: "t", Line: 1, Column: 9}, "unknown identifier \"y\"", nil)

	rep := NewReporter(src)
	out := rep.FormatAll(rec)

	assert.Contains(t, out, "W142")
	assert.Contains(t, out, "unknown identifier")
	assert.True(t, strings.Contains(out, "^"))
}
