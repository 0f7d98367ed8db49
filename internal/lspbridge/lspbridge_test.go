package lspbridge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"watc/internal/ast"
	cerrors "watc/internal/errors"
	"watc/internal/trace"
)

func TestReportBuffersDiagnosticWithoutContext(t *testing.T) {
	b := New("file:///t.src")
	b.Report(cerrors.UnresolvedIdentifier, ast.Position{Filename: "t.src", Line: 3, Column: 5}, "no such identifier", nil)

	assert.Len(t, b.diagnostics, 1)
	d := b.diagnostics[0]
	assert.Equal(t, uint32(2), d.Range.Start.Line)
	assert.Equal(t, uint32(4), d.Range.Start.Character)
	assert.Contains(t, d.Message, "no such identifier")
	assert.Contains(t, d.Message, string(cerrors.UnresolvedIdentifier))
}

func TestReportFallsBackToDescriptionWhenMessageEmpty(t *testing.T) {
	b := New("file:///t.src")
	b.Report(cerrors.DuplicateLocal, ast.Position{Line: 1, Column: 1}, "", nil)

	assert.Len(t, b.diagnostics, 1)
	assert.Contains(t, b.diagnostics[0].Message, cerrors.Description(cerrors.DuplicateLocal))
}

func TestResetClearsDiagnostics(t *testing.T) {
	b := New("file:///t.src")
	b.Report(cerrors.DuplicateLocal, ast.Position{Line: 1, Column: 1}, "dup", nil)
	assert.Len(t, b.diagnostics, 1)

	b.Reset()
	assert.Empty(t, b.diagnostics)
}

func TestEmitWithoutContextDoesNotPanic(t *testing.T) {
	b := New("file:///t.src")
	assert.NotPanics(t, func() {
		b.Emit(trace.PExpr, 1, "some payload")
	})
}

func TestBridgeSatisfiesSinkInterfaces(t *testing.T) {
	b := New("file:///t.src")
	var _ cerrors.Sink = b
	var _ trace.Sink = b
}
