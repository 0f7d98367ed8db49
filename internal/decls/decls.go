// Package decls implements the core's "Declaration table" and "Size
// oracle" external collaborators (§6): lookup by name into one of
// ConstDeclaration/GlobalDeclaration/VariableDeclaration/
// FunctionDeclaration/TypeAlias, and sizeof(typeSpec) for fully-resolved
// type specs.
package decls

import (
	"watc/internal/ast"
	"watc/internal/types"

	"github.com/sasha-s/go-deadlock"
)

// Declaration is the closed sum of lookup results from §6.
type Declaration interface {
	isDeclaration()
}

// ConstDeclaration binds a name to a literal value folded in by the
// simplifier's "resolution of named constants" rule (§4.2).
type ConstDeclaration struct {
	Value *ast.Literal
}

func (*ConstDeclaration) isDeclaration() {}

// GlobalDeclaration binds a name to a module global of the given
// underlying intrinsic type.
type GlobalDeclaration struct {
	Underlying types.Intrinsic
}

func (*GlobalDeclaration) isDeclaration() {}

// VariableDeclaration binds a name to a memory variable at a fixed
// address, per §4.3 ("Identifiers").
type VariableDeclaration struct {
	Address int
	Spec    types.Type
}

func (*VariableDeclaration) isDeclaration() {}

// FunctionDeclaration binds a name to a function signature. Lowering a
// call against it is out of scope (§4.3); the table still needs to
// recognize the name so "unknown identifier" isn't misreported for calls.
type FunctionDeclaration struct {
	Params []types.Type
	Result types.Type
}

func (*FunctionDeclaration) isDeclaration() {}

// TypeAlias binds a name to another type, for sizeof/cast target
// resolution.
type TypeAlias struct {
	Target types.Type
}

func (*TypeAlias) isDeclaration() {}

// Table is the "Declaration table" external collaborator: synchronous
// lookup by name, read-only during function compilation (§5).
type Table interface {
	Lookup(name string) (Declaration, bool)
}

// MemTable is an in-memory Table. Per §5 ("Concurrency & Resource
// Model"), the enclosing compilation's declaration table is shared and
// read-only while functions compile in parallel. Define and Lookup are
// serialized by a deadlock-checked RWMutex rather than a bare
// sync.RWMutex, which reports lock-order inversions and stalled lock
// waits; a Define made while functions compile is not detected or
// rejected, only serialized against the readers.
type MemTable struct {
	mu      deadlock.RWMutex
	entries map[string]Declaration
}

// NewMemTable returns an empty MemTable.
func NewMemTable() *MemTable {
	return &MemTable{entries: make(map[string]Declaration)}
}

// Define registers a declaration. Intended to be called only while
// building the table, before any function compilation begins.
func (t *MemTable) Define(name string, decl Declaration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[name] = decl
}

func (t *MemTable) Lookup(name string) (Declaration, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	d, ok := t.entries[name]
	return d, ok
}
