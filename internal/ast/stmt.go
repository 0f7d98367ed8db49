package ast

import "watc/internal/types"

// Stmt is the closed set of statement variants from §4.1. LocalVariableStmt,
// AssignmentStmt, and ExprStmt are in scope for this core; the rest are
// stubs so tree walkers can dispatch exhaustively without special-casing
// the statement forms a full control-flow codegen pass would handle.
type Stmt interface {
	Node
	isStmt()
}

// LocalVariableStmt declares a local with an optional initializer
// (§4.1 "Local variable declaration").
type LocalVariableStmt struct {
	Position    Position
	Name        string
	StorageType types.Type
	Init        Expr // nil if no initializer
}

func (s *LocalVariableStmt) isStmt()          {}
func (s *LocalVariableStmt) Pos() Position    { return s.Position }
func (s *LocalVariableStmt) EndPos() Position { return s.Position }
func (s *LocalVariableStmt) Type() NodeType   { return LocalVariableStmtNode }
func (s *LocalVariableStmt) String() string   { return "let " + s.Name }

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	Position Position
	Value    Expr
}

func (s *ExprStmt) isStmt()          {}
func (s *ExprStmt) Pos() Position    { return s.Position }
func (s *ExprStmt) EndPos() Position { return s.Value.EndPos() }
func (s *ExprStmt) Type() NodeType   { return ExprStmtNode }
func (s *ExprStmt) String() string   { return s.Value.String() }

// AssignmentStmt writes Value into the addressable location named by
// Target: an identifier (local, global, or memory variable), a member
// access, an item access, or a dereference.
type AssignmentStmt struct {
	Position Position
	Target   Expr
	Value    Expr
}

func (s *AssignmentStmt) isStmt()          {}
func (s *AssignmentStmt) Pos() Position    { return s.Position }
func (s *AssignmentStmt) EndPos() Position { return s.Value.EndPos() }
func (s *AssignmentStmt) Type() NodeType   { return AssignmentStmtNode }
func (s *AssignmentStmt) String() string   { return s.Target.String() + " = " + s.Value.String() }

// The remaining statement forms are out of scope (§4.1): statement codegen
// for control flow is a declared external collaborator. These stubs exist
// purely so the statement-dispatch switch in internal/emit stays total
// over ast.Stmt.

type BreakStmt struct{ Position Position }

func (s *BreakStmt) isStmt()          {}
func (s *BreakStmt) Pos() Position    { return s.Position }
func (s *BreakStmt) EndPos() Position { return s.Position }
func (s *BreakStmt) Type() NodeType   { return BreakStmtNode }
func (s *BreakStmt) String() string   { return "<break stub>" }

type ContinueStmt struct{ Position Position }

func (s *ContinueStmt) isStmt()          {}
func (s *ContinueStmt) Pos() Position    { return s.Position }
func (s *ContinueStmt) EndPos() Position { return s.Position }
func (s *ContinueStmt) Type() NodeType   { return ContinueStmtNode }
func (s *ContinueStmt) String() string   { return "<continue stub>" }

type DoStmt struct{ Position Position }

func (s *DoStmt) isStmt()          {}
func (s *DoStmt) Pos() Position    { return s.Position }
func (s *DoStmt) EndPos() Position { return s.Position }
func (s *DoStmt) Type() NodeType   { return DoStmtNode }
func (s *DoStmt) String() string   { return "<do stub>" }

type IfStmt struct{ Position Position }

func (s *IfStmt) isStmt()          {}
func (s *IfStmt) Pos() Position    { return s.Position }
func (s *IfStmt) EndPos() Position { return s.Position }
func (s *IfStmt) Type() NodeType   { return IfStmtNode }
func (s *IfStmt) String() string   { return "<if stub>" }

type LocalFunctionInvocationStmt struct{ Position Position }

func (s *LocalFunctionInvocationStmt) isStmt()          {}
func (s *LocalFunctionInvocationStmt) Pos() Position    { return s.Position }
func (s *LocalFunctionInvocationStmt) EndPos() Position { return s.Position }
func (s *LocalFunctionInvocationStmt) Type() NodeType   { return LocalFunctionInvocationStmtNode }
func (s *LocalFunctionInvocationStmt) String() string   { return "<call stub>" }

type ReturnStmt struct {
	Position Position
	Value    Expr // nil for a bare return
}

func (s *ReturnStmt) isStmt()          {}
func (s *ReturnStmt) Pos() Position    { return s.Position }
func (s *ReturnStmt) EndPos() Position { return s.Position }
func (s *ReturnStmt) Type() NodeType   { return ReturnStmtNode }
func (s *ReturnStmt) String() string   { return "<return stub>" }

type WhileStmt struct{ Position Position }

func (s *WhileStmt) isStmt()          {}
func (s *WhileStmt) Pos() Position    { return s.Position }
func (s *WhileStmt) EndPos() Position { return s.Position }
func (s *WhileStmt) Type() NodeType   { return WhileStmtNode }
func (s *WhileStmt) String() string   { return "<while stub>" }
