// Package frontend implements a minimal participle-based parser for a
// demonstration subset of the source language: function declarations with
// typed parameters, local variable declarations, and the full expression
// grammar the core understands. It stands in for the out-of-scope
// top-level grammar parser; it does not attempt struct declarations,
// control-flow statements, or assignment.
package frontend

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var watcLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Float", `[0-9]+\.[0-9]+`, nil},
		{"Integer", `0x[0-9a-fA-F]+|[0-9]+`, nil},
		{"Operator", `(==|!=|<=|>=|<<|>>>|>>|\+|-|\*|/|%|&|\||\^|<|>|=|\?|:|!|~|&)`, nil},
		{"Punctuation", `[{}\[\]()\.,;]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})

// Program is the top-level grammar entry point: a sequence of function
// declarations.
type Program struct {
	Pos       lexer.Position
	Functions []*FunctionDecl `@@*`
}

type FunctionDecl struct {
	Pos        lexer.Position
	Name       string      `"fn" @Ident "("`
	Params     []*Param    `[ @@ { "," @@ } ] ")"`
	ResultType *TypeSpec   `[ ":" @@ ]`
	Body       []Statement `"{" @@* "}"`
}

type Param struct {
	Pos  lexer.Position
	Name string    `@Ident ":"`
	Type *TypeSpec `@@`
}

// TypeSpec covers an intrinsic name with two optional composite forms: a
// pointer prefix and an array-length suffix.
type TypeSpec struct {
	Pos       lexer.Position
	Pointer   bool    `[ @"*" ]`
	Name      string  `@Ident`
	ArrayLen  *string `[ "[" @Integer "]" ]`
}

// Statement is the closed grammar-level statement alternative: a local
// variable declaration or a bare expression statement. Assignment and
// control flow are out of scope for this demonstration frontend.
type Statement struct {
	Pos    lexer.Position
	Let    *LetStmt  `  @@`
	ExprSt *ExprStmt `| @@`
}

type LetStmt struct {
	Pos  lexer.Position
	Name string    `"let" @Ident ":"`
	Type *TypeSpec `@@`
	Init *Expr     `[ "=" @@ ] ";"`
}

type ExprStmt struct {
	Pos   lexer.Position
	Value *Expr `@@ ";"`
}

// Expr is the top grammar level: an optional ternary suffix over a binary
// expression chain.
type Expr struct {
	Pos    lexer.Position
	Binary *BinaryExpr `@@`
	Then   *Expr       `[ "?" @@`
	Else   *Expr       `  ":" @@ ]`
}

// BinaryExpr is a flat left-to-right operator chain; the converter folds
// it left-associatively without precedence climbing, matching how the
// teacher grammar's own BinaryExpr/BinOp chain is folded downstream.
type BinaryExpr struct {
	Pos  lexer.Position
	Left *UnaryExpr `@@`
	Ops  []*BinOp   `{ @@ }`
}

type BinOp struct {
	Pos      lexer.Position
	Operator string     `@("==" | "!=" | "<=" | ">=" | "<<" | ">>>" | ">>" | "+" | "-" | "*" | "/" | "%" | "&" | "|" | "^" | "<" | ">")`
	Right    *UnaryExpr `@@`
}

// Operator also accepts "*", read by the converter as a dereference
// (ast.DereferenceExpression) rather than a binary-multiply-shaped unary.
type UnaryExpr struct {
	Pos      lexer.Position
	Operator *string      `[ @("+" | "-" | "!" | "~" | "&" | "*") ]`
	Value    *PostfixExpr `@@`
}

type PostfixExpr struct {
	Pos     lexer.Position
	Primary *PrimaryExpr `@@`
	Suffix  []*Postfix   `{ @@ }`
}

// Postfix is one `.member` or `[index]` suffix, applied left to right.
type Postfix struct {
	Pos    lexer.Position
	Member *string `  "." @Ident`
	Index  *Expr   `| "[" @@ "]"`
}

// PrimaryExpr is the closed set of atomic expression forms. SizeOf and
// Call both start with an identifier, so they're ordered ahead of the
// bare Ident alternative and disambiguated with lookahead.
type PrimaryExpr struct {
	Pos    lexer.Position
	SizeOf *SizeOfExpr `  @@`
	Call   *CallExpr   `| @@`
	Float  *string     `| @Float`
	Number *string     `| @Integer`
	Ident  *string     `| @Ident`
	Parens *Expr       `| "(" @@ ")"`
}

type SizeOfExpr struct {
	Pos  lexer.Position
	Type *TypeSpec `"sizeof" "(" @@ ")"`
}

// CallExpr is `name(args)`: the converter decides from the callee name
// whether this is a type cast, a built-in invocation, or a user function
// call, since that classification needs the intrinsic/built-in name
// tables from internal/ast, not grammar-level information.
type CallExpr struct {
	Pos    lexer.Position
	Name   string  `@Ident "("`
	Args   []*Expr `[ @@ { "," @@ } ] ")"`
}
