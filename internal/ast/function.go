package ast

import "watc/internal/types"

// Param is one function parameter (§4.1 "Header processing").
type Param struct {
	Name string
	Type types.Type
}

// FunctionDecl is the external "function declaration" collaborator's
// shape (§4.1): parameters, an optional result intrinsic, and a body.
type FunctionDecl struct {
	Position   Position
	Name       string
	Params     []Param
	ResultType types.Type // nil for a void function
	Body       []Stmt
}

func (f *FunctionDecl) Pos() Position    { return f.Position }
func (f *FunctionDecl) EndPos() Position { return f.Position }
func (f *FunctionDecl) Type() NodeType   { return BadNode }
func (f *FunctionDecl) String() string   { return "fn " + f.Name }
