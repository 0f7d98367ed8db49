package frontend

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"

	"watc/internal/ast"
	"watc/internal/config"
	"watc/internal/types"
)

// builtinNames mirrors the BuiltInName constants ast exposes; kept local
// since ast deliberately doesn't export an enumerable set (every switch
// over the set lives in internal/emit instead).
var builtinNames = map[string]ast.BuiltInName{
	"abs": ast.BuiltInAbs, "min": ast.BuiltInMin, "max": ast.BuiltInMax,
	"floor": ast.BuiltInFloor, "ceil": ast.BuiltInCeil, "trunc": ast.BuiltInTrunc,
	"nearest": ast.BuiltInNearest, "sqrt": ast.BuiltInSqrt, "clz": ast.BuiltInClz,
	"ctz": ast.BuiltInCtz, "popcnt": ast.BuiltInPopcnt, "neg": ast.BuiltInNeg,
	"copysign": ast.BuiltInCopysign,
}

func pos(lp lexer.Position) ast.Position {
	return ast.Position{Filename: lp.Filename, Line: lp.Line, Column: lp.Column}
}

// converter carries the config knobs that affect how a parsed grammar
// tree is lowered; threshold is the only one consulted during conversion
// today, but the struct gives future knobs (e.g. a strict-mode toggle)
// somewhere to live without threading extra parameters through every
// convert* function.
type converter struct {
	threshold int
}

// ConvertProgram lowers a parsed grammar tree into the function
// declarations the core's compiler entry point expects. cfg is optional;
// when omitted, config.Default() is used.
func ConvertProgram(prog *Program, cfg ...config.Config) ([]*ast.FunctionDecl, error) {
	c := &converter{threshold: config.Default().BigIntThreshold}
	if len(cfg) > 0 {
		c.threshold = cfg[0].BigIntThreshold
	}

	decls := make([]*ast.FunctionDecl, 0, len(prog.Functions))
	for _, fn := range prog.Functions {
		d, err := c.convertFunction(fn)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return decls, nil
}

func (c *converter) convertFunction(fn *FunctionDecl) (*ast.FunctionDecl, error) {
	params := make([]ast.Param, len(fn.Params))
	for i, p := range fn.Params {
		t, err := resolveType(p.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: parameter %s: %w", pos(p.Pos), p.Name, err)
		}
		params[i] = ast.Param{Name: p.Name, Type: t}
	}

	var result types.Type
	if fn.ResultType != nil {
		t, err := resolveType(fn.ResultType)
		if err != nil {
			return nil, fmt.Errorf("%s: result type: %w", pos(fn.Pos), err)
		}
		result = t
	}

	body := make([]ast.Stmt, len(fn.Body))
	for i := range fn.Body {
		s, err := c.convertStatement(&fn.Body[i])
		if err != nil {
			return nil, err
		}
		body[i] = s
	}

	return &ast.FunctionDecl{
		Position:   pos(fn.Pos),
		Name:       fn.Name,
		Params:     params,
		ResultType: result,
		Body:       body,
	}, nil
}

// resolveType lowers a grammar TypeSpec into types.Type. Only intrinsic
// base names are recognized: struct types need a semantic declaration
// table this demonstration frontend doesn't have, so naming a struct type
// here is reported as an error rather than guessed at.
func resolveType(ts *TypeSpec) (types.Type, error) {
	if !types.IsIntrinsic(types.Intrinsic(ts.Name)) {
		return nil, fmt.Errorf("unknown type %q (only scalar intrinsics are supported)", ts.Name)
	}
	var t types.Type = &types.IntrinsicType{Name: types.Intrinsic(ts.Name)}
	if ts.ArrayLen != nil {
		n, err := strconv.Atoi(*ts.ArrayLen)
		if err != nil {
			return nil, fmt.Errorf("invalid array length %q", *ts.ArrayLen)
		}
		t = &types.ArrayType{Elem: t, Count: n}
	}
	if ts.Pointer {
		t = &types.PointerType{Elem: t}
	}
	return t, nil
}

func (c *converter) convertStatement(s *Statement) (ast.Stmt, error) {
	if s.Let != nil {
		return c.convertLet(s.Let)
	}
	return c.convertExprStmt(s.ExprSt)
}

func (c *converter) convertLet(l *LetStmt) (ast.Stmt, error) {
	t, err := resolveType(l.Type)
	if err != nil {
		return nil, fmt.Errorf("%s: let %s: %w", pos(l.Pos), l.Name, err)
	}
	var init ast.Expr
	if l.Init != nil {
		init, err = c.convertExpr(l.Init)
		if err != nil {
			return nil, err
		}
	}
	return &ast.LocalVariableStmt{Position: pos(l.Pos), Name: l.Name, StorageType: t, Init: init}, nil
}

func (c *converter) convertExprStmt(s *ExprStmt) (ast.Stmt, error) {
	v, err := c.convertExpr(s.Value)
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Position: pos(s.Pos), Value: v}, nil
}

func (c *converter) convertExpr(e *Expr) (ast.Expr, error) {
	left, err := c.convertBinary(e.Binary)
	if err != nil {
		return nil, err
	}
	if e.Then == nil {
		return left, nil
	}
	thenExpr, err := c.convertExpr(e.Then)
	if err != nil {
		return nil, err
	}
	elseExpr, err := c.convertExpr(e.Else)
	if err != nil {
		return nil, err
	}
	return &ast.ConditionalExpression{Position: pos(e.Pos), Condition: left, Then: thenExpr, Else: elseExpr}, nil
}

func (c *converter) convertBinary(b *BinaryExpr) (ast.Expr, error) {
	left, err := c.convertUnary(b.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range b.Ops {
		right, err := c.convertUnary(op.Right)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Position: pos(op.Pos), Op: ast.BinaryOp(op.Operator), Left: left, Right: right}
	}
	return left, nil
}

func (c *converter) convertUnary(u *UnaryExpr) (ast.Expr, error) {
	operand, err := c.convertPostfix(u.Value)
	if err != nil {
		return nil, err
	}
	if u.Operator == nil {
		return operand, nil
	}
	if *u.Operator == "*" {
		return &ast.DereferenceExpression{Position: pos(u.Pos), Operand: operand}, nil
	}
	return &ast.UnaryExpression{Position: pos(u.Pos), Op: ast.UnaryOp(*u.Operator), Operand: operand}, nil
}

func (c *converter) convertPostfix(p *PostfixExpr) (ast.Expr, error) {
	expr, err := c.convertPrimary(p.Primary)
	if err != nil {
		return nil, err
	}
	for _, s := range p.Suffix {
		if s.Member != nil {
			expr = &ast.MemberAccess{Position: pos(s.Pos), Object: expr, MemberName: *s.Member}
			continue
		}
		idx, err := c.convertExpr(s.Index)
		if err != nil {
			return nil, err
		}
		expr = &ast.ItemAccess{Position: pos(s.Pos), Array: expr, Index: idx}
	}
	return expr, nil
}

func (c *converter) convertPrimary(p *PrimaryExpr) (ast.Expr, error) {
	switch {
	case p.SizeOf != nil:
		t, err := resolveType(p.SizeOf.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: sizeof: %w", pos(p.Pos), err)
		}
		return &ast.SizeOfExpression{Position: pos(p.Pos), TypeSpec: t}, nil
	case p.Call != nil:
		return c.convertCall(p.Call)
	case p.Float != nil:
		v, err := strconv.ParseFloat(*p.Float, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid float literal %q", pos(p.Pos), *p.Float)
		}
		return ast.NewRealLiteral(pos(p.Pos), v), nil
	case p.Number != nil:
		return c.convertIntLiteral(pos(p.Pos), *p.Number)
	case p.Ident != nil:
		return &ast.Identifier{Position: pos(p.Pos), Name: *p.Ident}, nil
	case p.Parens != nil:
		return c.convertExpr(p.Parens)
	default:
		return nil, fmt.Errorf("%s: empty primary expression", pos(p.Pos))
	}
}

// convertIntLiteral parses text as a signed 64-bit literal and, per
// c.threshold, decides whether it's represented as an int64 or promoted to
// math/big: a literal whose magnitude needs more bits than threshold is
// promoted even though it still fits in int64, which is how a test can
// exercise the big-literal emission path without writing a source literal
// that actually overflows int64. A literal that doesn't fit int64 at all
// always falls back to math/big regardless of threshold.
func (c *converter) convertIntLiteral(at ast.Position, text string) (ast.Expr, error) {
	if v, err := strconv.ParseInt(text, 0, 64); err == nil {
		if bitLength(v) > c.threshold {
			return ast.NewBigLiteral(at, big.NewInt(v)), nil
		}
		return ast.NewIntLiteral(at, v), nil
	}
	bi, ok := new(big.Int).SetString(text, 0)
	if !ok {
		return nil, fmt.Errorf("%s: invalid integer literal %q", at, text)
	}
	return ast.NewBigLiteral(at, bi), nil
}

// bitLength returns the number of bits needed to hold v's magnitude,
// measuring a negative value by its two's-complement flip (e.g. -1 needs
// 0 bits, -128 needs 7). This differs from math/big.Int.BitLen, which
// measures the absolute value of a negative Int (-128 gives 8).
func bitLength(v int64) int {
	if v < 0 {
		v = ^v
	}
	bits := 0
	for v != 0 {
		bits++
		v >>= 1
	}
	return bits
}

func (c *converter) convertCall(call *CallExpr) (ast.Expr, error) {
	at := pos(call.Pos)
	args := make([]ast.Expr, len(call.Args))
	for i, a := range call.Args {
		v, err := c.convertExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if types.IsIntrinsic(types.Intrinsic(call.Name)) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s: type cast %s expects exactly one argument", at, call.Name)
		}
		return &ast.TypeCast{Position: at, TargetName: types.Intrinsic(call.Name), Operand: args[0]}, nil
	}
	if name, ok := builtinNames[call.Name]; ok {
		return &ast.BuiltInFunctionInvocation{Position: at, Name: name, Args: args}, nil
	}
	return &ast.FunctionInvocation{Position: at, Callee: &ast.Identifier{Position: at, Name: call.Name}, Args: args}, nil
}
