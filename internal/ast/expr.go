package ast

import (
	"github.com/google/uuid"

	"github.com/gophlox/glox/internal/token"
)

// exprBase gives every expression node a NodeID distinct from its address,
// so the resolver's locals table survives tree copies or pooling.
type exprBase struct {
	id NodeID
}

func newExprBase() exprBase {
	return exprBase{id: uuid.NewString()}
}

func (b exprBase) ID() NodeID { return b.id }
func (exprBase) exprNode()    {}

// Assign is `name = value`.
type Assign struct {
	exprBase
	Name  token.Token
	Value Expr
}

func NewAssign(name token.Token, value Expr) *Assign {
	return &Assign{exprBase: newExprBase(), Name: name, Value: value}
}

// Binary is `left op right` for arithmetic, comparison and equality operators.
type Binary struct {
	exprBase
	Left     Expr
	Operator token.Token
	Right    Expr
}

func NewBinary(left Expr, operator token.Token, right Expr) *Binary {
	return &Binary{exprBase: newExprBase(), Left: left, Operator: operator, Right: right}
}

// Call is `callee(args...)`. Paren is the closing `)` token, used to report
// the line of a call-site runtime error.
type Call struct {
	exprBase
	Callee Expr
	Paren  token.Token
	Args   []Expr
}

func NewCall(callee Expr, paren token.Token, args []Expr) *Call {
	return &Call{exprBase: newExprBase(), Callee: callee, Paren: paren, Args: args}
}

// Get is `object.name`, a property or method read.
type Get struct {
	exprBase
	Object Expr
	Name   token.Token
}

func NewGet(object Expr, name token.Token) *Get {
	return &Get{exprBase: newExprBase(), Object: object, Name: name}
}

// Grouping is a parenthesized expression.
type Grouping struct {
	exprBase
	Inner Expr
}

func NewGrouping(inner Expr) *Grouping {
	return &Grouping{exprBase: newExprBase(), Inner: inner}
}

// Literal is a nil, boolean, number, or string literal.
type Literal struct {
	exprBase
	Value any
}

func NewLiteral(value any) *Literal {
	return &Literal{exprBase: newExprBase(), Value: value}
}

// Logical is `left and right` / `left or right`, which short-circuit.
type Logical struct {
	exprBase
	Left     Expr
	Operator token.Token
	Right    Expr
}

func NewLogical(left Expr, operator token.Token, right Expr) *Logical {
	return &Logical{exprBase: newExprBase(), Left: left, Operator: operator, Right: right}
}

// Set is `object.name = value`, a field write.
type Set struct {
	exprBase
	Object Expr
	Name   token.Token
	Value  Expr
}

func NewSet(object Expr, name token.Token, value Expr) *Set {
	return &Set{exprBase: newExprBase(), Object: object, Name: name, Value: value}
}

// Super is `super.method`.
type Super struct {
	exprBase
	Keyword token.Token
	Method  token.Token
}

func NewSuper(keyword, method token.Token) *Super {
	return &Super{exprBase: newExprBase(), Keyword: keyword, Method: method}
}

// This is the `this` keyword used as an expression.
type This struct {
	exprBase
	Keyword token.Token
}

func NewThis(keyword token.Token) *This {
	return &This{exprBase: newExprBase(), Keyword: keyword}
}

// Unary is `-right` or `!right`.
type Unary struct {
	exprBase
	Operator token.Token
	Right    Expr
}

func NewUnary(operator token.Token, right Expr) *Unary {
	return &Unary{exprBase: newExprBase(), Operator: operator, Right: right}
}

// Variable is a bare identifier used as an expression.
type Variable struct {
	exprBase
	Name token.Token
}

func NewVariable(name token.Token) *Variable {
	return &Variable{exprBase: newExprBase(), Name: name}
}
