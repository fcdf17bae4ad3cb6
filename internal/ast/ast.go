// Package ast defines the Lox abstract syntax tree: expression and statement
// nodes produced by the parser and consumed by the resolver and interpreter.
//
// The tree is immutable once built. Every expression node carries a stable
// NodeID minted at construction time (backed by a UUID rather than the
// node's own pointer) so the resolver's locals side-table can key on node
// identity without caring whether the interpreter later copies or relocates
// the tree.
package ast

// NodeID is the resolver's key for a single use-site of a variable.
type NodeID = string

// Expr is any node that produces a value.
type Expr interface {
	ID() NodeID
	exprNode()
}

// Stmt is any node that performs an action.
type Stmt interface {
	stmtNode()
}
