package cql

import (
	"strconv"
	"strings"
)

// Node is an element of a parsed query. String renders it back in
// fully parenthesised prefix form.
type Node interface {
	String() string
	isNode()
}

type (
	// FilterNode applies a named filter, e.g. (piece K e1) or mate.
	FilterNode struct {
		Name string
		Args []Node
	}

	// LogicalNode is and, or or not over its children.
	LogicalNode struct {
		Op       string
		Children []Node
	}

	// ComparisonNode compares two numeric operands with <, >, <=, >= or ==.
	ComparisonNode struct {
		Op          string
		Left, Right Node
	}

	// PieceNode holds a piece designator such as K, a, _ or [RQ].
	PieceNode struct{ Designator string }

	// SquareNode holds a square designator such as e4, [a-h]1 or ".".
	SquareNode struct{ Designator string }

	// NumberNode is an integer literal.
	NumberNode struct{ Value int }

	// StringNode is a quoted string literal.
	StringNode struct{ Value string }
)

func (*FilterNode) isNode()     {}
func (*LogicalNode) isNode()    {}
func (*ComparisonNode) isNode() {}
func (*PieceNode) isNode()      {}
func (*SquareNode) isNode()     {}
func (*NumberNode) isNode()     {}
func (*StringNode) isNode()     {}

func (f *FilterNode) String() string {
	if len(f.Args) == 0 {
		return f.Name
	}
	return list(f.Name, f.Args...)
}

func (l *LogicalNode) String() string    { return list(l.Op, l.Children...) }
func (c *ComparisonNode) String() string { return list(c.Op, c.Left, c.Right) }
func (p *PieceNode) String() string      { return p.Designator }
func (s *SquareNode) String() string     { return s.Designator }
func (n *NumberNode) String() string     { return strconv.Itoa(n.Value) }
func (s *StringNode) String() string     { return strconv.Quote(s.Value) }

// list renders "(head arg...)".
func list(head string, args ...Node) string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(head)
	for _, arg := range args {
		sb.WriteByte(' ')
		sb.WriteString(arg.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
