package bdd

import (
	"math"
	"strconv"
)

// ID identifies a node within a diagram.
type ID int

// NoID marks a node whose id field could not be read as an integer.
// All such nodes share this one identity.
const NoID ID = math.MinInt

// Valid reports whether the id was parsed from a numeric token.
func (id ID) Valid() bool { return id != NoID }

// String returns the decimal id, or "NaN" for [NoID].
func (id ID) String() string {
	if !id.Valid() {
		return "NaN"
	}
	return strconv.Itoa(int(id))
}

// Node is a single vertex of a BDD.
//
// Variable is empty for terminal nodes. Low and High are nil when absent.
// Nothing checks that decision nodes have both children or that terminals
// have none; such nodes draw with missing or ignored edges.
type Node struct {
	ID       ID
	Variable string
	Low      *Node
	High     *Node
}

// NewNode builds a node from its four fields. No validation is performed.
func NewNode(id ID, variable string, low, high *Node) *Node {
	return &Node{ID: id, Variable: variable, Low: low, High: high}
}

// NewTerminal builds a node with no variable and no children.
func NewTerminal(id ID) *Node {
	return &Node{ID: id}
}

// IsTerminal reports whether the node has no variable label.
func (n *Node) IsTerminal() bool { return n.Variable == "" }

// Label returns the text drawn inside the node: the variable if present,
// otherwise the id.
func (n *Node) Label() string {
	if n.Variable != "" {
		return n.Variable
	}
	return n.ID.String()
}

// Diagram is an ordered node sequence. The last node is the root.
type Diagram struct {
	nodes []*Node
}

// NewDiagram wraps nodes in a diagram. The slice is not copied.
func NewDiagram(nodes ...*Node) *Diagram {
	return &Diagram{nodes: nodes}
}

// Nodes returns the node sequence in declaration order.
func (d *Diagram) Nodes() []*Node { return d.nodes }

// Len returns the number of nodes.
func (d *Diagram) Len() int { return len(d.nodes) }

// Node returns the node at position i, or nil if i is out of range.
func (d *Diagram) Node(i int) *Node {
	if i < 0 || i >= len(d.nodes) {
		return nil
	}
	return d.nodes[i]
}

// Root returns the last node, or nil for an empty diagram.
func (d *Diagram) Root() *Node {
	return d.Node(len(d.nodes) - 1)
}

// IndexOf returns the position of n in the sequence by identity, or -1.
func (d *Diagram) IndexOf(n *Node) int {
	if n == nil {
		return -1
	}
	for i, m := range d.nodes {
		if m == n {
			return i
		}
	}
	return -1
}

// Append adds a node at the end of the sequence, making it the new root.
func (d *Diagram) Append(n *Node) {
	d.nodes = append(d.nodes, n)
}
