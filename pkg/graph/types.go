package graph

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/bddview/pkg/bdd"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visualization types.
const (
	VizTypeCanvas   = "canvas"
	VizTypeGraphviz = "graphviz"
)

// Edge branches.
const (
	BranchLow  = "low"
	BranchHigh = "high"
)

// =============================================================================
// Node - Sequence Entry
// =============================================================================

// Node is one record of the input sequence.
type Node struct {
	Index int `json:"index"`
	// ID is the decimal id, or "NaN" when the id was malformed.
	ID       string `json:"id"`
	Variable string `json:"variable,omitempty"`
	// Low and High are sequence positions of the children.
	Low    *int    `json:"low,omitempty"`
	High   *int    `json:"high,omitempty"`
	Placed bool    `json:"placed"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// IsTerminal returns true if the node has no variable.
func (n *Node) IsTerminal() bool { return n.Variable == "" }

// DisplayLabel returns the variable if set, otherwise the id.
func (n *Node) DisplayLabel() string {
	if n.Variable != "" {
		return n.Variable
	}
	return n.ID
}

// =============================================================================
// Edge - Drawn Arrow
// =============================================================================

// Edge is an arrow as drawn: clipped to both node outlines.
type Edge struct {
	From   int     `json:"from"`
	To     int     `json:"to"`
	Branch string  `json:"branch"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
}

// =============================================================================
// Internal Helpers
// =============================================================================

func formatID(id bdd.ID) string { return id.String() }

func parseID(s string) (bdd.ID, error) {
	if s == bdd.NoID.String() {
		return bdd.NoID, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return bdd.NoID, fmt.Errorf("node id %q: %w", s, err)
	}
	return bdd.ID(v), nil
}

func intPtr(i int) *int { return &i }
