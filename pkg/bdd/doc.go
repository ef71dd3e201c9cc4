// Package bdd provides the node model and text format for Binary Decision
// Diagrams rendered by bddview.
//
// # Overview
//
// A [Diagram] is an ordered sequence of [Node] values. Decision nodes carry a
// variable label and two outgoing references, low and high. Terminal nodes
// carry neither; by convention ids 0 and 1 are the constant false and true
// terminals. The last node in the sequence is the root.
//
// References are non-owning: several parents may point at the same child, which
// is how a BDD shares sub-structure. The diagram owns every node.
//
// This package does not reduce, apply, or reorder diagrams. It only holds an
// already-constructed node table for visualization.
//
// # Text Format
//
// Diagrams are written as records separated by ';', each record holding up to
// four comma-separated fields:
//
//	id,variable,low,high
//
// Every token is trimmed. The low and high fields are positions in the sequence
// of records parsed so far, not node ids:
//
//	d, diags := bdd.Parse("0;1;2,x1,0,1;3,x2,2,1")
//
// Records must therefore appear in dependency order. A reference that does not
// resolve to an earlier record is dropped.
//
// # Diagnostics
//
// [Parse] never fails. Malformed input still produces a diagram, and the
// problems found along the way are reported as [Diagnostics] so callers can
// warn without changing what gets drawn.
//
// # Concurrency
//
// Diagrams are not mutated after parsing and are safe for concurrent reads.
package bdd
