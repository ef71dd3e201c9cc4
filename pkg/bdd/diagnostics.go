package bdd

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a diagnostic.
type Kind string

const (
	// MalformedID: the id token is not a number. The node gets [NoID].
	MalformedID Kind = "malformed_id"
	// UnresolvedRef: a non-empty low/high token did not name an earlier record.
	UnresolvedRef Kind = "unresolved_ref"
	// MissingChild: a decision node lacks its low or high branch.
	MissingChild Kind = "missing_child"
	// OrphanChildren: a terminal node carries children that will never be drawn.
	OrphanChildren Kind = "orphan_children"
	// DuplicateID: an id already used by an earlier record.
	DuplicateID Kind = "duplicate_id"
	// Unreachable: the node cannot be reached from the root and is not drawn.
	Unreachable Kind = "unreachable"
)

// Diagnostic describes one problem found in a diagram. Diagnostics are
// informational; the diagram is drawn the same way regardless.
type Diagnostic struct {
	Kind   Kind   `json:"kind"`
	Record int    `json:"record"`
	Field  string `json:"field,omitempty"`
	Token  string `json:"token,omitempty"`
	// Other is the earlier record for DuplicateID.
	Other int `json:"other,omitempty"`
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case MalformedID:
		return fmt.Sprintf("record %d: id %q is not a number", d.Record, d.Token)
	case UnresolvedRef:
		return fmt.Sprintf("record %d: %s %q does not refer to an earlier record", d.Record, d.Field, d.Token)
	case MissingChild:
		return fmt.Sprintf("record %d: decision node has no %s branch", d.Record, d.Field)
	case OrphanChildren:
		return fmt.Sprintf("record %d: terminal node has children that are ignored", d.Record)
	case DuplicateID:
		return fmt.Sprintf("record %d: id %s already used by record %d", d.Record, d.Token, d.Other)
	case Unreachable:
		return fmt.Sprintf("record %d: not reachable from the root", d.Record)
	}
	return fmt.Sprintf("record %d: %s", d.Record, d.Kind)
}

// UnreachableAt builds the diagnostic for a node that layout did not place.
func UnreachableAt(record int) Diagnostic {
	return Diagnostic{Kind: Unreachable, Record: record}
}

// Diagnostics is the list returned by [Parse].
type Diagnostics []Diagnostic

// Count returns how many diagnostics have the given kind.
func (ds Diagnostics) Count(kind Kind) int {
	n := 0
	for _, d := range ds {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Strings returns the human-readable form of each diagnostic.
func (ds Diagnostics) Strings() []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.String()
	}
	return out
}

// Err returns nil for an empty list, otherwise an error listing every
// diagnostic.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	return &DiagnosticsError{Diagnostics: ds}
}

// DiagnosticsError wraps a non-empty diagnostics list.
type DiagnosticsError struct {
	Diagnostics Diagnostics
}

func (e *DiagnosticsError) Error() string {
	if len(e.Diagnostics) == 1 {
		return e.Diagnostics[0].String()
	}
	return fmt.Sprintf("%d problems: %s", len(e.Diagnostics), strings.Join(e.Diagnostics.Strings(), "; "))
}

// AsDiagnostics extracts the diagnostics carried by err, if any.
func AsDiagnostics(err error) (Diagnostics, bool) {
	var de *DiagnosticsError
	if errors.As(err, &de) {
		return de.Diagnostics, true
	}
	return nil, false
}
