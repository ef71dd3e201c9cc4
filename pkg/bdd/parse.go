package bdd

import (
	"strconv"
	"strings"
)

const (
	recordSep = ";"
	fieldSep  = ","
)

// Field names used in diagnostics.
const (
	FieldID       = "id"
	FieldVariable = "variable"
	FieldLow      = "low"
	FieldHigh     = "high"
)

// Parse reads a diagram from its text form.
//
// Parse never fails: every record yields a node, in input order. Problems
// that change how the diagram will look (ids that are not numbers, references
// that point forward or nowhere, decision nodes with a missing branch) are
// returned as diagnostics. The returned diagram is the same whether or not
// the diagnostics are inspected.
func Parse(s string) (*Diagram, Diagnostics) {
	records := strings.Split(s, recordSep)
	d := &Diagram{nodes: make([]*Node, 0, len(records))}

	var diags Diagnostics
	firstSeen := make(map[ID]int)

	for i, rec := range records {
		f := splitFields(rec)

		id := NoID
		if v, ok := parseInt(f[0]); ok {
			id = ID(v)
		} else {
			diags = append(diags, Diagnostic{Kind: MalformedID, Record: i, Field: FieldID, Token: f[0]})
		}
		if id.Valid() {
			if prev, dup := firstSeen[id]; dup {
				diags = append(diags, Diagnostic{Kind: DuplicateID, Record: i, Field: FieldID, Token: f[0], Other: prev})
			} else {
				firstSeen[id] = i
			}
		}

		low, lowDiag := d.resolve(i, FieldLow, f[2])
		high, highDiag := d.resolve(i, FieldHigh, f[3])
		diags = append(diags, lowDiag...)
		diags = append(diags, highDiag...)

		n := NewNode(id, f[1], low, high)
		diags = append(diags, checkShape(i, n, f)...)
		d.nodes = append(d.nodes, n)
	}
	return d, diags
}

// splitFields splits a record into exactly four trimmed fields. Missing
// fields are empty; extra fields are dropped.
func splitFields(rec string) [4]string {
	var out [4]string
	parts := strings.Split(strings.TrimSpace(rec), fieldSep)
	for i := 0; i < len(out) && i < len(parts); i++ {
		out[i] = strings.TrimSpace(parts[i])
	}
	return out
}

// resolve maps a low/high token to the node at that position among the
// nodes parsed so far.
func (d *Diagram) resolve(record int, field, token string) (*Node, Diagnostics) {
	if token == "" {
		return nil, nil
	}
	k, ok := parseInt(token)
	if !ok || k < 0 || k >= len(d.nodes) {
		return nil, Diagnostics{{Kind: UnresolvedRef, Record: record, Field: field, Token: token}}
	}
	return d.nodes[k], nil
}

func checkShape(record int, n *Node, f [4]string) Diagnostics {
	var diags Diagnostics
	if n.IsTerminal() {
		if n.Low != nil || n.High != nil {
			diags = append(diags, Diagnostic{Kind: OrphanChildren, Record: record})
		}
		return diags
	}
	if n.Low == nil && f[2] == "" {
		diags = append(diags, Diagnostic{Kind: MissingChild, Record: record, Field: FieldLow})
	}
	if n.High == nil && f[3] == "" {
		diags = append(diags, Diagnostic{Kind: MissingChild, Record: record, Field: FieldHigh})
	}
	return diags
}

// parseInt reads the leading integer of s: an optional sign followed by
// decimal digits, or hexadecimal digits after a 0x prefix. Anything after the
// digits is ignored. It reports false when no digit is found or the value
// overflows an int.
func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	base := 10
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end], base) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	v, err := strconv.ParseInt(s[:end], base, strconv.IntSize)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return int(v), true
}

func isDigit(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && c >= 'a' && c <= 'f':
		return true
	case base == 16 && c >= 'A' && c <= 'F':
		return true
	}
	return false
}
