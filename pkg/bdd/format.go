package bdd

import (
	"strconv"
	"strings"
)

// Format writes d in the text form read by [Parse].
//
// Links are written as the sequence position of the referenced node, found by
// identity. A link to a node outside the sequence is written as empty.
// Trailing empty fields are omitted, so terminals come out as a bare id.
func Format(d *Diagram) string {
	if d == nil {
		return ""
	}
	records := make([]string, len(d.nodes))
	for i, n := range d.nodes {
		fields := [4]string{
			formatID(n.ID),
			n.Variable,
			formatRef(d, n.Low),
			formatRef(d, n.High),
		}
		end := len(fields)
		for end > 1 && fields[end-1] == "" {
			end--
		}
		records[i] = strings.Join(fields[:end], fieldSep)
	}
	return strings.Join(records, recordSep)
}

func formatID(id ID) string {
	if !id.Valid() {
		return ""
	}
	return strconv.Itoa(int(id))
}

func formatRef(d *Diagram, n *Node) string {
	i := d.IndexOf(n)
	if i < 0 {
		return ""
	}
	return strconv.Itoa(i)
}
