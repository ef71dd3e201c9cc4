// Package bddtest builds diagrams for tests.
package bddtest

import (
	"strconv"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"

	"github.com/matzehuels/bddview/pkg/bdd"
)

// FromSeeds builds a well-formed diagram with two terminals followed by one
// decision node per seed. Each seed picks the node's low and high children
// among the nodes before it. Ids equal sequence positions.
func FromSeeds(seeds []int) *bdd.Diagram {
	f := bdd.NewTerminal(0)
	t := bdd.NewTerminal(1)
	d := bdd.NewDiagram(f, t)
	for i, s := range seeds {
		n := d.Len()
		if s < 0 {
			s = -s
		}
		low := d.Node(s % n)
		high := d.Node((s / 7) % n)
		d.Append(bdd.NewNode(bdd.ID(n), variable(i), low, high))
	}
	return d
}

// Chain builds a diagram whose root sits depth levels above the false
// terminal, each decision node pointing low at the previous one and high at
// the true terminal.
func Chain(depth int) *bdd.Diagram {
	f := bdd.NewTerminal(0)
	t := bdd.NewTerminal(1)
	d := bdd.NewDiagram(f, t)
	prev := f
	for i := 0; i < depth; i++ {
		n := bdd.NewNode(bdd.ID(d.Len()), variable(i), prev, t)
		d.Append(n)
		prev = n
	}
	return d
}

// Seeds generates seed slices for [FromSeeds]. Slice length follows the
// gopter size parameter.
func Seeds() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, 1<<16))
}

func variable(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	if i < len(letters) {
		return string(letters[i])
	}
	return "v" + strconv.Itoa(i)
}
