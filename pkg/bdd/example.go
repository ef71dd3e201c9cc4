package bdd

// ExampleText is the diagram shown before any input: x2 ? 1 : (x1 ? 1 : 0).
const ExampleText = "0;1;2,x1,0,1;3,x2,2,1"

// Example returns a fresh copy of the startup diagram.
func Example() *Diagram {
	f := NewTerminal(0)
	t := NewTerminal(1)
	x1 := NewNode(2, "x1", f, t)
	x2 := NewNode(3, "x2", x1, t)
	return NewDiagram(f, t, x1, x2)
}
