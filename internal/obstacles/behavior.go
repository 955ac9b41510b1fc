package obstacles

import (
	bt "github.com/joeycumines/go-behaviortree"
)

// Creatures decide their turn by ticking a small behaviour tree. The trees
// are rebuilt per creature and never hold state of their own: every leaf
// reads or mutates the creature it closes over.

// when is a condition leaf.
func when(f func() bool) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		if f() {
			return bt.Success, nil
		}
		return bt.Failure, nil
	})
}

// try is an action leaf that succeeds when f reports it acted.
func try(f func() bool) bt.Node {
	return when(f)
}

// do is an action leaf that always succeeds.
func do(f func()) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		f()
		return bt.Success, nil
	})
}

// run ticks a decision tree. Creature trees are built from leaves that
// never error, so a failure only means no branch applied.
func run(tree bt.Node) bool {
	status, err := tree.Tick()
	return err == nil && status == bt.Success
}
