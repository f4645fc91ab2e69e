package timing

import (
	"github.com/emirpasic/gods/trees/redblacktree"
)

type eventKey struct {
	row  int
	kind Kind
	seq  uint64
}

func keyOf(e *Event) eventKey {
	return eventKey{row: e.Row, kind: e.Kind, seq: e.seq}
}

func compareKeys(a, b interface{}) int {
	ka, kb := a.(eventKey), b.(eventKey)
	switch {
	case ka.row != kb.row:
		return compareInts(ka.row, kb.row)
	case ka.kind != kb.kind:
		return compareInts(int(ka.kind), int(kb.kind))
	case ka.seq < kb.seq:
		return -1
	case ka.seq > kb.seq:
		return 1
	}
	return 0
}

func compareInts(a, b int) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

// Tree holds rate altering events ordered by row, then kind, then the
// order they were inserted in. It is not safe for concurrent use.
type Tree struct {
	rb  *redblacktree.Tree
	seq uint64
}

func NewTree() *Tree {
	return &Tree{rb: redblacktree.NewWith(compareKeys)}
}

func (t *Tree) Insert(e *Event) {
	t.seq++
	e.seq = t.seq
	t.rb.Put(keyOf(e), e)
}

// Delete removes e and reports whether it was present.
func (t *Tree) Delete(e *Event) bool {
	k := keyOf(e)
	v, ok := t.rb.Get(k)
	if !ok || v.(*Event) != e {
		return false
	}
	t.rb.Remove(k)
	return true
}

func (t *Tree) Len() int {
	return t.rb.Size()
}

func (t *Tree) Clear() {
	t.rb.Clear()
}

func (t *Tree) First() Enumerator {
	return Enumerator{node: t.rb.Left()}
}

func (t *Tree) Last() Enumerator {
	return Enumerator{node: t.rb.Right()}
}

// Events returns the events in order.
func (t *Tree) Events() []*Event {
	events := make([]*Event, 0, t.rb.Size())
	for it := t.First(); it.Valid(); it.MoveNext() {
		events = append(events, it.Current())
	}
	return events
}

// greatestPreceding returns the last node for which before holds. before
// must be true for a prefix of the tree order and false after it.
func (t *Tree) greatestPreceding(before func(*Event) bool) *redblacktree.Node {
	var best *redblacktree.Node
	for n := t.rb.Root; n != nil; {
		if before(eventAt(n)) {
			best = n
			n = n.Right
		} else {
			n = n.Left
		}
	}
	return best
}

// leastFollowing returns the first node for which before does not hold.
func (t *Tree) leastFollowing(before func(*Event) bool) *redblacktree.Node {
	var best *redblacktree.Node
	for n := t.rb.Root; n != nil; {
		if before(eventAt(n)) {
			n = n.Right
		} else {
			best = n
			n = n.Left
		}
	}
	return best
}

func eventAt(n *redblacktree.Node) *Event {
	return n.Value.(*Event)
}

func successor(n *redblacktree.Node) *redblacktree.Node {
	if n.Right != nil {
		n = n.Right
		for n.Left != nil {
			n = n.Left
		}
		return n
	}
	p := n.Parent
	for p != nil && n == p.Right {
		n, p = p, p.Parent
	}
	return p
}

func predecessor(n *redblacktree.Node) *redblacktree.Node {
	if n.Left != nil {
		n = n.Left
		for n.Right != nil {
			n = n.Right
		}
		return n
	}
	p := n.Parent
	for p != nil && n == p.Left {
		n, p = p, p.Parent
	}
	return p
}

// Enumerator is a cursor into a Tree. The zero value is invalid. It is
// invalidated by any mutation of the tree it came from.
type Enumerator struct {
	node *redblacktree.Node
}

func (e Enumerator) Valid() bool {
	return e.node != nil
}

// Current returns the event under the cursor, or nil when the cursor is
// invalid.
func (e Enumerator) Current() *Event {
	if e.node == nil {
		return nil
	}
	return eventAt(e.node)
}

// MoveNext advances the cursor. Moving past the last event leaves the
// cursor invalid.
func (e *Enumerator) MoveNext() bool {
	if e.node == nil {
		return false
	}
	e.node = successor(e.node)
	return e.node != nil
}

func (e *Enumerator) MovePrev() bool {
	if e.node == nil {
		return false
	}
	e.node = predecessor(e.node)
	return e.node != nil
}
