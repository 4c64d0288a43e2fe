package internal

import "iter"

// Node owns a chain of actions. The chain is singly linked through the
// actions' nodeNext field and only tracks membership, not order.
type Node struct {
	rt *Runtime

	actions int32

	// set while the node's actions are kept out of the schedule
	descheduled bool
}

func (r *Runtime) NewNode() *Node {
	return &Node{
		rt:      r,
		actions: nilIndex,
	}
}

func (n *Node) Runtime() *Runtime { return n.rt }

func (n *Node) attach(i int32) {
	a := n.rt.arena.at(i)
	a.node = n
	a.nodeNext = n.actions
	n.actions = i
}

// detach removes the action at i from the chain.
// It reports false when the node no longer holds it, which means it was already retired.
func (n *Node) detach(i int32) bool {
	ar := &n.rt.arena

	if n.actions == i {
		a := ar.at(i)
		n.actions = a.nodeNext
		a.nodeNext = nilIndex
		return true
	}

	ptr := n.actions
	for ptr != nilIndex && ar.at(ptr).nodeNext != i {
		ptr = ar.at(ptr).nodeNext
	}
	if ptr == nilIndex {
		return false
	}

	a := ar.at(i)
	ar.at(ptr).nodeNext = a.nodeNext
	a.nodeNext = nilIndex
	return true
}

// Actions iterates handles of the node's actions, most recently attached first.
// The node must not be mutated while iterating; use Handles for that.
func (n *Node) Actions() iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		ar := &n.rt.arena
		for i := n.actions; i != nilIndex; i = ar.at(i).nodeNext {
			if !yield(ar.handle(i)) {
				return
			}
		}
	}
}

// Handles snapshots the node's actions.
func (n *Node) Handles() []Handle {
	var out []Handle
	for h := range n.Actions() {
		out = append(out, h)
	}
	return out
}

// Find returns the node's action carrying tag.
func (n *Node) Find(tag string) (Handle, bool) {
	if tag == "" {
		return NilHandle, false
	}

	for h := range n.Actions() {
		if n.rt.arena.at(h.index).tag == tag {
			return h, true
		}
	}

	return NilHandle, false
}

func (n *Node) Len() int {
	count := 0
	for range n.Actions() {
		count++
	}
	return count
}

func (n *Node) IsDescheduled() bool { return n.descheduled }

// Deschedule takes every action of the node out of the schedule. They stay owned
// by the node and new actions are held back until Reschedule.
func (n *Node) Deschedule() {
	n.rt.assertOwner()
	n.descheduled = true

	for _, h := range n.Handles() {
		if n.rt.arena.at(h.index).state == StateScheduled {
			n.rt.remove(h.index)
		}
	}
}

// Reschedule puts every idle action of the node back in the schedule.
func (n *Node) Reschedule() {
	n.rt.assertOwner()
	n.descheduled = false

	for _, h := range n.Handles() {
		if n.rt.arena.at(h.index).state == StateIdle {
			n.rt.insert(h.index)
		}
	}
}

// CancelAll retires every action owned by the node and returns how many were retired.
func (n *Node) CancelAll() int {
	count := 0
	for _, h := range n.Handles() {
		if n.rt.Cancel(h) {
			count++
		}
	}
	return count
}
