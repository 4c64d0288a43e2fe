package internal

// cursor tracks where a running pass stands.
//
// While the current action stays scheduled the driver simply follows its next link.
// Once the current action leaves the schedule during its own callback, the cursor keeps
// its (priority, seq) key and the first scheduled action ordered after that key, so the
// pass can resume without holding a stale link.
type cursor struct {
	active bool

	current  int32
	detached bool

	priority int
	seq      uint64

	// first scheduled action after the key, valid while detached
	resume int32
}

func newCursor() cursor {
	return cursor{current: nilIndex, resume: nilIndex}
}

func (c *cursor) start() {
	*c = newCursor()
	c.active = true
}

func (c *cursor) stop() {
	*c = newCursor()
}

// park moves the cursor onto the action about to run.
func (c *cursor) park(i int32, a *action) {
	c.current = i
	c.detached = false
	c.priority = a.priority
	c.seq = a.seq
	c.resume = nilIndex
}

// removing is called before an action is unlinked from the schedule.
func (c *cursor) removing(i int32, a *action) {
	if !c.active || c.current == nilIndex {
		return
	}

	if !c.detached && i == c.current {
		c.detached = true
		c.resume = a.next
		return
	}

	if c.detached && i == c.resume {
		c.resume = a.next
	}
}

// inserted is called after an action was linked into the schedule.
func (c *cursor) inserted(ar *arena, i int32) {
	if !c.active || !c.detached {
		return
	}

	a := ar.at(i)
	if !c.before(a) {
		return
	}

	if c.resume == nilIndex || sortsAfter(ar.at(c.resume), a) {
		c.resume = i
	}
}

// before reports whether the cursor key sorts before a.
func (c *cursor) before(a *action) bool {
	return a.priority > c.priority || (a.priority == c.priority && a.seq > c.seq)
}
