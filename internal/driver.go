package internal

import "fmt"

type Driver struct {
	// incremented each time a pass completes
	clock int

	running bool
}

func NewDriver() *Driver {
	return &Driver{}
}

// Run executes fn as one pass. Passes don't nest.
func (d *Driver) Run(fn func()) error {
	if d.running {
		return ErrPassRunning
	}

	d.running = true
	defer func() { d.running = false }()

	fn()

	d.clock++
	return nil
}

func (d *Driver) Running() bool {
	return d.running
}

func (d *Driver) Time() int {
	return d.clock
}

// Execute runs one pass over the schedule, then the settled callbacks.
func (r *Runtime) Execute() error {
	r.assertOwner()

	if err := r.driver.Run(r.pass); err != nil {
		return fmt.Errorf("execute: %w", err)
	}

	r.metrics.Passes.Inc()
	r.settled.Run()
	return nil
}

func (r *Runtime) pass() {
	c := &r.schedule.cursor
	c.start()
	defer c.stop()

	defer func() {
		if p := recover(); p != nil {
			r.log.Warnw("pass aborted by panicking action", "pass", r.driver.Time(), "panic", p)
			panic(p)
		}
	}()

	i := r.schedule.head
	for i != nilIndex {
		a := r.arena.at(i)
		invariant(a.state == StateScheduled, "pass reached action %d in state %s", i, a.state)

		// pausing never changes structure so the link is safe to follow
		if a.paused {
			i = a.next
			continue
		}

		h := r.arena.handle(i)
		node, fn := a.node, a.fn
		c.park(i, a)

		r.metrics.Invocations.Inc()
		keep := r.tracker.RunWithAction(h, func() bool { return fn(node) })

		// the callback may have grown the arena, freed this slot or relinked anything
		if keep {
			if a := r.arena.lookup(h); a != nil && a.state == StateScheduled {
				i = a.next
				continue
			}

			invariant(c.detached, "action %d left the schedule unnoticed", h.index)
			i = c.resume
			continue
		}

		if r.retire(h) {
			r.metrics.Retirements.Inc()
			r.log.Debugw("action finished", "index", h.index, "node", fmt.Sprintf("%p", node))
		} else {
			// cancelled during its own callback, its resources are already gone
			r.log.Debugw("finished action was already retired", "index", h.index)
		}

		invariant(c.detached, "retired action %d left no resume point", h.index)
		i = c.resume

		r.verify()
	}
}
