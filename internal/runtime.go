package internal

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Runtime struct {
	config Config

	// goroutine the runtime belongs to, checked in debug mode
	gid int64

	arena    arena
	schedule *Schedule
	driver   *Driver
	tracker  *Tracker
	settled  *SettledQueue

	// next sequence number handed to a new action
	seq uint64

	log     *zap.SugaredLogger
	metrics *Metrics
}

func NewRuntime(config Config) *Runtime {
	r := &Runtime{
		gid:     getGID(),
		driver:  NewDriver(),
		tracker: NewTracker(),
		settled: NewSettledQueue(),
		metrics: NewMetrics(),
	}
	r.schedule = NewSchedule(&r.arena)
	r.Configure(config)

	return r
}

// Configure replaces the runtime configuration. Priorities of existing actions are kept.
func (r *Runtime) Configure(config Config) {
	r.config = config
	r.log = config.logger().Sugar().Named("act")
}

func (r *Runtime) Config() Config { return r.config }

func (r *Runtime) SetLogger(l *zap.Logger) {
	r.config.Logger = l
	r.log = r.config.logger().Sugar().Named("act")
}

func (r *Runtime) Metrics() *Metrics { return r.metrics }

func (r *Runtime) RegisterMetrics(reg prometheus.Registerer) error {
	return r.metrics.Register(reg)
}

type ActionOptions struct {
	Priority    int
	HasPriority bool

	// use the configured late priority when no explicit priority is given
	Late bool

	Tag      string
	Paused   bool
	Releases []func()
}

// NewAction creates an action owned by node and schedules it,
// unless the node is descheduled. A live action with the same tag on the node is cancelled first.
func (r *Runtime) NewAction(node *Node, fn Callback, opts ActionOptions) Handle {
	r.assertOwner()
	invariant(node.rt == r, "node belongs to another runtime")

	if old, ok := node.Find(opts.Tag); ok {
		r.log.Debugw("replacing tagged action", "tag", opts.Tag)
		r.Cancel(old)
	}

	priority := r.config.DefaultPriority
	switch {
	case opts.HasPriority:
		priority = opts.Priority
	case opts.Late:
		priority = r.config.LatePriority
	}

	seq := r.seq
	r.seq++

	i := r.arena.alloc()
	a := r.arena.at(i)
	a.state = StateIdle
	a.priority = priority
	a.seq = seq
	a.paused = opts.Paused
	a.tag = opts.Tag
	a.fn = fn
	a.prev, a.next, a.nodeNext = nilIndex, nilIndex, nilIndex
	for _, release := range opts.Releases {
		a.resources.OnRelease(release)
	}

	node.attach(i)
	if !node.descheduled {
		r.insert(i)
	}

	h := r.arena.handle(i)
	r.log.Debugw("action created", "index", i, "priority", priority, "seq", seq, "tag", opts.Tag)
	return h
}

// Cancel retires an action right away, releasing its resources.
// It reports false if the action was already retired.
func (r *Runtime) Cancel(h Handle) bool {
	r.assertOwner()

	if !r.retire(h) {
		return false
	}

	r.metrics.Cancellations.Inc()
	r.log.Debugw("action cancelled", "index", h.index)
	return true
}

// retire removes an action from the schedule and its node, then releases its resources.
// It reports false when the action is already retired.
func (r *Runtime) retire(h Handle) bool {
	a := r.arena.lookup(h)
	if a == nil {
		return false
	}

	if a.state == StateScheduled {
		r.remove(h.index)
	}

	found := a.node.detach(h.index)
	invariant(found, "live action %d missing from its node", h.index)

	res := a.resources.take()
	r.arena.release(h.index)
	r.verify()

	res.Release()
	return true
}

// Deschedule takes an action out of the schedule without retiring it.
func (r *Runtime) Deschedule(h Handle) error {
	r.assertOwner()

	a := r.arena.lookup(h)
	if a == nil {
		return fmt.Errorf("deschedule: %w", ErrRetired)
	}

	if a.state == StateScheduled {
		r.remove(h.index)
	}
	return nil
}

// Reschedule puts a descheduled action back at its original (priority, seq) position.
func (r *Runtime) Reschedule(h Handle) error {
	r.assertOwner()

	a := r.arena.lookup(h)
	if a == nil {
		return fmt.Errorf("reschedule: %w", ErrRetired)
	}

	if a.state == StateIdle {
		r.insert(h.index)
	}
	return nil
}

func (r *Runtime) SetPaused(h Handle, paused bool) bool {
	a := r.arena.lookup(h)
	if a == nil {
		return false
	}

	a.paused = paused
	return true
}

func (r *Runtime) OnRelease(h Handle, fn func()) error {
	a := r.arena.lookup(h)
	if a == nil {
		return fmt.Errorf("on release: %w", ErrRetired)
	}

	a.resources.OnRelease(fn)
	return nil
}

// Inspect returns a copy of the action's observable fields.
func (r *Runtime) Inspect(h Handle) (ActionInfo, bool) {
	a := r.arena.lookup(h)
	if a == nil {
		return ActionInfo{State: StateRetired}, false
	}

	return ActionInfo{
		State:    a.state,
		Priority: a.priority,
		Seq:      a.seq,
		Paused:   a.paused,
		Tag:      a.tag,
		Node:     a.node,
	}, true
}

type ActionInfo struct {
	State    ActionState
	Priority int
	Seq      uint64
	Paused   bool
	Tag      string
	Node     *Node
}

func (r *Runtime) IsScheduled(h Handle) bool {
	return r.arena.lookup(h) != nil && r.schedule.IsScheduled(h.index)
}

// Order snapshots the schedule from head to tail.
func (r *Runtime) Order() []Handle {
	out := make([]Handle, 0, r.schedule.Len())
	for i := range r.schedule.All() {
		out = append(out, r.arena.handle(i))
	}
	return out
}

func (r *Runtime) Len() int { return r.schedule.Len() }

func (r *Runtime) Pass() int { return r.driver.Time() }

func (r *Runtime) Current() Handle { return r.tracker.Current() }

func (r *Runtime) Running() bool { return r.driver.Running() }

func (r *Runtime) OnSettled(fn func()) {
	r.settled.Enqueue(fn)
}

func (r *Runtime) Verify() error {
	return r.schedule.Verify()
}

// Reset retires every action, empties the schedule and restarts sequence numbering.
// Nodes stay usable.
func (r *Runtime) Reset() error {
	r.assertOwner()

	if r.driver.Running() {
		return fmt.Errorf("reset: %w", ErrPassRunning)
	}

	// release callbacks may create actions, so keep going until nothing is left
	retired := 0
	for live := r.arena.live(); len(live) > 0; live = r.arena.live() {
		for _, i := range live {
			if r.retire(r.arena.handle(i)) {
				retired++
			}
		}
	}

	invariant(r.schedule.Len() == 0, "schedule holds %d actions after reset", r.schedule.Len())
	r.schedule.reset()
	r.settled.Clear()
	r.seq = 0
	r.driver.clock = 0

	r.log.Debugw("runtime reset", "retired", retired)
	return nil
}

func (r *Runtime) insert(i int32) {
	r.schedule.Insert(i)
	r.metrics.Scheduled.Set(float64(r.schedule.Len()))
	r.verify()
}

func (r *Runtime) remove(i int32) {
	r.schedule.Remove(i)
	r.metrics.Scheduled.Set(float64(r.schedule.Len()))
	r.verify()
}

// verify checks the whole schedule after each mutation in debug mode.
func (r *Runtime) verify() {
	if !r.config.Debug {
		return
	}

	if err := r.schedule.Verify(); err != nil {
		panic(err)
	}
}

// assertOwner panics in debug mode when called from another goroutine than the runtime's.
func (r *Runtime) assertOwner() {
	if !r.config.Debug {
		return
	}

	if gid := getGID(); gid != r.gid {
		panic(fmt.Sprintf(
			"act: contract violation: runtime of goroutine %d used from goroutine %d",
			r.gid, gid,
		))
	}
}
