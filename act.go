package act

import (
	"iter"

	"github.com/AnatoleLucet/act/internal"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var (
	// ErrPassRunning is returned when Execute or Reset is called from within a pass.
	ErrPassRunning = internal.ErrPassRunning

	// ErrRetired is returned by operations on an action that was cancelled or finished.
	ErrRetired = internal.ErrRetired
)

type Config = internal.Config

// DefaultConfig returns the configuration used by default schedulers.
func DefaultConfig() Config { return internal.DefaultConfig() }

// ParseConfig reads a YAML configuration on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) { return internal.ParseConfig(data) }

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) { return internal.LoadConfig(path) }

// Scheduler runs the actions of its nodes in (priority, creation) order, one pass per Execute.
// A scheduler is single threaded: use it from the goroutine that created it.
type Scheduler struct {
	rt *internal.Runtime
}

// NewScheduler creates an independent scheduler.
func NewScheduler(config Config) *Scheduler {
	return &Scheduler{internal.NewRuntime(config)}
}

// Default returns the calling goroutine's scheduler, used by the package level functions.
func Default() *Scheduler {
	return &Scheduler{internal.GetRuntime()}
}

// NewNode creates a node whose actions run on this scheduler.
func (s *Scheduler) NewNode() *Node {
	return &Node{s.rt.NewNode()}
}

// Execute runs one pass: every scheduled, unpaused action is invoked once.
// Actions scheduled during the pass run in the same pass if they sort after the running action.
func (s *Scheduler) Execute() error { return s.rt.Execute() }

// Reset cancels every action and restarts creation ordering from zero.
func (s *Scheduler) Reset() error { return s.rt.Reset() }

// Len returns the number of scheduled actions.
func (s *Scheduler) Len() int { return s.rt.Len() }

// Passes returns the number of completed passes since the last reset.
func (s *Scheduler) Passes() int { return s.rt.Pass() }

// Current returns the action whose callback is running, or nil outside a callback.
func (s *Scheduler) Current() *Action {
	h := s.rt.Current()
	if h.IsNil() {
		return nil
	}
	return &Action{s.rt, h}
}

// Order returns the scheduled actions in the order the next pass visits them.
func (s *Scheduler) Order() []*Action {
	handles := s.rt.Order()
	out := make([]*Action, len(handles))
	for i, h := range handles {
		out[i] = &Action{s.rt, h}
	}
	return out
}

// OnSettled registers fn to run once when the current pass completes,
// or after the next one when called outside a pass.
func (s *Scheduler) OnSettled(fn func()) { s.rt.OnSettled(fn) }

// Configure replaces the scheduler configuration. Existing actions keep their priority.
func (s *Scheduler) Configure(config Config) { s.rt.Configure(config) }

func (s *Scheduler) Config() Config { return s.rt.Config() }

func (s *Scheduler) SetLogger(l *zap.Logger) { s.rt.SetLogger(l) }

// RegisterMetrics exposes the scheduler's counters on reg.
func (s *Scheduler) RegisterMetrics(reg prometheus.Registerer) error {
	return s.rt.RegisterMetrics(reg)
}

// Verify checks the schedule's structure and ordering.
func (s *Scheduler) Verify() error { return s.rt.Verify() }

// NewNode creates a node on the calling goroutine's scheduler.
func NewNode() *Node { return Default().NewNode() }

// Execute runs one pass of the calling goroutine's scheduler.
func Execute() error { return Default().Execute() }

// Reset resets the calling goroutine's scheduler.
func Reset() error { return Default().Reset() }

// Current returns the running action of the calling goroutine's scheduler.
func Current() *Action { return Default().Current() }

// OnSettled registers fn on the calling goroutine's scheduler.
func OnSettled(fn func()) { Default().OnSettled(fn) }

// Configure replaces the configuration of the calling goroutine's scheduler.
func Configure(config Config) { Default().Configure(config) }

// SetLogger sets the logger of the calling goroutine's scheduler.
func SetLogger(l *zap.Logger) { Default().SetLogger(l) }

// Node owns actions. Retiring a node's actions is up to the node's owner, see CancelAll.
type Node struct {
	node *internal.Node
}

// Scheduler returns the scheduler the node's actions run on.
func (n *Node) Scheduler() *Scheduler {
	return &Scheduler{n.node.Runtime()}
}

// Action schedules fn to run once per pass until it returns false.
func (n *Node) Action(fn func(*Node) bool, opts ...Option) *Action {
	rt := n.node.Runtime()

	var o internal.ActionOptions
	for _, opt := range opts {
		opt(&o)
	}

	h := rt.NewAction(n.node, func(*internal.Node) bool { return fn(n) }, o)
	return &Action{rt, h}
}

// Find returns the node's live action tagged tag.
func (n *Node) Find(tag string) (*Action, bool) {
	h, ok := n.node.Find(tag)
	if !ok {
		return nil, false
	}
	return &Action{n.node.Runtime(), h}, true
}

// Actions iterates the node's live actions.
func (n *Node) Actions() iter.Seq[*Action] {
	return func(yield func(*Action) bool) {
		for _, h := range n.node.Handles() {
			a := &Action{n.node.Runtime(), h}
			if a.Retired() {
				continue
			}
			if !yield(a) {
				return
			}
		}
	}
}

// Len returns the number of live actions owned by the node.
func (n *Node) Len() int { return n.node.Len() }

// Cancel retires the action tagged tag. It reports whether one was found.
func (n *Node) Cancel(tag string) bool {
	a, ok := n.Find(tag)
	return ok && a.Cancel()
}

// CancelAll retires every action of the node and returns how many were retired.
func (n *Node) CancelAll() int { return n.node.CancelAll() }

// Pause stops the action tagged tag from running until resumed.
func (n *Node) Pause(tag string) bool {
	a, ok := n.Find(tag)
	return ok && a.Pause()
}

// Resume lets a paused action tagged tag run again.
func (n *Node) Resume(tag string) bool {
	a, ok := n.Find(tag)
	return ok && a.Resume()
}

// Deschedule takes all of the node's actions out of the schedule, e.g. while the node
// is detached from the scene. Actions created meanwhile wait for Reschedule.
func (n *Node) Deschedule() { n.node.Deschedule() }

// Reschedule puts the node's actions back in the schedule at their original position.
func (n *Node) Reschedule() { n.node.Reschedule() }

func (n *Node) Descheduled() bool { return n.node.IsDescheduled() }

// Action is a handle on a scheduled callback. It stays valid after the action retires.
type Action struct {
	rt *internal.Runtime
	h  internal.Handle
}

// Cancel retires the action right away and releases its resources.
// Cancelling the running action from its own callback is allowed.
// It reports false if the action had already retired.
func (a *Action) Cancel() bool { return a.rt.Cancel(a.h) }

func (a *Action) Pause() bool { return a.rt.SetPaused(a.h, true) }

func (a *Action) Resume() bool { return a.rt.SetPaused(a.h, false) }

// Deschedule takes the action out of the schedule while keeping it on its node.
func (a *Action) Deschedule() error { return a.rt.Deschedule(a.h) }

// Reschedule puts a descheduled action back in the schedule.
func (a *Action) Reschedule() error { return a.rt.Reschedule(a.h) }

// OnRelease registers fn to run once when the action retires.
func (a *Action) OnRelease(fn func()) error { return a.rt.OnRelease(a.h, fn) }

// Is reports whether a and b refer to the same action.
func (a *Action) Is(b *Action) bool {
	return b != nil && a.rt == b.rt && a.h == b.h
}

func (a *Action) Scheduled() bool { return a.rt.IsScheduled(a.h) }

func (a *Action) Retired() bool {
	_, ok := a.rt.Inspect(a.h)
	return !ok
}

func (a *Action) Paused() bool {
	info, _ := a.rt.Inspect(a.h)
	return info.Paused
}

func (a *Action) Priority() int {
	info, _ := a.rt.Inspect(a.h)
	return info.Priority
}

func (a *Action) Seq() uint64 {
	info, _ := a.rt.Inspect(a.h)
	return info.Seq
}

func (a *Action) Tag() string {
	info, _ := a.rt.Inspect(a.h)
	return info.Tag
}
