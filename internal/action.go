package internal

const nilIndex int32 = -1

type ActionState uint8

const (
	// StateIdle actions are owned by a node but not in the ordered schedule.
	StateIdle ActionState = iota
	StateScheduled
	StateRetired
)

func (s ActionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScheduled:
		return "scheduled"
	case StateRetired:
		return "retired"
	default:
		return "unknown"
	}
}

// Callback is invoked once per pass with the owning node.
// Returning false retires the action.
type Callback func(*Node) bool

// Handle references an action slot. A handle outlives its action:
// once the slot is freed its generation moves on and the handle resolves to nothing.
type Handle struct {
	index int32
	gen   uint32
}

var NilHandle = Handle{index: nilIndex}

func (h Handle) IsNil() bool { return h.index == nilIndex }

type action struct {
	gen   uint32
	state ActionState

	priority int
	seq      uint64
	paused   bool

	node *Node
	tag  string
	fn   Callback

	// links into the ordered schedule
	prev int32
	next int32

	// next action owned by the same node
	nodeNext int32

	resources Resources
}

// sortsAfter reports whether a runs after b, ordering by (priority, seq).
func sortsAfter(a, b *action) bool {
	return a.priority > b.priority || (a.priority == b.priority && a.seq > b.seq)
}

// arena stores every action record. Links between records are slot indices,
// so pointers returned by at() must not be held across anything that may allocate.
type arena struct {
	slots []action
	free  []int32
}

func (ar *arena) alloc() int32 {
	if n := len(ar.free); n > 0 {
		i := ar.free[n-1]
		ar.free = ar.free[:n-1]
		return i
	}

	ar.slots = append(ar.slots, action{state: StateRetired})
	return int32(len(ar.slots) - 1)
}

// release returns a slot to the free list and invalidates every handle to it.
func (ar *arena) release(i int32) {
	a := &ar.slots[i]
	a.gen++
	a.state = StateRetired
	a.node = nil
	a.fn = nil
	a.tag = ""
	a.paused = false
	a.prev, a.next, a.nodeNext = nilIndex, nilIndex, nilIndex

	ar.free = append(ar.free, i)
}

func (ar *arena) at(i int32) *action {
	return &ar.slots[i]
}

// lookup resolves a handle, returning nil when the action behind it is gone.
func (ar *arena) lookup(h Handle) *action {
	if h.index < 0 || int(h.index) >= len(ar.slots) {
		return nil
	}

	a := &ar.slots[h.index]
	if a.gen != h.gen || a.state == StateRetired {
		return nil
	}

	return a
}

func (ar *arena) handle(i int32) Handle {
	return Handle{index: i, gen: ar.slots[i].gen}
}

// live returns the indices of every slot holding a non retired action.
func (ar *arena) live() []int32 {
	out := make([]int32, 0, len(ar.slots)-len(ar.free))
	for i := range ar.slots {
		if ar.slots[i].state != StateRetired {
			out = append(out, int32(i))
		}
	}
	return out
}
