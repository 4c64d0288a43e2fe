package internal

type Tracker struct {
	current Handle
}

func NewTracker() *Tracker {
	return &Tracker{
		current: NilHandle,
	}
}

// RunWithAction runs fn with h as the current action.
func (t *Tracker) RunWithAction(h Handle, fn func() bool) bool {
	prev := t.current
	t.current = h
	defer func() { t.current = prev }()

	return fn()
}

func (t *Tracker) Current() Handle {
	return t.current
}
