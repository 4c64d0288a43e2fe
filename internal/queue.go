package internal

// SettledQueue holds one-shot callbacks run when a pass completes.
type SettledQueue struct {
	callbacks []func()
}

func NewSettledQueue() *SettledQueue {
	return &SettledQueue{
		callbacks: make([]func(), 0),
	}
}

func (q *SettledQueue) Enqueue(fn func()) {
	q.callbacks = append(q.callbacks, fn)
}

// Run drains the queue. Callbacks enqueued while running wait for the next pass.
func (q *SettledQueue) Run() {
	callbacks := q.callbacks
	q.callbacks = make([]func(), 0)

	for _, cb := range callbacks {
		cb()
	}
}

func (q *SettledQueue) Clear() {
	q.callbacks = q.callbacks[:0]
}

func (q *SettledQueue) Len() int {
	return len(q.callbacks)
}
