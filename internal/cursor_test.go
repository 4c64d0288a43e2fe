package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor(t *testing.T) {
	t.Run("resumes after the removed current action", func(t *testing.T) {
		r := newTestRuntime()
		n := r.NewNode()
		log := []string{}

		var b Handle
		b = r.NewAction(n, func(*Node) bool {
			log = append(log, "b")
			r.Deschedule(b)
			return true
		}, withPriority(1))
		r.NewAction(n, func(*Node) bool { log = append(log, "a"); return true }, withPriority(0))
		r.NewAction(n, func(*Node) bool { log = append(log, "c"); return true }, withPriority(2))

		require.NoError(t, r.Execute())
		assert.Equal(t, []string{"a", "b", "c"}, log)
	})

	t.Run("resume point follows removals", func(t *testing.T) {
		r := newTestRuntime()
		n := r.NewNode()
		log := []string{}

		var b, c Handle
		b = r.NewAction(n, func(*Node) bool {
			log = append(log, "b")
			r.Cancel(b)
			r.Cancel(c)
			return true
		}, withPriority(1))
		c = r.NewAction(n, func(*Node) bool { log = append(log, "c"); return true }, withPriority(2))
		r.NewAction(n, func(*Node) bool { log = append(log, "d"); return true }, withPriority(3))

		require.NoError(t, r.Execute())
		assert.Equal(t, []string{"b", "d"}, log)
	})

	t.Run("resume point picks up insertions after the key", func(t *testing.T) {
		r := newTestRuntime()
		n := r.NewNode()
		log := []string{}

		var b Handle
		b = r.NewAction(n, func(*Node) bool {
			log = append(log, "b")
			r.Cancel(b)
			// reuses b's slot, sorts after b and before d
			r.NewAction(n, func(*Node) bool { log = append(log, "c"); return false }, withPriority(1))
			// sorts before b, not visited this pass
			r.NewAction(n, func(*Node) bool { log = append(log, "a"); return false }, withPriority(0))
			return false
		}, withPriority(1))
		r.NewAction(n, func(*Node) bool { log = append(log, "d"); return true }, withPriority(2))

		require.NoError(t, r.Execute())
		assert.Equal(t, []string{"b", "c", "d"}, log)

		require.NoError(t, r.Execute())
		assert.Equal(t, []string{"b", "c", "d", "a", "d"}, log)
	})

	t.Run("inactive outside a pass", func(t *testing.T) {
		r := newTestRuntime()
		n := r.NewNode()

		h := r.NewAction(n, noop, ActionOptions{})
		r.remove(h.index)
		r.insert(h.index)

		assert.False(t, r.schedule.cursor.active)
		assert.Equal(t, nilIndex, r.schedule.cursor.resume)
	})
}
