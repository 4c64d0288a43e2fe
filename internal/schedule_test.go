package internal

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRuntime() *Runtime {
	cfg := DefaultConfig()
	cfg.Debug = true
	return NewRuntime(cfg)
}

func noop(*Node) bool { return true }

func withPriority(p int) ActionOptions {
	return ActionOptions{Priority: p, HasPriority: true}
}

func priorities(r *Runtime) []int {
	out := []int{}
	for _, h := range r.Order() {
		info, _ := r.Inspect(h)
		out = append(out, info.Priority)
	}
	return out
}

func TestScheduleInsert(t *testing.T) {
	t.Run("keeps (priority, seq) order", func(t *testing.T) {
		r := newTestRuntime()
		n := r.NewNode()
		rng := rand.New(rand.NewSource(1))

		for range 200 {
			r.NewAction(n, noop, withPriority(rng.Intn(11)-5))
		}

		require.NoError(t, r.Verify())
		assert.Equal(t, 200, r.Len())

		order := r.Order()
		for i := 1; i < len(order); i++ {
			prev, _ := r.Inspect(order[i-1])
			cur, _ := r.Inspect(order[i])

			if prev.Priority == cur.Priority {
				assert.Less(t, prev.Seq, cur.Seq)
			} else {
				assert.Less(t, prev.Priority, cur.Priority)
			}
		}
	})

	t.Run("equal priorities keep creation order", func(t *testing.T) {
		r := newTestRuntime()
		n := r.NewNode()

		a := r.NewAction(n, noop, withPriority(0))
		b := r.NewAction(n, noop, withPriority(0))
		c := r.NewAction(n, noop, withPriority(-1))

		assert.Equal(t, []Handle{c, a, b}, r.Order())
	})

	t.Run("new head and new tail", func(t *testing.T) {
		r := newTestRuntime()
		n := r.NewNode()

		mid := r.NewAction(n, noop, withPriority(5))
		head := r.NewAction(n, noop, withPriority(1))
		tail := r.NewAction(n, noop, withPriority(9))

		assert.Equal(t, []Handle{head, mid, tail}, r.Order())
		assert.Equal(t, head.index, r.schedule.head)
		assert.Equal(t, tail.index, r.schedule.tail)
	})

	t.Run("default and late priorities", func(t *testing.T) {
		r := newTestRuntime()
		n := r.NewNode()

		late := r.NewAction(n, noop, ActionOptions{Late: true})
		def := r.NewAction(n, noop, ActionOptions{})

		assert.Equal(t, []Handle{def, late}, r.Order())
		assert.Equal(t, []int{DefaultActionPriority, DefaultLatePriority}, priorities(r))
	})
}

func TestScheduleRemove(t *testing.T) {
	setup := func() (*Runtime, []Handle) {
		r := newTestRuntime()
		n := r.NewNode()

		hs := []Handle{}
		for p := range 4 {
			hs = append(hs, r.NewAction(n, noop, withPriority(p)))
		}
		return r, hs
	}

	t.Run("head", func(t *testing.T) {
		r, hs := setup()

		r.remove(hs[0].index)

		assert.Equal(t, hs[1:], r.Order())
		assert.Equal(t, hs[1].index, r.schedule.head)
		require.NoError(t, r.Verify())
	})

	t.Run("tail", func(t *testing.T) {
		r, hs := setup()

		r.remove(hs[3].index)

		assert.Equal(t, hs[:3], r.Order())
		assert.Equal(t, hs[2].index, r.schedule.tail)
		require.NoError(t, r.Verify())
	})

	t.Run("middle", func(t *testing.T) {
		r, hs := setup()

		r.remove(hs[1].index)

		assert.Equal(t, []Handle{hs[0], hs[2], hs[3]}, r.Order())
		require.NoError(t, r.Verify())
	})

	t.Run("clears links", func(t *testing.T) {
		r, hs := setup()

		r.remove(hs[2].index)

		a := r.arena.at(hs[2].index)
		assert.Equal(t, nilIndex, a.prev)
		assert.Equal(t, nilIndex, a.next)
		assert.Equal(t, StateIdle, a.state)
		assert.False(t, r.schedule.linked(hs[2].index))
	})

	t.Run("removing an idle action panics", func(t *testing.T) {
		r, hs := setup()
		r.remove(hs[0].index)

		assert.PanicsWithValue(t, "act: invariant violation: removing action 0 in state idle", func() {
			r.schedule.Remove(hs[0].index)
		})
	})
}

func TestScheduleMembership(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		r := newTestRuntime()

		assert.Equal(t, 0, r.Len())
		assert.Empty(t, r.Order())
		require.NoError(t, r.Verify())
	})

	t.Run("sole action is scheduled without links", func(t *testing.T) {
		r := newTestRuntime()
		h := r.NewAction(r.NewNode(), noop, ActionOptions{})

		a := r.arena.at(h.index)
		assert.Equal(t, nilIndex, a.prev)
		assert.Equal(t, nilIndex, a.next)
		assert.True(t, r.schedule.linked(h.index))
		assert.True(t, r.IsScheduled(h))

		r.remove(h.index)
		assert.False(t, r.schedule.linked(h.index))
		assert.False(t, r.IsScheduled(h))
		assert.Equal(t, nilIndex, r.schedule.head)
		assert.Equal(t, nilIndex, r.schedule.tail)
	})

	t.Run("state matches reachability", func(t *testing.T) {
		r := newTestRuntime()
		n := r.NewNode()

		hs := []Handle{}
		for p := range 3 {
			hs = append(hs, r.NewAction(n, noop, withPriority(p)))
		}
		r.remove(hs[1].index)

		reachable := map[Handle]bool{}
		for _, h := range r.Order() {
			reachable[h] = true
		}

		for _, h := range hs {
			assert.Equal(t, reachable[h], r.IsScheduled(h))
			assert.Equal(t, reachable[h], r.schedule.linked(h.index))
		}
	})

	t.Run("stale handles are never scheduled", func(t *testing.T) {
		r := newTestRuntime()
		n := r.NewNode()

		old := r.NewAction(n, noop, ActionOptions{})
		r.Cancel(old)
		reused := r.NewAction(n, noop, ActionOptions{})

		assert.Equal(t, old.index, reused.index)
		assert.False(t, r.IsScheduled(old))
		assert.True(t, r.IsScheduled(reused))
	})
}
