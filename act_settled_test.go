package act

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnSettled(t *testing.T) {
	t.Run("runs when the pass finishes", func(t *testing.T) {
		log := []string{}
		n := NewNode()

		n.Action(func(*Node) bool {
			log = append(log, "action")
			OnSettled(func() { log = append(log, "settled from action") })
			return false
		})
		OnSettled(func() { log = append(log, "settled") })

		require.NoError(t, Execute())

		assert.Equal(t, []string{"action", "settled", "settled from action"}, log)
	})

	t.Run("runs once", func(t *testing.T) {
		runs := 0
		OnSettled(func() { runs++ })

		require.NoError(t, Execute())
		require.NoError(t, Execute())

		assert.Equal(t, 1, runs)
	})

	t.Run("callbacks registered while settling wait for the next pass", func(t *testing.T) {
		log := []string{}

		OnSettled(func() {
			log = append(log, "first")
			OnSettled(func() { log = append(log, "second") })
		})

		require.NoError(t, Execute())
		assert.Equal(t, []string{"first"}, log)

		require.NoError(t, Execute())
		assert.Equal(t, []string{"first", "second"}, log)
	})

	t.Run("can run another pass", func(t *testing.T) {
		runs := 0
		NewNode().Action(func(*Node) bool { runs++; return true })

		OnSettled(func() { Execute() })
		require.NoError(t, Execute())

		assert.Equal(t, 2, runs)
	})
}
