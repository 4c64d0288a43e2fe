package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrPassRunning is returned when a pass or a reset is requested while a pass is in progress.
	ErrPassRunning = errors.New("act: a pass is already running")

	// ErrRetired is returned by operations on an action that was cancelled or finished.
	ErrRetired = errors.New("act: action is retired")
)

// invariant panics when a structural invariant of the schedule is broken.
// These are bugs in the scheduler, never recoverable runtime conditions.
func invariant(ok bool, format string, args ...any) {
	if !ok {
		panic(fmt.Sprintf("act: invariant violation: "+format, args...))
	}
}
