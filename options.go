package act

import "github.com/AnatoleLucet/act/internal"

// Option configures an action at creation.
type Option func(*internal.ActionOptions)

// WithTag names the action on its node. A node holds at most one live action per tag:
// creating a tagged action cancels the node's previous action with that tag.
func WithTag(tag string) Option {
	return func(o *internal.ActionOptions) { o.Tag = tag }
}

// WithPriority sets the action's priority. Higher priorities run later in a pass.
func WithPriority(priority int) Option {
	return func(o *internal.ActionOptions) {
		o.Priority = priority
		o.HasPriority = true
	}
}

// Late gives the action the configured late priority so it runs after default ones.
func Late() Option {
	return func(o *internal.ActionOptions) { o.Late = true }
}

// Paused creates the action paused.
func Paused() Option {
	return func(o *internal.ActionOptions) { o.Paused = true }
}

// WithRelease registers fn to run once when the action retires.
func WithRelease(fn func()) Option {
	return func(o *internal.ActionOptions) { o.Releases = append(o.Releases, fn) }
}
