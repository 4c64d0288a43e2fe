package internal

// Resources holds the release callbacks tied to an action's lifetime.
// They run once, in registration order, when the action retires.
type Resources struct {
	releases []func()
}

func (res *Resources) OnRelease(fn func()) {
	res.releases = append(res.releases, fn)
}

// take moves the callbacks out so the slot can be reused before they run.
func (res *Resources) take() Resources {
	taken := *res
	res.releases = nil
	return taken
}

func (res Resources) Release() {
	for i := 0; i < len(res.releases); i++ {
		res.releases[i]()
	}
}
