package gesture

// ActorTracker remembers which actor currently holds the pipeline and
// announces each newly engaged actor.
type ActorTracker struct {
	current    optional[int]
	onAcquired func(actorID int)
}

// NewActorTracker creates a tracker. onAcquired may be nil.
func NewActorTracker(onAcquired func(actorID int)) *ActorTracker {
	return &ActorTracker{onAcquired: onAcquired}
}

// Observe records id as the current actor. It returns true, after invoking the
// acquisition callback, when id differs from the current actor or none is set.
func (t *ActorTracker) Observe(id int) bool {
	if cur, ok := t.current.get(); ok && cur == id {
		return false
	}
	t.current = some(id)
	if t.onAcquired != nil {
		t.onAcquired(id)
	}
	return true
}

// Reset forgets the current actor so the next Observe always acquires.
func (t *ActorTracker) Reset() {
	t.current = optional[int]{}
}

// Current returns the current actor, if any.
func (t *ActorTracker) Current() (int, bool) {
	return t.current.get()
}
