package input

import "time"

// Latch turns a press-only key stream (terminals do not report releases)
// into press/release pairs. Auto-repeat keeps refreshing a held key; once a
// key has gone quiet for longer than the hold window it is released.
type Latch struct {
	state    *State
	window   time.Duration
	lastSeen map[string]time.Time
}

func NewLatch(state *State, window time.Duration) *Latch {
	return &Latch{
		state:    state,
		window:   window,
		lastSeen: make(map[string]time.Time, 2),
	}
}

// Press records a press of id at now. Untracked keys are ignored.
func (l *Latch) Press(id string, now time.Time) {
	if !l.state.HandleKeyEvent(id, true) {
		return
	}
	l.lastSeen[id] = now
}

// Expire releases every key not pressed again within the hold window.
func (l *Latch) Expire(now time.Time) {
	for id, seen := range l.lastSeen {
		if now.Sub(seen) > l.window {
			l.state.HandleKeyEvent(id, false)
			delete(l.lastSeen, id)
		}
	}
}

func (l *Latch) ReleaseAll() {
	for id := range l.lastSeen {
		l.state.HandleKeyEvent(id, false)
		delete(l.lastSeen, id)
	}
}

func (l *Latch) Holding() int { return len(l.lastSeen) }
