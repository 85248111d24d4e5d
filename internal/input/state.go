package input

// KeyMap names the key identifiers that drive the target.
type KeyMap struct {
	Up   string `yaml:"up" mapstructure:"up"`
	Down string `yaml:"down" mapstructure:"down"`
}

func DefaultKeyMap() KeyMap {
	return KeyMap{Up: "w", Down: "s"}
}

// Held is a snapshot of the movement keys.
type Held struct {
	Up   bool
	Down bool
}

// State tracks which movement keys are currently held. Event handlers only
// flip flags here; all derived work happens in the frame tick.
type State struct {
	keys KeyMap
	held Held
}

func NewState(keys KeyMap) *State {
	if keys.Up == "" || keys.Down == "" {
		keys = DefaultKeyMap()
	}
	return &State{keys: keys}
}

func (s *State) Keys() KeyMap { return s.keys }

// HandleKeyEvent sets the flag for a tracked key on press and clears it on
// release. It reports whether id was a tracked key.
func (s *State) HandleKeyEvent(id string, pressed bool) bool {
	switch id {
	case s.keys.Up:
		s.held.Up = pressed
	case s.keys.Down:
		s.held.Down = pressed
	default:
		return false
	}
	return true
}

func (s *State) Snapshot() Held { return s.held }
