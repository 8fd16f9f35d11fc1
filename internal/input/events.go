package input

// Key names that carry meaning for the listener. Printable keys are named by
// the single character they produce; every other key has a longer name.
const (
	KeyBackspace = "backspace"
	KeySpace     = "space"
	KeyEnter     = "enter"
	KeyTab       = "tab"
	KeyEscape    = "esc"
	KeyShift     = "shift"
	KeyCtrl      = "ctrl"
	KeyAlt       = "alt"
	KeyUnknown   = "unknown"
)

// KeyEvent is a single key press delivered by a Source.
type KeyEvent struct {
	Name string `json:"name"`
}

// Char reports the character a printable key produces.
func (e KeyEvent) Char() (rune, bool) {
	if e.Name == KeySpace {
		return ' ', true
	}
	r := []rune(e.Name)
	if len(r) != 1 {
		return 0, false
	}
	return r[0], true
}

// RuneEvent names a key by the rune it typed.
func RuneEvent(r rune) KeyEvent {
	if r == ' ' {
		return KeyEvent{Name: KeySpace}
	}
	return KeyEvent{Name: string(r)}
}
