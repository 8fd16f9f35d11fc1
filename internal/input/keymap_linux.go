package input

import (
	"strings"

	evdev "github.com/holoplot/go-evdev"
)

type keyChar struct {
	normal  string
	shifted string
}

// US layout
var keyChars = map[evdev.EvCode]keyChar{
	evdev.KEY_A: {"a", "A"}, evdev.KEY_B: {"b", "B"},
	evdev.KEY_C: {"c", "C"}, evdev.KEY_D: {"d", "D"},
	evdev.KEY_E: {"e", "E"}, evdev.KEY_F: {"f", "F"},
	evdev.KEY_G: {"g", "G"}, evdev.KEY_H: {"h", "H"},
	evdev.KEY_I: {"i", "I"}, evdev.KEY_J: {"j", "J"},
	evdev.KEY_K: {"k", "K"}, evdev.KEY_L: {"l", "L"},
	evdev.KEY_M: {"m", "M"}, evdev.KEY_N: {"n", "N"},
	evdev.KEY_O: {"o", "O"}, evdev.KEY_P: {"p", "P"},
	evdev.KEY_Q: {"q", "Q"}, evdev.KEY_R: {"r", "R"},
	evdev.KEY_S: {"s", "S"}, evdev.KEY_T: {"t", "T"},
	evdev.KEY_U: {"u", "U"}, evdev.KEY_V: {"v", "V"},
	evdev.KEY_W: {"w", "W"}, evdev.KEY_X: {"x", "X"},
	evdev.KEY_Y: {"y", "Y"}, evdev.KEY_Z: {"z", "Z"},

	evdev.KEY_1: {"1", "!"}, evdev.KEY_2: {"2", "@"},
	evdev.KEY_3: {"3", "#"}, evdev.KEY_4: {"4", "$"},
	evdev.KEY_5: {"5", "%"}, evdev.KEY_6: {"6", "^"},
	evdev.KEY_7: {"7", "&"}, evdev.KEY_8: {"8", "*"},
	evdev.KEY_9: {"9", "("}, evdev.KEY_0: {"0", ")"},

	evdev.KEY_MINUS:      {"-", "_"},
	evdev.KEY_EQUAL:      {"=", "+"},
	evdev.KEY_LEFTBRACE:  {"[", "{"},
	evdev.KEY_RIGHTBRACE: {"]", "}"},
	evdev.KEY_SEMICOLON:  {";", ":"},
	evdev.KEY_APOSTROPHE: {"'", "\""},
	evdev.KEY_GRAVE:      {"`", "~"},
	evdev.KEY_BACKSLASH:  {"\\", "|"},
	evdev.KEY_COMMA:      {",", "<"},
	evdev.KEY_DOT:        {".", ">"},
	evdev.KEY_SLASH:      {"/", "?"},
}

var keyNames = map[evdev.EvCode]string{
	evdev.KEY_BACKSPACE:  KeyBackspace,
	evdev.KEY_SPACE:      KeySpace,
	evdev.KEY_ENTER:      KeyEnter,
	evdev.KEY_TAB:        KeyTab,
	evdev.KEY_ESC:        KeyEscape,
	evdev.KEY_LEFTSHIFT:  KeyShift,
	evdev.KEY_RIGHTSHIFT: KeyShift,
	evdev.KEY_LEFTCTRL:   KeyCtrl,
	evdev.KEY_RIGHTCTRL:  KeyCtrl,
	evdev.KEY_LEFTALT:    KeyAlt,
	evdev.KEY_RIGHTALT:   KeyAlt,
	evdev.KEY_CAPSLOCK:   "caps lock",
}

// keyState tracks modifiers of one device.
type keyState struct {
	shift    int
	capsLock bool
}

// apply updates modifier state and names the key on press and repeat.
func (s *keyState) apply(code evdev.EvCode, value int32) (string, bool) {
	switch code {
	case evdev.KEY_LEFTSHIFT, evdev.KEY_RIGHTSHIFT:
		switch value {
		case keyPress:
			s.shift++
		case keyRelease:
			s.shift = max(s.shift-1, 0)
		}
	case evdev.KEY_CAPSLOCK:
		if value == keyPress {
			s.capsLock = !s.capsLock
		}
	}
	if value != keyPress && value != keyRepeat {
		return ``, false
	}
	if kc, ok := keyChars[code]; ok {
		shifted := s.shift > 0
		if s.capsLock && strings.ToLower(kc.normal) != strings.ToUpper(kc.normal) {
			shifted = !shifted
		}
		if shifted {
			return kc.shifted, true
		}
		return kc.normal, true
	}
	if name, ok := keyNames[code]; ok {
		return name, true
	}
	return KeyUnknown, true
}
