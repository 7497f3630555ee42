package vmcore

import "fmt"

// KeyKind identifies the variant held by a Key.
type KeyKind uint8

const (
	KeyChar KeyKind = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyCtrl
	KeyAlt
	KeyShift
)

// Key is a logical key delivered to the controller device. Char is only
// meaningful when Kind is KeyChar.
type Key struct {
	Kind KeyKind
	Char byte
}

// CharKey returns the Key for a printable or control character.
func CharKey(c byte) Key {
	return Key{Kind: KeyChar, Char: c}
}

// String returns a short name for the key, used in logs and test output.
func (k Key) String() string {
	switch k.Kind {
	case KeyChar:
		if k.Char >= 0x20 && k.Char < 0x7f {
			return fmt.Sprintf("Char(%q)", rune(k.Char))
		}
		return fmt.Sprintf("Char(0x%02x)", k.Char)
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyHome:
		return "Home"
	case KeyCtrl:
		return "Ctrl"
	case KeyAlt:
		return "Alt"
	case KeyShift:
		return "Shift"
	default:
		return "Unknown"
	}
}
