package standalone

import (
	"github.com/hajimehoshi/ebiten/v2"
	vmcore "github.com/user-none/ravenui/api"
)

// KeyChord is a physical key together with the shift state it was seen with.
type KeyChord struct {
	Key   ebiten.Key
	Shift bool
}

// KeyTable maps key chords to logical keys. Chords absent from the table
// have no meaning to the machine and are dropped.
type KeyTable map[KeyChord]vmcore.Key

// Decode looks up the logical key for a physical key and shift state.
func (t KeyTable) Decode(key ebiten.Key, shift bool) (vmcore.Key, bool) {
	k, ok := t[KeyChord{Key: key, Shift: shift}]
	return k, ok
}

// keyOut is one side (unshifted or shifted) of a keyRow.
type keyOut struct {
	key vmcore.Key
	ok  bool
}

func ch(c byte) keyOut              { return keyOut{key: vmcore.CharKey(c), ok: true} }
func named(k vmcore.KeyKind) keyOut { return keyOut{key: vmcore.Key{Kind: k}, ok: true} }

var unmapped = keyOut{}

// keyRow describes a physical key for both shift states. The name is the
// identifier used in keymap override files.
type keyRow struct {
	name    string
	key     ebiten.Key
	plain   keyOut
	shifted keyOut
}

// keyRows is the default US layout. Shifted symbols that are on the raw
// text allow-list are deliberately unmapped here; they arrive through
// the text path instead.
var keyRows = []keyRow{
	{"ArrowUp", ebiten.KeyArrowUp, named(vmcore.KeyUp), named(vmcore.KeyUp)},
	{"ArrowDown", ebiten.KeyArrowDown, named(vmcore.KeyDown), named(vmcore.KeyDown)},
	{"ArrowLeft", ebiten.KeyArrowLeft, named(vmcore.KeyLeft), named(vmcore.KeyLeft)},
	{"ArrowRight", ebiten.KeyArrowRight, named(vmcore.KeyRight), named(vmcore.KeyRight)},
	{"Home", ebiten.KeyHome, named(vmcore.KeyHome), named(vmcore.KeyHome)},

	{"0", ebiten.KeyDigit0, ch('0'), unmapped},
	{"1", ebiten.KeyDigit1, ch('1'), unmapped},
	{"2", ebiten.KeyDigit2, ch('2'), unmapped},
	{"3", ebiten.KeyDigit3, ch('3'), unmapped},
	{"4", ebiten.KeyDigit4, ch('4'), unmapped},
	{"5", ebiten.KeyDigit5, ch('5'), unmapped},
	{"6", ebiten.KeyDigit6, ch('6'), unmapped},
	{"7", ebiten.KeyDigit7, ch('7'), unmapped},
	{"8", ebiten.KeyDigit8, ch('8'), unmapped},
	{"9", ebiten.KeyDigit9, ch('9'), unmapped},

	{"A", ebiten.KeyA, ch('a'), ch('A')},
	{"B", ebiten.KeyB, ch('b'), ch('B')},
	{"C", ebiten.KeyC, ch('c'), ch('C')},
	{"D", ebiten.KeyD, ch('d'), ch('D')},
	{"E", ebiten.KeyE, ch('e'), ch('E')},
	{"F", ebiten.KeyF, ch('f'), ch('F')},
	{"G", ebiten.KeyG, ch('g'), ch('G')},
	{"H", ebiten.KeyH, ch('h'), ch('H')},
	{"I", ebiten.KeyI, ch('i'), ch('I')},
	{"J", ebiten.KeyJ, ch('j'), ch('J')},
	{"K", ebiten.KeyK, ch('k'), ch('K')},
	{"L", ebiten.KeyL, ch('l'), ch('L')},
	{"M", ebiten.KeyM, ch('m'), ch('M')},
	{"N", ebiten.KeyN, ch('n'), ch('N')},
	{"O", ebiten.KeyO, ch('o'), ch('O')},
	{"P", ebiten.KeyP, ch('p'), ch('P')},
	{"Q", ebiten.KeyQ, ch('q'), ch('Q')},
	{"R", ebiten.KeyR, ch('r'), ch('R')},
	{"S", ebiten.KeyS, ch('s'), ch('S')},
	{"T", ebiten.KeyT, ch('t'), ch('T')},
	{"U", ebiten.KeyU, ch('u'), ch('U')},
	{"V", ebiten.KeyV, ch('v'), ch('V')},
	{"W", ebiten.KeyW, ch('w'), ch('W')},
	{"X", ebiten.KeyX, ch('x'), ch('X')},
	{"Y", ebiten.KeyY, ch('y'), ch('Y')},
	{"Z", ebiten.KeyZ, ch('z'), ch('Z')},

	{"Backquote", ebiten.KeyBackquote, ch('`'), unmapped},
	{"Minus", ebiten.KeyMinus, ch('-'), unmapped},
	{"Equal", ebiten.KeyEqual, ch('='), ch('+')},
	{"BracketLeft", ebiten.KeyBracketLeft, ch('['), unmapped},
	{"BracketRight", ebiten.KeyBracketRight, ch(']'), unmapped},
	{"Backslash", ebiten.KeyBackslash, ch('\\'), ch('|')},
	{"Semicolon", ebiten.KeySemicolon, ch(';'), ch(':')},
	{"Quote", ebiten.KeyQuote, unmapped, unmapped},
	{"Comma", ebiten.KeyComma, ch(','), ch('<')},
	{"Period", ebiten.KeyPeriod, ch('.'), ch('>')},
	{"Slash", ebiten.KeySlash, ch('/'), ch('?')},

	{"Space", ebiten.KeySpace, ch(' '), ch(' ')},
	{"Tab", ebiten.KeyTab, ch('\t'), ch('\t')},
	{"Enter", ebiten.KeyEnter, ch('\r'), ch('\r')},
	{"Backspace", ebiten.KeyBackspace, ch(0x08), ch(0x08)},
	{"Escape", ebiten.KeyEscape, ch(0x1b), ch(0x1b)},
	{"Delete", ebiten.KeyDelete, ch(0x7f), ch(0x7f)},

	{"Numpad0", ebiten.KeyNumpad0, ch('0'), ch('0')},
	{"Numpad1", ebiten.KeyNumpad1, ch('1'), ch('1')},
	{"Numpad2", ebiten.KeyNumpad2, ch('2'), ch('2')},
	{"Numpad3", ebiten.KeyNumpad3, ch('3'), ch('3')},
	{"Numpad4", ebiten.KeyNumpad4, ch('4'), ch('4')},
	{"Numpad5", ebiten.KeyNumpad5, ch('5'), ch('5')},
	{"Numpad6", ebiten.KeyNumpad6, ch('6'), ch('6')},
	{"Numpad7", ebiten.KeyNumpad7, ch('7'), ch('7')},
	{"Numpad8", ebiten.KeyNumpad8, ch('8'), ch('8')},
	{"Numpad9", ebiten.KeyNumpad9, ch('9'), ch('9')},
	{"NumpadAdd", ebiten.KeyNumpadAdd, ch('+'), ch('+')},
	{"NumpadSubtract", ebiten.KeyNumpadSubtract, ch('-'), ch('-')},
	{"NumpadDivide", ebiten.KeyNumpadDivide, ch('/'), ch('/')},
	{"NumpadDecimal", ebiten.KeyNumpadDecimal, ch('.'), ch('.')},
	{"NumpadEnter", ebiten.KeyNumpadEnter, ch('\r'), ch('\r')},
}

// keyNameMap maps override names to ebiten keys, built from keyRows.
var keyNameMap map[string]ebiten.Key

func init() {
	keyNameMap = make(map[string]ebiten.Key, len(keyRows))
	for _, row := range keyRows {
		keyNameMap[row.name] = row.key
	}
}

// ParseKey converts a key name from a keymap file to an ebiten.Key.
func ParseKey(name string) (ebiten.Key, bool) {
	k, ok := keyNameMap[name]
	return k, ok
}

// DefaultKeyTable builds the default key table. Every row contributes an
// explicit entry for each shift state it maps.
func DefaultKeyTable() KeyTable {
	t := make(KeyTable, len(keyRows)*2)
	for _, row := range keyRows {
		if row.plain.ok {
			t[KeyChord{Key: row.key, Shift: false}] = row.plain.key
		}
		if row.shifted.ok {
			t[KeyChord{Key: row.key, Shift: true}] = row.shifted.key
		}
	}
	return t
}

var defaultKeys = DefaultKeyTable()

// DecodeKey maps a physical key and shift state through the default table.
func DecodeKey(key ebiten.Key, shift bool) (vmcore.Key, bool) {
	return defaultKeys.Decode(key, shift)
}

// rawTextChars are forwarded verbatim from the toolkit's text input. Key
// events do not carry them reliably across layouts, so the key table never
// produces them.
var rawTextChars = [...]byte{
	'"', '\'', '{', '}', '_', ')', '(', '*',
	'&', '^', '%', '$', '#', '@', '!', '~',
}

// IsRawTextChar reports whether c is delivered through the text path.
func IsRawTextChar(c byte) bool {
	for _, r := range rawTextChars {
		if r == c {
			return true
		}
	}
	return false
}

// AppendRawText appends the allow-listed characters found in s to dst.
func AppendRawText(dst []byte, s string) []byte {
	for i := 0; i < len(s); i++ {
		if IsRawTextChar(s[i]) {
			dst = append(dst, s[i])
		}
	}
	return dst
}
