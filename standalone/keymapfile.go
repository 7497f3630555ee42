package standalone

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	vmcore "github.com/user-none/ravenui/api"
)

// keymapFile is the on-disk layout of keymap.toml:
//
//	[[bind]]
//	key = "Numpad5"
//	shift = true
//	named = "home"
//
//	[[bind]]
//	key = "Backquote"
//	unbind = true
type keymapFile struct {
	Bind []keyBinding `toml:"bind"`
}

// keyBinding overrides one or both shift states of a key. Exactly one of
// Char, Named and Unbind must be set. A nil Shift applies to both states.
type keyBinding struct {
	Key    string `toml:"key"`
	Shift  *bool  `toml:"shift"`
	Char   string `toml:"char"`
	Named  string `toml:"named"`
	Unbind bool   `toml:"unbind"`
}

var namedKeys = map[string]vmcore.KeyKind{
	"up":    vmcore.KeyUp,
	"down":  vmcore.KeyDown,
	"left":  vmcore.KeyLeft,
	"right": vmcore.KeyRight,
	"home":  vmcore.KeyHome,
}

// LoadKeyTable returns the default table with the overrides from the TOML
// file at path applied. A missing file yields the default table.
func LoadKeyTable(path string) (KeyTable, error) {
	table := DefaultKeyTable()

	var file keymapFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return table, nil
		}
		return nil, fmt.Errorf("failed to parse keymap: %w", err)
	}

	for i, b := range file.Bind {
		if err := table.apply(b); err != nil {
			return nil, fmt.Errorf("keymap bind %d (%q): %w", i+1, b.Key, err)
		}
	}
	return table, nil
}

func (t KeyTable) apply(b keyBinding) error {
	key, ok := ParseKey(b.Key)
	if !ok {
		return fmt.Errorf("unknown key name")
	}

	set := 0
	if b.Char != "" {
		set++
	}
	if b.Named != "" {
		set++
	}
	if b.Unbind {
		set++
	}
	if set != 1 {
		return fmt.Errorf("exactly one of char, named or unbind is required")
	}

	var out vmcore.Key
	switch {
	case b.Char != "":
		if len(b.Char) != 1 {
			return fmt.Errorf("char must be a single byte, got %q", b.Char)
		}
		if IsRawTextChar(b.Char[0]) {
			return fmt.Errorf("char %q is delivered as text input and cannot be bound", b.Char)
		}
		out = vmcore.CharKey(b.Char[0])
	case b.Named != "":
		kind, ok := namedKeys[b.Named]
		if !ok {
			return fmt.Errorf("unknown named key %q", b.Named)
		}
		out = vmcore.Key{Kind: kind}
	}

	shifts := []bool{false, true}
	if b.Shift != nil {
		shifts = []bool{*b.Shift}
	}
	for _, shift := range shifts {
		chord := KeyChord{Key: key, Shift: shift}
		if b.Unbind {
			delete(t, chord)
			continue
		}
		t[chord] = out
	}
	return nil
}
