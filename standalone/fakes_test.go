package standalone

import (
	"fmt"

	vmcore "github.com/user-none/ravenui/api"
)

// fakeMachine records every call in order.
type fakeMachine struct {
	calls   []string
	chars   []byte
	console []byte
	mice    []vmcore.MouseState
	redraws int

	screenW, screenH uint16
	output           vmcore.Output
	streams          [vmcore.AudioStreamCount]*vmcore.Stream
}

func (m *fakeMachine) Pressed(k vmcore.Key) {
	m.calls = append(m.calls, fmt.Sprintf("Pressed(%s)", k))
}

func (m *fakeMachine) Released(k vmcore.Key) {
	m.calls = append(m.calls, fmt.Sprintf("Released(%s)", k))
}

func (m *fakeMachine) Char(c byte) {
	m.chars = append(m.chars, c)
	m.calls = append(m.calls, fmt.Sprintf("Char(%q)", c))
}

func (m *fakeMachine) Mouse(s vmcore.MouseState) {
	m.mice = append(m.mice, s)
	m.calls = append(m.calls, "Mouse")
}

func (m *fakeMachine) Console(b byte) {
	m.console = append(m.console, b)
	m.calls = append(m.calls, fmt.Sprintf("Console(%#02x)", b))
}

func (m *fakeMachine) Redraw() {
	m.redraws++
	m.calls = append(m.calls, "Redraw")
}

func (m *fakeMachine) Audio() {
	m.calls = append(m.calls, "Audio")
}

func (m *fakeMachine) Output() vmcore.Output {
	m.calls = append(m.calls, "Output")
	return m.output
}

func (m *fakeMachine) ScreenSize() (uint16, uint16) {
	m.calls = append(m.calls, "ScreenSize")
	return m.screenW, m.screenH
}

func (m *fakeMachine) AudioStreams() [vmcore.AudioStreamCount]*vmcore.Stream {
	return m.streams
}

func (m *fakeMachine) reset() {
	m.calls = nil
	m.chars = nil
	m.console = nil
	m.mice = nil
	m.redraws = 0
}

// countCalls returns how many recorded calls equal name.
func (m *fakeMachine) countCalls(name string) int {
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}
