package standalone

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// hostPoller samples ebiten's input state into a HostInput. Buffers are
// kept across ticks to avoid per-frame allocations.
type hostPoller struct {
	start    time.Time
	chars    []rune
	pressed  []ebiten.Key
	released []ebiten.Key
}

func newHostPoller() *hostPoller {
	return &hostPoller{start: time.Now()}
}

var pointerButtons = [3]ebiten.MouseButton{
	ebiten.MouseButtonLeft,
	ebiten.MouseButtonMiddle,
	ebiten.MouseButtonRight,
}

// poll fills in with the current toolkit state. toDevice maps window
// coordinates to device pixels and reports whether the point is inside
// the presented frame.
func (p *hostPoller) poll(in *HostInput, toDevice func(x, y int) (float32, float32, bool)) {
	in.Reset()
	in.Time = time.Since(p.start)

	p.chars = ebiten.AppendInputChars(p.chars[:0])
	if len(p.chars) > 0 {
		in.Events = append(in.Events, HostEvent{Kind: EventText, Text: string(p.chars)})
	}

	p.released = inpututil.AppendJustReleasedKeys(p.released[:0])
	p.pressed = inpututil.AppendJustPressedKeys(p.pressed[:0])
	in.Events = appendKeyEvents(in.Events, p.released, p.pressed)

	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		in.Events = append(in.Events, HostEvent{Kind: EventScroll, DX: dx, DY: dy})
	}

	in.Ctrl = ebiten.IsKeyPressed(ebiten.KeyControl)
	in.Alt = ebiten.IsKeyPressed(ebiten.KeyAlt)
	in.Shift = ebiten.IsKeyPressed(ebiten.KeyShift)

	in.PointerX, in.PointerY, in.HasPointer = toDevice(ebiten.CursorPosition())

	for i, b := range pointerButtons {
		in.Buttons[i] = ebiten.IsMouseButtonPressed(b)
	}
}

// appendKeyEvents appends key transitions seen since the previous tick.
// ebiten reports them as sets rather than a timeline, so releases go
// first: a key let go this tick was held before any key pressed this tick.
func appendKeyEvents(events []HostEvent, released, pressed []ebiten.Key) []HostEvent {
	for _, k := range released {
		events = append(events, HostEvent{Kind: EventKey, Key: k, Pressed: false})
	}
	for _, k := range pressed {
		events = append(events, HostEvent{Kind: EventKey, Key: k, Pressed: true})
	}
	return events
}
