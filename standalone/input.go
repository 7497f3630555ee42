package standalone

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	vmcore "github.com/user-none/ravenui/api"
)

// HostEventKind identifies the payload of a HostEvent.
type HostEventKind int

const (
	EventText HostEventKind = iota
	EventKey
	EventScroll
)

// HostEvent is one toolkit input event collected since the previous tick.
type HostEvent struct {
	Kind    HostEventKind
	Text    string     // EventText
	Key     ebiten.Key // EventKey
	Pressed bool       // EventKey
	DX, DY  float64    // EventScroll, in toolkit convention (positive Y is up)
}

// HostInput is the toolkit state sampled at the start of a tick.
type HostInput struct {
	Time   time.Duration
	Events []HostEvent

	Ctrl, Alt, Shift bool

	// PointerX/Y are in device pixels; HasPointer is false when the
	// pointer is outside the presented frame.
	PointerX, PointerY float32
	HasPointer         bool

	// Buttons holds live button state: primary, middle, secondary.
	Buttons [3]bool
}

// Reset clears the snapshot for reuse, keeping the event slice capacity.
func (in *HostInput) Reset() {
	events := in.Events[:0]
	*in = HostInput{Events: events}
}

// InputAggregator folds one tick of host input into the machine's input
// protocol. Pointer position is sticky across ticks; scroll is
// accumulated and flushed with every mouse update.
type InputAggregator struct {
	keys  KeyTable
	pacer *FramePacer

	scrollX, scrollY float32
	cursorX, cursorY float32

	rawBuf []byte
}

// NewInputAggregator creates an aggregator that decodes keys through keys
// and gates redraws with pacer.
func NewInputAggregator(keys KeyTable, pacer *FramePacer) *InputAggregator {
	return &InputAggregator{
		keys:   keys,
		pacer:  pacer,
		rawBuf: make([]byte, 0, 16),
	}
}

var modifierKeys = [3]vmcore.Key{
	{Kind: vmcore.KeyCtrl},
	{Kind: vmcore.KeyAlt},
	{Kind: vmcore.KeyShift},
}

// Tick delivers in to m. Order: redraw (if due), events in arrival order,
// leveled modifiers, then exactly one mouse update.
func (a *InputAggregator) Tick(m vmcore.Machine, in *HostInput) {
	if a.pacer.Due(in.Time) {
		m.Redraw()
	}

	for i := range in.Events {
		e := &in.Events[i]
		switch e.Kind {
		case EventText:
			a.rawBuf = AppendRawText(a.rawBuf[:0], e.Text)
			for _, c := range a.rawBuf {
				m.Char(c)
			}
		case EventKey:
			k, ok := a.keys.Decode(e.Key, in.Shift)
			if !ok {
				continue
			}
			if e.Pressed {
				m.Pressed(k)
			} else {
				m.Released(k)
			}
		case EventScroll:
			a.scrollX += float32(e.DX)
			a.scrollY -= float32(e.DY)
		}
	}

	// Leveled every tick; the machine must treat repeats as no-ops.
	for i, held := range [3]bool{in.Ctrl, in.Alt, in.Shift} {
		if held {
			m.Pressed(modifierKeys[i])
		} else {
			m.Released(modifierKeys[i])
		}
	}

	m.Mouse(a.mouseState(in))
}

// mouseState builds the tick's MouseState and drains the scroll delta.
func (a *InputAggregator) mouseState(in *HostInput) vmcore.MouseState {
	if in.HasPointer {
		a.cursorX, a.cursorY = in.PointerX, in.PointerY
	}

	var buttons uint8
	for i, down := range in.Buttons {
		if down {
			buttons |= 1 << uint(i)
		}
	}

	ms := vmcore.MouseState{
		X:       a.cursorX,
		Y:       a.cursorY,
		ScrollX: a.scrollX,
		ScrollY: a.scrollY,
		Buttons: buttons,
	}
	a.scrollX, a.scrollY = 0, 0
	return ms
}
