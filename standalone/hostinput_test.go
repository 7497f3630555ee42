package standalone

import (
	"reflect"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestAppendKeyEventsReleasesFirst(t *testing.T) {
	events := []HostEvent{{Kind: EventText, Text: "!"}}
	events = appendKeyEvents(events, []ebiten.Key{ebiten.KeyA}, []ebiten.Key{ebiten.KeyB, ebiten.KeyC})

	want := []HostEvent{
		{Kind: EventText, Text: "!"},
		{Kind: EventKey, Key: ebiten.KeyA, Pressed: false},
		{Kind: EventKey, Key: ebiten.KeyB, Pressed: true},
		{Kind: EventKey, Key: ebiten.KeyC, Pressed: true},
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %+v\nwant     %+v", events, want)
	}
}

func TestAppendKeyEventsDeliveredInOrder(t *testing.T) {
	a := newTestAggregator()
	m := &fakeMachine{}

	in := &HostInput{Events: appendKeyEvents(nil, []ebiten.Key{ebiten.KeyA}, []ebiten.Key{ebiten.KeyB})}
	a.Tick(m, in)

	want := []string{"Redraw", "Released(Char('a'))", "Pressed(Char('b'))"}
	if !reflect.DeepEqual(m.calls[:3], want) {
		t.Errorf("calls = %v, want prefix %v", m.calls, want)
	}
}

func TestAppendKeyEventsEmpty(t *testing.T) {
	if got := appendKeyEvents(nil, nil, nil); len(got) != 0 {
		t.Errorf("got %v, want no events", got)
	}
}
