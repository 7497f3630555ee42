package standalone

import (
	"errors"
	"testing"
)

func TestClipboardPaste(t *testing.T) {
	p := &ClipboardPaster{
		init: func() error { return nil },
		read: func() []byte { return []byte("ls\r\npwd\r\n") },
	}
	relay := NewConsoleRelay()

	n, err := p.Paste(relay)
	if err != nil {
		t.Fatal(err)
	}
	if n != 8 {
		t.Errorf("queued %d bytes, want 8", n)
	}
	var got []byte
	for {
		b, ok := relay.Poll()
		if !ok {
			break
		}
		got = append(got, b)
	}
	if string(got) != "ls\npwd\n" {
		t.Errorf("queued %q", got)
	}
}

func TestClipboardPasteEmpty(t *testing.T) {
	p := &ClipboardPaster{
		init: func() error { return nil },
		read: func() []byte { return nil },
	}
	relay := NewConsoleRelay()
	if n, err := p.Paste(relay); err != nil || n != 0 {
		t.Errorf("Paste = %d, %v", n, err)
	}
	if relay.Pending() != 0 {
		t.Error("nothing should be queued")
	}
}

func TestClipboardUnavailable(t *testing.T) {
	inits := 0
	p := &ClipboardPaster{
		init: func() error { inits++; return errors.New("no display") },
		read: func() []byte { t.Fatal("read after failed init"); return nil },
	}
	for i := 0; i < 2; i++ {
		if _, err := p.Paste(NewConsoleRelay()); !errors.Is(err, ErrClipboardUnavailable) {
			t.Errorf("expected ErrClipboardUnavailable, got %v", err)
		}
	}
	if inits != 1 {
		t.Errorf("init called %d times, want 1", inits)
	}
}
