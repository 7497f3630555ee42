package standalone

import (
	"bytes"
	"errors"
	"fmt"

	"golang.design/x/clipboard"
)

// ErrClipboardUnavailable is returned when the host clipboard could not be
// initialised.
var ErrClipboardUnavailable = errors.New("clipboard not available")

// ClipboardPaster feeds clipboard text into the console queue, so a host
// can type into programs that read the console device.
type ClipboardPaster struct {
	inited bool
	err    error
	init   func() error
	read   func() []byte
}

// NewClipboardPaster creates a paster backed by the system clipboard
func NewClipboardPaster() *ClipboardPaster {
	return &ClipboardPaster{
		init: clipboard.Init,
		read: func() []byte { return clipboard.Read(clipboard.FmtText) },
	}
}

// Paste pushes the clipboard text to relay and returns the number of bytes
// queued. Carriage returns are dropped so CRLF text arrives as lines.
func (p *ClipboardPaster) Paste(relay *ConsoleRelay) (int, error) {
	if !p.inited {
		p.inited = true
		if err := p.init(); err != nil {
			p.err = fmt.Errorf("%w: %w", ErrClipboardUnavailable, err)
		}
	}
	if p.err != nil {
		return 0, p.err
	}

	data := bytes.ReplaceAll(p.read(), []byte{'\r'}, nil)
	if len(data) == 0 {
		return 0, nil
	}
	relay.Push(data...)
	return len(data), nil
}
