package standalone

import (
	"bufio"
	"errors"
	"io"
	"log"
	"runtime"
	"sync"
)

// Console supplies host console bytes to the tick loop.
type Console interface {
	// Poll returns the next pending byte without blocking.
	Poll() (byte, bool)
}

// ConsoleRelay reads host input on a background goroutine and queues the
// bytes for the tick loop. The queue is unbounded so a slow consumer never
// stalls the reader, and the reader never stalls the consumer.
type ConsoleRelay struct {
	mu    sync.Mutex
	queue []byte
}

// NewConsoleRelay creates an empty relay. Call Start to attach a reader.
func NewConsoleRelay() *ConsoleRelay {
	return &ConsoleRelay{}
}

// Start reads r one byte at a time until EOF or error.
func (c *ConsoleRelay) Start(r io.Reader) {
	go func() {
		br := bufio.NewReader(r)
		for {
			b, err := br.ReadByte()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					log.Printf("Warning: console input stopped: %v", err)
				}
				return
			}
			c.Push(b)
		}
	}()
}

// Push enqueues bytes in order.
func (c *ConsoleRelay) Push(b ...byte) {
	c.mu.Lock()
	c.queue = append(c.queue, b...)
	c.mu.Unlock()
}

// Poll implements Console.
func (c *ConsoleRelay) Poll() (byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return 0, false
	}
	b := c.queue[0]
	c.queue = c.queue[1:]
	if len(c.queue) == 0 {
		c.queue = nil
	}
	return b, true
}

// Pending returns the number of queued bytes.
func (c *ConsoleRelay) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// noConsole is used where host console input does not exist.
type noConsole struct{}

func (noConsole) Poll() (byte, bool) { return 0, false }

// consoleSupported reports whether the platform can read host stdin.
func consoleSupported(goos string) bool {
	switch goos {
	case "js", "wasip1":
		return false
	}
	return true
}

// OpenConsole resolves console input once at startup. When the platform
// has no console or it is disabled, the returned Console is always empty.
func OpenConsole(enabled bool, r io.Reader) Console {
	if !enabled || !consoleSupported(runtime.GOOS) {
		return noConsole{}
	}
	relay := NewConsoleRelay()
	relay.Start(r)
	return relay
}
