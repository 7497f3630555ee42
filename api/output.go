package vmcore

import (
	"fmt"
	"io"
)

// Mouse button bit positions in MouseState.Buttons.
const (
	ButtonPrimary   = 0
	ButtonMiddle    = 1
	ButtonSecondary = 2
)

// MouseState is the pointer snapshot delivered once per tick.
// Scroll holds the delta accumulated since the previous tick, in the
// device's convention (positive Y scrolls down).
type MouseState struct {
	X, Y             float32
	ScrollX, ScrollY float32
	Buttons          uint8
}

// Output is a read-only snapshot of the machine's video output and pending
// host effects. Frame holds Width*Height pixels, 4 bytes each, in
// blue-green-red-alpha order.
type Output struct {
	Width     uint16
	Height    uint16
	Frame     []byte
	HideMouse bool
	Effects   HostEffects
}

// HostEffects carries console output and exit requests raised by the
// machine since the previous snapshot.
type HostEffects struct {
	Stdout   []byte
	Stderr   []byte
	Exit     bool
	ExitCode int
}

// ExitError is returned by HostEffects.Check when the machine asked the
// host to exit.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("machine requested exit with code %d", e.Code)
}

// Check writes pending console output to the host streams and reports an
// exit request. A failed write is returned wrapped; the frontend treats it
// as fatal.
func (h HostEffects) Check(stdout, stderr io.Writer) error {
	if len(h.Stdout) > 0 {
		if _, err := stdout.Write(h.Stdout); err != nil {
			return fmt.Errorf("failed to write stdout: %w", err)
		}
	}
	if len(h.Stderr) > 0 {
		if _, err := stderr.Write(h.Stderr); err != nil {
			return fmt.Errorf("failed to write stderr: %w", err)
		}
	}
	if h.Exit {
		return &ExitError{Code: h.ExitCode}
	}
	return nil
}
