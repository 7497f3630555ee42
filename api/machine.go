// Package vmcore defines the boundary between the host frontend and an
// externally supplied virtual machine with its peripheral devices.
package vmcore

// AudioStreamCount is the number of independent audio output streams a
// machine exposes.
const AudioStreamCount = 4

// Machine is the interface every virtual machine core must implement.
// It is not safe for concurrent use: the frontend calls it only from its
// tick thread.
type Machine interface {
	// Pressed and Released deliver key transitions.
	Pressed(k Key)
	Released(k Key)

	// Char delivers a single character that has no key identity
	// (quotes, braces and other shifted punctuation).
	Char(c byte)

	// Mouse delivers the pointer state once per tick.
	Mouse(m MouseState)

	// Console delivers one byte of host console input.
	Console(c byte)

	// Redraw runs the screen vector.
	Redraw()

	// Audio services the audio devices. Implementations reconfigure their
	// streams through Stream.Update.
	Audio()

	// Output returns the current output snapshot.
	Output() Output

	// ScreenSize returns the current screen size without building a full
	// Output.
	ScreenSize() (width, height uint16)

	// AudioStreams returns the sample producers bound to the audio bridge.
	AudioStreams() [AudioStreamCount]*Stream
}

// Factory creates machine instances and provides system metadata.
type Factory interface {
	// SystemInfo returns system metadata for frontend configuration.
	SystemInfo() SystemInfo

	// CreateMachine creates a new machine with the given ROM loaded.
	CreateMachine(rom []byte) (Machine, error)
}
