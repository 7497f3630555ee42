package standalone

import (
	"errors"
	"fmt"

	vmcore "github.com/user-none/ravenui/api"
)

// ErrNoAudioDevice is returned when the backend has no output device.
var ErrNoAudioDevice = errors.New("no audio output device available")

// ErrNoAudioFormat is returned when no offered format matches both the
// sample rate and channel count the machine requires.
var ErrNoAudioFormat = errors.New("no supported audio output format")

// AudioFormat is a sample rate and channel count pair.
type AudioFormat struct {
	SampleRate int
	Channels   int
}

func (f AudioFormat) String() string {
	return fmt.Sprintf("%d Hz x %d ch", f.SampleRate, f.Channels)
}

// AudioBackend is the host audio system.
type AudioBackend interface {
	DefaultOutputDevice() (AudioDevice, error)
}

// AudioDevice is one output device.
type AudioDevice interface {
	Name() string
	SupportedFormats() ([]AudioFormat, error)

	// OpenStream builds a stream that calls fill from the backend's audio
	// thread whenever it needs samples. onError is called from any thread
	// when the stream breaks.
	OpenStream(format AudioFormat, fill func(out []float32), onError func(error)) (AudioStream, error)
}

// AudioStream is a running output stream.
type AudioStream interface {
	Play()
	SetVolume(volume float64)
	Close() error
}

// SelectFormat returns the offered format that matches want exactly.
func SelectFormat(offered []AudioFormat, want AudioFormat) (AudioFormat, error) {
	for _, f := range offered {
		if f == want {
			return f, nil
		}
	}
	return AudioFormat{}, fmt.Errorf("%w: need %s, device offers %v", ErrNoAudioFormat, want, offered)
}

// AudioBridge binds each machine stream to its own backend stream. Streams
// play from construction until Close.
type AudioBridge struct {
	device  AudioDevice
	format  AudioFormat
	streams []AudioStream
}

// NewAudioBridge selects the output device and format and starts one
// stream per source. fatal receives errors raised on the audio thread;
// it is expected not to return.
func NewAudioBridge(backend AudioBackend, want AudioFormat, sources [vmcore.AudioStreamCount]*vmcore.Stream, fatal func(error)) (*AudioBridge, error) {
	device, err := backend.DefaultOutputDevice()
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	if device == nil {
		return nil, ErrNoAudioDevice
	}

	offered, err := device.SupportedFormats()
	if err != nil {
		return nil, fmt.Errorf("failed to query audio formats: %w", err)
	}
	format, err := SelectFormat(offered, want)
	if err != nil {
		return nil, err
	}

	b := &AudioBridge{device: device, format: format}
	for i, src := range sources {
		if src == nil {
			src = vmcore.NewStream(nil)
		}
		onError := func(err error) {
			fatal(fmt.Errorf("audio stream %d: %w", i, err))
		}
		stream, err := device.OpenStream(format, guardedFill(src, onError), onError)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to build audio stream %d: %w", i, err)
		}
		stream.Play()
		b.streams = append(b.streams, stream)
	}
	return b, nil
}

// guardedFill is the audio callback: lock, fill, unlock. A panic in the
// producer is reported as a stream error and the buffer is silenced.
func guardedFill(src *vmcore.Stream, onError func(error)) func([]float32) {
	return func(out []float32) {
		defer func() {
			if r := recover(); r != nil {
				clear(out)
				onError(fmt.Errorf("sample producer panicked: %v", r))
			}
		}()
		src.Fill(out)
	}
}

// Format returns the negotiated output format.
func (b *AudioBridge) Format() AudioFormat {
	return b.format
}

// DeviceName returns the name of the output device.
func (b *AudioBridge) DeviceName() string {
	return b.device.Name()
}

// SetVolume applies volume to every stream. Values are clamped to [0, 2].
func (b *AudioBridge) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	} else if volume > 2.0 {
		volume = 2.0
	}
	for _, s := range b.streams {
		s.SetVolume(volume)
	}
}

// Close stops all streams.
func (b *AudioBridge) Close() {
	for _, s := range b.streams {
		s.Close()
	}
	b.streams = nil
}
