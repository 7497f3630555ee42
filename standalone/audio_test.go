package standalone

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	vmcore "github.com/user-none/ravenui/api"
)

type fakeAudioStream struct {
	fill    func([]float32)
	onError func(error)
	playing bool
	volume  float64
	closed  bool
}

func (s *fakeAudioStream) Play()               { s.playing = true }
func (s *fakeAudioStream) SetVolume(v float64) { s.volume = v }
func (s *fakeAudioStream) Close() error        { s.closed = true; return nil }

type fakeAudioDevice struct {
	formats []AudioFormat
	openErr error
	failAt  int
	streams []*fakeAudioStream
}

func (d *fakeAudioDevice) Name() string { return "fake" }

func (d *fakeAudioDevice) SupportedFormats() ([]AudioFormat, error) {
	return d.formats, nil
}

func (d *fakeAudioDevice) OpenStream(format AudioFormat, fill func([]float32), onError func(error)) (AudioStream, error) {
	if d.openErr != nil && len(d.streams) == d.failAt {
		return nil, d.openErr
	}
	s := &fakeAudioStream{fill: fill, onError: onError}
	d.streams = append(d.streams, s)
	return s, nil
}

type fakeAudioBackend struct {
	device AudioDevice
	err    error
}

func (b fakeAudioBackend) DefaultOutputDevice() (AudioDevice, error) {
	return b.device, b.err
}

func TestSelectFormat(t *testing.T) {
	offered := []AudioFormat{{44100, 1}, {48000, 4}, {44100, 4}}

	got, err := SelectFormat(offered, AudioFormat{44100, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (AudioFormat{44100, 4}) {
		t.Errorf("got %s, want 44100 Hz x 4 ch", got)
	}

	_, err = SelectFormat([]AudioFormat{{44100, 1}, {48000, 2}}, AudioFormat{44100, 2})
	if !errors.Is(err, ErrNoAudioFormat) {
		t.Errorf("expected ErrNoAudioFormat, got %v", err)
	}
}

func TestAudioBridgeOpensOneStreamPerSource(t *testing.T) {
	device := &fakeAudioDevice{formats: []AudioFormat{{44100, 2}}}
	var sources [vmcore.AudioStreamCount]*vmcore.Stream
	ring := vmcore.NewSampleRing(16)
	ring.Push([]float32{0.5, -0.5})
	sources[0] = vmcore.NewStream(ring)

	bridge, err := NewAudioBridge(fakeAudioBackend{device: device}, AudioFormat{44100, 2}, sources, func(err error) {
		t.Errorf("unexpected fatal: %v", err)
	})
	if err != nil {
		t.Fatalf("NewAudioBridge failed: %v", err)
	}

	if len(device.streams) != vmcore.AudioStreamCount {
		t.Fatalf("opened %d streams, want %d", len(device.streams), vmcore.AudioStreamCount)
	}
	for i, s := range device.streams {
		if !s.playing {
			t.Errorf("stream %d not started", i)
		}
	}

	out := make([]float32, 4)
	device.streams[0].fill(out)
	if out[0] != 0.5 || out[1] != -0.5 || out[2] != 0 || out[3] != 0 {
		t.Errorf("stream 0 samples = %v", out)
	}

	// Nil sources play silence.
	out = []float32{1, 1}
	device.streams[3].fill(out)
	if out[0] != 0 || out[1] != 0 {
		t.Errorf("nil source produced %v", out)
	}

	bridge.SetVolume(3)
	if device.streams[0].volume != 2 {
		t.Errorf("volume not clamped: %v", device.streams[0].volume)
	}
	bridge.SetVolume(0.25)
	if device.streams[2].volume != 0.25 {
		t.Errorf("volume = %v, want 0.25", device.streams[2].volume)
	}

	if bridge.Format() != (AudioFormat{44100, 2}) || bridge.DeviceName() != "fake" {
		t.Errorf("format %s device %q", bridge.Format(), bridge.DeviceName())
	}

	bridge.Close()
	for i, s := range device.streams {
		if !s.closed {
			t.Errorf("stream %d not closed", i)
		}
	}
}

func TestAudioBridgeSetupErrors(t *testing.T) {
	var sources [vmcore.AudioStreamCount]*vmcore.Stream
	noFatal := func(error) {}

	if _, err := NewAudioBridge(fakeAudioBackend{}, AudioFormat{44100, 2}, sources, noFatal); !errors.Is(err, ErrNoAudioDevice) {
		t.Errorf("nil device: got %v, want ErrNoAudioDevice", err)
	}

	backendErr := errors.New("backend down")
	if _, err := NewAudioBridge(fakeAudioBackend{err: backendErr}, AudioFormat{44100, 2}, sources, noFatal); !errors.Is(err, backendErr) {
		t.Errorf("backend error: got %v", err)
	}

	device := &fakeAudioDevice{formats: []AudioFormat{{48000, 2}}}
	if _, err := NewAudioBridge(fakeAudioBackend{device: device}, AudioFormat{44100, 2}, sources, noFatal); !errors.Is(err, ErrNoAudioFormat) {
		t.Errorf("format mismatch: got %v", err)
	}

	openErr := errors.New("open failed")
	device = &fakeAudioDevice{formats: []AudioFormat{{44100, 2}}, openErr: openErr, failAt: 2}
	_, err := NewAudioBridge(fakeAudioBackend{device: device}, AudioFormat{44100, 2}, sources, noFatal)
	if !errors.Is(err, openErr) || !strings.Contains(err.Error(), "stream 2") {
		t.Errorf("open error: got %v", err)
	}
	for i, s := range device.streams {
		if !s.closed {
			t.Errorf("stream %d left open after failure", i)
		}
	}
}

type panickingData struct{}

func (panickingData) Next([]float32) { panic("boom") }

func TestAudioBridgeFillPanicIsFatal(t *testing.T) {
	device := &fakeAudioDevice{formats: []AudioFormat{{44100, 1}}}
	var sources [vmcore.AudioStreamCount]*vmcore.Stream
	sources[1] = vmcore.NewStream(panickingData{})

	var fatal error
	if _, err := NewAudioBridge(fakeAudioBackend{device: device}, AudioFormat{44100, 1}, sources, func(err error) {
		fatal = err
	}); err != nil {
		t.Fatal(err)
	}

	out := []float32{0.3, 0.3}
	device.streams[1].fill(out)
	if fatal == nil {
		t.Fatal("panic not reported")
	}
	if !strings.Contains(fatal.Error(), "audio stream 1") {
		t.Errorf("fatal error %q does not name the stream", fatal)
	}
	if out[0] != 0 || out[1] != 0 {
		t.Errorf("buffer not silenced: %v", out)
	}

	// Backend-reported errors go to the same handler.
	fatal = nil
	device.streams[0].onError(errors.New("device lost"))
	if fatal == nil || !strings.Contains(fatal.Error(), "audio stream 0") {
		t.Errorf("backend error not routed: %v", fatal)
	}
}

func TestFillReaderWholeFrames(t *testing.T) {
	calls := 0
	r := &fillReader{
		channels: 2,
		fill: func(out []float32) {
			calls++
			for i := range out {
				out[i] = float32(i) * 0.25
			}
		},
	}

	p := make([]byte, 21)
	n, err := r.Read(p)
	if err != nil {
		t.Fatal(err)
	}
	if n != 16 {
		t.Fatalf("read %d bytes, want 16 (two stereo frames)", n)
	}
	for i := 0; i < 4; i++ {
		got := math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
		if got != float32(i)*0.25 {
			t.Errorf("sample %d = %v, want %v", i, got, float32(i)*0.25)
		}
	}

	n, _ = r.Read(make([]byte, 7))
	if n != 0 {
		t.Errorf("short buffer read %d bytes, want 0", n)
	}
	if calls != 1 {
		t.Errorf("fill called %d times, want 1", calls)
	}
}

func TestOtoFormatsIncludeCommonRates(t *testing.T) {
	for _, want := range []AudioFormat{{44100, 2}, {48000, 2}} {
		if _, err := SelectFormat(otoFormats, want); err != nil {
			t.Errorf("oto backend should offer %s", want)
		}
	}
}
