package standalone

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// otoFormats are the formats offered by the oto backend. oto mixes all
// players through a single context, so every stream shares one format.
var otoFormats = []AudioFormat{
	{SampleRate: 44100, Channels: 1},
	{SampleRate: 44100, Channels: 2},
	{SampleRate: 48000, Channels: 1},
	{SampleRate: 48000, Channels: 2},
}

const otoBufferDuration = 50 * time.Millisecond

// oto context singleton
var (
	otoCtx      *oto.Context
	otoCtxFmt   AudioFormat
	otoInitOnce sync.Once
	otoInitErr  error
)

// ensureOtoContext initializes the oto context on first use with format.
// Later calls must ask for the same format.
func ensureOtoContext(format AudioFormat) (*oto.Context, error) {
	otoInitOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatFloat32LE,
			BufferSize:   otoBufferDuration,
		}
		var readyChan chan struct{}
		otoCtx, readyChan, otoInitErr = oto.NewContext(op)
		if otoInitErr != nil {
			return
		}
		otoCtxFmt = format
		<-readyChan
	})
	if otoInitErr != nil {
		return nil, fmt.Errorf("oto audio not available: %w", otoInitErr)
	}
	if format != otoCtxFmt {
		return nil, fmt.Errorf("audio context already running at %s", otoCtxFmt)
	}
	return otoCtx, nil
}

// OtoBackend is the AudioBackend backed by oto's default output device.
type OtoBackend struct{}

// DefaultOutputDevice implements AudioBackend.
func (OtoBackend) DefaultOutputDevice() (AudioDevice, error) {
	return otoDevice{}, nil
}

type otoDevice struct{}

func (otoDevice) Name() string { return "default" }

func (otoDevice) SupportedFormats() ([]AudioFormat, error) {
	return otoFormats, nil
}

func (otoDevice) OpenStream(format AudioFormat, fill func([]float32), onError func(error)) (AudioStream, error) {
	ctx, err := ensureOtoContext(format)
	if err != nil {
		return nil, err
	}

	player := ctx.NewPlayer(&fillReader{fill: fill, channels: format.Channels})
	bytesPerSecond := format.SampleRate * format.Channels * 4
	player.SetBufferSize(int(int64(bytesPerSecond) * int64(otoBufferDuration) / int64(time.Second)))

	s := &otoStream{player: player, done: make(chan struct{})}
	go s.watch(onError)
	return s, nil
}

// fillReader adapts a sample fill callback to the io.Reader oto pulls
// from. Only whole frames are produced.
type fillReader struct {
	fill     func([]float32)
	channels int
	samples  []float32
}

func (r *fillReader) Read(p []byte) (int, error) {
	frameBytes := 4 * r.channels
	n := len(p) / frameBytes * frameBytes
	if n == 0 {
		return 0, nil
	}

	count := n / 4
	if cap(r.samples) < count {
		r.samples = make([]float32, count)
	}
	samples := r.samples[:count]
	r.fill(samples)

	for i, v := range samples {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return n, nil
}

type otoStream struct {
	player    *oto.Player
	done      chan struct{}
	closeOnce sync.Once
}

// watch reports the first player error.
func (s *otoStream) watch(onError func(error)) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if err := s.player.Err(); err != nil {
				onError(err)
				return
			}
		}
	}
}

func (s *otoStream) Play() {
	s.player.Play()
}

func (s *otoStream) SetVolume(volume float64) {
	s.player.SetVolume(volume)
}

func (s *otoStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.player.Close()
	})
	return err
}
