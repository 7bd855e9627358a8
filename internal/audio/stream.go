package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// streamReader adapts the mixer to the audio backend's io.Reader contract:
// each Read renders interleaved stereo float32 frames (8 bytes per frame).
type streamReader struct {
	mu    sync.Mutex
	mixer *Mixer
	buf   []float32
}

func (r *streamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	need := frames * 2
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]
	r.mixer.Process(r.buf)
	for i := 0; i < need; i++ {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(r.buf[i]))
	}
	return frames * 8, nil
}

func (r *streamReader) Close() error { return nil }

var (
	contextOnce sync.Once
	context     *ebitaudio.Context
	contextRate int
)

func sharedContext(sampleRate int) (*ebitaudio.Context, error) {
	contextOnce.Do(func() {
		contextRate = sampleRate
		context = ebitaudio.NewContext(sampleRate)
	})
	if contextRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", contextRate, sampleRate)
	}
	return context, nil
}

// Device streams a mixer to the system audio output.
type Device struct {
	player *ebitaudio.Player
}

// OpenDevice connects the mixer to the shared audio context and starts
// playback. The mixer's clock advances as the device consumes samples.
func OpenDevice(m *Mixer) (*Device, error) {
	ctx, err := sharedContext(m.rate)
	if err != nil {
		return nil, err
	}
	player, err := ctx.NewPlayerF32(&streamReader{mixer: m})
	if err != nil {
		return nil, fmt.Errorf("failed to open audio player: %w", err)
	}
	player.Play()
	return &Device{player: player}, nil
}

// Close stops playback and releases the device.
func (d *Device) Close() error {
	d.player.Pause()
	return d.player.Close()
}
