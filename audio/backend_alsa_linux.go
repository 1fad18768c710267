//go:build linux

package audio

import (
	"context"
	"sync"
	"syscall"
	"time"

	"github.com/gen2brain/alsa"
)

// ALSABackend drives a Linux ALSA PCM device through the pure-Go
// gen2brain/alsa binding rather than cgo: the ALSA kernel PCM character
// device natively supports interleaved read()/write() I/O on top of the
// same ioctls the mmap path uses, which is what lets this run without a
// C compiler (compare the teacher's own cgo-bound audio_backend_alsa.go,
// which talks to the same ioctls through libasound instead).
type ALSABackend struct {
	name string

	mu       sync.Mutex
	pcm      *alsa.PCM
	rate     int
	channels int
	volume   int
	paused   bool
}

func NewALSABackend(name string) *ALSABackend {
	if name == "" || name == "default" {
		name = "hw:0,0"
	}
	return &ALSABackend{name: name, volume: 1000}
}

func newPlatformBackend(name string) Backend {
	return NewALSABackend(name)
}

func (b *ALSABackend) Init() error { return nil }

func (b *ALSABackend) Exit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeLocked()
}

func (b *ALSABackend) closeLocked() {
	if b.pcm != nil {
		b.pcm.Close()
		b.pcm = nil
	}
}

// Setup closes and reopens the device on every call, matching the
// spec's documented requirement to recover from device re-handshakes
// (e.g. HDMI) on format change.
func (b *ALSABackend) Setup(rate, channels int, useAC3 bool) (Result, int, int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closeLocked()

	cfg := &alsa.Config{
		Channels:    uint32(channels),
		Rate:        uint32(rate),
		Format:      alsa.PCM_FORMAT_S16_LE,
		PeriodSize:  1024,
		PeriodCount: 4,
	}

	pcm, err := alsa.PcmOpenByName(b.name, alsa.PCM_OUT, cfg)
	if err != nil {
		return ResultFail, 0, 0, ErrBackendOpenFailed
	}

	b.pcm = pcm
	b.rate, b.channels = rate, channels

	got := pcm.Config()
	if got.Rate != uint32(rate) || got.Channels != uint32(channels) {
		return ResultDowngraded, int(got.Rate), int(got.Channels), nil
	}
	return ResultOK, rate, channels, nil
}

func (b *ALSABackend) Play() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paused = false
	if b.pcm != nil {
		_ = b.pcm.Start()
	}
}

func (b *ALSABackend) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paused = true
	if b.pcm != nil {
		_ = b.pcm.Pause(true)
	}
}

func (b *ALSABackend) FlushBuffers() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pcm != nil {
		_ = b.pcm.Stop()
		_ = b.pcm.Prepare()
	}
}

func (b *ALSABackend) GetDelay() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pcm == nil {
		return 0
	}
	frames, err := b.pcm.Delay()
	if err != nil || frames <= 0 {
		return 0
	}
	return int64(frames) * PTSRate / int64(b.rate)
}

func (b *ALSABackend) SetVolume(v int) {
	b.mu.Lock()
	b.volume = v
	b.mu.Unlock()
}

// ac3Capable is true: ALSA carries AC3 passthrough via IEC958.
func (b *ALSABackend) ac3Capable() bool { return true }

// Thread pushes as much of src as the device has room for, within a
// bounded wait, per spec §4.1/§4.6.
func (b *ALSABackend) Thread(ctx context.Context, src *RingBuffer, paused func() bool) ThreadResult {
	if ctx.Err() != nil {
		return ThreadError
	}
	if paused() {
		return ThreadRunning
	}

	b.mu.Lock()
	pcm := b.pcm
	b.mu.Unlock()
	if pcm == nil {
		return ThreadError
	}

	ready, err := pcm.Wait(24)
	if err != nil {
		b.recover(pcm)
		return ThreadError
	}
	if !ready {
		return ThreadRunning
	}

	run := src.ReadPointer()
	if len(run) == 0 {
		return ThreadUnderrun
	}

	n, err := syscall.Write(int(pcm.Fd()), run)
	if err != nil {
		b.recover(pcm)
		return ThreadError
	}
	if n > 0 {
		src.ReadAdvance(n)
	}
	return ThreadRunning
}

// recover runs one stop/prepare cycle on the device after a wait or
// write failure. Thread reports ThreadError either way, and the worker
// retries on its next iteration.
func (b *ALSABackend) recover(pcm *alsa.PCM) bool {
	if err := pcm.Stop(); err != nil {
		return false
	}
	if err := pcm.Prepare(); err != nil {
		return false
	}
	time.Sleep(time.Millisecond)
	return true
}
