//go:build !linux

package audio

import (
	"context"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// PortableBackend is the non-Linux fallback for an "ALSA-style" device
// name, grounded on the teacher's oto/v3 player: oto is pull-based (it
// calls our Read), so this backend bridges that model to the
// push-based Backend.Thread contract by draining the slot's ring
// buffer straight into oto's read callback. Because oto only accepts
// the format it was opened with, a request for more than two channels
// is reported as downgraded to stereo; AC3 requests fail.
type PortableBackend struct {
	name string

	mu       sync.Mutex
	ctx      *oto.Context
	player   *oto.Player
	src      *RingBuffer
	rate     int
	channels int
	volume   int
	paused   bool
}

func NewPortableBackend(name string) *PortableBackend {
	return &PortableBackend{name: name, volume: 1000}
}

func newPlatformBackend(name string) Backend {
	return NewPortableBackend(name)
}

func (b *PortableBackend) Init() error { return nil }

func (b *PortableBackend) Exit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeLocked()
}

func (b *PortableBackend) closeLocked() {
	if b.player != nil {
		b.player.Close()
		b.player = nil
	}
	b.ctx = nil
}

func (b *PortableBackend) Setup(rate, channels int, useAC3 bool) (Result, int, int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closeLocked()

	if useAC3 {
		return ResultFail, 0, 0, ErrUnsupportedFormat
	}

	outCh := channels
	result := ResultOK
	if outCh != 1 && outCh != 2 {
		outCh = 2
		result = ResultDowngraded
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: outCh,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return ResultFail, 0, 0, ErrBackendOpenFailed
	}
	<-ready

	b.ctx = ctx
	b.player = ctx.NewPlayer(b)
	b.rate, b.channels = rate, outCh
	return result, rate, outCh, nil
}

func (b *PortableBackend) Play() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paused = false
	if b.player != nil {
		b.player.Play()
	}
}

func (b *PortableBackend) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paused = true
	if b.player != nil {
		b.player.Pause()
	}
}

func (b *PortableBackend) FlushBuffers() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.player != nil {
		b.player.Reset()
	}
}

func (b *PortableBackend) GetDelay() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.player == nil || b.rate == 0 || b.channels == 0 {
		return 0
	}
	frames := int64(b.player.BufferedSize()) / int64(b.channels*bytesPerSample)
	return frames * PTSRate / int64(b.rate)
}

// ac3Capable is false: oto only carries raw PCM, so Engine.Setup must
// fail AC3 requests over to the noop backend before reaching here.
func (b *PortableBackend) ac3Capable() bool { return false }

func (b *PortableBackend) SetVolume(v int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.volume = v
	if b.player != nil {
		b.player.SetVolume(float64(v) / 1000)
	}
}

// Read implements io.Reader for oto.Player: it is called from oto's own
// goroutine, not from Thread, so it fetches the src that Thread last
// published under b.mu.
func (b *PortableBackend) Read(p []byte) (int, error) {
	b.mu.Lock()
	src := b.src
	b.mu.Unlock()
	if src == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	n := src.Read(p)
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

// Thread publishes src for oto's Read callback to drain; oto does the
// actual device I/O on its own schedule, so this reports steady
// running unless the buffer is empty.
func (b *PortableBackend) Thread(ctx context.Context, src *RingBuffer, paused func() bool) ThreadResult {
	if ctx.Err() != nil {
		return ThreadError
	}
	b.mu.Lock()
	b.src = src
	b.mu.Unlock()

	if paused() {
		return ThreadRunning
	}
	if src.Used() == 0 {
		return ThreadUnderrun
	}

	// oto drains src from its own goroutine on its own schedule, so
	// there is no device handle here to block on; a bounded sleep
	// stands in for the pcm.Wait(24)/blocking-write backends use to
	// avoid busy-spinning this loop at 100% CPU.
	select {
	case <-ctx.Done():
		return ThreadError
	case <-time.After(24 * time.Millisecond):
	}
	return ThreadRunning
}
