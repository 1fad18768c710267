package audio

import "context"

// NoopBackend is the inert fallback used when no device is bound,
// grounded on the teacher's headless OtoPlayer stub: every call
// succeeds trivially and Thread discards whatever is buffered,
// reporting underrun once the buffer is empty, so the worker loop
// advances instead of getting stuck waiting on output it cannot produce.
type NoopBackend struct {
	rate, channels int
	volume         int
}

func NewNoopBackend() *NoopBackend {
	return &NoopBackend{volume: 1000}
}

func (b *NoopBackend) Init() error { return nil }
func (b *NoopBackend) Exit()       {}

func (b *NoopBackend) Setup(rate, channels int, useAC3 bool) (Result, int, int, error) {
	b.rate, b.channels = rate, channels
	return ResultOK, rate, channels, nil
}

func (b *NoopBackend) Play()           {}
func (b *NoopBackend) Pause()          {}
func (b *NoopBackend) FlushBuffers()   {}
func (b *NoopBackend) GetDelay() int64 { return 0 }
func (b *NoopBackend) SetVolume(v int) { b.volume = v }

// ac3Capable is true: the sink discards bytes regardless of format, so
// it can stand in for an AC3-incapable backend without corrupting
// anything.
func (b *NoopBackend) ac3Capable() bool { return true }

func (b *NoopBackend) Thread(ctx context.Context, src *RingBuffer, paused func() bool) ThreadResult {
	if ctx.Err() != nil {
		return ThreadError
	}
	if paused() {
		return ThreadRunning
	}
	run := src.ReadPointer()
	if len(run) == 0 {
		return ThreadUnderrun
	}
	src.ReadAdvance(len(run))
	return ThreadRunning
}
