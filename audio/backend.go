package audio

import "context"

// ThreadResult is the outcome of one bounded iteration of Backend.Thread.
type ThreadResult int

const (
	ThreadRunning ThreadResult = iota
	ThreadUnderrun
	ThreadError
)

// Backend is the capability set a hardware (or virtual) playback device
// exposes, modeled after spec §4.1/§9 as a sum-typed dispatch target
// rather than a C function-pointer table. Every method must be safe to
// call repeatedly; a backend is reopened on every format change.
type Backend interface {
	// Init acquires the device. Idempotent.
	Init() error
	// Exit releases the device. Idempotent.
	Exit()

	// Setup requests a playback format. It returns the result, then the
	// rate and channel count the backend actually accepted (on
	// ResultDowngraded these differ from the request), then any error.
	Setup(rate, channels int, useAC3 bool) (Result, int, int, error)

	Play()
	Pause()

	// FlushBuffers drops pending device-side samples and returns the
	// device to a prepared, silent state.
	FlushBuffers()

	// GetDelay returns, in 1/90000s units, samples held by the device
	// that have not yet been heard.
	GetDelay() int64

	// SetVolume sets the hardware mixer (0..1000); no-op if software
	// volume is active.
	SetVolume(v int)

	// ac3Capable reports whether the backend can carry AC3 passthrough
	// (IEC958). Engine.Setup fails over to the noop backend rather than
	// attempting AC3 against a backend that would silently corrupt a
	// PCM stream with it.
	ac3Capable() bool

	// Thread performs one bounded iteration of device I/O, draining
	// from src. It must honor ctx cancellation and return promptly
	// when paused is true.
	Thread(ctx context.Context, src *RingBuffer, paused func() bool) ThreadResult
}

// NewBackend dispatches on a device name per spec §6: "/"-prefixed names
// select an OSS-style backend, otherwise ALSA-style; empty selects noop.
// The device itself is not opened here; the engine swaps in the noop
// backend only when a backend's Init fails.
func NewBackend(name string) Backend {
	if name == "" {
		return NewNoopBackend()
	}
	if name[0] == '/' {
		return NewOSSBackend(name)
	}
	return newPlatformBackend(name)
}
