package audio

import (
	"log"
	"os"
)

// Engine is the single owned value encapsulating what spec §9 describes
// as module-level global state in the original: the pipeline, control
// block, filter chain, backend, and worker goroutine, exposing only the
// producer-facing operations of spec §6.
type Engine struct {
	pipeline *Pipeline
	control  *controlBlock
	backend  Backend
	matrix   channelMatrix
	worker   *worker
	producer *producer

	amp  *Amplifier
	comp *Compressor
	norm *Normalizer

	deviceName    string
	ac3DeviceName string

	logger *log.Logger
}

// NewEngine constructs an engine bound to the named device, per spec
// §6's naming convention ("/"-prefixed selects OSS, otherwise ALSA,
// empty selects noop). The backend is probed for its capability matrix
// immediately; callers still need Setup before Enqueue will accept
// samples.
func NewEngine(deviceName string) *Engine {
	return newEngineWithBackend(NewBackend(deviceName))
}

func newEngineWithBackend(backend Backend) *Engine {
	e := &Engine{
		pipeline: NewPipeline(),
		control:  newControlBlock(),
		backend:  backend,
		amp:      NewAmplifier(),
		comp:     NewCompressor(),
		norm:     NewNormalizer(),
		logger:   log.New(os.Stderr, "audio: ", log.LstdFlags),
	}

	if err := backend.Init(); err != nil {
		e.logger.Printf("backend init failed, falling back to noop: %v", err)
		e.backend = NewNoopBackend()
		_ = e.backend.Init()
	}

	e.matrix = ProbeCapabilities(e.backend)
	e.worker = newWorker(e.pipeline, e.backend, e.control, e.comp, e.norm, e.logger)
	e.producer = &producer{
		pipeline: e.pipeline,
		matrix:   e.matrix,
		control:  e.control,
		worker:   e.worker,
		amp:      e.amp,
		comp:     e.comp,
		norm:     e.norm,
	}

	go e.worker.run()
	return e
}

// SetLogger replaces the engine's logger; useful for callers that want
// error/warning output routed into their own structured logging.
func (e *Engine) SetLogger(l *log.Logger) {
	if l != nil {
		e.logger = l
		e.worker.logger = l
	}
}

// Exit stops the worker goroutine and releases the backend device.
func (e *Engine) Exit() {
	e.worker.stop()
	e.backend.Exit()
}

// Setup requests a playback format, per spec §6. An AC3 request against
// a backend that can't carry AC3 passthrough fails over to the noop
// backend rather than writing compressed AC3 bytes into a PCM stream.
func (e *Engine) Setup(rate, channels int, useAC3 bool) (Result, error) {
	if useAC3 && !e.backend.ac3Capable() {
		e.logger.Printf("audio: backend cannot carry AC3 passthrough, falling back to noop")
		e.backend.Exit()
		e.swapBackend(NewNoopBackend())
	}
	return e.producer.Setup(rate, channels, useAC3)
}

// Enqueue writes one packet of interleaved int16 samples in producer
// format into the pipeline.
func (e *Engine) Enqueue(samples []int16) {
	e.producer.Enqueue(samples)
}

// FlushBuffers drops any buffered audio and tells the device to
// discard what it's holding too.
func (e *Engine) FlushBuffers() {
	e.producer.FlushBuffers()
}

// SetClock assigns the current write slot's presentation timestamp.
func (e *Engine) SetClock(pts int64) {
	e.producer.SetClock(pts)
}

// GetClock returns the read slot's current audio clock in 1/90000s
// units, or NoPTS if it cannot presently be determined.
func (e *Engine) GetClock() int64 {
	return e.producer.GetClock(e.backend)
}

// GetDelay returns the backend's reported output delay.
func (e *Engine) GetDelay() int64 {
	return e.backend.GetDelay()
}

// FreeBytes returns the free byte capacity of the current write slot.
func (e *Engine) FreeBytes() int {
	return e.pipeline.WriteSlot().buffer.Free()
}

// UsedBytes returns the occupied byte capacity of the current read slot.
func (e *Engine) UsedBytes() int {
	return e.pipeline.ReadSlot().buffer.Used()
}

// VideoReady reports the video presentation clock's current PTS.
func (e *Engine) VideoReady(videoPTS int64) {
	e.producer.VideoReady(videoPTS)
}

// Play resumes playback.
func (e *Engine) Play() {
	e.control.setPaused(false)
	e.backend.Play()
	e.worker.wake()
}

// Pause suspends playback.
func (e *Engine) Pause() {
	e.control.setPaused(true)
	e.backend.Pause()
}

// SetVolume sets the software or hardware mixer volume, 0..1000. The
// backend's hardware mixer is left alone while software volume is on.
func (e *Engine) SetVolume(v int) {
	e.producer.SetVolume(v)
	if !e.producer.softvol {
		e.backend.SetVolume(v)
	}
}

// SetBufferTime sets the target buffering latency, in milliseconds,
// used by the start-threshold calculation.
func (e *Engine) SetBufferTime(ms int) {
	e.control.setBufferTime(ms)
}

// SetSoftvol toggles whether volume is applied in software by the
// amplifier filter (true) or left to the backend's hardware mixer.
func (e *Engine) SetSoftvol(on bool) {
	e.producer.SetSoftvol(on)
}

// SetNormalize toggles the normalizer and sets its per-mille ceiling.
func (e *Engine) SetNormalize(on bool, max int32) {
	e.norm.SetEnabled(on)
	e.norm.SetMax(max)
}

// SetCompression toggles the compressor and sets its per-mille
// ceiling.
func (e *Engine) SetCompression(on bool, max int32) {
	e.comp.SetEnabled(on)
	e.comp.SetMax(max)
}

// SetStereoDescent sets the per-mille attenuation applied to 2-channel
// non-AC3 software-volume playback, per spec §8's invariant.
func (e *Engine) SetStereoDescent(descent int32) {
	e.producer.SetStereoDescent(descent)
}

// SetVideoAudioDelay sets the imported VideoAudioDelay value (1/90000s)
// used by the start-threshold and VideoReady skip calculations.
func (e *Engine) SetVideoAudioDelay(delay int64) {
	e.control.setVideoAudioDelay(delay)
}

// SetDevice rebinds the PCM device used for non-AC3 playback. Takes
// effect on the next Setup, which reopens the backend anyway.
func (e *Engine) SetDevice(name string) {
	e.deviceName = name
	e.rebind(name)
}

// SetDeviceAC3 records the name of the device for AC3 passthrough. In
// this engine both paths share one backend instance: Setup does not
// consult this name, and AC3 passthrough goes to the backend chosen by
// SetDevice. Callers that need an independent AC3 output should
// construct a second Engine.
func (e *Engine) SetDeviceAC3(name string) {
	e.ac3DeviceName = name
}

// SetChannel is a legacy alias for SetDevice retained for API parity
// with the producer surface in spec §6.
func (e *Engine) SetChannel(name string) {
	e.SetDevice(name)
}

func (e *Engine) rebind(name string) {
	e.backend.Exit()
	e.swapBackend(NewBackend(name))
}

// swapBackend replaces the engine's active backend, initializing it
// (falling back to noop on failure) and re-probing its channel matrix.
// Callers that need the previous backend released first must call
// Exit on it themselves before calling swapBackend.
func (e *Engine) swapBackend(b Backend) {
	if err := b.Init(); err != nil {
		e.logger.Printf("backend init failed, falling back to noop: %v", err)
		b = NewNoopBackend()
		_ = b.Init()
	}
	e.backend = b
	e.matrix = ProbeCapabilities(e.backend)
	e.producer.matrix = e.matrix
	e.worker.backend = e.backend
}

// EngineStats is a snapshot of engine state useful for diagnostics and
// tests; not part of the spec's producer API but a natural addition
// for an owned-engine design (SPEC_FULL §6).
type EngineStats struct {
	Running      bool
	Paused       bool
	VideoReady   bool
	Filled       int
	WriteUsed    int
	ReadUsed     int
	Volume       int
	CompressorOn bool
	NormalizerOn bool
}

func (e *Engine) Stats() EngineStats {
	return EngineStats{
		Running:      e.control.isRunning(),
		Paused:       e.control.isPaused(),
		VideoReady:   e.control.isVideoReady(),
		Filled:       e.pipeline.Filled(),
		WriteUsed:    e.pipeline.WriteSlot().buffer.Used(),
		ReadUsed:     e.pipeline.ReadSlot().buffer.Used(),
		Volume:       e.control.getVolume(),
		CompressorOn: e.comp.Enabled(),
		NormalizerOn: e.norm.Enabled(),
	}
}
