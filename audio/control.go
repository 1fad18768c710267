package audio

import "sync/atomic"

// controlBlock holds the small set of flags shared between producer
// and worker that spec §3 calls "global control state". Every field is
// an atomic so either side can read it without a mutex; only the
// worker's outer wait additionally goes through worker.cond for the
// blocking wake (spec §5).
type controlBlock struct {
	running      atomic.Bool
	paused       atomic.Bool
	videoReady   atomic.Bool
	skipBytes    atomic.Int64
	volume       atomic.Int32
	bufferTimeMs atomic.Int32
	periodBytes  atomic.Int32

	videoAudioDelay atomic.Int64 // 1/90000s, imported from video subsystem
}

func newControlBlock() *controlBlock {
	c := &controlBlock{}
	c.volume.Store(1000)
	c.bufferTimeMs.Store(336) // matches the original's default buffer_time
	c.periodBytes.Store(4096)
	return c
}

func (c *controlBlock) isRunning() bool   { return c.running.Load() }
func (c *controlBlock) setRunning(v bool) { c.running.Store(v) }

func (c *controlBlock) isPaused() bool   { return c.paused.Load() }
func (c *controlBlock) setPaused(v bool) { c.paused.Store(v) }

func (c *controlBlock) isVideoReady() bool   { return c.videoReady.Load() }
func (c *controlBlock) setVideoReady(v bool) { c.videoReady.Store(v) }

func (c *controlBlock) getSkipBytes() int64  { return c.skipBytes.Load() }
func (c *controlBlock) setSkipBytes(v int64) { c.skipBytes.Store(v) }

func (c *controlBlock) getVolume() int  { return int(c.volume.Load()) }
func (c *controlBlock) setVolume(v int) { c.volume.Store(int32(v)) }

func (c *controlBlock) setBufferTime(ms int) { c.bufferTimeMs.Store(int32(ms)) }
func (c *controlBlock) bufferTime() int      { return int(c.bufferTimeMs.Load()) }

func (c *controlBlock) setVideoAudioDelay(v int64) { c.videoAudioDelay.Store(v) }
func (c *controlBlock) audioDelay() int64          { return c.videoAudioDelay.Load() }

// startThreshold computes the per-slot start threshold, per spec §4.4:
// max(period_bytes, rate·ch·bps·(buffer_time + max(0, delay/90))/1000),
// capped at ring_capacity/3. Rate/ch come from the slot currently being
// evaluated, so this takes them as parameters rather than caching.
func (c *controlBlock) startThresholdFor(rate, channels int) int {
	periodBytes := int(c.periodBytes.Load())
	bufferTime := c.bufferTime()
	delay := c.audioDelay()
	extra := delay / 90
	if extra < 0 {
		extra = 0
	}
	bytesRate := rate * channels * bytesPerSample
	computed := int64(bytesRate) * (int64(bufferTime) + extra) / 1000
	threshold := periodBytes
	if int(computed) > threshold {
		threshold = int(computed)
	}
	cap := slotBufferCapacity / 3
	if threshold > cap {
		threshold = cap
	}
	return threshold
}
