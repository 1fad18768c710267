package audio

import "sync"

const (
	int16Max = 32767

	normalizerWindow    = 128
	normalizerBlockSize = 4096

	defaultMaxCompression = 2000
	minNormalizeFactor    = 100
)

// Amplifier applies software gain and mute, guarded for concurrent
// SetGain/SetMute calls from the mixer-control caller while the
// producer goroutine applies it per packet.
type Amplifier struct {
	mu   sync.RWMutex
	gain int32 // per-mille
	mute bool
}

func NewAmplifier() *Amplifier {
	return &Amplifier{gain: 1000}
}

func (a *Amplifier) SetGain(permille int32) {
	a.mu.Lock()
	a.gain = permille
	a.mu.Unlock()
}

func (a *Amplifier) SetMute(mute bool) {
	a.mu.Lock()
	a.mute = mute
	a.mu.Unlock()
}

func (a *Amplifier) Gain() int32 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.gain
}

// Apply scales samples in place.
func (a *Amplifier) Apply(samples []int16) {
	a.mu.RLock()
	gain, mute := a.gain, a.mute
	a.mu.RUnlock()

	if mute || gain == 0 {
		for i := range samples {
			samples[i] = 0
		}
		return
	}
	if gain == 1000 {
		return
	}
	for i, s := range samples {
		samples[i] = clampI16(int32(s) * gain / 1000)
	}
}

// Compressor is a look-ahead-free peak compressor driven entirely by the
// producer goroutine; no locking is needed on the hot path, but
// MaxCompression is exposed for the mixer-control caller to adjust.
type Compressor struct {
	mu             sync.RWMutex
	enabled        bool
	maxCompression int32

	cur int32 // per-mille, producer-owned
}

func NewCompressor() *Compressor {
	c := &Compressor{maxCompression: defaultMaxCompression}
	c.Reset()
	return c
}

func (c *Compressor) SetEnabled(on bool) {
	c.mu.Lock()
	c.enabled = on
	c.mu.Unlock()
}

func (c *Compressor) SetMax(maxCompression int32) {
	c.mu.Lock()
	c.maxCompression = maxCompression
	c.mu.Unlock()
}

func (c *Compressor) Enabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

// Reset restores the compressor's running factor, as happens on format
// change or slot advance.
func (c *Compressor) Reset() {
	c.mu.Lock()
	max := c.maxCompression
	c.mu.Unlock()
	cur := int32(2000)
	if max < cur {
		cur = max
	}
	c.cur = cur
}

// Apply compresses one packet's worth of samples in place.
func (c *Compressor) Apply(samples []int16) {
	c.mu.RLock()
	max := c.maxCompression
	c.mu.RUnlock()

	var peak int32
	for _, s := range samples {
		v := int32(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return
	}

	target := (int16Max * 1000) / peak
	cur := (c.cur*950 + target*50) / 1000
	if cur > target {
		cur = target
	}
	if cur > max {
		cur = max
	}
	c.cur = cur

	for i, s := range samples {
		samples[i] = clampI16(int32(s) * cur / 1000)
	}
}

// Normalizer tracks a sliding window of per-block mean-square energy and
// adjusts gain slowly (EWMA) to bring long-term loudness to a target
// level, per spec §4.3. Like Compressor, the hot path is producer-owned.
type Normalizer struct {
	mu      sync.RWMutex
	enabled bool
	maxNorm int32

	table [normalizerWindow]int64
	idx   int
	ready int // number of filled slots, caps at normalizerWindow

	blockSum   int64
	blockCount int

	cur int32 // per-mille, producer-owned
}

func NewNormalizer() *Normalizer {
	n := &Normalizer{maxNorm: 1000}
	n.Reset()
	return n
}

func (n *Normalizer) SetEnabled(on bool) {
	n.mu.Lock()
	n.enabled = on
	n.mu.Unlock()
}

func (n *Normalizer) SetMax(maxNorm int32) {
	n.mu.Lock()
	n.maxNorm = maxNorm
	n.mu.Unlock()
}

func (n *Normalizer) Enabled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.enabled
}

// Reset zeros the window and restores unity gain, per spec §4.3.
func (n *Normalizer) Reset() {
	for i := range n.table {
		n.table[i] = 0
	}
	n.idx = 0
	n.ready = 0
	n.blockSum = 0
	n.blockCount = 0
	n.cur = 1000
}

// Apply normalizes one packet's worth of samples in place, using the
// factor computed as of the start of the call (the pre-update factor,
// per spec §4.3) for the whole packet even if a block boundary falls
// inside it.
func (n *Normalizer) Apply(samples []int16) {
	cur := n.cur

	for _, s := range samples {
		v := int64(s)
		n.blockSum += v * v
		n.blockCount++
		if n.blockCount >= normalizerBlockSize {
			n.table[n.idx] = n.blockSum / int64(n.blockCount)
			n.idx = (n.idx + 1) % normalizerWindow
			n.blockSum = 0
			n.blockCount = 0
			if n.ready < normalizerWindow {
				n.ready++
			}
			n.updateFactor()
		}
	}

	if cur == 1000 {
		return
	}
	for i, s := range samples {
		samples[i] = clampI16(int32(s) * cur / 1000)
	}
}

func (n *Normalizer) updateFactor() {
	if n.ready < normalizerWindow {
		n.cur = 1000
		return
	}

	var sum int64
	for _, v := range n.table {
		sum += v
	}
	avg := sum / normalizerWindow
	if avg == 0 {
		return
	}

	n.mu.RLock()
	maxNorm := n.maxNorm
	n.mu.RUnlock()

	target := int32((int64(int16Max/8) * 1000) / isqrt(avg))
	cur := (n.cur*500 + target*500) / 1000
	if cur < minNormalizeFactor {
		cur = minNormalizeFactor
	}
	if cur > maxNorm {
		cur = maxNorm
	}
	n.cur = cur
}

// isqrt computes the integer square root via Newton's method; avg is
// always positive when called.
func isqrt(v int64) int64 {
	if v <= 0 {
		return 0
	}
	x := v
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + v/x) / 2
	}
	return x
}
