package audio

// slotBufferCapacity is the fixed per-slot byte capacity from spec §3:
// 3·5·7·8·2·1000 bytes (1,680,000 bytes, about 1.6 MiB), sized to hold a worst-case
// multi-second block at the highest supported rate/channel/width combo.
const slotBufferCapacity = 3 * 5 * 7 * 8 * 2 * 1000

const (
	bytesPerSample = 2 // signed 16-bit
)

// slot is one entry of the pipeline ring (spec §3). The producer
// mutates only the slot at Pipeline.write; the worker mutates only the
// slot at Pipeline.read.
type slot struct {
	flushBuffers bool
	useAC3       bool
	packetSize   int

	inRate, inChannels int
	hwRate, hwChannels int

	pts int64

	buffer *RingBuffer
}

func newSlot() *slot {
	return &slot{
		pts:    NoPTS,
		buffer: NewRingBuffer(slotBufferCapacity),
	}
}

// reset reinitializes the slot for reuse at a new format, per spec §4.4
// step 4. The backing buffer array is kept, only its cursors reset.
func (s *slot) reset(inRate, inChannels, hwRate, hwChannels int, useAC3 bool) {
	s.buffer.Reset()
	s.flushBuffers = true
	s.useAC3 = useAC3
	s.packetSize = 0
	s.pts = NoPTS
	s.inRate, s.inChannels = inRate, inChannels
	s.hwRate, s.hwChannels = hwRate, hwChannels
}

// sameFormat reports whether two slots would drive the backend
// identically, used by Advance (spec §4.4) to decide whether a new
// backend Setup call is needed.
func (s *slot) sameFormat(other *slot) bool {
	return s.useAC3 == other.useAC3 &&
		s.hwRate == other.hwRate &&
		s.hwChannels == other.hwChannels
}

// bytesPerFrame returns the byte stride of one frame in hardware format.
func (s *slot) bytesPerFrame() int {
	return s.hwChannels * bytesPerSample
}
