package audio

import "sync/atomic"

// RingBuffer is a lock-free single-producer/single-consumer byte FIFO.
// The producer writes (Write/Reset) and the worker reads
// (Read/ReadPointer/ReadAdvance); Used and Free may be called from
// either side. The producer also discards from the head of its write
// slot in VideoReady, which it does only while running is false.
// The two atomic cursors publish data
// across goroutines without a mutex: the producer stores writePos after
// the bytes are in place, the worker loads writePos before reading them.
type RingBuffer struct {
	writePos atomic.Uint64
	_pad1    [56]byte // separate cache lines, avoid false sharing
	readPos  atomic.Uint64
	_pad2    [56]byte

	buf []byte
}

// NewRingBuffer allocates a ring buffer of exactly capacity bytes.
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{buf: make([]byte, capacity)}
}

func (rb *RingBuffer) cap() uint64 { return uint64(len(rb.buf)) }

// Write copies up to len(p) bytes into the buffer, returning the number
// actually written (may be less than len(p) if the buffer is full).
func (rb *RingBuffer) Write(p []byte) int {
	w := rb.writePos.Load()
	r := rb.readPos.Load()

	free := rb.cap() - (w - r)
	if free == 0 || len(p) == 0 {
		return 0
	}

	n := uint64(len(p))
	if n > free {
		n = free
	}

	pos := w % rb.cap()
	first := rb.cap() - pos
	if first >= n {
		copy(rb.buf[pos:pos+n], p[:n])
	} else {
		copy(rb.buf[pos:], p[:first])
		copy(rb.buf[:n-first], p[first:n])
	}

	rb.writePos.Store(w + n)
	return int(n)
}

// ReadPointer returns a contiguous run of unread bytes starting at the
// current read cursor, without copying. The caller must call
// ReadAdvance with at most len(run) once it has consumed some or all of
// the run. When the unread region wraps, the returned run stops at the
// physical end of the backing array; a second ReadPointer call after
// advancing past it yields the wrapped remainder.
func (rb *RingBuffer) ReadPointer() []byte {
	w := rb.writePos.Load()
	r := rb.readPos.Load()

	available := w - r
	if available == 0 {
		return nil
	}

	pos := r % rb.cap()
	runLen := rb.cap() - pos
	if runLen > available {
		runLen = available
	}
	return rb.buf[pos : pos+runLen]
}

// ReadAdvance consumes k bytes that were returned by a prior
// ReadPointer call.
func (rb *RingBuffer) ReadAdvance(k int) {
	rb.readPos.Add(uint64(k))
}

// Read copies up to len(p) bytes out of the buffer, returning the number
// actually read. Convenience wrapper around ReadPointer/ReadAdvance for
// callers that need a contiguous copy.
func (rb *RingBuffer) Read(p []byte) int {
	total := 0
	for total < len(p) {
		run := rb.ReadPointer()
		if len(run) == 0 {
			break
		}
		n := copy(p[total:], run)
		rb.ReadAdvance(n)
		total += n
		if n < len(run) {
			break
		}
	}
	return total
}

// Used returns the number of bytes available to read.
func (rb *RingBuffer) Used() int {
	return int(rb.writePos.Load() - rb.readPos.Load())
}

// Free returns the number of bytes available to write.
func (rb *RingBuffer) Free() int {
	return int(rb.cap()) - rb.Used()
}

// Capacity returns the buffer's fixed capacity in bytes.
func (rb *RingBuffer) Capacity() int {
	return int(rb.cap())
}

// Reset discards all buffered bytes without freeing the backing array.
// Only safe to call when producer and worker are both quiescent with
// respect to this slot (pipeline rotation guarantees this).
func (rb *RingBuffer) Reset() {
	r := rb.readPos.Load()
	rb.writePos.Store(r)
}
