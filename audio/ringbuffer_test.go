package audio

import (
	"sync"
	"testing"
)

func TestRingBuffer_WriteReadRoundTrip(t *testing.T) {
	rb := NewRingBuffer(16)
	in := []byte{1, 2, 3, 4, 5}
	if n := rb.Write(in); n != len(in) {
		t.Fatalf("Write: got %d, want %d", n, len(in))
	}

	out := make([]byte, 5)
	if n := rb.Read(out); n != 5 {
		t.Fatalf("Read: got %d, want 5", n)
	}
	if string(out) != string(in) {
		t.Fatalf("roundtrip mismatch: got %v, want %v", out, in)
	}
}

func TestRingBuffer_WrapAround(t *testing.T) {
	rb := NewRingBuffer(8)
	rb.Write([]byte{1, 2, 3, 4, 5, 6})
	out := make([]byte, 4)
	rb.Read(out)

	rb.Write([]byte{7, 8, 9, 10})

	rest := make([]byte, 6)
	n := rb.Read(rest)
	if n != 6 {
		t.Fatalf("got %d bytes, want 6", n)
	}
	want := []byte{5, 6, 7, 8, 9, 10}
	for i, v := range want {
		if rest[i] != v {
			t.Fatalf("byte %d: got %d, want %d", i, rest[i], v)
		}
	}
}

func TestRingBuffer_FullReturnsShortWrite(t *testing.T) {
	rb := NewRingBuffer(4)
	n := rb.Write([]byte{1, 2, 3, 4, 5})
	if n != 4 {
		t.Fatalf("got %d, want 4 (capacity-limited)", n)
	}
	if rb.Free() != 0 {
		t.Fatalf("Free() = %d, want 0", rb.Free())
	}
}

func TestRingBuffer_UsedAndFree(t *testing.T) {
	rb := NewRingBuffer(10)
	rb.Write([]byte{1, 2, 3})
	if rb.Used() != 3 {
		t.Fatalf("Used() = %d, want 3", rb.Used())
	}
	if rb.Free() != 7 {
		t.Fatalf("Free() = %d, want 7", rb.Free())
	}
}

func TestRingBuffer_Reset(t *testing.T) {
	rb := NewRingBuffer(8)
	rb.Write([]byte{1, 2, 3})
	rb.Reset()
	if rb.Used() != 0 {
		t.Fatalf("Used() after Reset = %d, want 0", rb.Used())
	}
	if rb.Free() != 8 {
		t.Fatalf("Free() after Reset = %d, want 8", rb.Free())
	}
}

// TestRingBuffer_SPSCConcurrent exercises the single-producer/
// single-consumer contract under the race detector: one goroutine
// writes, another reads, and the total bytes observed must match.
func TestRingBuffer_SPSCConcurrent(t *testing.T) {
	rb := NewRingBuffer(64)
	const total = 100000

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		chunk := make([]byte, 7)
		for i := range chunk {
			chunk[i] = byte(i)
		}
		written := 0
		for written < total {
			n := rb.Write(chunk[:min(len(chunk), total-written)])
			written += n
		}
	}()

	read := 0
	go func() {
		defer wg.Done()
		buf := make([]byte, 13)
		for read < total {
			n := rb.Read(buf)
			read += n
		}
	}()

	wg.Wait()
	if read != total {
		t.Fatalf("read %d bytes, want %d", read, total)
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
