package audio

import "testing"

func TestPipeline_AddSlotIncrementsFilled(t *testing.T) {
	p := NewPipeline()
	if err := p.AddSlot(48000, 2, 48000, 2, false); err != nil {
		t.Fatalf("AddSlot: %v", err)
	}
	if p.Filled() != 1 {
		t.Fatalf("Filled() = %d, want 1", p.Filled())
	}
}

func TestPipeline_RingFullBackpressure(t *testing.T) {
	p := NewPipeline()
	for i := 0; i < pipelineSize; i++ {
		if err := p.AddSlot(48000, 2, 48000, 2, false); err != nil {
			t.Fatalf("AddSlot %d: %v", i, err)
		}
	}
	if err := p.AddSlot(48000, 2, 48000, 2, false); err != ErrRingFull {
		t.Fatalf("got %v, want ErrRingFull", err)
	}
}

func TestPipeline_AdvanceDecrementsFilled(t *testing.T) {
	p := NewPipeline()
	p.AddSlot(48000, 2, 48000, 2, false)
	p.AddSlot(44100, 6, 44100, 6, false)

	if p.Filled() != 2 {
		t.Fatalf("Filled() = %d, want 2", p.Filled())
	}
	p.Advance()
	if p.Filled() != 1 {
		t.Fatalf("Filled() after Advance = %d, want 1", p.Filled())
	}
}

func TestPipeline_NewSlotAlwaysCarriesFlushMarker(t *testing.T) {
	p := NewPipeline()
	p.AddSlot(48000, 2, 48000, 2, false)
	n, found := p.PeekFlushTarget()
	if !found {
		t.Fatal("expected a flush marker on a freshly added slot")
	}
	if n != 1 {
		t.Fatalf("n = %d, want 1 (one step forward from the sentinel read slot)", n)
	}
}

func TestPipeline_ConsumeFlushMarkersClearsFlag(t *testing.T) {
	p := NewPipeline()
	p.AddSlot(48000, 2, 48000, 2, false)
	s := p.ConsumeFlushMarkers(1)
	if s.flushBuffers {
		t.Fatal("flushBuffers should be cleared after ConsumeFlushMarkers")
	}
}

func TestSlot_SameFormat(t *testing.T) {
	p := NewPipeline()
	p.AddSlot(48000, 2, 48000, 2, false)
	a := p.ReadSlot()
	p.AddSlot(44100, 6, 44100, 6, false)
	p.Advance()
	b := p.ReadSlot()
	if a.sameFormat(b) {
		t.Fatal("slots with different hw formats should not compare equal")
	}
}
