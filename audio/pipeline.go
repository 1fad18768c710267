package audio

import "sync/atomic"

// pipelineSize is the fixed ring-of-slots depth (spec §3).
const pipelineSize = 8

// Pipeline is the ring-of-rings buffer: a fixed array of slots with a
// read index owned by the worker, a write index owned by the producer,
// and an atomic filled counter that publishes slot ownership transfer
// across the two goroutines (spec §3/§9).
type Pipeline struct {
	slots [pipelineSize]*slot

	write int
	read  int

	filled atomic.Int32
}

func NewPipeline() *Pipeline {
	p := &Pipeline{}
	for i := range p.slots {
		p.slots[i] = newSlot()
	}
	return p
}

func (p *Pipeline) Filled() int { return int(p.filled.Load()) }

// WriteSlot returns the slot currently owned by the producer.
func (p *Pipeline) WriteSlot() *slot { return p.slots[p.write] }

// ReadSlot returns the slot currently owned by the worker.
func (p *Pipeline) ReadSlot() *slot { return p.slots[p.read] }

// AddSlot introduces a new producer-owned slot, per spec §4.4. Returns
// ErrRingFull if all 8 slots are in flight.
func (p *Pipeline) AddSlot(inRate, inChannels, hwRate, hwChannels int, useAC3 bool) error {
	if p.Filled() >= pipelineSize {
		return ErrRingFull
	}
	p.write = (p.write + 1) % pipelineSize
	p.slots[p.write].reset(inRate, inChannels, hwRate, hwChannels, useAC3)
	p.filled.Add(1)
	return nil
}

// Advance is the worker-side consume step: it releases the current read
// slot and moves to the next one, returning the newly current slot.
// Callers must have already confirmed filled > 0.
func (p *Pipeline) Advance() *slot {
	p.read = (p.read + 1) % pipelineSize
	p.filled.Add(-1)
	return p.slots[p.read]
}

// PeekFlushTarget scans forward from the read slot through the filled
// range looking for the latest slot carrying a flush marker, per spec
// §4.4's Advance rule: flush markers are consumed up to and including
// the latest one found, collapsing multiple pending flushes into one
// backend flush_buffers() call.
//
// Returns the number of slots to advance past (0 if no flush marker is
// pending) and whether one was found at all. The scan walks read+1
// through read+filled (filled never counts the read slot itself — see
// AddSlot/Advance), mirroring the original's single-pass flush scan
// that folds several pending flushes into one.
func (p *Pipeline) PeekFlushTarget() (int, bool) {
	filled := p.Filled()
	found := -1
	for i := 1; i <= filled; i++ {
		idx := (p.read + i) % pipelineSize
		if p.slots[idx].flushBuffers {
			found = i
		}
	}
	if found < 0 {
		return 0, false
	}
	return found, true
}

// ConsumeFlushMarkers advances the read cursor by n slots (n as
// returned by PeekFlushTarget) and clears the flush marker on the
// slot it lands on, then returns that slot.
func (p *Pipeline) ConsumeFlushMarkers(n int) *slot {
	for i := 0; i < n; i++ {
		p.Advance()
	}
	s := p.slots[p.read]
	s.flushBuffers = false
	return s
}
