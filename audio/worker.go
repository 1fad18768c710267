package audio

import (
	"context"
	"log"
	"sync"
	"time"
)

// worker runs the single playback loop described in spec §4.6. It owns
// nothing but the pipeline's read side and the backend; all producer
// interaction happens through the control block's wake signal.
type worker struct {
	pipeline *Pipeline
	backend  Backend
	control  *controlBlock
	comp     *Compressor
	norm     *Normalizer
	logger   *log.Logger

	mu   sync.Mutex
	cond *sync.Cond

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newWorker(p *Pipeline, b Backend, c *controlBlock, comp *Compressor, norm *Normalizer, logger *log.Logger) *worker {
	w := &worker{
		pipeline: p,
		backend:  b,
		control:  c,
		comp:     comp,
		norm:     norm,
		logger:   logger,
		done:     make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	w.ctx, w.cancel = context.WithCancel(context.Background())
	return w
}

// wake signals the worker that there is work: a new slot, a resume, or
// a flush request. Replaces the C original's pthread cond_signal and
// its "zero-length enqueue just to wake the worker" hack (spec §9
// open question (c)): producer callers use control.setRunning/resume
// explicitly instead.
func (w *worker) wake() {
	w.mu.Lock()
	w.cond.Broadcast()
	w.mu.Unlock()
}

func (w *worker) stop() {
	w.cancel()
	w.wake()
	<-w.done
}

// run is the worker goroutine's entry point.
func (w *worker) run() {
	defer close(w.done)
	for {
		w.mu.Lock()
		for !w.control.isRunning() && w.ctx.Err() == nil {
			w.cond.Wait()
		}
		w.mu.Unlock()

		if w.ctx.Err() != nil {
			return
		}

		w.drive()
	}
}

// drive is the inner "repeat...until" loop from spec §4.6: it keeps
// calling backend.Thread on the current read slot, advancing on
// underrun, until the read slot has hwRate==0 (sentinel for "no device
// bound yet") or the pipeline drains to empty.
func (w *worker) drive() {
	for {
		if w.ctx.Err() != nil {
			return
		}

		if n, found := w.pipeline.PeekFlushTarget(); found {
			s := w.pipeline.ConsumeFlushMarkers(n)
			w.backend.FlushBuffers()
			w.applyFormatChange(s)
			if s.buffer.Used() < w.control.startThresholdFor(s.hwRate, s.hwChannels) {
				w.control.setRunning(false)
				return
			}
		}

		s := w.pipeline.ReadSlot()
		if s.hwRate == 0 {
			w.control.setRunning(false)
			return
		}

		result := w.backend.Thread(w.ctx, s.buffer, w.control.isPaused)

		switch result {
		case ThreadUnderrun:
			if w.pipeline.Filled() == 0 {
				w.control.setRunning(false)
				return
			}
			old := s
			next := w.pipeline.Advance()
			if !next.sameFormat(old) {
				w.applyFormatChange(next)
				if next.buffer.Used() < w.control.startThresholdFor(next.hwRate, next.hwChannels) {
					w.control.setRunning(false)
					return
				}
			} else {
				w.comp.Reset()
				w.norm.Reset()
			}
		case ThreadError:
			w.logger.Printf("audio: backend error, retrying")
			time.Sleep(24 * time.Millisecond)
		}
	}
}

// applyFormatChange re-opens the backend for the new slot's hardware
// format, per spec §4.4's Advance rule and §4.1's "close+reopen on
// every format change" requirement.
func (w *worker) applyFormatChange(s *slot) {
	result, rate, channels, err := w.backend.Setup(s.hwRate, s.hwChannels, s.useAC3)
	if err != nil {
		w.logger.Printf("audio: backend setup failed: %v", err)
		return
	}
	if result == ResultDowngraded {
		w.logger.Printf("audio: backend downgraded format to %d Hz / %d ch", rate, channels)
		s.hwRate, s.hwChannels = rate, channels
	}
	w.backend.Play()
	w.comp.Reset()
	w.norm.Reset()
}
