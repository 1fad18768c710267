package audio

import "time"

// producer implements the decoder-facing operations of spec §4.5: it
// is the only goroutine that ever touches Pipeline.write, so its
// methods need no locking beyond the filled atomic the pipeline
// itself already serializes through.
type producer struct {
	pipeline *Pipeline
	matrix   channelMatrix
	control  *controlBlock
	worker   *worker

	amp  *Amplifier
	comp *Compressor
	norm *Normalizer

	stereoDescent int32
	softvol       bool
}

// Setup requests a format for the next slot, per spec §4.4 AddSlot.
func (p *producer) Setup(rate, channels int, useAC3 bool) (Result, error) {
	if rate <= 0 || channels <= 0 {
		return ResultFail, ErrBadArgument
	}

	hwChannels := channels
	hwRate := rate
	if !useAC3 {
		hwChannels = p.matrix.Resolve(rate, channels)
		if hwChannels == 0 {
			return ResultFail, ErrUnsupportedFormat
		}
	}

	if err := p.pipeline.AddSlot(rate, channels, hwRate, hwChannels, useAC3); err != nil {
		return ResultFail, err
	}

	p.control.setRunning(true)
	p.worker.wake()

	if hwChannels != channels {
		return ResultDowngraded, nil
	}
	return ResultOK, nil
}

// Enqueue writes one packet of producer-format samples into the
// current write slot, applying remix, then the amplifier, then
// compress/normalize when enabled, for non-AC3 slots, per spec §4.5.
func (p *producer) Enqueue(samples []int16) {
	s := p.pipeline.WriteSlot()
	if s.hwRate == 0 {
		return
	}

	if s.packetSize == 0 {
		s.packetSize = len(samples) * 2
	}

	var out []byte
	var frameCount int

	if s.useAC3 {
		out = int16ToBytes(samples)
	} else {
		frameCount = len(samples) / s.inChannels
		remixed := Remix(samples, s.inChannels, s.hwChannels, frameCount)

		p.recomputeGain(s)
		p.amp.Apply(remixed)
		if p.comp.Enabled() {
			p.comp.Apply(remixed)
		}
		if p.norm.Enabled() {
			p.norm.Apply(remixed)
		}

		out = int16ToBytes(remixed)
	}

	skip := p.control.getSkipBytes()
	if skip > 0 {
		if skip >= int64(len(out)) {
			p.control.setSkipBytes(skip - int64(len(out)))
			out = nil
		} else {
			out = out[skip:]
			p.control.setSkipBytes(0)
		}
	}

	written := s.buffer.Write(out)
	_ = written

	if !p.control.isRunning() {
		p.maybeStart(s)
	}

	if s.pts != NoPTS && !s.useAC3 {
		bps := int64(bytesPerSample)
		s.pts += int64(len(out)) * PTSRate / (int64(s.hwRate) * int64(s.hwChannels) * bps)
	}
}

// SetVolume sets the software volume.
func (p *producer) SetVolume(v int) {
	p.control.setVolume(v)
}

// SetStereoDescent sets the per-mille attenuation applied on top of
// volume for 2-channel non-AC3 slots, per spec §8.
func (p *producer) SetStereoDescent(descent int32) {
	p.stereoDescent = descent
}

func (p *producer) SetSoftvol(on bool) {
	p.softvol = on
}

// recomputeGain derives the amplifier's effective gain fresh from the
// slot being written, per the spec §8 invariant: with software volume
// active the gain is the volume, less the stereo descent for a
// 2-channel non-AC3 slot, clamped to 0..1000; without software volume
// the gain stays at 1000 and attenuation is left to the hardware mixer.
func (p *producer) recomputeGain(s *slot) {
	if !p.softvol {
		p.amp.SetGain(1000)
		return
	}
	gain := int32(p.control.getVolume())
	if !s.useAC3 && s.hwChannels == 2 {
		gain -= p.stereoDescent
	}
	if gain < 0 {
		gain = 0
	}
	if gain > 1000 {
		gain = 1000
	}
	p.amp.SetGain(gain)
}

func (p *producer) maybeStart(s *slot) {
	used := s.buffer.Used()
	threshold := p.control.startThresholdFor(s.hwRate, s.hwChannels)
	if used > 4*threshold || (p.control.isVideoReady() && used > threshold) {
		p.control.setRunning(true)
		p.worker.wake()
	}
}

// SetClock assigns the write slot's PTS directly, per spec §4.5.
func (p *producer) SetClock(pts int64) {
	p.pipeline.WriteSlot().pts = pts
}

// GetClock reads the read slot's audio clock, per spec §4.5.
func (p *producer) GetClock(backend Backend) int64 {
	if !p.control.isRunning() {
		return NoPTS
	}
	s := p.pipeline.ReadSlot()
	if s.hwRate == 0 {
		return NoPTS
	}
	if p.pipeline.Filled() > 0 {
		return NoPTS
	}

	delay := backend.GetDelay()
	if delay == 0 {
		return NoPTS
	}
	if s.pts == NoPTS {
		return NoPTS
	}

	used := int64(s.buffer.Used())
	bps := int64(bytesPerSample)
	usedPTS := used * PTSRate / (int64(s.hwRate) * int64(s.hwChannels) * bps)
	return s.pts - delay - usedPTS
}

// VideoReady implements spec §4.5's skip-on-late-audio logic.
func (p *producer) VideoReady(videoPTS int64) {
	s := p.pipeline.WriteSlot()
	if videoPTS == NoPTS || s.hwRate == 0 || s.pts == NoPTS {
		p.control.setVideoReady(true)
		return
	}

	used := int64(s.buffer.Used())
	bps := int64(bytesPerSample)
	bytesRate := int64(s.hwRate) * int64(s.hwChannels) * bps
	audioPTS := s.pts - used*PTSRate/bytesRate

	if !p.control.isRunning() {
		bufferTime := int64(p.control.bufferTime())
		delay := p.control.audioDelay()
		skip := videoPTS - 15*20*90 - bufferTime*90 - audioPTS + delay

		if skip > 0 && skip < 2000*90 {
			skipBytes := skip * bytesRate / PTSRate
			// round to a whole frame
			frame := int64(s.hwChannels) * bps
			skipBytes -= skipBytes % frame

			used := s.buffer.Used()
			drop := skipBytes
			if drop > int64(used) {
				drop = int64(used)
			}
			discardFromRing(s.buffer, int(drop))
			p.control.setSkipBytes(skipBytes - drop)
		}

		threshold := p.control.startThresholdFor(s.hwRate, s.hwChannels)
		if s.buffer.Used() > threshold {
			p.control.setRunning(true)
			p.worker.wake()
		}
	}

	p.control.setVideoReady(true)
}

// FlushBuffers rotates to a new slot carrying the previous slot's
// format but marked for a device flush, per spec §4.5.
func (p *producer) FlushBuffers() {
	s := p.pipeline.WriteSlot()
	rate, channels, hwRate, hwChannels, useAC3 := s.inRate, s.inChannels, s.hwRate, s.hwChannels, s.useAC3

	p.control.setVideoReady(false)
	p.control.setSkipBytes(0)

	_ = p.pipeline.AddSlot(rate, channels, hwRate, hwChannels, useAC3)
	p.control.setRunning(true)
	p.worker.wake()

	// Bounded polling for flush completion, per spec §4.5/§9 open
	// question (b): re-signal in case the worker raced back to the
	// outer wait before seeing this wake.
	for i := 0; i < 48; i++ {
		if p.pipeline.Filled() == 0 {
			return
		}
		if !p.control.isRunning() {
			p.control.setRunning(true)
			p.worker.wake()
		}
		time.Sleep(time.Millisecond)
	}
}

func discardFromRing(rb *RingBuffer, n int) {
	remaining := n
	for remaining > 0 {
		run := rb.ReadPointer()
		if len(run) == 0 {
			return
		}
		k := len(run)
		if k > remaining {
			k = remaining
		}
		rb.ReadAdvance(k)
		remaining -= k
	}
}

func int16ToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		out[i*2] = byte(s)
		out[i*2+1] = byte(s >> 8)
	}
	return out
}
