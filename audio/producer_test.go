package audio

import (
	"testing"
	"time"
)

func TestProducer_SetVolumeWithStereoDescent(t *testing.T) {
	e := newEngineWithBackend(newMockBackend())
	defer e.Exit()

	e.Setup(48000, 2, false)
	e.SetSoftvol(true)
	e.SetStereoDescent(100)
	e.SetVolume(800)

	e.producer.recomputeGain(e.pipeline.WriteSlot())
	if got := e.amp.Gain(); got != 700 {
		t.Fatalf("effective gain = %d, want clamp(800-100,0,1000) = 700", got)
	}
}

func TestProducer_SetVolumeClampsAtZero(t *testing.T) {
	e := newEngineWithBackend(newMockBackend())
	defer e.Exit()

	e.Setup(48000, 2, false)
	e.SetSoftvol(true)
	e.SetStereoDescent(2000)
	e.SetVolume(100)

	e.producer.recomputeGain(e.pipeline.WriteSlot())
	if got := e.amp.Gain(); got != 0 {
		t.Fatalf("effective gain = %d, want 0 (clamped)", got)
	}
}

func TestProducer_EnqueueDropsWithoutFormat(t *testing.T) {
	e := newEngineWithBackend(newMockBackend())
	defer e.Exit()

	// No Setup call yet: the write slot is the sentinel with hwRate==0.
	e.Enqueue(make([]int16, 100))
	if e.pipeline.WriteSlot().buffer.Used() != 0 {
		t.Fatal("Enqueue before Setup should drop samples silently")
	}
}

func TestProducer_VideoReadyBeforeClockSetIsIgnored(t *testing.T) {
	e := newEngineWithBackend(newMockBackend())
	defer e.Exit()

	e.Setup(48000, 2, false)
	// Setup leaves running set until the worker has consumed the new
	// slot's flush marker; wait for it to stop again.
	deadline := time.Now().Add(time.Second)
	for (e.Stats().Filled != 0 || e.Stats().Running) && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	// SetClock is never called, so the write slot's pts is still NoPTS.
	e.Enqueue(make([]int16, 960))

	e.VideoReady(1234567)

	if e.Stats().Running {
		t.Fatal("VideoReady with no pts set should not start playback")
	}
	if got := e.control.getSkipBytes(); got != 0 {
		t.Fatalf("skipBytes = %d, want 0 (no skip computed without a clock)", got)
	}
}

func TestEngine_AC3SetupFailsOverToNoopWhenBackendCantCarryIt(t *testing.T) {
	e := newEngineWithBackend(&mockBackend{noAC3: true, supportedChannels: map[int]map[int]bool{}})
	defer e.Exit()

	if _, err := e.Setup(48000, 2, true); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if _, ok := e.backend.(*NoopBackend); !ok {
		t.Fatalf("backend = %T, want *NoopBackend after AC3 failover", e.backend)
	}
}

func TestEngine_AC3SetupKeepsBackendWhenCapable(t *testing.T) {
	mock := newMockBackend()
	e := newEngineWithBackend(mock)
	defer e.Exit()

	if _, err := e.Setup(48000, 2, true); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if e.backend != mock {
		t.Fatal("backend should not be swapped when it is AC3-capable")
	}
}

func TestProducer_PTSAdvancesByExactByteCount(t *testing.T) {
	e := newEngineWithBackend(newMockBackend())
	defer e.Exit()

	e.Setup(48000, 2, false)
	e.SetClock(0)

	frames := 480 // 10ms at 48kHz
	e.Enqueue(make([]int16, frames*2))

	want := int64(frames*2*2) * PTSRate / (48000 * 2 * 2)
	if got := e.pipeline.WriteSlot().pts; got != want {
		t.Fatalf("pts = %d, want %d", got, want)
	}
}
