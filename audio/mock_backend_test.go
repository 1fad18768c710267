package audio

import "context"

// mockBackend is an in-memory Backend used by tests that need
// deterministic control over Setup results and delay, without a real
// device.
type mockBackend struct {
	supportedChannels map[int]map[int]bool // rate -> channels -> ok
	delay             int64
	volume            int
	playCalls         int
	pauseCalls        int
	flushCalls        int
	setupCalls        int
	noAC3             bool // when true, ac3Capable reports false
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		supportedChannels: map[int]map[int]bool{
			44100: {1: true, 2: true, 6: true},
			48000: {1: true, 2: true, 6: true, 8: true},
		},
	}
}

func (m *mockBackend) Init() error { return nil }
func (m *mockBackend) Exit()       {}

func (m *mockBackend) Setup(rate, channels int, useAC3 bool) (Result, int, int, error) {
	m.setupCalls++
	if m.supportedChannels[rate][channels] {
		return ResultOK, rate, channels, nil
	}
	return ResultFail, 0, 0, ErrUnsupportedFormat
}

func (m *mockBackend) Play()            { m.playCalls++ }
func (m *mockBackend) Pause()           { m.pauseCalls++ }
func (m *mockBackend) FlushBuffers()    { m.flushCalls++ }
func (m *mockBackend) GetDelay() int64  { return m.delay }
func (m *mockBackend) SetVolume(v int)  { m.volume = v }
func (m *mockBackend) ac3Capable() bool { return !m.noAC3 }

func (m *mockBackend) Thread(ctx context.Context, src *RingBuffer, paused func() bool) ThreadResult {
	if ctx.Err() != nil {
		return ThreadError
	}
	if paused() {
		return ThreadRunning
	}
	run := src.ReadPointer()
	if len(run) == 0 {
		return ThreadUnderrun
	}
	src.ReadAdvance(len(run))
	return ThreadRunning
}
