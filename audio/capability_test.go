package audio

import "testing"

func TestProbeCapabilities_ExactMatchPreferred(t *testing.T) {
	b := newMockBackend()
	m := ProbeCapabilities(b)
	if got := m.Resolve(48000, 2); got != 2 {
		t.Fatalf("Resolve(48000,2) = %d, want 2", got)
	}
}

func TestProbeCapabilities_FallsBackWhenUnsupported(t *testing.T) {
	b := newMockBackend()
	m := ProbeCapabilities(b)
	// 3 channels isn't in the mock's supported set at either rate, so
	// the fallback order for 3 (3,4,5,6,7,8,2,1) should land on 4 if
	// supported, else keep searching; the mock only supports
	// {1,2,6,8}, so it should land on 6.
	if got := m.Resolve(48000, 3); got != 6 {
		t.Fatalf("Resolve(48000,3) = %d, want 6", got)
	}
}

func TestProbeCapabilities_UnsupportedRateResolvesToZero(t *testing.T) {
	b := newMockBackend()
	m := ProbeCapabilities(b)
	if got := m.Resolve(96000, 2); got != 0 {
		t.Fatalf("Resolve(96000,2) = %d, want 0", got)
	}
}

func TestProbeCapabilities_StereoFallsBackThroughSurroundBeforeMono(t *testing.T) {
	// A 5.1-only device: stereo isn't directly supported, but the 6->2
	// remix exists precisely so a request for 2 channels can still land
	// on 6 rather than collapsing straight to mono.
	b := &mockBackend{supportedChannels: map[int]map[int]bool{
		48000: {6: true, 1: true},
	}}
	m := ProbeCapabilities(b)
	if got := m.Resolve(48000, 2); got != 6 {
		t.Fatalf("Resolve(48000,2) = %d, want 6", got)
	}
}

func TestProbeCapabilities_FiveOneNeverFallsBackToQuad(t *testing.T) {
	// Only 4 and 1 are supported; the fallback order for 5 (5,6,7,8,2,1)
	// must never land on 4, even though 4 is available.
	b := &mockBackend{supportedChannels: map[int]map[int]bool{
		48000: {4: true, 1: true},
	}}
	m := ProbeCapabilities(b)
	if got := m.Resolve(48000, 5); got != 1 {
		t.Fatalf("Resolve(48000,5) = %d, want 1 (must not pick 4)", got)
	}
}

func TestProbeCapabilities_SixOneNeverFallsBackToFiveOrQuad(t *testing.T) {
	b := &mockBackend{supportedChannels: map[int]map[int]bool{
		48000: {5: true, 4: true, 1: true},
	}}
	m := ProbeCapabilities(b)
	if got := m.Resolve(48000, 6); got != 1 {
		t.Fatalf("Resolve(48000,6) = %d, want 1 (must not pick 5 or 4)", got)
	}
}

func TestProbeCapabilities_SevenOneFallsBackToSixBeforeStereo(t *testing.T) {
	// The fallback order for 7 is 7,8,6,2,1: with both 6 and 2
	// supported, 6 must win since it comes first.
	b := &mockBackend{supportedChannels: map[int]map[int]bool{
		48000: {6: true, 2: true, 1: true},
	}}
	m := ProbeCapabilities(b)
	if got := m.Resolve(48000, 7); got != 6 {
		t.Fatalf("Resolve(48000,7) = %d, want 6", got)
	}
}
