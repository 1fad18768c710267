package audio

import "testing"

func TestAmplifier_MuteWritesZero(t *testing.T) {
	a := NewAmplifier()
	a.SetMute(true)
	s := []int16{100, -200, 300}
	a.Apply(s)
	for i, v := range s {
		if v != 0 {
			t.Fatalf("sample %d: got %d, want 0", i, v)
		}
	}
}

func TestAmplifier_GainZeroWritesZero(t *testing.T) {
	a := NewAmplifier()
	a.SetGain(0)
	s := []int16{100, -200}
	a.Apply(s)
	for _, v := range s {
		if v != 0 {
			t.Fatalf("got %d, want 0", v)
		}
	}
}

func TestAmplifier_HalfGain(t *testing.T) {
	a := NewAmplifier()
	a.SetGain(500)
	s := []int16{1000}
	a.Apply(s)
	if s[0] != 500 {
		t.Fatalf("got %d, want 500", s[0])
	}
}

func TestCompressor_SilentPacketUnchanged(t *testing.T) {
	c := NewCompressor()
	s := []int16{0, 0, 0}
	c.Apply(s)
	for _, v := range s {
		if v != 0 {
			t.Fatalf("got %d, want 0", v)
		}
	}
}

func TestCompressor_FactorNeverExceedsTarget(t *testing.T) {
	c := NewCompressor()
	c.SetMax(5000)
	s := []int16{16000, -16000}
	c.Apply(s)

	target := int32((int16Max * 1000) / 16000)
	if c.cur > target {
		t.Fatalf("cur=%d exceeds target=%d", c.cur, target)
	}
}

func TestCompressor_Reset(t *testing.T) {
	c := NewCompressor()
	c.SetMax(1500)
	c.Reset()
	if c.cur != 1500 {
		t.Fatalf("cur after reset = %d, want 1500 (capped by max)", c.cur)
	}
}

func TestNormalizer_WarmupHoldsUnityGain(t *testing.T) {
	n := NewNormalizer()
	n.SetEnabled(true)

	block := make([]int16, normalizerBlockSize)
	for i := range block {
		block[i] = 5000
	}

	// 127 full blocks: still warming up, factor must stay 1000.
	for i := 0; i < normalizerWindow-1; i++ {
		cp := make([]int16, len(block))
		copy(cp, block)
		n.Apply(cp)
		for j, v := range cp {
			if v != block[j] {
				t.Fatalf("block %d sample %d: got %d, want unchanged %d (warmup)", i, j, v, block[j])
			}
		}
	}
}

func TestNormalizer_Reset(t *testing.T) {
	n := NewNormalizer()
	n.Apply(make([]int16, normalizerBlockSize*2))
	n.Reset()
	if n.cur != 1000 {
		t.Fatalf("cur after reset = %d, want 1000", n.cur)
	}
	if n.ready != 0 {
		t.Fatalf("ready after reset = %d, want 0", n.ready)
	}
}
