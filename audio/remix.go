package audio

// Remix downmixes/upmixes one frame block of interleaved 16-bit signed
// samples from inCh to outCh channels, returning a freshly allocated
// slice holding frameCount frames at outCh channels.
//
// Input channel order follows the fixed layout implied by the per-mille
// coefficient contract (spec §4.3): L, R, [Ls, Rs], [C], [LFE], [RL, RR],
// built up as channel count grows:
//
//	1: mono
//	2: L R
//	3: L R C
//	4: L R Ls Rs
//	5: L R Ls Rs C
//	6: L R Ls Rs C LFE
//	7: L R Ls Rs C RL RR
//	8: L R Ls Rs C LFE RL RR
//
// Any (inCh, outCh) combination not covered by the table below produces
// silence of the requested output length rather than an error, so a
// misconfigured slot never aborts playback.
func Remix(in []int16, inCh int, outCh int, frameCount int) []int16 {
	out := make([]int16, frameCount*outCh)

	if inCh == outCh {
		copy(out, in[:frameCount*inCh])
		return out
	}

	if inCh == 5 && outCh == 6 {
		upmix5to6(in, out, frameCount)
		return out
	}

	mix, ok := remixTable[remixKey{inCh, outCh}]
	if !ok {
		return out // silence
	}

	for f := 0; f < frameCount; f++ {
		src := in[f*inCh : f*inCh+inCh]
		dst := out[f*outCh : f*outCh+outCh]
		mix(src, dst)
	}
	return out
}

type remixKey struct{ inCh, outCh int }

type remixFunc func(src, dst []int16)

var remixTable = map[remixKey]remixFunc{
	{2, 1}: func(src, dst []int16) {
		dst[0] = clampI16((int32(src[0]) + int32(src[1])) / 2)
	},
	{1, 2}: func(src, dst []int16) {
		dst[0] = src[0]
		dst[1] = src[0]
	},
	{3, 2}: func(src, dst []int16) { // L R C
		l, r, c := int32(src[0]), int32(src[1]), int32(src[2])
		dst[0] = clampI16((600*l + 400*c) / 1000)
		dst[1] = clampI16((600*r + 400*c) / 1000)
	},
	{4, 2}: func(src, dst []int16) { // L R Ls Rs
		l, r, ls, rs := int32(src[0]), int32(src[1]), int32(src[2]), int32(src[3])
		dst[0] = clampI16((600*l + 400*ls) / 1000)
		dst[1] = clampI16((600*r + 400*rs) / 1000)
	},
	{5, 2}: func(src, dst []int16) { // L R Ls Rs C
		l, r, ls, rs, c := int32(src[0]), int32(src[1]), int32(src[2]), int32(src[3]), int32(src[4])
		dst[0] = clampI16((500*l + 200*ls + 300*c) / 1000)
		dst[1] = clampI16((500*r + 200*rs + 300*c) / 1000)
	},
	{6, 2}: func(src, dst []int16) { // L R Ls Rs C LFE
		l, r, ls, rs, c, lfe := int32(src[0]), int32(src[1]), int32(src[2]), int32(src[3]), int32(src[4]), int32(src[5])
		dst[0] = clampI16((400*l + 200*ls + 300*c + 300*lfe) / 1000)
		dst[1] = clampI16((400*r + 200*rs + 300*c + 100*lfe) / 1000)
	},
	{7, 2}: func(src, dst []int16) { // L R Ls Rs C RL RR
		l, r, ls, rs, c, rl, rr := int32(src[0]), int32(src[1]), int32(src[2]), int32(src[3]), int32(src[4]), int32(src[5]), int32(src[6])
		dst[0] = clampI16((400*l + 200*ls + 300*c + 100*rl) / 1000)
		dst[1] = clampI16((400*r + 200*rs + 300*c + 100*rr) / 1000)
	},
	{8, 2}: func(src, dst []int16) { // L R Ls Rs C LFE RL RR
		l, r, ls, rs, c, lfe, rl, rr := int32(src[0]), int32(src[1]), int32(src[2]), int32(src[3]), int32(src[4]), int32(src[5]), int32(src[6]), int32(src[7])
		dst[0] = clampI16((400*l + 150*ls + 250*c + 100*lfe + 100*rl) / 1000)
		dst[1] = clampI16((400*r + 150*rs + 250*c + 100*lfe + 100*rr) / 1000)
	},
}

// upmix5to6 inserts a zeroed LFE channel: L R Ls Rs C -> L R Ls Rs C LFE.
func upmix5to6(in, out []int16, frameCount int) {
	for f := 0; f < frameCount; f++ {
		src := in[f*5 : f*5+5]
		dst := out[f*6 : f*6+6]
		copy(dst[:5], src)
		dst[5] = 0
	}
}

func clampI16(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
