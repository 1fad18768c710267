package audio

// supportedRates enumerates the rates the capability probe tries, per
// spec §4.7.
var supportedRates = []int{44100, 48000}

// fallbackOrder gives, for each requested channel count (index 1..8),
// the search order used when that exact count isn't supported by the
// backend at a given rate, per spec §4.7's documented per-cell policy.
var fallbackOrder = map[int][]int{
	1: {1, 2},
	2: {2, 4, 5, 6, 7, 8, 2, 1},
	3: {3, 4, 5, 6, 7, 8, 2, 1},
	4: {4, 5, 6, 7, 8, 2, 1},
	5: {5, 6, 7, 8, 2, 1},
	6: {6, 7, 8, 2, 1},
	7: {7, 8, 6, 2, 1},
	8: {8, 6, 2, 1},
}

// channelMatrix maps a rate to a 9-entry (index 0 unused, 1..8 valid)
// remap vector: matrix[rate][c] gives the hardware channel count to use
// for a request of c channels, or 0 if nothing the backend supports can
// carry it.
type channelMatrix map[int][9]int

// ProbeCapabilities calls backend.Setup for every (rate, channels) pair
// in the matrix and records which succeed, then derives the remap
// vector per spec §4.7. The backend is left in whatever state the last
// probe call put it in; callers must Setup again before real use.
func ProbeCapabilities(b Backend) channelMatrix {
	supported := map[int]map[int]bool{}
	for _, rate := range supportedRates {
		supported[rate] = map[int]bool{}
		for ch := 1; ch <= 8; ch++ {
			result, _, _, err := b.Setup(rate, ch, false)
			if err == nil && result == ResultOK {
				supported[rate][ch] = true
			}
		}
	}

	matrix := channelMatrix{}
	for _, rate := range supportedRates {
		var row [9]int
		for c := 1; c <= 8; c++ {
			order := fallbackOrder[c]
			for _, candidate := range order {
				if supported[rate][candidate] {
					row[c] = candidate
					break
				}
			}
		}
		matrix[rate] = row
	}
	return matrix
}

// Resolve returns the hardware channel count to use for a producer
// request of (rate, channels), or 0 if the rate isn't supported at all
// or no fallback channel count is supported either.
func (m channelMatrix) Resolve(rate, channels int) int {
	row, ok := m[rate]
	if !ok {
		return 0
	}
	if channels < 1 || channels > 8 {
		return 0
	}
	return row[channels]
}
