// Package audio implements the playback core of a video player's audio
// output stage: a ring-of-slots pipeline that buffers decoded PCM (or
// AC3 passthrough) from a producer, remixes and filters it to whatever
// format the output device accepts, drives a pluggable hardware backend
// from a dedicated worker goroutine, and exposes an audio clock that a
// video presentation clock can synchronize against.
package audio

import "math"

// NoPTS is the sentinel for an undefined or invalidated timestamp.
const NoPTS = int64(math.MinInt64)

// PTSRate is the number of PTS ticks per second (90kHz), used throughout
// the engine to convert between bytes and presentation time.
const PTSRate = 90000
