package audio

import "errors"

// Sentinel error kinds, matched with errors.Is by callers that need to
// branch on failure class rather than parse a message.
var (
	ErrUnsupportedFormat = errors.New("audio: unsupported rate or channel count")
	ErrBackendOpenFailed = errors.New("audio: backend failed to open device")
	ErrBackendUnderrun   = errors.New("audio: backend write underrun")
	ErrBackendFatal      = errors.New("audio: backend failed after recovery")
	ErrRingFull          = errors.New("audio: no free ring slot")
	ErrBadArgument       = errors.New("audio: bad argument")
)

// Result mirrors the legacy numeric return codes of the original C ABI
// (spec §6) for callers migrating from it. Use the returned error for
// anything beyond ok/downgraded/fail.
type Result int

const (
	ResultOK         Result = 0
	ResultDowngraded Result = 1
	ResultFail       Result = -1
)
