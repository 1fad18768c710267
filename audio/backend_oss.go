package audio

import (
	"context"
	"os"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// OSS ioctl request numbers from Linux's soundcard.h. golang.org/x/sys/unix
// carries no OSS-specific constants, so these are defined directly and
// issued through unix.Syscall(SYS_IOCTL, ...) rather than a library.
const (
	snddspReset     = 0x00005000
	snddspSpeed     = 0xc0045002
	snddspSetfmt    = 0xc0045005
	snddspChannels  = 0xc0045006
	snddspGetospace = 0x8010500c
	afmtS16LE       = 0x00000010
)

// ossIoctlInt issues a pointer-based int ioctl and returns the value
// the driver wrote back, matching OSS's in/out "request the nearest
// supported value" convention for SETFMT/SPEED/CHANNELS.
func ossIoctlInt(fd int, req uint, value int) (int, error) {
	v := int32(value)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(unsafe.Pointer(&v)))
	if errno != 0 {
		return 0, errno
	}
	return int(v), nil
}

// ossAudioBufInfo mirrors struct audio_buf_info from soundcard.h, used
// with SNDCTL_DSP_GETOSPACE to learn buffered/free bytes for GetDelay.
type ossAudioBufInfo struct {
	Fragments  int32
	Fragstotal int32
	Fragsize   int32
	Bytes      int32
}

func ossGetOSpace(fd int) (ossAudioBufInfo, error) {
	var info ossAudioBufInfo
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(snddspGetospace), uintptr(unsafe.Pointer(&info)))
	if errno != 0 {
		return info, errno
	}
	return info, nil
}

// OSSBackend drives a "/"-prefixed device name through raw OSS ioctls
// (golang.org/x/sys/unix), per spec §6: no Go OSS library exists in
// the example corpus, so this is the one backend built directly on
// ioctl syscalls rather than a third-party wrapper.
type OSSBackend struct {
	path string

	mu       sync.Mutex
	f        *os.File
	rate     int
	channels int
	volume   int
	paused   bool
}

func NewOSSBackend(path string) *OSSBackend {
	return &OSSBackend{path: path, volume: 1000}
}

func (b *OSSBackend) Init() error { return nil }

func (b *OSSBackend) Exit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeLocked()
}

func (b *OSSBackend) closeLocked() {
	if b.f != nil {
		b.f.Close()
		b.f = nil
	}
}

// Setup closes and reopens the device, then negotiates format, channel
// count, and rate in that order (OSS's documented negotiation order),
// reporting downgraded if the driver didn't accept what was asked.
func (b *OSSBackend) Setup(rate, channels int, useAC3 bool) (Result, int, int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closeLocked()

	f, err := os.OpenFile(b.path, os.O_WRONLY, 0)
	if err != nil {
		return ResultFail, 0, 0, ErrBackendOpenFailed
	}
	fd := int(f.Fd())

	if _, err := ossIoctlInt(fd, snddspSetfmt, afmtS16LE); err != nil {
		f.Close()
		return ResultFail, 0, 0, ErrBackendOpenFailed
	}

	gotCh, err := ossIoctlInt(fd, snddspChannels, channels)
	if err != nil {
		f.Close()
		return ResultFail, 0, 0, ErrBackendOpenFailed
	}

	gotRate, err := ossIoctlInt(fd, snddspSpeed, rate)
	if err != nil {
		f.Close()
		return ResultFail, 0, 0, ErrBackendOpenFailed
	}

	b.f = f
	b.rate, b.channels = gotRate, gotCh

	if gotRate != rate || gotCh != channels {
		return ResultDowngraded, gotRate, gotCh, nil
	}
	return ResultOK, rate, channels, nil
}

func (b *OSSBackend) Play() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paused = false
}

func (b *OSSBackend) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paused = true
}

func (b *OSSBackend) FlushBuffers() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.f == nil {
		return
	}
	_, _, _ = unix.Syscall(unix.SYS_IOCTL, b.f.Fd(), uintptr(snddspReset), 0)
}

func (b *OSSBackend) GetDelay() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.f == nil {
		return 0
	}
	info, err := ossGetOSpace(int(b.f.Fd()))
	if err != nil {
		return 0
	}
	buffered := info.Fragstotal*info.Fragsize - info.Bytes
	if buffered <= 0 || b.rate == 0 || b.channels == 0 {
		return 0
	}
	frames := int64(buffered) / int64(b.channels*2)
	return frames * PTSRate / int64(b.rate)
}

func (b *OSSBackend) SetVolume(v int) {
	b.mu.Lock()
	b.volume = v
	b.mu.Unlock()
}

// ac3Capable is true: OSS carries AC3 passthrough via IEC958, same as
// ALSA.
func (b *OSSBackend) ac3Capable() bool { return true }

func (b *OSSBackend) Thread(ctx context.Context, src *RingBuffer, paused func() bool) ThreadResult {
	if ctx.Err() != nil {
		return ThreadError
	}
	if paused() {
		return ThreadRunning
	}

	b.mu.Lock()
	f := b.f
	b.mu.Unlock()
	if f == nil {
		return ThreadError
	}

	run := src.ReadPointer()
	if len(run) == 0 {
		return ThreadUnderrun
	}
	n, err := f.Write(run)
	if err != nil {
		return ThreadError
	}
	if n > 0 {
		src.ReadAdvance(n)
	}
	return ThreadRunning
}
