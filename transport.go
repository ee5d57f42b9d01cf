package uartsim

import (
	"golang.org/x/sys/unix"
)

// A Transport shuttles decoded bytes between a simulator and the outside
// world. Implementations must never block: every method is a bounded probe,
// called from within Tick.
//
// The two implementations in this package are Socket (a TCP listener plus at
// most one accepted peer) and Pair (two fixed descriptors). Failed reads and
// writes invalidate the affected side internally; callers only ever see "no
// byte" or "byte not taken".
//
type Transport interface {
	// PollAccept gives the transport a chance to attach a pending peer and
	// reports whether a peer is attached after the probe. Only the network
	// variant ever changes state here.
	PollAccept() bool

	// TryRead probes the byte source for exactly one byte.
	TryRead() (byte, bool)

	// TryWrite offers exactly one byte to the byte sink and reports whether
	// it was taken. An untaken byte is gone; the simulator does not buffer.
	TryWrite(b byte) bool

	// Close releases whatever descriptors the transport still holds.
	Close() error
}

// Outcome of a one byte probe.
const (
	ioData = iota // got/put a byte
	ioNone        // would block, side still healthy
	ioEOF         // orderly close
	ioErr         // hard error
)

// pollIn reports whether fd has a read pending (data or EOF).
func pollIn(fd int) bool {
	pfd := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	n, err := unix.Poll(pfd, 0)
	if err != nil || n == 0 {
		return false
	}
	return pfd[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0
}

// pollOut reports whether fd can take a byte right now, and whether the
// other end is gone.
func pollOut(fd int) (ready, broken bool) {
	pfd := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLOUT}}
	n, err := unix.Poll(pfd, 0)
	if err != nil || n == 0 {
		return false, false
	}
	if pfd[0].Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
		return false, true
	}
	return pfd[0].Revents&unix.POLLOUT != 0, false
}

// readByte reads exactly one byte from fd without blocking. fd must either
// be in non-blocking mode or known readable.
func readByte(fd int) (byte, int) {
	var b [1]byte
	for {
		n, err := unix.Read(fd, b[:])
		switch {
		case n == 1:
			return b[0], ioData
		case n == 0 && err == nil:
			return 0, ioEOF
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return 0, ioNone
		default:
			return 0, ioErr
		}
	}
}

// writeByte writes exactly one byte to fd without blocking. fd must either
// be in non-blocking mode or known writable.
func writeByte(fd int, b byte) int {
	buf := [1]byte{b}
	for {
		n, err := unix.Write(fd, buf[:])
		switch {
		case n == 1:
			return ioData
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return ioNone
		default:
			return ioErr
		}
	}
}
