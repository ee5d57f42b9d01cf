package uartsim

import (
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// A Pair is the descriptor pair Transport: a fixed byte source and byte sink
// supplied at construction, typically pipe ends inherited from a parent test
// driver. A Pair never reconnects; each side stays down once it fails, and
// the two sides go down independently.
//
type Pair struct {
	rfd int // source, -1 when down
	wfd int // sink, -1 when down
}

var _ Transport = (*Pair)(nil)

// Descriptors returns a Pair reading bytes from rfd and writing bytes to
// wfd. A negative descriptor marks that side as absent from the start.
//
// The descriptors' file status flags are left untouched (they may be shared
// with the parent); probes poll with a zero timeout instead of switching the
// descriptors to non-blocking mode.
//
func Descriptors(rfd, wfd int) *Pair {
	signal.Ignore(syscall.SIGPIPE)
	return &Pair{rfd: rfd, wfd: wfd}
}

// Stdio returns a Pair over the process's standard input and output, for
// running as a child process whose stdio a parent driver has redirected.
//
func Stdio() *Pair {
	return Descriptors(0, 1)
}

// PollAccept reports whether either side is still up. A Pair never attaches
// anything new.
//
func (p *Pair) PollAccept() bool {
	return p.rfd >= 0 || p.wfd >= 0
}

// TryRead probes the source for one byte. EOF or a read error takes the
// source down for good. The descriptor itself is not closed: it is owned by
// whoever supplied it.
//
func (p *Pair) TryRead() (byte, bool) {
	if p.rfd < 0 || !pollIn(p.rfd) {
		return 0, false
	}
	b, r := readByte(p.rfd)
	switch r {
	case ioData:
		return b, true
	case ioEOF:
		glog.V(1).Info("uartsim: source closed")
		p.rfd = -1
	case ioErr:
		glog.Error("uartsim: source read failed")
		p.rfd = -1
	}
	return 0, false
}

// TryWrite offers one byte to the sink. A sink that cannot take the byte
// right now drops it; a broken sink goes down for good.
//
func (p *Pair) TryWrite(b byte) bool {
	if p.wfd < 0 {
		return false
	}
	ready, broken := pollOut(p.wfd)
	if broken {
		glog.V(1).Info("uartsim: sink gone")
		p.wfd = -1
		return false
	}
	if !ready {
		glog.V(3).Info("uartsim: sink full, byte dropped")
		return false
	}
	switch writeByte(p.wfd, b) {
	case ioData:
		return true
	case ioNone:
		glog.V(3).Info("uartsim: sink full, byte dropped")
	case ioErr:
		glog.Error("uartsim: sink write failed")
		p.wfd = -1
	}
	return false
}

// Close closes both descriptors, taking care never to close the process's
// own standard streams.
//
func (p *Pair) Close() error {
	var err error
	if p.rfd > 2 {
		err = unix.Close(p.rfd)
	}
	p.rfd = -1
	if p.wfd > 2 {
		if e := unix.Close(p.wfd); err == nil {
			err = e
		}
	}
	p.wfd = -1
	return errors.Wrap(err, "uartsim: close")
}
