package uartsim

import (
	"net"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// A Socket is the network Transport: a TCP listener accepting at most one
// peer at a time, the accepted connection serving as both byte source and
// byte sink. When the peer goes away, the Socket resumes listening and a new
// peer can attach on a later tick.
//
type Socket struct {
	ln   int // listener descriptor, -1 once closed
	conn int // peer descriptor, -1 while unconnected
}

var _ Transport = (*Socket)(nil)

// ListenTCP opens a listening socket on the given port, bound to all
// interfaces with address reuse enabled. Port 0 binds a kernel assigned
// port; see Addr.
//
func ListenTCP(port int) (*Socket, error) {
	// Raw writes to a dead peer must fail with EPIPE, not kill the process.
	signal.Ignore(syscall.SIGPIPE)

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, errors.Wrap(err, "uartsim: socket")
	}
	unix.CloseOnExec(fd)
	if err = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, errors.Wrap(err, "uartsim: SO_REUSEADDR")
	}
	if err = unix.Bind(fd, &unix.SockaddrInet4{Port: port}); err != nil {
		unix.Close(fd)
		return nil, errors.Wrapf(err, "uartsim: bind port %d", port)
	}
	if err = unix.Listen(fd, 1); err != nil {
		unix.Close(fd)
		return nil, errors.Wrapf(err, "uartsim: listen port %d", port)
	}
	if err = unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, errors.Wrap(err, "uartsim: set listener non-blocking")
	}
	s := &Socket{ln: fd, conn: -1}
	glog.Infof("uartsim: listening on %v", s.Addr())
	return s, nil
}

// Addr returns the listener's bound address, or nil once closed.
//
func (s *Socket) Addr() net.Addr {
	if s.ln < 0 {
		return nil
	}
	sa, err := unix.Getsockname(s.ln)
	if err != nil {
		return nil
	}
	return sockAddr(sa)
}

// PollAccept accepts a pending peer, if any. It reports whether a peer is
// attached after the probe.
//
func (s *Socket) PollAccept() bool {
	if s.conn >= 0 {
		return true
	}
	if s.ln < 0 {
		return false
	}
	fd, sa, err := unix.Accept(s.ln)
	if err != nil {
		if err != unix.EAGAIN && err != unix.EINTR && err != unix.ECONNABORTED {
			glog.Errorf("uartsim: accept: %v", err)
		}
		return false
	}
	unix.CloseOnExec(fd)
	if err = unix.SetNonblock(fd, true); err != nil {
		glog.Errorf("uartsim: set peer non-blocking: %v", err)
		unix.Close(fd)
		return false
	}
	s.conn = fd
	glog.V(1).Infof("uartsim: accepted peer %v", sockAddr(sa))
	return true
}

// TryRead probes the peer for one byte.
//
func (s *Socket) TryRead() (byte, bool) {
	if s.conn < 0 {
		return 0, false
	}
	b, r := readByte(s.conn)
	switch r {
	case ioData:
		return b, true
	case ioEOF:
		s.drop("peer disconnected")
	case ioErr:
		s.drop("read failed")
	}
	return 0, false
}

// TryWrite offers one byte to the peer. A byte the peer cannot take right
// now is dropped without invalidating the connection; a broken connection is
// dropped and the Socket resumes listening.
//
func (s *Socket) TryWrite(b byte) bool {
	if s.conn < 0 {
		return false
	}
	switch writeByte(s.conn, b) {
	case ioData:
		return true
	case ioNone:
		glog.V(3).Info("uartsim: peer stalled, byte dropped")
	case ioErr:
		s.drop("write failed")
	}
	return false
}

// Close closes the peer connection and the listener.
//
func (s *Socket) Close() error {
	var err error
	if s.conn >= 0 {
		err = unix.Close(s.conn)
		s.conn = -1
	}
	if s.ln >= 0 {
		if e := unix.Close(s.ln); err == nil {
			err = e
		}
		s.ln = -1
	}
	return errors.Wrap(err, "uartsim: close")
}

func (s *Socket) drop(why string) {
	glog.V(1).Infof("uartsim: %s, dropping peer", why)
	if s.conn >= 0 {
		unix.Close(s.conn)
		s.conn = -1
	}
}

func sockAddr(sa unix.Sockaddr) net.Addr {
	switch sa := sa.(type) {
	case *unix.SockaddrInet4:
		return &net.TCPAddr{IP: net.IP(sa.Addr[:]), Port: sa.Port}
	case *unix.SockaddrInet6:
		return &net.TCPAddr{IP: net.IP(sa.Addr[:]), Port: sa.Port}
	}
	return nil
}
