package uartsim_test

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/db47h/uartsim"
)

// run advances a loopback simulation, the output bit wired back onto the
// input, n ticks at a time.
func run(u *uartsim.UART, bit, n int) int {
	for i := 0; i < n; i++ {
		bit = u.Tick(bit)
	}
	return bit
}

func dialAddr(t *testing.T, s *uartsim.Socket) string {
	t.Helper()
	a, ok := s.Addr().(*net.TCPAddr)
	require.True(t, ok, "no listener address")
	return fmt.Sprintf("127.0.0.1:%d", a.Port)
}

// readBack ticks the loopback until n echoed bytes arrive back at the peer.
func readBack(t *testing.T, u *uartsim.UART, c net.Conn, n int) []byte {
	t.Helper()
	var got []byte
	buf := make([]byte, 64)
	bit := 1
	for deadline := time.Now().Add(5 * time.Second); len(got) < n; {
		if time.Now().After(deadline) {
			t.Fatalf("timed out with %d of %d bytes back: %q", len(got), n, got)
		}
		bit = run(u, bit, 1000)
		c.SetReadDeadline(time.Now().Add(time.Millisecond))
		m, _ := c.Read(buf)
		got = append(got, buf[:m]...)
	}
	return got
}

// Bytes written by a TCP peer come back to it through a looped back line.
func Test_socket_roundtrip(t *testing.T) {
	link, err := uartsim.ListenTCP(0)
	require.NoError(t, err)
	u := uartsim.New(link)
	defer u.Close()

	c, err := net.Dial("tcp", dialAddr(t, link))
	require.NoError(t, err)
	defer c.Close()
	_, err = c.Write([]byte("ok"))
	require.NoError(t, err)

	require.Equal(t, []byte("ok"), readBack(t, u, c, 2))
}

// A peer disconnecting mid frame loses its byte; the simulator goes back to
// listening and serves the next peer a clean line.
func Test_socket_relisten(t *testing.T) {
	link, err := uartsim.ListenTCP(0)
	require.NoError(t, err)
	u := uartsim.New(link)
	defer u.Close()
	addr := dialAddr(t, link)

	c1, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	_, err = c1.Write([]byte{0xaa})
	require.NoError(t, err)
	bit := run(u, 1, 150) // the frame is now under way
	require.NoError(t, c1.Close())

	// Enough ticks for the abandoned frame to finish, its byte to be
	// discarded and the listener to rearm.
	run(u, bit, 3000)

	c2, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer c2.Close()
	_, err = c2.Write([]byte{0x42})
	require.NoError(t, err)
	require.Equal(t, []byte{0x42}, readBack(t, u, c2, 1))
}

func Test_listen_bad_port(t *testing.T) {
	link, err := uartsim.ListenTCP(-1)
	require.Error(t, err)
	require.Nil(t, link)
}

func Test_socket_close(t *testing.T) {
	link, err := uartsim.ListenTCP(0)
	require.NoError(t, err)
	require.NotNil(t, link.Addr())
	require.NoError(t, link.Close())
	require.Nil(t, link.Addr())
	require.NoError(t, link.Close())
	require.False(t, link.PollAccept())
}
