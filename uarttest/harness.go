// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package uarttest provides utilities for exercising simulated serial links.
//
package uarttest

import (
	"os"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/db47h/uartsim"
)

// Feed returns a descriptor pair transport whose byte source replays data
// and then reports end of file, and whose sink is absent. The transport owns
// a duplicate of the backing pipe descriptor, so closing it is optional.
//
func Feed(tb testing.TB, data []byte) *uartsim.Pair {
	tb.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		tb.Fatal(err)
	}
	defer r.Close()
	if len(data) > 0 {
		if _, err = w.Write(data); err != nil {
			w.Close()
			tb.Fatal(err)
		}
	}
	w.Close()
	fd, err := unix.Dup(int(r.Fd()))
	if err != nil {
		tb.Fatal(err)
	}
	return uartsim.Descriptors(fd, -1)
}

// Capture returns a descriptor pair transport whose source is absent and
// whose sink collects delivered bytes. The returned function drains and
// returns whatever has arrived so far without blocking for more.
//
func Capture(tb testing.TB) (*uartsim.Pair, func() []byte) {
	tb.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		tb.Fatal(err)
	}
	fd, err := unix.Dup(int(w.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		tb.Fatal(err)
	}
	w.Close()
	tb.Cleanup(func() { r.Close() })

	drain := func() []byte {
		var out []byte
		buf := make([]byte, 256)
		for {
			r.SetReadDeadline(time.Now().Add(time.Millisecond))
			n, err := r.Read(buf)
			out = append(out, buf[:n]...)
			if err != nil {
				break
			}
		}
		return out
	}
	return uartsim.Descriptors(-1, fd), drain
}

// Pump drives a simplex wire for n ticks: tx's output bit feeds rx's input
// bit. tx's own input idles at mark and rx's output is discarded.
//
func Pump(tx, rx *uartsim.UART, n int) {
	for ; n > 0; n-- {
		rx.Tick(tx.Tick(1))
	}
}

// FrameTicks returns the number of ticks one frame occupies on the wire,
// start bit included.
//
func FrameTicks(c uartsim.Config) int {
	return (1 + c.FrameBits()) * c.ClocksPerBaud
}
