// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package uartsim

// Transmitter states.
const (
	txIdle = iota
	txData
)

// transmitter frames bytes from the transport source and shifts them out
// one bit per tick.
//
type transmitter struct {
	phase int
	data  uint32 // shift register, bit 0 drives the line
	bits  int    // bits left to shift out, start bit included
	count int    // ticks left in the current bit period
}

// step produces one output bit. Exactly one call per tick.
func (t *transmitter) step(cfg *Config, link Transport) int {
	switch {
	case t.phase == txIdle:
		b, ok := link.TryRead()
		if !ok {
			return 1
		}
		t.data = frame(b, cfg)
		t.bits = 1 + cfg.FrameBits()
		t.count = cfg.ClocksPerBaud - 1
		t.phase = txData
		// The start bit goes out on the accept tick itself.
		return 0
	case t.count <= 0:
		t.data >>= 1
		t.bits--
		if t.bits == 0 {
			t.phase = txIdle
		} else {
			t.count = cfg.ClocksPerBaud - 1
		}
		return int(t.data & 1)
	default:
		t.count--
		return int(t.data & 1)
	}
}

// frame lays out one character for LSB first transmission: a zero start bit,
// the data bits, the parity bit if enabled, then ones all the way up (stop
// bits and idle padding, so the register settles to mark as it drains).
func frame(b byte, cfg *Config) uint32 {
	par := cfg.parityBits()
	f := ^uint32(0) << uint(1+cfg.DataBits+par)
	f |= (uint32(b) & cfg.dataMask()) << 1
	if par != 0 {
		f |= cfg.parityBit(uint32(b)) << uint(1+cfg.DataBits)
	}
	return f
}
