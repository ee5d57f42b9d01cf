// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package uartsim

// Receiver states.
const (
	rxIdle = iota
	rxData
)

// receiver decodes the incoming bit stream one tick at a time and forwards
// completed bytes to the transport sink.
//
// Bits arrive LSB first and accumulate from the top of the shift register:
// start bit, data bits, parity bit if any, stop bits. Sampling is timed off
// the start bit's falling edge; drift counts the ticks elapsed since the
// last falling edge so that an edge noticed late (the line was already low
// when the previous frame ended) still yields samples near bit centers.
//
type receiver struct {
	phase int
	data  uint32 // shift register
	bits  int    // bits sampled so far, parity and stop included
	count int    // ticks until the next sample
	drift int    // ticks since the last falling edge
	last  int    // input level on the previous tick
}

// step consumes one input bit. Exactly one call per tick.
func (r *receiver) step(bit int, cfg *Config, link Transport) {
	bit &= 1
	if bit == 0 && r.last != 0 {
		r.drift = 0
	} else {
		r.drift++
	}
	r.last = bit

	switch {
	case r.phase == rxIdle:
		if bit == 0 {
			// Start edge. Aim the first sample at the middle of the
			// first data bit, less the ticks the line has already
			// spent low.
			r.phase = rxData
			r.count = cfg.ClocksPerBaud + cfg.ClocksPerBaud/2 - 1 - r.drift
			r.bits = 0
			r.data = 0
		}
	case r.count <= 0:
		if r.bits == cfg.FrameBits() {
			// One full baud after the last stop sample: the frame is
			// over. Right-align the register and keep the data field.
			// Parity and stop positions are not checked.
			r.phase = rxIdle
			link.TryWrite(byte(r.data >> uint(32-cfg.FrameBits()) & cfg.dataMask()))
		} else {
			r.data = uint32(bit)<<31 | r.data>>1
			r.bits++
		}
		r.count = cfg.ClocksPerBaud - 1
	default:
		r.count--
	}
}
