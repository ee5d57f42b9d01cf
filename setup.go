// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package uartsim

import "strconv"

// DefaultSetup is the setup word applied by New: 8N1 with one bit every 25
// clocks.
//
const DefaultSetup uint32 = 25

// Setup word layout. This matches the 32 bit setup register of the wbuart
// RTL core, so a simulator and the core it talks to can share one value.
//
const (
	setupBaudMask  = 0x00ffffff // bits 23-0: clocks per baud
	setupPolarity  = 1 << 24    // parity polarity: even/space clear, odd/mark set
	setupFixed     = 1 << 25    // fixed (mark/space) instead of computed parity
	setupParity    = 1 << 26    // parity bit present
	setupDualStop  = 1 << 27    // two stop bits instead of one
	setupBitsShift = 28         // bits 29-28: data bit count, stored as 8-n
)

// Parity designates the parity scheme of a serial line. Mark and Space
// transmit a fixed bit, Even and Odd compute it from the data bits.
//
type Parity int

// Supported parity schemes.
//
const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
	ParityMark
	ParitySpace
)

// String returns the scheme's conventional single letter code.
//
func (p Parity) String() string {
	switch p {
	case ParityNone:
		return "N"
	case ParityOdd:
		return "O"
	case ParityEven:
		return "E"
	case ParityMark:
		return "M"
	case ParitySpace:
		return "S"
	}
	return "?"
}

// Config is the decoded form of a setup word.
//
// A Config is never validated: data bit counts outside 5-8 or a zero divisor
// yield well defined but nonsensical framing.
//
type Config struct {
	ClocksPerBaud int // simulation clock cycles per bit
	DataBits      int // 5 to 8
	StopBits      int // 1 or 2
	Parity        Parity
}

// DecodeSetup expands the packed setup word w.
//
func DecodeSetup(w uint32) Config {
	c := Config{
		ClocksPerBaud: int(w & setupBaudMask),
		DataBits:      8 - int(w>>setupBitsShift&3),
		StopBits:      1,
	}
	if w&setupDualStop != 0 {
		c.StopBits = 2
	}
	switch {
	case w&setupParity == 0:
		c.Parity = ParityNone
	case w&setupFixed != 0:
		if w&setupPolarity != 0 {
			c.Parity = ParityMark
		} else {
			c.Parity = ParitySpace
		}
	default:
		if w&setupPolarity != 0 {
			c.Parity = ParityOdd
		} else {
			c.Parity = ParityEven
		}
	}
	return c
}

// Word packs c back into a setup word. It is the inverse of DecodeSetup for
// in-range configurations.
//
func (c Config) Word() uint32 {
	w := uint32(c.ClocksPerBaud) & setupBaudMask
	w |= (uint32(8-c.DataBits) & 3) << setupBitsShift
	if c.StopBits > 1 {
		w |= setupDualStop
	}
	switch c.Parity {
	case ParityOdd:
		w |= setupParity | setupPolarity
	case ParityEven:
		w |= setupParity
	case ParityMark:
		w |= setupParity | setupFixed | setupPolarity
	case ParitySpace:
		w |= setupParity | setupFixed
	}
	return w
}

// FrameBits returns the number of data, parity and stop bits in one frame.
// The start bit is not counted.
//
func (c Config) FrameBits() int {
	return c.DataBits + c.parityBits() + c.StopBits
}

// String returns c in conventional notation, data bits then parity letter
// then stop bits, followed by the baud divisor: "8N1/25".
//
func (c Config) String() string {
	return strconv.Itoa(c.DataBits) + c.Parity.String() + strconv.Itoa(c.StopBits) +
		"/" + strconv.Itoa(c.ClocksPerBaud)
}

func (c Config) parityBits() int {
	if c.Parity == ParityNone {
		return 0
	}
	return 1
}

func (c Config) dataMask() uint32 {
	return 1<<uint(c.DataBits) - 1
}

// parityBit returns the wire value of the parity bit for the given data bits.
func (c Config) parityBit(data uint32) uint32 {
	var pol uint32
	if c.Parity == ParityOdd || c.Parity == ParityMark {
		pol = 1
	}
	if c.Parity == ParityMark || c.Parity == ParitySpace {
		return pol
	}
	p := data & c.dataMask()
	p ^= p >> 4
	p ^= p >> 2
	p ^= p >> 1
	return p&1 ^ pol
}
