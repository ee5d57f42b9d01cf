// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package uartsim

// A UART emulates the far end of an asynchronous serial link: it decodes the
// bit stream a simulated design drives on its transmit pin into bytes for
// the transport's sink, and encodes bytes from the transport's source into
// the bit stream fed to the design's receive pin.
//
// A UART has no internal concurrency and never blocks; it advances only when
// the driver calls Tick. One instance emulates one line. Methods must not be
// called concurrently.
//
type UART struct {
	link  Transport
	setup uint32
	cfg   Config
	rx    receiver
	tx    transmitter
}

// New returns a UART exchanging bytes over link, initially configured per
// DefaultSetup. A nil link behaves as a permanently unconnected descriptor
// pair: the receiver drops everything it decodes and the transmitter keeps
// the line at mark.
//
func New(link Transport) *UART {
	if link == nil {
		link = Descriptors(-1, -1)
	}
	u := &UART{link: link}
	u.rx.last = 1 // the line idles at mark
	u.Setup(DefaultSetup)
	return u
}

// Setup applies the packed configuration word w (see the setup layout in
// DecodeSetup). Applying the word already in effect is a no-op, so a driver
// may forward its setup register's value on every tick without disturbing
// frames in flight. The word is not validated.
//
func (u *UART) Setup(w uint32) {
	if w == u.setup {
		return
	}
	u.setup = w
	u.cfg = DecodeSetup(w)
}

// Config returns the line configuration currently in effect.
//
func (u *UART) Config() Config {
	return u.cfg
}

// Tick advances the emulation by one clock cycle. tx is the level of the
// design's serial transmit pin for this cycle; the return value is the level
// to drive on the design's receive pin. Only bit 0 of tx is observed.
//
// Call Tick exactly once per full clock cycle. A tick runs, in order, the
// transport's accept probe, one receiver step and one transmitter step, all
// in bounded time regardless of peer readiness.
//
func (u *UART) Tick(tx int) int {
	u.link.PollAccept()
	u.rx.step(tx, &u.cfg, u.link)
	return u.tx.step(&u.cfg, u.link)
}

// TickSetup is Tick with the configuration word w applied first.
//
func (u *UART) TickSetup(tx int, w uint32) int {
	u.Setup(w)
	return u.Tick(tx)
}

// Close shuts the transport down. The UART itself stays usable as a
// disconnected bit machine: further Ticks keep the line at mark.
//
func (u *UART) Close() error {
	return u.link.Close()
}
