/*
Package uartsim emulates one end of a UART (asynchronous serial) link, bit by
bit, for use with clock-stepped hardware simulations.

The simulator exchanges a byte stream with the outside world over a TCP socket
or an inherited descriptor pair, and exchanges serial bits with a simulated
design under test: every simulated clock cycle, the driver hands the simulator
the level of the design's TX pin and feeds the returned level to the design's
RX pin.

	link, err := uartsim.ListenTCP(2023)
	if err != nil {
		// ...
	}
	u := uartsim.New(link)
	u.Setup(868) // 8N1, one bit every 868 clocks

	for {
		dut.Tick()
		dut.Tock()
		dut.SetRX(u.Tick(dut.TX()))
	}

Tick never blocks: transport I/O happens as bounded, non-blocking one-byte
probes, so the simulation clock is the only clock. A single instance emulates
a single full-duplex line; independent lines take independent instances.

Framing is configured through a packed 32-bit word (see Setup) covering baud
divisor, 5 to 8 data bits, 1 or 2 stop bits and the usual parity modes. The
word is not validated; garbage in, garbage framing out.
*/
package uartsim
