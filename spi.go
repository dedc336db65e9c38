package vadelma

import (
	"github.com/platinasystems/log"
)

// SPI drives the SPI0 master block: full-duplex FIFO transfers with the
// same blocking, status-polled model as the I2C engine.
type SPI struct {
	hw  *Hw
	win *Window
}

// SPI0 returns the SPI0 master engine.
func (hw *Hw) SPI0() *SPI {
	return &SPI{hw: hw, win: hw.win[blockSpi0]}
}

// The five standard SPI0 pins, all on alternate function 0.
var spiPins = []uint8{
	8,  //CE0
	7,  //CE1
	10, //MOSI
	9,  //MISO
	11, //SCLK
}

// clearFifo drains both TX and RX FIFOs through the one-shot CLEAR field.
func (s *SPI) clearFifo() {
	s.win.WriteField(spiClearField, 3)
}

// Start switches the five SPI pins to their alternate function, forces
// standard master mode and clears the FIFOs. Returns CodeNotMapped if the
// control window was never mapped.
func (s *SPI) Start() Code {
	if s == nil || s.win == nil {
		return CodeNotMapped
	}
	for _, pin := range spiPins {
		s.hw.PinMode(pin, ALT0)
	}
	Mswait(10)
	s.win.ClearBit(spiMemCS, spiBitLossi)
	s.clearFifo()
	return CodeOK
}

// Stop clears the FIFOs and reverts the SPI pins to plain GPIO inputs.
func (s *SPI) Stop() {
	s.clearFifo()
	for _, pin := range spiPins {
		s.hw.PinMode(pin, ALTinput)
	}
}

// SetClockFreq sets the SCLK frequency from a core-clock divider.
func (s *SPI) SetClockFreq(divider uint16) {
	s.win.Write(spiMemClk, uint32(divider))
}

// SetDataMode selects one of the four standard SPI modes:
//
//	mode 0: CPOL=0 CPHA=0
//	mode 1: CPOL=0 CPHA=1
//	mode 2: CPOL=1 CPHA=0
//	mode 3: CPOL=1 CPHA=1
func (s *SPI) SetDataMode(mode uint8) {
	if mode > 3 {
		log.Print("err", "spi: invalid data mode ", mode)
		return
	}
	s.win.WriteField(spiModeField, uint32(mode))
}

// ChipSelect routes the transfer to chip select line 0, 1 or 2.
func (s *SPI) ChipSelect(cs uint8) {
	if cs > 2 {
		log.Print("err", "spi: invalid chip select ", cs)
		return
	}
	s.win.WriteField(spiChipSelField, uint32(cs))
}

// SetChipSelectPolarity sets a chip select line active high (true) or
// active low (false).
func (s *SPI) SetChipSelectPolarity(cs uint8, active bool) {
	if cs > 2 {
		log.Print("err", "spi: invalid chip select ", cs)
		return
	}
	pos := spiBitCsPol0 + cs
	if active {
		s.win.SetBit(spiMemCS, pos)
	} else {
		s.win.ClearBit(spiMemCS, pos)
	}
}

// Transfer writes wbuf and reads the same number of bytes into rbuf through
// the FIFOs, interleaved by hardware FIFO depth. Mismatched buffer lengths
// are logged and clipped to the shorter one.
func (s *SPI) Transfer(wbuf, rbuf []byte) Code {
	n := len(wbuf)
	if len(rbuf) != len(wbuf) {
		log.Print("err", "spi: transfer buffer lengths differ, clipping")
		if len(rbuf) < n {
			n = len(rbuf)
		}
	}

	s.clearFifo()
	s.win.SetBit(spiMemCS, spiBitTa)

	w, r, spins := 0, 0, 0
	for w < n {
		// TXD = 1 while the TX FIFO can take more bytes
		for s.win.BitSet(spiMemCS, spiBitTxd) && w < n {
			s.win.Write(spiMemFifo, uint32(wbuf[w]))
			w++
		}
		if s.hw.overBudget(&spins) {
			s.win.ClearBit(spiMemCS, spiBitTa)
			return CodePollTimeout
		}
	}
	for r < n {
		// RXD = 1 while the RX FIFO holds received bytes
		for s.win.BitSet(spiMemCS, spiBitRxd) && r < n {
			rbuf[r] = byte(s.win.Read(spiMemFifo))
			r++
		}
		if s.hw.overBudget(&spins) {
			s.win.ClearBit(spiMemCS, spiBitTa)
			return CodePollTimeout
		}
	}

	s.win.ClearBit(spiMemCS, spiBitTa)

	if s.win.BitSet(spiMemCS, spiBitDone) {
		log.Print("err", "spi: data transfer incomplete")
		return CodeIncomplete
	}
	return CodeOK
}

// Write sends wbuf only, leaving the transfer active so a following Read
// can collect the response half of the protocol.
func (s *SPI) Write(wbuf []byte) Code {
	s.clearFifo()
	s.win.SetBit(spiMemCS, spiBitTa)

	i, spins := 0, 0
	for i < len(wbuf) {
		for s.win.BitSet(spiMemCS, spiBitTxd) && i < len(wbuf) {
			s.win.Write(spiMemFifo, uint32(wbuf[i]))
			i++
		}
		if s.hw.overBudget(&spins) {
			// the transfer is abandoned, do not leave it armed for a Read
			s.win.ClearBit(spiMemCS, spiBitTa)
			return CodePollTimeout
		}
	}
	return CodeOK
}

// Read collects len(rbuf) bytes from a transfer a prior Write left active
// and ends the transfer. Without an active transfer there is nothing to
// poll for, so the call is logged and returns immediately.
func (s *SPI) Read(rbuf []byte) Code {
	if !s.win.BitSet(spiMemCS, spiBitTa) {
		log.Print("err", "spi: read without an active transfer")
		return CodeIncomplete
	}

	i, spins := 0, 0
	for i < len(rbuf) {
		for s.win.BitSet(spiMemCS, spiBitRxd) && i < len(rbuf) {
			rbuf[i] = byte(s.win.Read(spiMemFifo))
			i++
		}
		if s.hw.overBudget(&spins) {
			s.win.ClearBit(spiMemCS, spiBitTa)
			return CodePollTimeout
		}
	}

	s.win.ClearBit(spiMemCS, spiBitTa)
	return CodeOK
}
