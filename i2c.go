package vadelma

import (
	"github.com/platinasystems/log"
)

// I2C drives one BSC master block. Transactions are synchronous and
// blocking: each call clears the FIFO and error latches, starts a transfer
// and polls the status register until the hardware reports done. A stuck
// slave blocks the caller unless Hw.PollBudget is set.
type I2C struct {
	hw     *Hw
	win    *Window
	sdaPin uint8
	sclPin uint8
}

// I2C returns the engine for BSC bus 0 or 1. Bus 1 is the one wired to the
// header SDA/SCL pins on all supported boards. An invalid bus number is
// logged and yields nil.
func (hw *Hw) I2C(bus uint8) *I2C {
	switch bus {
	case 0:
		return &I2C{hw: hw, win: hw.win[blockBsc0], sdaPin: 0, sclPin: 1}
	case 1:
		return &I2C{hw: hw, win: hw.win[blockBsc1], sdaPin: 2, sclPin: 3}
	}
	log.Print("err", "i2c: invalid bus ", bus)
	return nil
}

// clearFifo empties the FIFO from the previous transaction cycle.
func (b *I2C) clearFifo() {
	b.win.WriteField(i2cClearField, 3)
}

// resetErrorStatus clears the latched error and done flags, all
// write-1-to-clear.
func (b *I2C) resetErrorStatus() {
	b.win.SetBit(i2cMemS, i2cBitClkt)
	b.win.SetBit(i2cMemS, i2cBitErr)
	b.win.SetBit(i2cMemS, i2cBitDone)
}

// Start switches the SDA/SCL pins to their BSC alternate function and
// enables the controller. Returns CodeNotMapped if the control window was
// never mapped.
func (b *I2C) Start() Code {
	if b == nil || b.win == nil {
		return CodeNotMapped
	}
	b.hw.PinMode(b.sdaPin, ALT0)
	b.hw.PinMode(b.sclPin, ALT0)
	Mswait(10)
	b.win.SetBit(i2cMemC, i2cBitI2cEn)
	return CodeOK
}

// Stop clears FIFO and error latches, disables the controller and reverts
// SDA/SCL to plain GPIO inputs.
func (b *I2C) Stop() {
	b.clearFifo()
	b.resetErrorStatus()
	b.win.ClearBit(i2cMemC, i2cBitI2cEn)
	b.hw.PinMode(b.sdaPin, ALTinput)
	b.hw.PinMode(b.sclPin, ALTinput)
}

// SetClockFreq sets the SCL frequency from a system-clock divider and
// programs one falling and one rising edge delay.
func (b *I2C) SetClockFreq(divider uint16) {
	b.win.Write(i2cMemDiv, uint32(divider))
	b.setClockDelay(1, 1)
}

// setClockDelay programs the falling (FEDL) and rising (REDL) edge sample
// delays. The BSC master malfunctions with delays of cdiv/2 or more, so
// such values are logged and not written.
func (b *I2C) setClockDelay(fedl, redl uint8) {
	cdiv := b.win.Read(i2cMemDiv) & 0xFFFF
	if uint32(fedl) >= cdiv/2 || uint32(redl) >= cdiv/2 {
		log.Print("err", "i2c: clock delays should be below cdiv/2")
		return
	}
	b.win.Write(i2cMemDel, uint32(fedl)<<16|uint32(redl))
}

// SetBaud sets the transfer speed directly in bits per second, using the
// board's system clock.
func (b *I2C) SetBaud(baud uint32) {
	b.SetClockFreq(uint16(b.hw.prof.SystemClockHz / baud))
}

// setSlave writes the slave address register without the probe write.
func (b *I2C) setSlave(addr uint8) {
	b.win.Write(i2cMemA, uint32(addr))
}

// SelectSlave writes the slave address register, then verifies the slave
// acknowledges with an internal one-byte write probe. The probe's status
// code is returned, so a NACK surfaces at selection time.
func (b *I2C) SelectSlave(addr uint8) Code {
	b.setSlave(addr)
	return b.Write([]byte{0x01})
}

// overBudget counts one poll iteration against the context budget.
func (hw *Hw) overBudget(spins *int) bool {
	if hw.PollBudget == 0 {
		return false
	}
	*spins++
	return *spins >= hw.PollBudget
}

// finish decodes the status bits into a result code. Priority: NACK, clock
// stretch, then generic incompleteness. The done flag is re-armed on the
// way out.
func (b *I2C) finish(moved, want int, fifoBit uint8) Code {
	code := CodeOK
	switch {
	case b.win.BitSet(i2cMemS, i2cBitErr):
		code = CodeNoAck
		log.Print("err", "i2c: slave address not acknowledged")
	case b.win.BitSet(i2cMemS, i2cBitClkt):
		code = CodeClockStretch
		log.Print("err", "i2c: clock stretch timeout")
	case b.win.BitSet(i2cMemS, fifoBit) || moved < want:
		code = CodeIncomplete
		log.Print("err", "i2c: not all data was transferred")
	}

	if b.win.BitSet(i2cMemS, i2cBitDone) && !b.win.BitSet(i2cMemS, i2cBitTa) {
		b.win.SetBit(i2cMemS, i2cBitDone)
	} else if code == CodeOK {
		code = CodeIncomplete
		log.Print("err", "i2c: data transfer is not complete")
	}
	return code
}

// Write sends buf to the selected slave in one FIFO cycle. Buffers longer
// than 16 bytes are truncated with a logged notice; an empty buffer
// completes immediately with success.
func (b *I2C) Write(buf []byte) Code {
	b.clearFifo()
	b.resetErrorStatus()

	if len(buf) > i2cFifoMax {
		log.Print("err", "i2c: maximum number of bytes per write cycle is 16, extra data is ignored")
		buf = buf[:i2cFifoMax]
	}
	b.win.Write(i2cMemDlen, uint32(len(buf)))

	b.win.ClearBit(i2cMemC, i2cBitRead)
	b.win.SetBit(i2cMemC, i2cBitSt)

	i, spins := 0, 0
	for !b.win.BitSet(i2cMemS, i2cBitDone) {
		// TXW = 1 while the FIFO has space for at least one byte
		for b.win.BitSet(i2cMemS, i2cBitTxw) && i < len(buf) {
			b.win.Write(i2cMemFifo, uint32(buf[i]))
			i++
		}
		if b.hw.overBudget(&spins) {
			return CodePollTimeout
		}
	}
	return b.finish(i, len(buf), i2cBitTxw)
}

// Read fills buf from the selected slave in one FIFO cycle. Requests longer
// than 16 bytes are truncated with a logged notice.
func (b *I2C) Read(buf []byte) Code {
	b.clearFifo()
	b.resetErrorStatus()

	if len(buf) > i2cFifoMax {
		log.Print("err", "i2c: maximum number of bytes per read cycle is 16, extra data is ignored")
		buf = buf[:i2cFifoMax]
	}
	b.win.Write(i2cMemDlen, uint32(len(buf)))

	b.win.SetBit(i2cMemC, i2cBitRead)
	b.win.SetBit(i2cMemC, i2cBitSt)

	i, spins := 0, 0
	for !b.win.BitSet(i2cMemS, i2cBitDone) {
		// RXD = 1 while the FIFO still holds data
		for b.win.BitSet(i2cMemS, i2cBitRxd) && i < len(buf) {
			buf[i] = byte(b.win.Read(i2cMemFifo))
			i++
		}
		if b.hw.overBudget(&spins) {
			return CodePollTimeout
		}
	}
	return b.finish(i, len(buf), i2cBitRxd)
}

// ByteRead reads a single byte from the selected slave. The byte is only
// meaningful when the returned code is CodeOK.
func (b *I2C) ByteRead() (byte, Code) {
	var one [1]byte
	code := b.Read(one[:])
	return one[0], code
}
