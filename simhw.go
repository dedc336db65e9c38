/*
Simulated hardware backend. Implements enough BCM283x register behavior for
software to run unmodified against plain memory: SET/CLR to level routing,
write-1-to-clear status bits, clock manager busy/source transitions, an I2C
slave model and an SPI loopback. Minimal implementation for testing
software, also acts as a simple example of the register contracts.
*/
package vadelma

// Sim is the hardware model behind a simulated context. Helper methods act
// as the "outside world": driving input pins, pre-loading I2C slave data,
// inspecting what the slave received.
type Sim struct {
	hw *Hw

	// I2C slave model, shared by both BSC buses
	nackAddr    bool
	stretchSCL  bool
	i2cAddr     uint8
	i2cReadData []byte
	i2cWrites   [][]byte

	i2cTxLeft   uint32
	i2cCaptured []byte
	i2cRxq      []byte

	// SPI model
	spiLoopback bool
	spiTxFull   bool
	spiRxq      []byte

	microsTick uint32
}

// OpenSim builds a context whose windows are plain memory driven by a
// simulated hardware model. Several simulated contexts may exist at once;
// none of them touch /dev/mem.
func OpenSim() (*Hw, *Sim) {
	hw := &Hw{prof: ChipProfile{PeriBase: bcm2835Base, SystemClockHz: sysClockSlowHz}}
	sim := &Sim{hw: hw, spiLoopback: true}
	for b := peripheralBlock(0); b < blockCount; b++ {
		hw.win[b] = &Window{
			name:  blockTable[b].name,
			mem:   make([]uint32, pageSize/4),
			mu:    &hw.mu,
			model: sim,
		}
	}
	return hw, sim
}

// SetI2CNack makes the slave refuse to acknowledge its address.
func (s *Sim) SetI2CNack(nack bool) {
	s.hw.mu.Lock()
	defer s.hw.mu.Unlock()
	s.nackAddr = nack
}

// SetI2CClockStretch makes the slave hold SCL past the hardware
// clock-stretch limit on every transfer.
func (s *Sim) SetI2CClockStretch(stretch bool) {
	s.hw.mu.Lock()
	defer s.hw.mu.Unlock()
	s.stretchSCL = stretch
}

// FeedI2C queues bytes the slave will deliver to subsequent reads.
func (s *Sim) FeedI2C(data []byte) {
	s.hw.mu.Lock()
	defer s.hw.mu.Unlock()
	s.i2cReadData = append(s.i2cReadData, data...)
}

// I2CWrites returns the byte sequences the slave has received, one per
// write transaction, including SelectSlave probe writes.
func (s *Sim) I2CWrites() [][]byte {
	s.hw.mu.Lock()
	defer s.hw.mu.Unlock()
	out := make([][]byte, len(s.i2cWrites))
	copy(out, s.i2cWrites)
	return out
}

// I2CAddr returns the last slave address written to the address register.
func (s *Sim) I2CAddr() uint8 {
	s.hw.mu.Lock()
	defer s.hw.mu.Unlock()
	return s.i2cAddr
}

// SetSPILoopback wires MISO to MOSI (true, the default) or to a constant
// zero line (false).
func (s *Sim) SetSPILoopback(on bool) {
	s.hw.mu.Lock()
	defer s.hw.mu.Unlock()
	s.spiLoopback = on
}

// SetSPITxFull makes the TX FIFO report full, standing in for a transfer
// the hardware never drains.
func (s *Sim) SetSPITxFull(full bool) {
	s.hw.mu.Lock()
	defer s.hw.mu.Unlock()
	s.spiTxFull = full
}

// SetInput drives the level a pin reads back, standing in for an external
// signal.
func (s *Sim) SetInput(pin uint8, level bool) {
	s.hw.mu.Lock()
	defer s.hw.mu.Unlock()
	w := s.hw.win[blockGpio]
	off, mask := gpioBank(gpioMemLevel, pin)
	if level {
		w.mem[off] |= mask
	} else {
		w.mem[off] &^= mask
	}
}

// RaiseEvent latches the event-detect flag of a pin, standing in for a
// detected edge or level condition.
func (s *Sim) RaiseEvent(pin uint8) {
	s.hw.mu.Lock()
	defer s.hw.mu.Unlock()
	w := s.hw.win[blockGpio]
	off, mask := gpioBank(gpioMemEventDet, pin)
	w.mem[off] |= mask
}

// Model callbacks. These run with the context lock held and manipulate
// window memory directly.

func (s *Sim) regRead(w *Window, off uint32) {
	switch w.name {
	case "systimer":
		if off == stMemCLO {
			s.microsTick++
			w.mem[stMemCLO] = s.microsTick
		}
	case "bsc0", "bsc1":
		if off == i2cMemFifo && len(s.i2cRxq) > 0 {
			w.mem[i2cMemFifo] = uint32(s.i2cRxq[0])
			s.i2cRxq = s.i2cRxq[1:]
			if len(s.i2cRxq) == 0 {
				w.mem[i2cMemS] &^= 1 << i2cBitRxd
				w.mem[i2cMemS] |= 1 << i2cBitDone
			}
		}
	case "spi0":
		if off == spiMemFifo && len(s.spiRxq) > 0 {
			w.mem[spiMemFifo] = uint32(s.spiRxq[0])
			s.spiRxq = s.spiRxq[1:]
			if len(s.spiRxq) == 0 {
				w.mem[spiMemCS] &^= 1 << spiBitRxd
			}
		}
	}
}

func (s *Sim) regWrite(w *Window, off uint32, old, val uint32) {
	switch w.name {
	case "gpio":
		s.gpioWrite(w, off, old, val)
	case "clk":
		s.clkWrite(w, off, old, val)
	case "pwm":
		if off == pwmMemSta {
			// BERR/RERR/WERR are write-1-to-clear
			w1c := uint32(1<<pwmBitBerr | 1<<pwmBitRerr | 1<<pwmBitWerr)
			w.mem[off] = old &^ (val & w1c)
		}
	case "bsc0", "bsc1":
		s.bscWrite(w, off, old, val)
	case "spi0":
		s.spiWrite(w, off, val)
	}
}

func (s *Sim) gpioWrite(w *Window, off uint32, old, val uint32) {
	switch off {
	case gpioMemSet, gpioMemSet + 1:
		w.mem[gpioMemLevel+off-gpioMemSet] |= val
		w.mem[off] = 0
	case gpioMemClr, gpioMemClr + 1:
		w.mem[gpioMemLevel+off-gpioMemClr] &^= val
		w.mem[off] = 0
	case gpioMemEventDet, gpioMemEventDet + 1:
		// event status is write-1-to-clear
		w.mem[off] = old &^ val
	}
}

func (s *Sim) clkWrite(w *Window, off uint32, old, val uint32) {
	if off != pwmclkMemCtl && off != pwmclkMemDiv {
		return
	}
	// writes without the password are ignored by the clock manager
	if val>>24 != clkPassword>>24 {
		w.mem[off] = old
		return
	}
	v := val & 0x00FFFFFF
	if off == pwmclkMemDiv {
		w.mem[off] = v
		return
	}
	if v&(1<<clkBitKill) != 0 {
		v &^= 1<<clkBitKill | 1<<clkBitEnab
	}
	// the generator runs, and reports busy, while enabled
	if v&(1<<clkBitEnab) != 0 {
		v |= 1 << clkBitBusy
	} else {
		v &^= 1 << clkBitBusy
	}
	w.mem[off] = v
}

func (s *Sim) bscWrite(w *Window, off uint32, old, val uint32) {
	switch off {
	case i2cMemA:
		s.i2cAddr = uint8(val)
	case i2cMemS:
		w1c := uint32(1<<i2cBitDone | 1<<i2cBitErr | 1<<i2cBitClkt)
		w.mem[off] = old &^ (val & w1c)
	case i2cMemC:
		if val&(3<<4) != 0 {
			// one-shot FIFO clear
			s.i2cRxq = nil
			s.i2cCaptured = nil
			s.i2cTxLeft = 0
			w.mem[off] = val &^ (3 << 4)
			val = w.mem[off]
		}
		if val&(1<<i2cBitSt) != 0 {
			s.bscStart(w, val&(1<<i2cBitRead) != 0)
			w.mem[off] &^= 1 << i2cBitSt
		}
	case i2cMemFifo:
		if s.i2cTxLeft > 0 {
			s.i2cCaptured = append(s.i2cCaptured, byte(val))
			s.i2cTxLeft--
			if s.i2cTxLeft == 0 {
				s.i2cWrites = append(s.i2cWrites, s.i2cCaptured)
				s.i2cCaptured = nil
				w.mem[i2cMemS] &^= 1 << i2cBitTxw
				w.mem[i2cMemS] |= 1 << i2cBitDone
			}
		}
	}
}

// bscStart models the ST strobe: the whole transfer happens through the
// FIFO hooks until the byte count from DLEN is reached.
func (s *Sim) bscStart(w *Window, read bool) {
	dlen := w.mem[i2cMemDlen]
	if s.nackAddr || s.stretchSCL {
		// both conditions latch their status bit, the decode picks one
		w.mem[i2cMemS] |= 1 << i2cBitDone
		if s.nackAddr {
			w.mem[i2cMemS] |= 1 << i2cBitErr
		}
		if s.stretchSCL {
			w.mem[i2cMemS] |= 1 << i2cBitClkt
		}
		return
	}
	if dlen == 0 {
		w.mem[i2cMemS] |= 1 << i2cBitDone
		return
	}
	if read {
		n := int(dlen)
		if n > len(s.i2cReadData) {
			n = len(s.i2cReadData)
		}
		s.i2cRxq = append([]byte(nil), s.i2cReadData[:n]...)
		s.i2cReadData = s.i2cReadData[n:]
		if len(s.i2cRxq) > 0 {
			w.mem[i2cMemS] |= 1 << i2cBitRxd
		} else {
			// slave starved: transfer ends short
			w.mem[i2cMemS] |= 1 << i2cBitDone
		}
		return
	}
	s.i2cTxLeft = dlen
	s.i2cCaptured = nil
	w.mem[i2cMemS] |= 1 << i2cBitTxw
}

func (s *Sim) spiWrite(w *Window, off uint32, val uint32) {
	switch off {
	case spiMemCS:
		if val&(3<<4) != 0 {
			s.spiRxq = nil
			val &^= 3 << 4
		}
		if val&(1<<spiBitTa) != 0 {
			if s.spiTxFull {
				val &^= 1 << spiBitTxd
			} else {
				val |= 1 << spiBitTxd
			}
			if len(s.spiRxq) > 0 {
				val |= 1 << spiBitRxd
			} else {
				val &^= 1 << spiBitRxd
			}
		} else {
			val &^= 1<<spiBitTxd | 1<<spiBitRxd
		}
		w.mem[off] = val
	case spiMemFifo:
		if w.mem[spiMemCS]&(1<<spiBitTa) == 0 {
			return
		}
		if s.spiLoopback {
			s.spiRxq = append(s.spiRxq, byte(val))
		} else {
			s.spiRxq = append(s.spiRxq, 0)
		}
		w.mem[spiMemCS] |= 1 << spiBitRxd
	}
}
