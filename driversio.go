package vadelma

import (
	"tinygo.org/x/drivers"
)

// Adapters exposing the bus engines through the tinygo.org/x/drivers
// interfaces, so existing device drivers written against drivers.I2C and
// drivers.SPI run on this register layer. Status codes surface as the Code
// error values.

// I2CConn adapts a BSC engine to drivers.I2C. The engine must be Started
// first. Note: Tx performs the write and the read as two bus transactions
// with a stop between them, not a repeated start; most register-style
// devices accept this.
type I2CConn struct {
	Bus *I2C
}

var _ drivers.I2C = I2CConn{}

// Tx addresses the slave, writes w if non-empty and then reads into r if
// non-empty.
func (c I2CConn) Tx(addr uint16, w, r []byte) error {
	c.Bus.setSlave(uint8(addr))
	if len(w) > 0 {
		if code := c.Bus.Write(w); code != CodeOK {
			return code
		}
	}
	if len(r) > 0 {
		if code := c.Bus.Read(r); code != CodeOK {
			return code
		}
	}
	return nil
}

// ReadRegister reads buf from an 8-bit device register.
func (c I2CConn) ReadRegister(addr uint8, reg uint8, buf []byte) error {
	return c.Tx(uint16(addr), []byte{reg}, buf)
}

// WriteRegister writes buf to an 8-bit device register.
func (c I2CConn) WriteRegister(addr uint8, reg uint8, buf []byte) error {
	w := make([]byte, 0, len(buf)+1)
	w = append(w, reg)
	w = append(w, buf...)
	return c.Tx(uint16(addr), w, nil)
}

// SPIConn adapts the SPI0 engine to drivers.SPI. The engine must be Started
// first.
type SPIConn struct {
	Port *SPI
}

var _ drivers.SPI = SPIConn{}

// Tx runs a full-duplex transfer. A nil or shorter buffer is padded with
// zero bytes on the write side and discarded on the read side.
func (c SPIConn) Tx(w, r []byte) error {
	n := len(w)
	if len(r) > n {
		n = len(r)
	}
	if n == 0 {
		return nil
	}
	wbuf := make([]byte, n)
	rbuf := make([]byte, n)
	copy(wbuf, w)
	if code := c.Port.Transfer(wbuf, rbuf); code != CodeOK {
		return code
	}
	copy(r, rbuf)
	return nil
}

// Transfer moves one byte in each direction.
func (c SPIConn) Transfer(b byte) (byte, error) {
	var w, r [1]byte
	w[0] = b
	if code := c.Port.Transfer(w[:], r[:]); code != CodeOK {
		return 0, code
	}
	return r[0], nil
}
