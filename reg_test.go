package vadelma_test

import (
	"testing"

	"github.com/jlaukka/vadelma"
)

func TestBitPrimitivesNoLeakage(t *testing.T) {
	hw, _ := vadelma.OpenSim()
	w := hw.TestWindow("pwm")

	w.Write(vadelma.TestPwmRng1Off, 0xA5A5A5A5)
	for pos := uint8(0); pos < 32; pos++ {
		before := w.Read(vadelma.TestPwmRng1Off)
		w.SetBit(vadelma.TestPwmRng1Off, pos)
		if !w.BitSet(vadelma.TestPwmRng1Off, pos) {
			t.Fatalf("bit %d not set", pos)
		}
		w.ClearBit(vadelma.TestPwmRng1Off, pos)
		after := w.Read(vadelma.TestPwmRng1Off)
		if after != before&^(1<<pos) {
			t.Fatalf("bit %d leaked into neighbours: %08x -> %08x", pos, before, after)
		}
		w.Write(vadelma.TestPwmRng1Off, before)
	}
}

func TestBitPrimitivesRejectBadPosition(t *testing.T) {
	hw, _ := vadelma.OpenSim()
	w := hw.TestWindow("pwm")
	w.Write(vadelma.TestPwmDat2Off, 0x1234)
	w.SetBit(vadelma.TestPwmDat2Off, 32)
	w.ClearBit(vadelma.TestPwmDat2Off, 255)
	if got := w.Read(vadelma.TestPwmDat2Off); got != 0x1234 {
		t.Fatalf("out-of-range bit position changed register: %08x", got)
	}
	if w.BitSet(vadelma.TestPwmDat2Off, 40) {
		t.Fatal("out-of-range bit position read as set")
	}
}

func TestStartAfterClose(t *testing.T) {
	hw, _ := vadelma.OpenSim()
	hw.Close()
	if w := hw.TestWindow("gpio"); w != nil {
		t.Fatal("window survived Close")
	}
	if code := hw.I2C(1).Start(); code != vadelma.CodeNotMapped {
		t.Fatalf("i2c start on closed context returned %v", code)
	}
	if code := hw.SPI0().Start(); code != vadelma.CodeNotMapped {
		t.Fatalf("spi start on closed context returned %v", code)
	}
}

func fselField(hw *vadelma.Hw, pin uint8) uint32 {
	w := hw.TestWindow("gpio")
	word := w.Read(vadelma.TestGpioModeOff + uint32(pin)/10)
	return word >> ((uint32(pin) % 10) * 3) & 7
}

func TestPinModeIdempotent(t *testing.T) {
	hw, _ := vadelma.OpenSim()

	hw.PinMode(17, vadelma.ALT0)
	first := fselField(hw, 17)
	hw.PinMode(17, vadelma.ALT0)
	if got := fselField(hw, 17); got != first || got != 4 {
		t.Fatalf("fsel not idempotent: first %o then %o", first, got)
	}

	// a neighbour in the same fsel word must be untouched
	hw.PinMode(18, vadelma.ALToutput)
	if got := fselField(hw, 17); got != 4 {
		t.Fatalf("neighbour pin mode clobbered pin 17: %o", got)
	}

	// input always clears the field, whatever was there before
	for _, alt := range []vadelma.AltSetting{vadelma.ALToutput, vadelma.ALT3, vadelma.ALT5} {
		hw.PinMode(17, alt)
		hw.PinMode(17, vadelma.ALTinput)
		if got := fselField(hw, 17); got != 0 {
			t.Fatalf("input after %v left fsel %o", alt, got)
		}
	}
}
