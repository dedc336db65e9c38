package vadelma

import (
	"github.com/platinasystems/log"
)

// GPIO pins are addressed by chip pin number, 0-53. Registers are split in
// two banks of 32 pins each.

func gpioBank(reg uint32, pin uint8) (off uint32, mask uint32) {
	return reg + uint32(pin/32), 1 << (pin & 31)
}

func validPin(op string, pin uint8) bool {
	if pin > 53 {
		log.Print("err", op, ": invalid pin ", pin)
		return false
	}
	return true
}

// PinConfig configures a pin as plain input (mode 0) or output (mode 1).
// Other modes are logged and ignored.
func (hw *Hw) PinConfig(pin uint8, mode uint8) {
	switch mode {
	case 0:
		hw.PinMode(pin, ALTinput)
	case 1:
		hw.PinMode(pin, ALToutput)
	default:
		log.Print("err", "pinConfig: invalid mode ", mode)
	}
}

// PinSet drives an output pin high through the SET register. The level
// register is never read-modify-written; hardware routes SET/CLR writes.
func (hw *Hw) PinSet(pin uint8) {
	if !validPin("pinSet", pin) {
		return
	}
	off, mask := gpioBank(gpioMemSet, pin)
	hw.win[blockGpio].Write(off, mask)
}

// PinClear drives an output pin low through the CLR register.
func (hw *Hw) PinClear(pin uint8) {
	if !validPin("pinClear", pin) {
		return
	}
	off, mask := gpioBank(gpioMemClr, pin)
	hw.win[blockGpio].Write(off, mask)
}

// PinWrite drives an output pin to level 0 or 1. Other levels are logged
// and ignored.
func (hw *Hw) PinWrite(pin uint8, level uint8) {
	switch level {
	case 1:
		hw.PinSet(pin)
	case 0:
		hw.PinClear(pin)
	default:
		log.Print("err", "pinWrite: invalid level ", level)
	}
}

// ReadPinLevel returns the current level of a pin, input or output.
func (hw *Hw) ReadPinLevel(pin uint8) bool {
	if !validPin("readPinLevel", pin) {
		return false
	}
	off, mask := gpioBank(gpioMemLevel, pin)
	return hw.win[blockGpio].Read(off)&mask != 0
}

// ReadAllPinLevels grabs both level banks as one packed word.
func (hw *Hw) ReadAllPinLevels() uint64 {
	w := hw.win[blockGpio]
	return uint64(w.Read(gpioMemLevel)) | uint64(w.Read(gpioMemLevel+1))<<32
}

// ReadPinEvent reports whether a configured level or edge event has latched
// for the pin.
func (hw *Hw) ReadPinEvent(pin uint8) bool {
	if !validPin("readPinEvent", pin) {
		return false
	}
	off, mask := gpioBank(gpioMemEventDet, pin)
	return hw.win[blockGpio].Read(off)&mask != 0
}

// ReadAllPinEvents grabs both event-status banks as one packed word.
func (hw *Hw) ReadAllPinEvents() uint64 {
	w := hw.win[blockGpio]
	return uint64(w.Read(gpioMemEventDet)) | uint64(w.Read(gpioMemEventDet+1))<<32
}

// ResetPinEvent clears the latched event flag of a pin. The status register
// is write-1-to-clear, so the flag is written directly, never RMW.
func (hw *Hw) ResetPinEvent(pin uint8) {
	if !validPin("resetPinEvent", pin) {
		return
	}
	off, mask := gpioBank(gpioMemEventDet, pin)
	hw.win[blockGpio].Write(off, mask)
}

func (hw *Hw) enableEvent(op string, reg uint32, pin uint8, on bool) {
	if !validPin(op, pin) {
		return
	}
	off := reg + uint32(pin/32)
	if on {
		hw.win[blockGpio].SetBit(off, pin&31)
	} else {
		hw.win[blockGpio].ClearBit(off, pin&31)
	}
}

// EnableHighEvent enables or disables high-level detection for a pin.
func (hw *Hw) EnableHighEvent(pin uint8, on bool) {
	hw.enableEvent("enableHighEvent", gpioMemHiDet, pin, on)
}

// EnableLowEvent enables or disables low-level detection for a pin.
func (hw *Hw) EnableLowEvent(pin uint8, on bool) {
	hw.enableEvent("enableLowEvent", gpioMemLoDet, pin, on)
}

// EnableRisingEvent enables or disables rising-edge detection for a pin.
func (hw *Hw) EnableRisingEvent(pin uint8, on bool) {
	hw.enableEvent("enableRisingEvent", gpioMemRiseEventDet, pin, on)
}

// EnableFallingEvent enables or disables falling-edge detection for a pin.
func (hw *Hw) EnableFallingEvent(pin uint8, on bool) {
	hw.enableEvent("enableFallingEvent", gpioMemFallEventDet, pin, on)
}

// EnableAsyncRisingEvent enables or disables asynchronous (unclocked)
// rising-edge detection for a pin.
func (hw *Hw) EnableAsyncRisingEvent(pin uint8, on bool) {
	hw.enableEvent("enableAsyncRisingEvent", gpioMemAsyncRiseDet, pin, on)
}

// EnableAsyncFallingEvent enables or disables asynchronous falling-edge
// detection for a pin.
func (hw *Hw) EnableAsyncFallingEvent(pin uint8, on bool) {
	hw.enableEvent("enableAsyncFallingEvent", gpioMemAsyncFallDet, pin, on)
}

// ResetAllEvents removes every configured event detection from a pin and
// clears its latched event flag.
func (hw *Hw) ResetAllEvents(pin uint8) {
	if !validPin("resetAllEvents", pin) {
		return
	}
	for _, reg := range []uint32{
		gpioMemRiseEventDet,
		gpioMemFallEventDet,
		gpioMemHiDet,
		gpioMemLoDet,
		gpioMemAsyncRiseDet,
		gpioMemAsyncFallDet,
	} {
		hw.win[blockGpio].ClearBit(reg+uint32(pin/32), pin&31)
	}
	hw.ResetPinEvent(pin)
}

// PullMode configures the pull-up/down resistor of a pin. The sequence and
// both 150us waits come from the bcm2835 manual and must not be shortened.
func (hw *Hw) PullMode(pin uint8, pull PinPull) {
	if !validPin("pullMode", pin) {
		return
	}
	if pull > PULLup {
		log.Print("err", "pullMode: invalid pull value ", pull)
		return
	}
	w := hw.win[blockGpio]
	w.Write(gpioMemPull, uint32(pull))
	Uswait(150)
	off, _ := gpioBank(gpioMemPullClk, pin)
	w.SetBit(off, pin&31)
	Uswait(150)
	w.Write(gpioMemPull, 0x0)
	w.ClearBit(off, pin&31)
}
