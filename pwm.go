package vadelma

import (
	"fmt"
)

// PwmPin is one of the four header pins that can carry a hardware PWM
// signal. The set is closed: construction rejects everything else, so the
// channel operations never re-validate. PWM operations address pins by
// physical header number and translate here to chip pin, alternate function
// and register channel.
type PwmPin struct {
	phys uint8
	gpio uint8
	alt  AltSetting
	ch   uint8
}

// Phys returns the physical header pin number.
func (p PwmPin) Phys() uint8 { return p.phys }

// Gpio returns the chip pin number behind the header pin.
func (p PwmPin) Gpio() uint8 { return p.gpio }

// Channel returns the PWM register channel, 1 or 2.
func (p PwmPin) Channel() uint8 { return p.ch }

var pwmPinTable = []PwmPin{
	{phys: 12, gpio: 18, alt: ALT5, ch: 1},
	{phys: 32, gpio: 12, alt: ALT0, ch: 1},
	{phys: 33, gpio: 13, alt: ALT0, ch: 2},
	{phys: 35, gpio: 19, alt: ALT5, ch: 2},
}

// PwmPinOf returns the PwmPin for a physical header pin, or an error for
// pins outside the fixed set {12, 32, 33, 35}.
func PwmPinOf(phys uint8) (PwmPin, error) {
	for _, p := range pwmPinTable {
		if p.phys == phys {
			return p, nil
		}
	}
	return PwmPin{}, fmt.Errorf("pin %d cannot carry hardware PWM, choose from physical pins 12, 32, 33, 35", phys)
}

// MustPwmPin is PwmPinOf for fixed wiring: an out-of-set pin terminates the
// process, since driving PWM state for an unmapped pin produces meaningless
// output.
func MustPwmPin(phys uint8) PwmPin {
	p, err := PwmPinOf(phys)
	if err != nil {
		fatal("pwm: ", err)
	}
	return p
}

func (p PwmPin) enableBit() uint8 {
	if p.ch == 1 {
		return pwmBitEnable1
	}
	return pwmBitEnable2
}

func (p PwmPin) modeBit() uint8 {
	if p.ch == 1 {
		return pwmBitMsMode1
	}
	return pwmBitMsMode2
}

func (p PwmPin) polarityBit() uint8 {
	if p.ch == 1 {
		return pwmBitPolarity1
	}
	return pwmBitPolarity2
}

func (p PwmPin) rangeReg() uint32 {
	if p.ch == 1 {
		return pwmMemRng1
	}
	return pwmMemRng2
}

func (p PwmPin) dataReg() uint32 {
	if p.ch == 1 {
		return pwmMemDat1
	}
	return pwmMemDat2
}

func (p PwmPin) staBit() uint8 {
	if p.ch == 1 {
		return pwmBitSta1
	}
	return pwmBitSta2
}

// PwmSetPin switches the pin to its PWM alternate function.
func (hw *Hw) PwmSetPin(p PwmPin) {
	hw.PinMode(p.gpio, p.alt)
}

// PwmResetPin reverts the pin to a plain GPIO input.
func (hw *Hw) PwmResetPin(p PwmPin) {
	hw.PinMode(p.gpio, ALTinput)
}

// PwmResetAllPins reverts all four PWM-capable pins to GPIO input.
func (hw *Hw) PwmResetAllPins() {
	for _, p := range pwmPinTable {
		hw.PinMode(p.gpio, ALTinput)
		Mswait(10)
	}
}

func (hw *Hw) pwmCtrl(pos uint8, on bool) {
	if on {
		hw.win[blockPwm].SetBit(pwmMemCtl, pos)
	} else {
		hw.win[blockPwm].ClearBit(pwmMemCtl, pos)
	}
	Uswait(10)
}

// PwmEnable starts or stops the pin's PWM channel.
func (hw *Hw) PwmEnable(p PwmPin, on bool) {
	hw.pwmCtrl(p.enableBit(), on)
}

// PwmSetMode selects mark/space mode (true) or balanced PWM mode (false)
// for the pin's channel.
func (hw *Hw) PwmSetMode(p PwmPin, markSpace bool) {
	hw.pwmCtrl(p.modeBit(), markSpace)
}

// PwmSetPolarity inverts (true) or restores (false) the output polarity of
// the pin's channel.
func (hw *Hw) PwmSetPolarity(p PwmPin, inverted bool) {
	hw.pwmCtrl(p.polarityBit(), inverted)
}

// resetStatusReg clears latched bus/read/write error flags, but only while
// the channel has no transmission in flight.
func (hw *Hw) resetStatusReg(p PwmPin) {
	sta := hw.win[blockPwm]

	active := sta.BitSet(pwmMemSta, p.staBit())
	Uswait(10)
	berr := sta.BitSet(pwmMemSta, pwmBitBerr)
	Uswait(10)
	rerr := sta.BitSet(pwmMemSta, pwmBitRerr)
	Uswait(10)
	werr := sta.BitSet(pwmMemSta, pwmBitWerr)
	Uswait(10)

	if !active {
		if rerr {
			sta.SetBit(pwmMemSta, pwmBitRerr)
		}
		if werr {
			sta.SetBit(pwmMemSta, pwmBitWerr)
		}
		if berr {
			sta.SetBit(pwmMemSta, pwmBitBerr)
		}
	}
	Uswait(10)
}

// PwmSetRange sets the period T of the channel's pulse in clock ticks.
func (hw *Hw) PwmSetRange(p PwmPin, r uint32) {
	hw.win[blockPwm].Write(p.rangeReg(), r)
	hw.resetStatusReg(p)
}

// PwmSetData sets the pulse width of the channel in clock ticks.
func (hw *Hw) PwmSetData(p PwmPin, d uint32) {
	hw.win[blockPwm].Write(p.dataReg(), d)
	hw.resetStatusReg(p)
}
