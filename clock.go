package vadelma

import (
	"github.com/platinasystems/log"
)

// PWM clock manager control. Reconfiguration follows the sequence required
// by the clock manager: PWM off, stop the running source, kill it if the
// busy flag sticks, write the divisor only while stopped, then restart on
// the oscillator.

func (hw *Hw) clockSource() uint32 {
	return hw.win[blockClk].ReadField(clkSrcField)
}

// ClockRunning reports the clock generator busy flag.
func (hw *Hw) ClockRunning() bool {
	return hw.win[blockClk].BitSet(pwmclkMemCtl, clkBitBusy)
}

func (hw *Hw) setClockDiv(div uint32) {
	pwm := hw.win[blockPwm]
	clk := hw.win[blockClk]

	// PWM must not run while the clock is reconfigured
	pwm.ClearBit(pwmMemCtl, pwmBitEnable1)
	pwm.ClearBit(pwmMemCtl, pwmBitEnable2)
	Uswait(10)

	// stop whichever source is currently selected
	switch hw.clockSource() {
	case clkSrcOsc:
		clk.Write(pwmclkMemCtl, clkPassword|clkSrcOsc)
	case clkSrcPlld:
		clk.Write(pwmclkMemCtl, clkPassword|clkSrcPlld)
	}
	Uswait(20)

	// forced reset if the generator is still running
	if clk.BitSet(pwmclkMemCtl, clkBitBusy) {
		clk.Write(pwmclkMemCtl, clkPassword|1<<clkBitKill)
		Uswait(100)
	}

	// the divisor may only change while the generator is stopped
	if !clk.BitSet(pwmclkMemCtl, clkBitBusy) {
		clk.Write(pwmclkMemDiv, clkPassword|div<<12)
	}
	Uswait(20)
}

// SetPwmClockDivisor sets the PWM clock divisor, 0 < div < 4096. An
// out-of-range divisor is logged and skipped, but the enable step still
// runs with whatever divisor the generator already has. Returns true once
// the oscillator source has taken effect.
func (hw *Hw) SetPwmClockDivisor(div uint32) bool {
	if 0 < div && div < 4096 {
		hw.setClockDiv(div)
	} else {
		log.Print("err", "setPwmClockDivisor: invalid divisor ", div)
	}

	// select the 19.2 MHz oscillator and enable
	hw.win[blockClk].Write(pwmclkMemCtl, clkPassword|1<<clkBitEnab|clkSrcOsc)
	Uswait(10)

	return hw.clockSource() == clkSrcOsc
}
