/*
Utilities for hardware PWM control.

Converts between register settings (clock divisor, range, data) and the
on/off pulse durations they produce, both directions. Calculation should be
"stable" when going regs->timing->regs.
*/
package vadelma

import (
	"fmt"
	"math"
	"time"
)

// One PWM clock tick from the 19.2 MHz oscillator
const pwmTickNs float64 = 52.0833333333 //=(1000*1000*1000)/19200000

const (
	minPwmDiv   uint32 = 2
	maxPwmDiv   uint32 = 4095
	maxPwmRange uint32 = 4096
)

// PwmSettings are the three register values that define a PWM waveform:
// clock divisor, range (period in ticks) and data (pulse width in ticks).
type PwmSettings struct {
	Div   uint32 //2-4095
	Range uint32
	Data  uint32
}

func (s PwmSettings) Equal(a PwmSettings) bool {
	return s.Div == a.Div && s.Range == a.Range && s.Data == a.Data
}

// PulseTiming is one PWM period expressed as on and off durations.
type PulseTiming struct {
	On  time.Duration
	Off time.Duration
}

// Timing returns the pulse durations these settings produce in mark/space
// mode.
func (s PwmSettings) Timing() PulseTiming {
	blockTime := pwmTickNs * float64(s.Div)
	return PulseTiming{
		On:  time.Duration(blockTime*float64(s.Data)) * time.Nanosecond,
		Off: time.Duration(blockTime*float64(s.Range-s.Data)) * time.Nanosecond,
	}
}

// FastSettings picks the smallest divisor that can express the timing,
// trading range headroom for resolution.
func (t PulseTiming) FastSettings() PwmSettings {
	if t.On.Nanoseconds() == 0 || t.Off.Nanoseconds() == 0 {
		return PwmSettings{} //do not give anything stupid
	}
	s := PwmSettings{Div: minPwmDiv}
	s.Range = uint32(float64(t.On.Nanoseconds()+t.Off.Nanoseconds())/pwmTickNs) + 1
	s.Data = uint32(float64(t.On.Nanoseconds())/pwmTickNs) + 1
	return s
}

// Settings converts a timing to register settings, dividing the period down
// until it fits the range register.
func (t PulseTiming) Settings() (PwmSettings, error) {
	if t.On.Nanoseconds() == 0 || t.Off.Nanoseconds() == 0 {
		return PwmSettings{}, nil
	}

	s := PwmSettings{}
	//How many oscillator ticks one period takes
	clocksPerPeriod := uint32(math.Ceil(float64(t.On.Nanoseconds()+t.Off.Nanoseconds()) / pwmTickNs))
	s.Div = uint32(math.Ceil(float64(clocksPerPeriod)/float64(maxPwmRange))) + 1
	if s.Div < minPwmDiv {
		s.Div = minPwmDiv
	}
	s.Range = uint32(math.Floor(float64(clocksPerPeriod) / float64(s.Div)))
	s.Data = uint32(math.Floor(float64(t.On.Nanoseconds())/(pwmTickNs*float64(s.Div)))) + 1

	if s.Range <= s.Data {
		return s, fmt.Errorf("cant do requested on/off %v/%v us pulse", float64(t.On.Nanoseconds())/1000.0, float64(t.Off.Nanoseconds())/1000.0)
	}
	if maxPwmDiv < s.Div {
		return s, fmt.Errorf("cant do requested on/off %v/%v us pulse, divisor out of range", float64(t.On.Nanoseconds())/1000.0, float64(t.Off.Nanoseconds())/1000.0)
	}
	return s, nil
}

// DeviationPercent returns how far this timing is from ref, floored whole
// percents for on and off separately.
func (t PulseTiming) DeviationPercent(ref PulseTiming) (onErr float64, offErr float64) {
	dOn := 100 * math.Abs(float64(t.On.Nanoseconds()-ref.On.Nanoseconds())/float64(t.On.Nanoseconds()))
	dOff := 100 * math.Abs(float64(t.Off.Nanoseconds()-ref.Off.Nanoseconds())/float64(t.Off.Nanoseconds()))
	return math.Floor(dOn), math.Floor(dOff)
}

// ApplyPwm routes a waveform to a PWM pin: alternate function, mark/space
// mode, clock divisor, range and data.
func (hw *Hw) ApplyPwm(p PwmPin, s PwmSettings) {
	hw.PwmSetPin(p)
	hw.PwmSetMode(p, true)
	hw.PwmEnable(p, true)
	hw.SetPwmClockDivisor(s.Div)
	hw.PwmSetRange(p, s.Range)
	hw.PwmSetData(p, s.Data)
}

// PwmForceLevel parks a PWM pin at a constant level: channel disabled, pin
// driven as a plain output.
func (hw *Hw) PwmForceLevel(p PwmPin, level bool) {
	hw.PwmEnable(p, false)
	hw.PinMode(p.gpio, ALToutput)
	if level {
		hw.PinSet(p.gpio)
	} else {
		hw.PinClear(p.gpio)
	}
}
