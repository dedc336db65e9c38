package vadelma

// White-box hooks for the external test package.

const (
	TestClkCtlOff   = pwmclkMemCtl
	TestClkDivOff   = pwmclkMemDiv
	TestGpioModeOff = gpioMemMode
	TestPwmRng1Off  = pwmMemRng1
	TestPwmDat2Off  = pwmMemDat2
	TestSpiCSOff    = spiMemCS
	TestI2CDivOff   = i2cMemDiv
	TestI2CDelOff   = i2cMemDel
)

// TestWindow exposes a mapped window by block name for register-level
// assertions.
func (hw *Hw) TestWindow(name string) *Window {
	for _, w := range hw.win {
		if w != nil && w.name == name {
			return w
		}
	}
	return nil
}
