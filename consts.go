package vadelma

// Peripheral block table. Physical address of a block is profile base +
// block offset; every block gets one mapped page.
const pageSize = 4096

type peripheralBlock int

const (
	blockTimer peripheralBlock = iota
	blockClk
	blockGpio
	blockSpi0
	blockBsc0
	blockPwm
	blockBsc1
	blockCount
)

var blockTable = [blockCount]struct {
	name   string
	offset uint32
}{
	blockTimer: {"systimer", 0x003000},
	blockClk:   {"clk", 0x101000},
	blockGpio:  {"gpio", 0x200000},
	blockSpi0:  {"spi0", 0x204000},
	blockBsc0:  {"bsc0", 0x205000},
	blockPwm:   {"pwm", 0x20C000},
	blockBsc1:  {"bsc1", 0x804000},
}

const (
	bcm2835Base uint32 = 0x20000000 //Old base, first quess
	bcm2836Base uint32 = 0x3F000000
	clkPassword uint32 = 0x5A000000
)

// System clock: 250 MHz on older boards, 400 MHz on BCM2837
const (
	sysClockSlowHz uint32 = 250000000
	sysClockFastHz uint32 = 400000000
)

// System timer register words
const (
	stMemCS  uint32 = 0
	stMemCLO uint32 = 1
	stMemCHI uint32 = 2
)

// GPIO register words
const (
	gpioMemMode         uint32 = 0
	gpioMemSet          uint32 = 7
	gpioMemClr          uint32 = 10
	gpioMemLevel        uint32 = 13
	gpioMemEventDet     uint32 = 16
	gpioMemRiseEventDet uint32 = 19
	gpioMemFallEventDet uint32 = 22
	gpioMemHiDet        uint32 = 25
	gpioMemLoDet        uint32 = 28
	gpioMemAsyncRiseDet uint32 = 31
	gpioMemAsyncFallDet uint32 = 34
	gpioMemPull         uint32 = 37
	gpioMemPullClk      uint32 = 38
)

//	000 = GPIO Pin X is an input
//	001 = GPIO Pin X is an output
//	010 = GPIO Pin X takes alternate function 5
//	011 = GPIO Pin X takes alternate function 4
//	100 = GPIO Pin X takes alternate function 0
//	101 = GPIO Pin X takes alternate function 1
//	110 = GPIO Pin X takes alternate function 2
//	111 = GPIO Pin X takes alternate function 3
type AltSetting byte

const (
	ALTinput AltSetting = iota
	ALToutput
	ALT5
	ALT4
	ALT0
	ALT1
	ALT2
	ALT3
)

type PinPull byte

//Raspberry have pull up and downs
const (
	PULLoff PinPull = iota
	PULLdown
	PULLup
)

// PWM clock manager register words (CM_PWMCTL/CM_PWMDIV at 0xA0/0xA4)
const (
	pwmclkMemCtl uint32 = 40
	pwmclkMemDiv uint32 = 41
)

// CM_PWMCTL bits
const (
	clkBitEnab uint8 = 4
	clkBitKill uint8 = 5
	clkBitBusy uint8 = 7
)

// CM_PWMCTL SRC field values
const (
	clkSrcOsc  uint32 = 0x1 //19.2 MHz oscillator
	clkSrcPlld uint32 = 0x6
)

// PWM register words
const (
	pwmMemCtl  uint32 = 0
	pwmMemSta  uint32 = 1
	pwmMemDmac uint32 = 2
	pwmMemRng1 uint32 = 4
	pwmMemDat1 uint32 = 5
	pwmMemFif1 uint32 = 6
	pwmMemRng2 uint32 = 8
	pwmMemDat2 uint32 = 9
)

// PWM CTL bit positions per channel (channel 1 / channel 2)
const (
	pwmBitEnable1   uint8 = 0
	pwmBitPolarity1 uint8 = 4
	pwmBitMsMode1   uint8 = 7
	pwmBitEnable2   uint8 = 8
	pwmBitPolarity2 uint8 = 12
	pwmBitMsMode2   uint8 = 15
)

// PWM STA bits
const (
	pwmBitWerr uint8 = 2
	pwmBitRerr uint8 = 3
	pwmBitBerr uint8 = 8
	pwmBitSta1 uint8 = 9
	pwmBitSta2 uint8 = 10
)

// BSC (I2C) register words
const (
	i2cMemC    uint32 = 0
	i2cMemS    uint32 = 1
	i2cMemDlen uint32 = 2
	i2cMemA    uint32 = 3
	i2cMemFifo uint32 = 4
	i2cMemDiv  uint32 = 5
	i2cMemDel  uint32 = 6
	i2cMemClkt uint32 = 7
)

// BSC control register bits
const (
	i2cBitRead  uint8 = 0
	i2cBitSt    uint8 = 7
	i2cBitI2cEn uint8 = 15
)

// BSC status register bits
const (
	i2cBitTa   uint8 = 0
	i2cBitDone uint8 = 1
	i2cBitTxw  uint8 = 2
	i2cBitRxd  uint8 = 5
	i2cBitErr  uint8 = 8
	i2cBitClkt uint8 = 9
)

// One BSC FIFO write/read cycle moves at most this many bytes
const i2cFifoMax = 16

// SPI0 register words
const (
	spiMemCS   uint32 = 0
	spiMemFifo uint32 = 1
	spiMemClk  uint32 = 2
	spiMemDlen uint32 = 3
	spiMemLtoh uint32 = 4
	spiMemDc   uint32 = 5
)

// SPI CS register bits
const (
	spiBitTa     uint8 = 7
	spiBitLossi  uint8 = 13
	spiBitDone   uint8 = 16
	spiBitRxd    uint8 = 17
	spiBitTxd    uint8 = 18
	spiBitCsPol0 uint8 = 21
	spiBitCsPol1 uint8 = 22
	spiBitCsPol2 uint8 = 23
)

// Multi-bit fields are described once here and written through
// Window.WriteField, never with the single-bit primitives.
type regField struct {
	off   uint32
	shift uint8
	width uint8
}

var (
	clkSrcField     = regField{pwmclkMemCtl, 0, 4}
	i2cClearField   = regField{i2cMemC, 4, 2}
	spiClearField   = regField{spiMemCS, 4, 2}
	spiModeField    = regField{spiMemCS, 2, 2} //CPHA bit 2, CPOL bit 3
	spiChipSelField = regField{spiMemCS, 0, 2}
)
