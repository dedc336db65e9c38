package vadelma_test

import (
	"bytes"
	"testing"

	"github.com/jlaukka/vadelma"
)

func TestI2CStartStopPinFunctions(t *testing.T) {
	hw, _ := vadelma.OpenSim()
	bus := hw.I2C(1)
	if code := bus.Start(); code != vadelma.CodeOK {
		t.Fatalf("start failed: %v", code)
	}
	// header bus rides on gpio 2/3, alternate function 0
	for _, pin := range []uint8{2, 3} {
		if got := fselField(hw, pin); got != 4 {
			t.Fatalf("pin %d fsel %o after start", pin, got)
		}
	}
	bus.Stop()
	for _, pin := range []uint8{2, 3} {
		if got := fselField(hw, pin); got != 0 {
			t.Fatalf("pin %d fsel %o after stop", pin, got)
		}
	}
}

func TestI2CInvalidBus(t *testing.T) {
	hw, _ := vadelma.OpenSim()
	bus := hw.I2C(2)
	if bus != nil {
		t.Fatal("bus 2 should not exist")
	}
	if code := bus.Start(); code != vadelma.CodeNotMapped {
		t.Fatalf("nil bus start returned %v", code)
	}
}

func TestI2CWriteRoundtrip(t *testing.T) {
	hw, sim := vadelma.OpenSim()
	bus := hw.I2C(1)
	bus.Start()
	bus.SelectSlave(0x48)

	if got := sim.I2CAddr(); got != 0x48 {
		t.Fatalf("slave address register holds %#x", got)
	}

	msg := []byte{0x10, 0x20, 0x30}
	if code := bus.Write(msg); code != vadelma.CodeOK {
		t.Fatalf("write failed: %v", code)
	}

	writes := sim.I2CWrites()
	// first transaction is the SelectSlave probe
	if len(writes) != 2 || !bytes.Equal(writes[1], msg) {
		t.Fatalf("slave saw %v", writes)
	}
}

func TestI2CWriteTruncatesAtFifoSize(t *testing.T) {
	hw, sim := vadelma.OpenSim()
	bus := hw.I2C(0)
	bus.Start()

	long := make([]byte, 20)
	for i := range long {
		long[i] = byte(i)
	}
	if code := bus.Write(long); code != vadelma.CodeOK {
		t.Fatalf("write failed: %v", code)
	}
	writes := sim.I2CWrites()
	if len(writes) != 1 || !bytes.Equal(writes[0], long[:16]) {
		t.Fatalf("slave saw %v, want first 16 bytes", writes)
	}
}

func TestI2CWriteEmptyBuffer(t *testing.T) {
	hw, sim := vadelma.OpenSim()
	bus := hw.I2C(1)
	bus.Start()
	if code := bus.Write(nil); code != vadelma.CodeOK {
		t.Fatalf("empty write returned %v", code)
	}
	if code := bus.Read(nil); code != vadelma.CodeOK {
		t.Fatalf("empty read returned %v", code)
	}
	if writes := sim.I2CWrites(); len(writes) != 0 {
		t.Fatalf("empty write reached the slave: %v", writes)
	}
}

func TestI2CRead(t *testing.T) {
	hw, sim := vadelma.OpenSim()
	bus := hw.I2C(1)
	bus.Start()

	sim.FeedI2C([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	buf := make([]byte, 4)
	if code := bus.Read(buf); code != vadelma.CodeOK {
		t.Fatalf("read failed: %v", code)
	}
	if !bytes.Equal(buf, []byte{0xDE, 0xAD, 0xBE, 0xEF}) {
		t.Fatalf("read %v", buf)
	}
}

func TestI2CByteRead(t *testing.T) {
	hw, sim := vadelma.OpenSim()
	bus := hw.I2C(1)
	bus.Start()

	sim.FeedI2C([]byte{0x5A})
	b, code := bus.ByteRead()
	if code != vadelma.CodeOK {
		t.Fatalf("byte read failed: %v", code)
	}
	if b != 0x5A {
		t.Fatalf("byte read got %#x", b)
	}
}

func TestI2CReadStarvedSlave(t *testing.T) {
	hw, sim := vadelma.OpenSim()
	bus := hw.I2C(1)
	bus.Start()

	sim.FeedI2C([]byte{0x01, 0x02})
	buf := make([]byte, 5)
	if code := bus.Read(buf); code != vadelma.CodeIncomplete {
		t.Fatalf("short read returned %v", code)
	}
	if buf[0] != 0x01 || buf[1] != 0x02 {
		t.Fatalf("short read delivered %v", buf)
	}
}

func TestI2CNackOnSelect(t *testing.T) {
	hw, sim := vadelma.OpenSim()
	bus := hw.I2C(1)
	bus.Start()

	sim.SetI2CNack(true)
	if code := bus.SelectSlave(0x50); code != vadelma.CodeNoAck {
		t.Fatalf("absent slave selected: %v", code)
	}
	if code := bus.Write([]byte("AB")); code != vadelma.CodeNoAck {
		t.Fatalf("write to absent slave returned %v", code)
	}

	// the bus recovers once the slave answers again
	sim.SetI2CNack(false)
	if code := bus.SelectSlave(0x50); code != vadelma.CodeOK {
		t.Fatalf("select after recovery: %v", code)
	}
	writes := sim.I2CWrites()
	if len(writes) != 1 || writes[0][0] != 0x01 {
		t.Fatalf("fifo not clean after nacked transfers: %v", writes)
	}
}

func TestI2CClockStretch(t *testing.T) {
	hw, sim := vadelma.OpenSim()
	bus := hw.I2C(1)
	bus.Start()

	sim.SetI2CClockStretch(true)
	if code := bus.Write([]byte{0x01}); code != vadelma.CodeClockStretch {
		t.Fatalf("write under clock stretch returned %v", code)
	}
	buf := make([]byte, 2)
	if code := bus.Read(buf); code != vadelma.CodeClockStretch {
		t.Fatalf("read under clock stretch returned %v", code)
	}

	// a NACK outranks the clock-stretch flag when both are latched
	sim.SetI2CNack(true)
	if code := bus.Write([]byte{0x01}); code != vadelma.CodeNoAck {
		t.Fatalf("nack with clock stretch returned %v", code)
	}

	sim.SetI2CNack(false)
	sim.SetI2CClockStretch(false)
	if code := bus.Write([]byte{0x01}); code != vadelma.CodeOK {
		t.Fatalf("write after recovery returned %v", code)
	}
}

func TestI2CClockRegisters(t *testing.T) {
	hw, _ := vadelma.OpenSim()
	bus := hw.I2C(1)
	bus.Start()
	w := hw.TestWindow("bsc1")

	bus.SetClockFreq(2500)
	if got := w.Read(vadelma.TestI2CDivOff); got != 2500 {
		t.Fatalf("divider register %d", got)
	}
	if got := w.Read(vadelma.TestI2CDelOff); got != 1<<16|1 {
		t.Fatalf("delay register %#x", got)
	}

	// delays of cdiv/2 or more break the master and must not be written
	w.Write(vadelma.TestI2CDelOff, 0)
	bus.SetClockFreq(2)
	if got := w.Read(vadelma.TestI2CDelOff); got != 0 {
		t.Fatalf("unsafe delay written: %#x", got)
	}

	// 100 kbit/s on the 250 MHz system clock
	bus.SetBaud(100000)
	if got := w.Read(vadelma.TestI2CDivOff); got != 2500 {
		t.Fatalf("baud divider %d", got)
	}
}
