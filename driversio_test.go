package vadelma_test

import (
	"bytes"
	"testing"

	"github.com/jlaukka/vadelma"
)

func TestI2CConnTx(t *testing.T) {
	hw, sim := vadelma.OpenSim()
	bus := hw.I2C(1)
	bus.Start()
	conn := vadelma.I2CConn{Bus: bus}

	sim.FeedI2C([]byte{0x11, 0x22})
	r := make([]byte, 2)
	if err := conn.Tx(0x76, []byte{0xD0}, r); err != nil {
		t.Fatal(err)
	}
	if sim.I2CAddr() != 0x76 {
		t.Fatalf("slave address %#x", sim.I2CAddr())
	}
	if !bytes.Equal(r, []byte{0x11, 0x22}) {
		t.Fatalf("read back %v", r)
	}
	writes := sim.I2CWrites()
	if len(writes) != 1 || !bytes.Equal(writes[0], []byte{0xD0}) {
		t.Fatalf("slave saw %v", writes)
	}
}

func TestI2CConnTxErrorSurfaces(t *testing.T) {
	hw, sim := vadelma.OpenSim()
	bus := hw.I2C(1)
	bus.Start()
	conn := vadelma.I2CConn{Bus: bus}

	sim.SetI2CNack(true)
	err := conn.Tx(0x76, []byte{0xD0}, nil)
	if err != vadelma.CodeNoAck {
		t.Fatalf("nack surfaced as %v", err)
	}
}

func TestI2CConnWriteRegister(t *testing.T) {
	hw, sim := vadelma.OpenSim()
	bus := hw.I2C(1)
	bus.Start()
	conn := vadelma.I2CConn{Bus: bus}

	if err := conn.WriteRegister(0x68, 0x6B, []byte{0x00, 0x80}); err != nil {
		t.Fatal(err)
	}
	writes := sim.I2CWrites()
	if len(writes) != 1 || !bytes.Equal(writes[0], []byte{0x6B, 0x00, 0x80}) {
		t.Fatalf("slave saw %v", writes)
	}
}

func TestSPIConnTxPadsBuffers(t *testing.T) {
	hw, _ := vadelma.OpenSim()
	port := hw.SPI0()
	port.Start()
	conn := vadelma.SPIConn{Port: port}

	// command byte out, two response bytes back
	r := make([]byte, 3)
	if err := conn.Tx([]byte{0x9F}, r); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(r, []byte{0x9F, 0x00, 0x00}) {
		t.Fatalf("padded transfer read %v", r)
	}

	if err := conn.Tx(nil, nil); err != nil {
		t.Fatal(err)
	}
}

func TestSPIConnTransferByte(t *testing.T) {
	hw, _ := vadelma.OpenSim()
	port := hw.SPI0()
	port.Start()
	conn := vadelma.SPIConn{Port: port}

	got, err := conn.Transfer(0xC3)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0xC3 {
		t.Fatalf("loopback byte %#x", got)
	}
}
