package vadelma_test

import (
	"testing"

	"github.com/jlaukka/vadelma"
)

func TestCodeErr(t *testing.T) {
	if err := vadelma.CodeOK.Err(); err != nil {
		t.Fatalf("ok code produced error %v", err)
	}
	err := vadelma.CodeNoAck.Err()
	if err == nil {
		t.Fatal("failure code produced nil error")
	}
	if err.Error() != "no_ack" {
		t.Fatalf("error text %q", err.Error())
	}
	if err != vadelma.CodeNoAck {
		t.Fatal("error lost its code identity")
	}
}

func TestMicrosMonotonic(t *testing.T) {
	hw, _ := vadelma.OpenSim()
	prev := hw.Micros()
	for i := 0; i < 100; i++ {
		now := hw.Micros()
		if now <= prev {
			t.Fatalf("timer went backwards: %d then %d", prev, now)
		}
		prev = now
	}
}
