/*
Test can be done only for functions that calculate something, like the PWM
timing math. Calculation should be "stable" when going regs->timing->regs.
*/
package vadelma_test

import (
	"testing"
	"time"

	"github.com/jlaukka/vadelma"
)

func TestPwmTimingStable(t *testing.T) {
	s := vadelma.PwmSettings{Div: 192, Range: 2000, Data: 100}
	timing := s.Timing()
	s2, err := timing.Settings()
	if err != nil {
		t.Fatal(err)
	}
	onErr, offErr := timing.DeviationPercent(s2.Timing())
	if onErr > 15 || offErr > 15 {
		t.Fatalf("pulse timing not stable: %#v -> %#v -> %#v (on %v%% off %v%%)", s, timing, s2, onErr, offErr)
	}

	s.Div = 3
	for rng := 300; rng < 1000; rng += 300 {
		for data := 25; data < rng-2; data += 37 {
			s.Range = uint32(rng)
			s.Data = uint32(data)
			timing = s.Timing()
			s2, err = timing.Settings()
			if err != nil {
				t.Fatal(err)
			}
			onErr, offErr = timing.DeviationPercent(s2.Timing())
			if onErr > 15 || offErr > 15 {
				t.Fatalf("pulse timing not stable at rng=%d data=%d: on %v%% off %v%%", rng, data, onErr, offErr)
			}
		}
	}
}

func TestPwmTimingDegenerate(t *testing.T) {
	var zero vadelma.PulseTiming
	s, err := zero.Settings()
	if err != nil {
		t.Fatal(err)
	}
	if !s.Equal(vadelma.PwmSettings{}) {
		t.Fatalf("zero timing produced settings %#v", s)
	}
	if got := zero.FastSettings(); !got.Equal(vadelma.PwmSettings{}) {
		t.Fatalf("zero timing produced fast settings %#v", got)
	}
}

func TestPwmTimingUnrepresentable(t *testing.T) {
	// period longer than the max divisor can stretch the range register to
	bad := vadelma.PulseTiming{On: 2 * time.Second, Off: time.Millisecond}
	if _, err := bad.Settings(); err == nil {
		t.Fatal("absurd pulse accepted")
	}
}
