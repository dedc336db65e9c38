package vadelma

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"os"
	"strings"

	"github.com/platinasystems/fdt"
)

// ChipProfile is resolved once at Open and immutable afterwards. Every
// register address is a fixed block offset from PeriBase; SystemClockHz
// feeds the I2C baud divisor calculation.
type ChipProfile struct {
	PeriBase      uint32
	SystemClockHz uint32
}

var dtbPaths = []string{"/sys/firmware/fdt", "/boot/linux.dtb"}

// baseFromDTB parses a flattened device tree blob and returns the parent bus
// address from the soc node's ranges property, which is the peripheral base.
func baseFromDTB(path string) (uint32, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	t := &fdt.Tree{Debug: false, IsLittleEndian: false}
	t.Parse(b)
	var base uint32
	var found bool
	t.MatchNode("soc", func(n *fdt.Node) {
		ranges, ok := n.Properties["ranges"]
		if !ok || len(ranges) < 8 {
			return
		}
		// ranges is (child address, parent address, size) cells; the
		// second cell is the physical peripheral base.
		base = binary.BigEndian.Uint32(ranges[4:8])
		found = true
	})
	return base, found
}

// baseFromSocRanges reads the already-unpacked ranges property that the
// kernel exposes under /proc/device-tree.
func baseFromSocRanges() (uint32, bool) {
	ranges, err := os.Open("/proc/device-tree/soc/ranges")
	if err != nil {
		return 0, false
	}
	defer ranges.Close()
	b := make([]byte, 4)
	if n, err := ranges.ReadAt(b, 4); n != 4 || err != nil {
		return 0, false
	}
	var out uint32
	if err := binary.Read(bytes.NewReader(b), binary.BigEndian, &out); err != nil {
		return 0, false
	}
	return out, true
}

// cpuinfo returns the values of the "model name", "Hardware" and "Revision"
// lines of /proc/cpuinfo. Missing lines come back empty.
func cpuinfo() (model, hardware, revision string) {
	f, err := os.Open("/proc/cpuinfo")
	if err != nil {
		return
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "model name") && model == "":
			model = line
		case strings.HasPrefix(line, "Hardware"):
			hardware = line
		case strings.HasPrefix(line, "Revision"):
			revision = line
		}
	}
	return
}

// 400 MHz core clock board revisions (Pi 3 family)
var fastRevisions = []string{"a02082", "a22082", "a32082", "a020a0"}

// resolveProfile determines the peripheral base and system clock for this
// board. Base detection order: device tree blob, /proc/device-tree, then the
// /proc/cpuinfo CPU-model heuristic. Unrecognized hardware falls back to the
// oldest base.
func resolveProfile() ChipProfile {
	prof := ChipProfile{PeriBase: bcm2835Base, SystemClockHz: sysClockSlowHz}

	model, _, revision := cpuinfo()
	switch {
	case strings.Contains(model, "ARMv7"):
		prof.PeriBase = bcm2836Base
	case strings.Contains(model, "ARMv8"):
		prof.PeriBase = bcm2836Base
		prof.SystemClockHz = sysClockFastHz
	}
	for _, rev := range fastRevisions {
		if strings.Contains(revision, rev) {
			prof.SystemClockHz = sysClockFastHz
		}
	}

	for _, path := range dtbPaths {
		if base, ok := baseFromDTB(path); ok {
			prof.PeriBase = base
			return prof
		}
	}
	if base, ok := baseFromSocRanges(); ok {
		prof.PeriBase = base
	}
	return prof
}
