/*
Vadelma is a peripheral-register access layer for BCM283x based single-board
computers (Raspberry Pi 1 B+, 2, 3, Zero W).

features
-GPIO input/output, pull up/down
-GPIO events  rise/fall/level/asyncrise/asyncfall (polled status bits)
-Hardware PWM on both channels, clock manager reconfiguration
-I2C (BSC0/BSC1) master transfers over the register FIFO
-SPI0 master full-duplex transfers

Register semantics follow the BCM2835 ARM Peripherals manual. Everything is
synchronous and blocking: protocol operations spin on hardware status bits,
and a wedged bus can block the caller unless a PollBudget is set.

Design principle:
0) No c code, the only write path to hardware is the Window primitives
1) Only low level register tricks, no protocol driven by kernel drivers
2) One Hw context per process; tests get their own simulated contexts
*/
package vadelma

import (
	"os"
	"reflect"
	"sync"
	"syscall"
	"unsafe"

	"github.com/platinasystems/log"
	"golang.org/x/sys/unix"
)

// Hw is the owning context for the mapped peripheral windows. All engines
// (GPIO, clock/PWM, I2C, SPI) operate on windows borrowed from it; only Hw
// maps and unmaps. There is no concurrency control beyond the per-context
// register lock: the model is one exclusive owner thread per context.
type Hw struct {
	mu   sync.Mutex
	prof ChipProfile

	// PollBudget bounds every status-poll loop to at most this many
	// iterations; 0 keeps the hardware-faithful unbounded spin. A poll
	// that exhausts the budget reports CodePollTimeout.
	PollBudget int

	win [blockCount]*Window
}

// Profile returns the chip profile resolved at Open.
func (hw *Hw) Profile() ChipProfile { return hw.prof }

func fatal(args ...interface{}) {
	log.Print(append([]interface{}{"err"}, args...)...)
	os.Exit(1)
}

// wordView reuses the mapped byte slice as a word-addressed register view.
func wordView(mem8 []byte) []uint32 {
	header := *(*reflect.SliceHeader)(unsafe.Pointer(&mem8))
	header.Len /= 4
	header.Cap /= 4
	return *(*[]uint32)(unsafe.Pointer(&header))
}

// Open resolves the chip profile and maps one page for each of the seven
// peripheral blocks from /dev/mem, zeroing the first word of every window as
// a liveness probe. A half-initialized peripheral layer is unsafe to drive
// hardware with, so any open or mapping failure terminates the process.
// Needs root. At most one Open/Close pair may be active per process;
// re-opening without Close leaks the previous mapping.
func Open() *Hw {
	hw := &Hw{prof: resolveProfile()}

	fd, err := unix.Open("/dev/mem", unix.O_RDWR|unix.O_SYNC|unix.O_CLOEXEC, 0)
	if err != nil {
		fatal("open /dev/mem: ", err, " (try running as root)")
	}
	// FD can be closed after memory mapping
	defer unix.Close(fd)

	for b := peripheralBlock(0); b < blockCount; b++ {
		mem8, err := syscall.Mmap(
			fd,
			int64(hw.prof.PeriBase+blockTable[b].offset),
			pageSize,
			syscall.PROT_READ|syscall.PROT_WRITE|syscall.PROT_EXEC,
			syscall.MAP_SHARED|syscall.MAP_LOCKED)
		if err != nil {
			fatal("mmap ", blockTable[b].name, ": ", err)
		}
		w := &Window{
			name: blockTable[b].name,
			mem8: mem8,
			mem:  wordView(mem8),
			mu:   &hw.mu,
		}
		hw.win[b] = w
		w.Write(0, 0x0)
	}
	return hw
}

// Close unmaps all windows. Any unmap failure is fatal; afterwards every
// window is gone and register operations on this context are a programming
// error until a fresh Open.
func (hw *Hw) Close() {
	for b := peripheralBlock(0); b < blockCount; b++ {
		w := hw.win[b]
		if w == nil {
			continue
		}
		if w.mem8 != nil {
			if err := syscall.Munmap(w.mem8); err != nil {
				fatal("munmap ", w.name, ": ", err)
			}
		}
		w.mem8 = nil
		w.mem = nil
		hw.win[b] = nil
	}
}
