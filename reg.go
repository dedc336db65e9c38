package vadelma

import (
	"sync"

	"github.com/platinasystems/log"
)

// hwModel reacts to register traffic on behalf of simulated hardware.
// Real mappings carry a nil model. Callbacks run with the window lock held
// and act on w.mem directly.
type hwModel interface {
	regRead(w *Window, off uint32)
	regWrite(w *Window, off uint32, old uint32, val uint32)
}

// Window is one mapped peripheral block: a page of word-addressed registers.
// It is owned by the Hw that mapped it; engines only borrow it. All access
// goes through Read/Write and the bit primitives below, which take the
// context lock around every register touch. The acquire/release pair is the
// memory fence: a status read can never be reordered ahead of the register
// write that triggered the hardware action it reports on.
type Window struct {
	name  string
	mem   []uint32
	mem8  []byte
	mu    *sync.Mutex
	model hwModel
}

// Read returns the register word at off with barrier semantics.
func (w *Window) Read(off uint32) uint32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.model != nil {
		w.model.regRead(w, off)
	}
	return w.mem[off]
}

// Write stores a full register word at off with barrier semantics.
func (w *Window) Write(off uint32, val uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	old := w.mem[off]
	w.mem[off] = val
	if w.model != nil {
		w.model.regWrite(w, off, old, val)
	}
}

// SetBit read-modify-writes a single word, setting bit pos.
// Positions above 31 are logged and ignored.
func (w *Window) SetBit(off uint32, pos uint8) {
	if pos > 31 {
		log.Print("err", "setBit: bit position out of range: ", pos)
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	old := w.mem[off]
	w.mem[off] = old | 1<<pos
	if w.model != nil {
		w.model.regWrite(w, off, old, old|1<<pos)
	}
}

// ClearBit read-modify-writes a single word, clearing bit pos.
func (w *Window) ClearBit(off uint32, pos uint8) {
	if pos > 31 {
		log.Print("err", "clearBit: bit position out of range: ", pos)
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	old := w.mem[off]
	w.mem[off] = old &^ (1 << pos)
	if w.model != nil {
		w.model.regWrite(w, off, old, old&^(1<<pos))
	}
}

// BitSet reports whether bit pos of the register at off is 1.
func (w *Window) BitSet(off uint32, pos uint8) bool {
	if pos > 31 {
		log.Print("err", "bitSet: bit position out of range: ", pos)
		return false
	}
	return w.Read(off)&(1<<pos) != 0
}

// WriteField replaces a multi-bit field in place; the single-bit primitives
// never touch fields wider than one bit.
func (w *Window) WriteField(f regField, val uint32) {
	mask := uint32(1)<<f.width - 1
	w.mu.Lock()
	defer w.mu.Unlock()
	old := w.mem[f.off]
	v := old&^(mask<<f.shift) | (val&mask)<<f.shift
	w.mem[f.off] = v
	if w.model != nil {
		w.model.regWrite(w, f.off, old, v)
	}
}

// ReadField extracts a multi-bit field with barrier semantics.
func (w *Window) ReadField(f regField) uint32 {
	return w.Read(f.off) >> f.shift & (uint32(1)<<f.width - 1)
}

// PinMode selects the function of a GPIO pin: input, output or one of the
// six alternate functions. One GPFSEL word covers ten pins, three bits each;
// the pin's field is cleared before the new code is ORed in, so the call is
// idempotent.
func (hw *Hw) PinMode(pin uint8, alt AltSetting) {
	if pin > 53 {
		log.Print("err", "pinMode: invalid pin ", pin)
		return
	}
	if alt > ALT3 {
		log.Print("err", "pinMode: invalid function select ", alt)
		return
	}
	fsel := gpioMemMode + uint32(pin)/10
	shift := uint8(pin%10) * 3
	w := hw.win[blockGpio]
	w.mu.Lock()
	defer w.mu.Unlock()
	old := w.mem[fsel]
	v := old&^(7<<shift) | uint32(alt)<<shift
	w.mem[fsel] = v
	if w.model != nil {
		w.model.regWrite(w, fsel, old, v)
	}
}
