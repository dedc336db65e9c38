package vadelma

// Micros returns the free-running 1 MHz system timer counter. The low and
// high words are separate registers; the high word is re-read until it is
// stable around the low-word read.
func (hw *Hw) Micros() uint64 {
	st := hw.win[blockTimer]
	for {
		hi := st.Read(stMemCHI)
		lo := st.Read(stMemCLO)
		if st.Read(stMemCHI) == hi {
			return uint64(hi)<<32 | uint64(lo)
		}
	}
}
