package vadelma

import (
	"golang.org/x/sys/unix"
)

// The hardware manual mandates fixed settle times at several points (pull
// clocking, clock manager reconfiguration). These waits go through
// unix.Nanosleep and resume with the remaining duration when interrupted,
// so a signal can never shorten a mandated wait.

func sleepSpec(ts unix.Timespec) {
	var rem unix.Timespec
	for unix.Nanosleep(&ts, &rem) == unix.EINTR {
		ts = rem
	}
}

// Nswait blocks for at least ns nanoseconds.
func Nswait(ns uint64) {
	sleepSpec(unix.Timespec{Sec: int64(ns / 1000000000), Nsec: int64(ns % 1000000000)})
}

// Uswait blocks for at least us microseconds.
func Uswait(us uint32) {
	sleepSpec(unix.Timespec{Sec: int64(us / 1000000), Nsec: int64(us%1000000) * 1000})
}

// Mswait blocks for at least ms milliseconds.
func Mswait(ms uint32) {
	sleepSpec(unix.Timespec{Sec: int64(ms / 1000), Nsec: int64(ms%1000) * 1000000})
}
