//go:build linux

package reactor

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinWorker locks the worker goroutine to an OS thread and binds that thread
// to the CPU matching the reactor's slot.
func pinWorker(slot int) {
	runtime.LockOSThread()

	var set unix.CPUSet
	set.Zero()
	set.Set(slot % runtime.NumCPU())

	if err := unix.SchedSetaffinity(0, &set); err != nil {
		Logger.Warningf("failed to pin worker %d: %v", slot, err)
	}
}

// fileDescriptorLimit reads the soft fd limit; it caps how many clients one
// reactor will hold.
func fileDescriptorLimit() int {
	var limit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &limit); err != nil {
		return 1024
	}
	return int(limit.Cur)
}
