//go:build !linux

package reactor

import "runtime"

// pinWorker only locks the goroutine to a thread; CPU affinity is not
// portable off linux.
func pinWorker(_ int) {
	runtime.LockOSThread()
}

// fileDescriptorLimit falls back to a fixed client cap off linux.
func fileDescriptorLimit() int {
	return 1024
}
