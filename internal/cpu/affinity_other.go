//go:build !linux && !darwin && !windows

package cpu

import "runtime"

// SetupProcessorAffinity locks the goroutine to an OS thread.
// CPU pinning is not supported on this platform.
func SetupProcessorAffinity(processorID int) func() {
	runtime.LockOSThread()

	return func() {
		runtime.UnlockOSThread()
	}
}
