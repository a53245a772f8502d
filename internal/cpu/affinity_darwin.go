//go:build darwin

package cpu

import (
	"runtime"
)

// SetupProcessorAffinity locks the goroutine to an OS thread.
// CPU pinning is not available on macOS.
func SetupProcessorAffinity(processorID int) func() {
	runtime.LockOSThread()

	return func() {
		runtime.UnlockOSThread()
	}
}
