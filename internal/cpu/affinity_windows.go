//go:build windows

package cpu

import (
	"runtime"

	"golang.org/x/sys/windows"
)

var (
	kernel32              = windows.NewLazySystemDLL("kernel32.dll")
	setThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
)

// pinToCore pins the current OS thread to one CPU core.
// Must be called after runtime.LockOSThread().
// Returns the previous affinity mask on success.
func pinToCore(processorID int) (uintptr, error) {
	cpuID := coreFor(processorID, runtime.NumCPU())

	// Bit N = CPU N.
	mask := uintptr(1) << cpuID

	prevMask, _, err := setThreadAffinityMask.Call(uintptr(windows.CurrentThread()), mask)
	if prevMask == 0 {
		return 0, err
	}
	return prevMask, nil
}

// SetupProcessorAffinity locks the calling goroutine to an OS thread and
// pins that thread to the core matching processorID.
// Returns a cleanup function that should be deferred.
func SetupProcessorAffinity(processorID int) func() {
	runtime.LockOSThread()
	_, _ = pinToCore(processorID)

	return func() {
		runtime.UnlockOSThread()
	}
}
