//go:build linux

package cpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinToCore pins the current OS thread to one CPU core.
// Must be called after runtime.LockOSThread().
//
// Processor ids beyond the number of cores wrap around.
func pinToCore(processorID int) (int, error) {
	cpuID := coreFor(processorID, runtime.NumCPU())

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpuID)

	if err := unix.SchedSetaffinity(0, &mask); err != nil { // 0 = current thread
		return 0, err
	}
	return cpuID, nil
}

// CurrentCores returns the cores the calling thread may run on.
func CurrentCores() ([]int, error) {
	var mask unix.CPUSet
	if err := unix.SchedGetaffinity(0, &mask); err != nil {
		return nil, err
	}

	cores := make([]int, 0, mask.Count())
	for i := range runtime.NumCPU() {
		if mask.IsSet(i) {
			cores = append(cores, i)
		}
	}
	return cores, nil
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
