// Package cpu gives each processor goroutine its own OS thread and, where
// the platform allows it, its own core.
package cpu

// coreFor maps a processor id onto one of n cores.
func coreFor(processorID, n int) int {
	if n <= 0 {
		return 0
	}
	if processorID < 0 {
		processorID = -processorID
	}
	return processorID % n
}
