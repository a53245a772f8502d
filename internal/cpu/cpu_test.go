package cpu

import (
	"runtime"
	"testing"
)

func TestCoreFor(t *testing.T) {
	tests := []struct {
		name        string
		processorID int
		cores       int
		want        int
	}{
		{name: "within range", processorID: 2, cores: 4, want: 2},
		{name: "wraps around", processorID: 5, cores: 4, want: 1},
		{name: "negative id", processorID: -3, cores: 4, want: 3},
		{name: "no cores", processorID: 3, cores: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coreFor(tt.processorID, tt.cores); got != tt.want {
				t.Errorf("expected core %d, got %d", tt.want, got)
			}
		})
	}
}

func TestSetupProcessorAffinity(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		release := SetupProcessorAffinity(runtime.NumCPU() + 1)
		release()
	}()
	<-done
}
