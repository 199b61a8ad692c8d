package telemetry

import (
	"context"
	"testing"
	"time"
)

func TestPerfStatsSamplerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		samplePerfStats(ctx, time.Millisecond)
		close(done)
	}()

	// let a few samples land before pulling the plug
	time.Sleep(time.Millisecond * 20)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sampler kept running after cancellation")
	}
}
