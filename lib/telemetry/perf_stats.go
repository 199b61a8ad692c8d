package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

const perfSampleInterval = time.Second * 30

// InstrumentPerfStats samples process health (cpu share, heap size,
// live objects, goroutine count) onto the meter until ctx is
// cancelled. the daemon starts this once after telemetry setup.
func InstrumentPerfStats(ctx context.Context) {
	go samplePerfStats(ctx, perfSampleInterval)
}

func samplePerfStats(ctx context.Context, interval time.Duration) {
	meter := otel.Meter("campusdining.perf")
	cpuGauge, _ := meter.Float64Gauge("process.cpu_percent")
	heapGauge, _ := meter.Int64Gauge("process.heap_alloc_mb")
	liveObjectsGauge, _ := meter.Int64Gauge("process.live_objects")
	goroutineGauge, _ := meter.Int64Gauge("process.goroutines")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var memStats runtime.MemStats
	for {
		select {
		case <-ticker.C:
			runtime.ReadMemStats(&memStats)
			heapGauge.Record(ctx, int64(memStats.Alloc/1_000_000))
			liveObjectsGauge.Record(ctx, int64(memStats.Mallocs)-int64(memStats.Frees))
			goroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))

			// interval 0 measures since the previous call instead of
			// blocking the sampler for a whole measurement window
			usage, err := cpu.PercentWithContext(ctx, 0, false)
			if err != nil {
				slog.WarnContext(ctx, "read cpu usage", "err", err)
				continue
			}
			if len(usage) > 0 {
				cpuGauge.Record(ctx, usage[0])
			}
		case <-ctx.Done():
			return
		}
	}
}
