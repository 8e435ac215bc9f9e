package render

import (
	"sync"
	"time"
)

// perfWindow is how many ticks are accumulated before a perf report is
// emitted and the accumulators reset.
const perfWindow = 100

// Stats is the once-per-second report delivered to the onStats callback
// and the web dashboard.
type Stats struct {
	FPS       float64 `json:"fps"`
	TargetFPS int     `json:"target_fps"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
}

// PerfReport is the averaged per-stage timing over one perf window.
type PerfReport struct {
	AvgAcquire time.Duration
	AvgConvert time.Duration
	AvgTotal   time.Duration
	Samples    int
}

// Perf accumulates per-stage tick timings. Goroutine-safe; the
// scheduler records from its tick loop while the dashboard may read.
type Perf struct {
	mu      sync.Mutex
	acquire time.Duration
	convert time.Duration
	total   time.Duration
	samples int
}

// Record adds one tick's timings. When the window fills it returns the
// averaged report with ok=true and resets the accumulators.
func (p *Perf) Record(acquire, convert, total time.Duration) (PerfReport, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.acquire += acquire
	p.convert += convert
	p.total += total
	p.samples++

	if p.samples < perfWindow {
		return PerfReport{}, false
	}

	n := time.Duration(p.samples)
	report := PerfReport{
		AvgAcquire: p.acquire / n,
		AvgConvert: p.convert / n,
		AvgTotal:   p.total / n,
		Samples:    p.samples,
	}
	p.acquire, p.convert, p.total, p.samples = 0, 0, 0, 0
	return report, true
}
