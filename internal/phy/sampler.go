package phy

import (
	"runtime"
	"time"
)

// averagingFactor is K in spec terms: the single-pole high-pass filter
// constant trading off acquisition time against tracking of DC drift in the
// tick-rate baseline.
const averagingFactor = 8

// Sampler infers the PHY level by counting how many tight-loop iterations
// it can complete in one sample interval. A busy opponent core means fewer
// iterations get counted; a running average of the tick rate acts as the
// DC reference that the instantaneous count is compared against.
type Sampler struct {
	deadline    time.Time
	initialized bool

	avg        float64
	avgSet     bool
	maxWorkers int

	// countFunc does the actual tick counting; overridable in tests so the
	// averaging-filter logic can be exercised with a deterministic tick
	// sequence instead of real elapsed-time measurement.
	countFunc func(deadline time.Time) int64
}

// NewSampler builds a Sampler with the given worker cap. Production callers
// pass params.MaxConcurrency; tests pass 1 for the inline, core-affine path.
func NewSampler(maxWorkers int) *Sampler {
	s := &Sampler{maxWorkers: maxWorkers}
	s.countFunc = s.count
	return s
}

// Read blocks for exactly one sample duration and returns the inferred PHY
// level: true ("high") when the opponent appears to be loading the core.
func (s *Sampler) Read(sampleDuration time.Duration) bool {
	if !s.initialized {
		s.deadline = time.Now()
		s.initialized = true
	}
	s.deadline = s.deadline.Add(sampleDuration)

	ticks := s.countFunc(s.deadline)
	rate := float64(ticks)

	if !s.avgSet {
		s.avg = rate
		s.avgSet = true
	} else {
		s.avg += (rate - s.avg) / averagingFactor
	}

	// Fewer ticks than the running baseline means the opponent is consuming
	// the core, i.e. the PHY is driven high.
	return rate < s.avg
}

func (s *Sampler) workerCount() int {
	n := runtime.NumCPU()
	if s.maxWorkers < n {
		n = s.maxWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}

// count sums tight-loop iterations across workerCount() goroutines until
// deadline, run inline when there's only one worker for better core-
// affinity locality.
func (s *Sampler) count(deadline time.Time) int64 {
	n := s.workerCount()
	if n <= 1 {
		return countTicks(deadline)
	}

	results := make(chan int64, n)
	for i := 0; i < n; i++ {
		go func() {
			results <- countTicks(deadline)
		}()
	}

	var total int64
	for i := 0; i < n; i++ {
		total += <-results
	}
	return total
}

func countTicks(deadline time.Time) int64 {
	var counter int64
	for time.Now().Before(deadline) {
		counter++
	}
	return counter
}
