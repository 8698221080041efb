// Package phy implements the binary physical layer: the transmit-side
// driver that occupies or releases the CPU, and the receive-side sampler
// that infers occupancy from how many tight-loop iterations it manages to
// complete. Everything above this package only ever sees bools.
package phy

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Driver occupies a shared core with CPU load, or releases it, in
// phase-locked intervals. The deadline is carried as a field rather than a
// function-local static so that phase error never accumulates: each call
// advances deadline by exactly duration, regardless of how long the call
// itself took to return.
type Driver struct {
	deadline    time.Time
	initialized bool

	// maxConcurrency bounds the worker fan-out; defaults to
	// params.MaxConcurrency via NewDriver.
	maxConcurrency int
}

// NewDriver builds a Driver with the given worker cap. Production callers
// pass params.MaxConcurrency; tests pass 1 to force the inline path.
func NewDriver(maxConcurrency int) *Driver {
	return &Driver{maxConcurrency: maxConcurrency}
}

// Drive occupies the core with busy load for duration if level is true, or
// sleeps for duration if false. The very first call seeds the deadline from
// the current time; every subsequent call advances it by exactly duration.
func (d *Driver) Drive(level bool, duration time.Duration) {
	if !d.initialized {
		d.deadline = time.Now()
		d.initialized = true
	}
	d.deadline = d.deadline.Add(duration)

	if level {
		spinUntil(d.deadline, d.workerCount())
	} else {
		time.Sleep(time.Until(d.deadline))
	}
}

func (d *Driver) workerCount() int {
	n := runtime.NumCPU()
	if d.maxConcurrency < n {
		n = d.maxConcurrency
	}
	if n < 1 {
		n = 1
	}
	return n
}

// spinUntil busy-loops on up to n goroutines until deadline passes. Loading
// every logical core, not just the one the caller thinks it's pinned to,
// matters on virtualized hosts where the receiver's view of "core 0" may not
// map to the same physical core the transmitter is spinning on.
func spinUntil(deadline time.Time, n int) {
	if n <= 1 {
		busyLoop(deadline)
		return
	}

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			busyLoop(deadline)
		}()
	}
	wg.Wait()
}

func busyLoop(deadline time.Time) {
	for time.Now().Before(deadline) {
		// Dummy CPU load between clock checks; the wraparound means this
		// inner loop always runs to completion regardless of starting value.
		var i uint16 = 1
		for i != 0 {
			i++
		}
		atomic.StoreUint64(&dummySink, uint64(i))
	}
}

// dummySink exists only so the compiler can't prove busyLoop's counter is
// dead and optimize the whole loop away.
var dummySink uint64
