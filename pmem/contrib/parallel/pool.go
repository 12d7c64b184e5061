// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package parallel splits large durable copies across a persistent pool of
// workers.
//
// A store fence only orders the stores of the core that issues it, so every
// worker drains its own segments before reporting completion. Overlapping
// moves cannot be split safely and run on the calling goroutine.
//
// Usage:
//
//	pool := parallel.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//	mover := parallel.NewMover(pool, nil, 0)
//
//	for _, rec := range records {
//	    mover.Memmove(m.Bytes()[rec.Off:], rec.Data)
//	}
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool that can be reused across many parallel
// operations. Workers are spawned once at creation and reused.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a pool with numWorkers workers, or GOMAXPROCS workers if
// numWorkers <= 0. Workers persist until Close is called.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan workItem, numWorkers*2),
	}
	for i := 0; i < numWorkers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the pool once pending work completes. Calling Close more
// than once is safe; a closed pool runs everything on the caller.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// ParallelFor calls fn on contiguous sub-ranges covering [0, n), one per
// worker, and blocks until all of them return.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	workers := min(p.numWorkers, n)
	if workers == 1 || p.closed.Load() {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		start := i * chunkSize
		end := min(start+chunkSize, n)
		if start >= n {
			wg.Done()
			continue
		}
		p.workC <- workItem{
			fn:      func() { fn(start, end) },
			barrier: &wg,
		}
	}
	wg.Wait()
}

// ParallelForAtomicBatched hands out batches of batchSize indices from
// [0, n) to whichever worker is free. Each worker calls done once after its
// last batch, on the same goroutine that ran its batches.
func (p *Pool) ParallelForAtomicBatched(n, batchSize int, fn func(start, end int), done func()) {
	if n <= 0 {
		return
	}
	if batchSize <= 0 {
		batchSize = 1
	}

	numBatches := (n + batchSize - 1) / batchSize
	workers := min(p.numWorkers, numBatches)
	if workers == 1 || p.closed.Load() {
		fn(0, n)
		done()
		return
	}

	var nextBatch atomic.Int32
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		p.workC <- workItem{
			fn: func() {
				defer done()
				for {
					start := int(nextBatch.Add(1)-1) * batchSize
					if start >= n {
						return
					}
					fn(start, min(start+batchSize, n))
				}
			},
			barrier: &wg,
		}
	}
	wg.Wait()
}
