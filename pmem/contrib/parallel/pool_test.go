// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()
	assert.Equal(t, 4, pool.NumWorkers())

	def := New(0)
	defer def.Close()
	assert.Equal(t, runtime.GOMAXPROCS(0), def.NumWorkers())
}

func TestParallelFor(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	for _, n := range []int{0, 1, 3, 100} {
		results := make([]int, n)
		pool.ParallelFor(n, func(start, end int) {
			for i := start; i < end; i++ {
				results[i] = i * 2
			}
		})
		for i := 0; i < n; i++ {
			require.Equal(t, i*2, results[i], "n=%d index %d", n, i)
		}
	}
}

func TestParallelForAtomicBatched(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 100
	results := make([]int, n)
	var done atomic.Int32
	pool.ParallelForAtomicBatched(n, 10, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = i * 2
		}
	}, func() { done.Add(1) })

	for i := 0; i < n; i++ {
		require.Equal(t, i*2, results[i], "index %d", i)
	}
	assert.EqualValues(t, 4, done.Load(), "done runs once per worker")
}

func TestClosedPoolFallback(t *testing.T) {
	pool := New(4)
	pool.Close()
	pool.Close()

	var calls, done int
	pool.ParallelFor(100, func(start, end int) {
		calls++
		assert.Equal(t, 0, start)
		assert.Equal(t, 100, end)
	})
	pool.ParallelForAtomicBatched(100, 10, func(start, end int) { calls++ }, func() { done++ })
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, done)
}
