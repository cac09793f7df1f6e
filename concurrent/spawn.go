// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package concurrent

import (
	"sync"
	"sync/atomic"
)

// Spawn starts n goroutines, each running f with its index in [0, n).  The returned
// WaitGroup completes once every f has returned.
func Spawn(n int, f func(int)) *sync.WaitGroup {
	waitGroup := new(sync.WaitGroup)
	waitGroup.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer waitGroup.Done()
			f(i)
		}(i)
	}

	return waitGroup
}

// SpawnTickets starts n goroutines that share a pool of tickets.  Each goroutine repeatedly draws
// a ticket and runs f with it until the pool is empty, so f runs exactly once per ticket in
// [0, tickets).  Which goroutine runs a given ticket is unspecified.
func SpawnTickets(n, tickets int, f func(int)) *sync.WaitGroup {
	var next int64
	return Spawn(n, func(int) {
		for {
			ticket := int(atomic.AddInt64(&next, 1) - 1)
			if ticket >= tickets {
				return
			}

			f(ticket)
		}
	})
}
