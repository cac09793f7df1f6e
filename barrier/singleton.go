// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package barrier

import (
	"github.com/xmidt-org/userlock/diag"
	"go.uber.org/atomic"
)

// sinkFor returns the sink a set of options would give a Barrier
func sinkFor(options []Option) diag.Sink {
	b := &Barrier{sink: diag.DefaultSink()}
	for _, o := range options {
		o(b)
	}

	return b.sink
}

// Cell is shared storage for a lazily created Barrier.  The zero value is an empty cell.
//
// A Barrier installed in a Cell lives for the rest of the process.  It is never destroyed.
type Cell struct {
	p atomic.Pointer[Barrier]
}

// Load returns the installed Barrier, or nil if none has been installed yet
func (c *Cell) Load() *Barrier {
	return c.p.Load()
}

// GetOrCreate returns the Barrier installed in the cell, creating and installing one if necessary.
// Concurrent callers racing on an empty cell all receive the same Barrier; every losing candidate
// is destroyed.  If creation fails, the error is returned and nothing is installed.
func GetOrCreate(c *Cell, parties int, options ...Option) (*Barrier, error) {
	if c == nil {
		sinkFor(options).Fatal("GetOrCreate: a storage cell is required")
		return nil, ErrCreate
	}

	if b := c.p.Load(); b != nil {
		return b, nil
	}

	candidate, err := New(parties, options...)
	if err != nil {
		return nil, err
	}

	if c.p.CompareAndSwap(nil, candidate) {
		return candidate, nil
	}

	candidate.Destroy()
	return c.p.Load(), nil
}
