// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package lock

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/sasha-s/go-deadlock"
)

var (
	// ErrForeignLock is returned when a condition variable is requested for a lock
	// that was not created by the same Factory.
	ErrForeignLock = errors.New("the lock was not created by this factory")

	// ErrNilLock is returned when a condition variable is requested for a nil lock.
	ErrNilLock = errors.New("a lock is required")
)

// Rank orders locks for deadlock checking.  Rank values are opaque to this package
// other than being reported in diagnostics.
type Rank uint32

// ExclLock is an exclusive, non-recursive lock.
type ExclLock interface {
	// Name returns the diagnostic name of this lock
	Name() string

	// Rank returns the rank this lock was created with
	Rank() Rank

	// Acquire blocks until the lock is held by the caller
	Acquire()

	// Release relinquishes the lock.  Releasing a lock that is not held is a programmer error.
	Release()
}

// CondVar is a condition variable bound to exactly one ExclLock.  All methods must be
// invoked while the bound lock is held.
type CondVar interface {
	// Wait atomically releases the bound lock and parks the caller.  The lock is reacquired
	// before Wait returns.  Callers must recheck their predicate in a loop.
	Wait()

	// Broadcast wakes every goroutine currently parked in Wait
	Broadcast()

	// Signal wakes at most one goroutine currently parked in Wait
	Signal()
}

// Destroyer is implemented by primitives that hold resources beyond garbage-collected memory,
// or that need to be invalidated when their owner is torn down.
type Destroyer interface {
	Destroy()
}

// Destroy tears down v if it implements Destroyer.  A nil v is ignored.
func Destroy(v interface{}) {
	if d, ok := v.(Destroyer); ok {
		d.Destroy()
	}
}

// Factory creates locks and condition variables.  Either method may fail, e.g. when a
// factory imposes resource limits.
type Factory interface {
	NewExclLock(name string, rank Rank) (ExclLock, error)
	NewCondVar(l ExclLock) (CondVar, error)
}

// DetectDeadlocks turns the default factory's deadlock detection on or off for the whole
// process.  Detection is on by default.
//
// The setting is a process-wide variable that is read without synchronization whenever a lock
// is acquired.  Call DetectDeadlocks during startup, before any lock from the default factory
// is created, and never while such locks are in use.
func DetectDeadlocks(enabled bool) {
	deadlock.Opts.Disable = !enabled
}

var defaultFactory Factory = factory{}

// DefaultFactory returns the process-wide Factory backed by go-deadlock.  It never fails.
func DefaultFactory() Factory {
	return defaultFactory
}

type factory struct{}

func (factory) NewExclLock(name string, rank Rank) (ExclLock, error) {
	return &exclLock{
		name: name,
		rank: rank,
	}, nil
}

func (factory) NewCondVar(l ExclLock) (CondVar, error) {
	if l == nil {
		return nil, ErrNilLock
	}

	el, ok := l.(*exclLock)
	if !ok {
		return nil, ErrForeignLock
	}

	return &condVar{
		cond: sync.NewCond(&el.mutex),
	}, nil
}

const (
	stateLive int32 = iota
	stateDestroyed
)

type exclLock struct {
	name  string
	rank  Rank
	mutex deadlock.Mutex
	state int32
}

func (el *exclLock) Name() string {
	return el.name
}

func (el *exclLock) Rank() Rank {
	return el.rank
}

func (el *exclLock) Acquire() {
	if atomic.LoadInt32(&el.state) == stateDestroyed {
		panic("lock: acquire on destroyed lock " + el.name)
	}

	el.mutex.Lock()
}

func (el *exclLock) Release() {
	el.mutex.Unlock()
}

// Destroy invalidates this lock.  Subsequent Acquire calls panic.  Destroy is idempotent.
func (el *exclLock) Destroy() {
	if el != nil {
		atomic.StoreInt32(&el.state, stateDestroyed)
	}
}

type condVar struct {
	cond  *sync.Cond
	state int32
}

func (cv *condVar) Wait() {
	if atomic.LoadInt32(&cv.state) == stateDestroyed {
		panic("lock: wait on destroyed condition variable")
	}

	cv.cond.Wait()
}

func (cv *condVar) Broadcast() {
	cv.cond.Broadcast()
}

func (cv *condVar) Signal() {
	cv.cond.Signal()
}

// Destroy invalidates this condition variable.  Subsequent Wait calls panic.  Destroy is idempotent.
func (cv *condVar) Destroy() {
	if cv != nil {
		atomic.StoreInt32(&cv.state, stateDestroyed)
	}
}
