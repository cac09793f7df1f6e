// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package locktest provides a lock.Factory that accounts for every primitive it creates and
that can be told to fail, for testing code built on package lock.
*/
package locktest

import (
	"errors"
	"sync"

	"github.com/xmidt-org/userlock/lock"
)

// ErrInjected is the error returned by a Factory when a creation has been set up to fail.
var ErrInjected = errors.New("injected factory failure")

// Factory wraps another lock.Factory.  Every lock and condition variable created through it
// is tracked until it is destroyed via lock.Destroy.
//
// Creation calls are numbered from 1 across both kinds of primitive.  FailAt arranges for a
// particular call to return ErrInjected.
type Factory struct {
	next lock.Factory

	lock      sync.Mutex
	calls     int
	failAt    map[int]bool
	created   int
	destroyed int
}

// NewFactory creates a tracking Factory.  If next is nil, lock.DefaultFactory() is used.
func NewFactory(next lock.Factory) *Factory {
	if next == nil {
		next = lock.DefaultFactory()
	}

	return &Factory{
		next:   next,
		failAt: make(map[int]bool),
	}
}

// FailAt makes the given creation calls fail
func (f *Factory) FailAt(calls ...int) *Factory {
	f.lock.Lock()
	defer f.lock.Unlock()
	for _, c := range calls {
		f.failAt[c] = true
	}

	return f
}

// Created returns how many primitives have been successfully created
func (f *Factory) Created() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.created
}

// Destroyed returns how many primitives have been destroyed
func (f *Factory) Destroyed() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.destroyed
}

// Live returns how many primitives have been created but not yet destroyed
func (f *Factory) Live() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.created - f.destroyed
}

func (f *Factory) begin() error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.calls++
	if f.failAt[f.calls] {
		return ErrInjected
	}

	return nil
}

func (f *Factory) track() {
	f.lock.Lock()
	f.created++
	f.lock.Unlock()
}

func (f *Factory) untrack() {
	f.lock.Lock()
	f.destroyed++
	f.lock.Unlock()
}

func (f *Factory) NewExclLock(name string, rank lock.Rank) (lock.ExclLock, error) {
	if err := f.begin(); err != nil {
		return nil, err
	}

	l, err := f.next.NewExclLock(name, rank)
	if err != nil {
		return nil, err
	}

	f.track()
	return &exclLock{ExclLock: l, owner: f}, nil
}

func (f *Factory) NewCondVar(l lock.ExclLock) (lock.CondVar, error) {
	if err := f.begin(); err != nil {
		return nil, err
	}

	if tl, ok := l.(*exclLock); ok {
		l = tl.ExclLock
	}

	cv, err := f.next.NewCondVar(l)
	if err != nil {
		return nil, err
	}

	f.track()
	return &condVar{CondVar: cv, owner: f}, nil
}

type exclLock struct {
	lock.ExclLock
	owner *Factory
	once  sync.Once
}

func (el *exclLock) Destroy() {
	el.once.Do(func() {
		lock.Destroy(el.ExclLock)
		el.owner.untrack()
	})
}

type condVar struct {
	lock.CondVar
	owner *Factory
	once  sync.Once
}

func (cv *condVar) Destroy() {
	cv.once.Do(func() {
		lock.Destroy(cv.CondVar)
		cv.owner.untrack()
	})
}
