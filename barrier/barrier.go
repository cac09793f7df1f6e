// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package barrier

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/segmentio/ksuid"
	"github.com/xmidt-org/sallust"
	"github.com/xmidt-org/userlock/diag"
	"github.com/xmidt-org/userlock/lock"
	"github.com/xmidt-org/userlock/xmetrics"
	"go.uber.org/zap"
)

var (
	// ErrCreate is returned, wrapping the underlying cause, when the lock or condition
	// variables of a barrier could not be created.
	ErrCreate = errors.New("the barrier could not be created")
)

const (
	stateLive int32 = iota
	stateDestroying
	stateDestroyed
)

// barrierContext tracks the goroutines of one round.  released is bumped each time the
// context's round is released and is the predicate parked goroutines wait on.
type barrierContext struct {
	count    int
	released uint64
	condVar  lock.CondVar
}

// Barrier is a reusable barrier for a fixed number of parties.  Instances must be created
// via New or GetOrCreate, and are safe for concurrent use.
type Barrier struct {
	id      ksuid.KSUID
	name    string
	rank    lock.Rank
	parties int

	factory    lock.Factory
	sink       diag.Sink
	logger     *zap.Logger
	metrics    xmetrics.BarrierMetrics
	collectors *xmetrics.BarrierCollectors

	state int32

	// guarded by lock
	lock     lock.ExclLock
	emptying bool
	current  int
	contexts [2]barrierContext

	// overflow counts arrivals waiting for a full next round to be released
	overflow int
}

// New creates a Barrier that releases goroutines in groups of parties.  A parties value less than 1
// is reported as fatal misuse to the configured sink.
//
// If the lock or either condition variable cannot be created, anything already created is
// destroyed and an error wrapping ErrCreate is returned.
func New(parties int, options ...Option) (*Barrier, error) {
	b := &Barrier{
		id:      ksuid.New(),
		parties: parties,
		factory: lock.DefaultFactory(),
		sink:    diag.DefaultSink(),
		logger:  sallust.Default(),
		metrics: discardNil(xmetrics.BarrierMetrics{}),
	}

	for _, o := range options {
		o(b)
	}

	if parties < 1 {
		b.sink.Fatal(fmt.Sprintf("barrier: the party count must be positive, got %d", parties))
		return nil, fmt.Errorf("%w: invalid party count %d", ErrCreate, parties)
	}

	if len(b.name) == 0 {
		b.name = "Barrier-" + b.id.String()
	}

	if b.collectors != nil {
		b.metrics = b.collectors.For(b.name)
	}

	var err error
	if b.lock, err = b.factory.NewExclLock(b.name, b.rank); err != nil {
		return nil, fmt.Errorf("%w: lock: %w", ErrCreate, err)
	}

	for i := range b.contexts {
		if b.contexts[i].condVar, err = b.factory.NewCondVar(b.lock); err != nil {
			b.destroyPrimitives()
			return nil, fmt.Errorf("%w: condition variable %d: %w", ErrCreate, i, err)
		}
	}

	b.logger.Debug(
		"barrier created",
		zap.String("name", b.name),
		zap.Stringer("id", b.id),
		zap.Uint32("rank", uint32(b.rank)),
		zap.Int("parties", b.parties),
	)

	return b, nil
}

// ID returns the unique identifier of this barrier
func (b *Barrier) ID() ksuid.KSUID {
	return b.id
}

// Name returns the diagnostic name of this barrier
func (b *Barrier) Name() string {
	return b.name
}

// Rank returns the rank of this barrier's internal lock
func (b *Barrier) Rank() lock.Rank {
	return b.rank
}

// Parties returns the number of arrivals that release a round
func (b *Barrier) Parties() int {
	return b.parties
}

func (b *Barrier) String() string {
	return b.name
}

// check reports misuse of a nil or destroyed barrier
func (b *Barrier) check(op string) {
	if b == nil {
		diag.DefaultSink().Fatal(fmt.Sprintf("%s: nil barrier", op))
		return
	}

	if atomic.LoadInt32(&b.state) != stateLive {
		b.sink.Fatal(fmt.Sprintf("%s: barrier %s has been destroyed", op, b.name))
	}
}

func (b *Barrier) destroyPrimitives() {
	lock.Destroy(b.contexts[0].condVar)
	lock.Destroy(b.contexts[1].condVar)
	lock.Destroy(b.lock)
}

// Destroy releases the barrier's lock and condition variables.  Destroying a nil barrier does nothing.
//
// It is fatal misuse to destroy a barrier while any goroutine is inside Enter, or to destroy
// a barrier twice or concurrently.  A barrier that is in use is dumped to the sink, nothing is
// freed, and the barrier remains usable.
func (b *Barrier) Destroy() {
	if b == nil {
		return
	}

	// only one caller may proceed to the lock
	if !atomic.CompareAndSwapInt32(&b.state, stateLive, stateDestroying) {
		b.sink.Fatal(fmt.Sprintf("Destroy: barrier %s has been destroyed", b.name))
		return
	}

	b.lock.Acquire()
	if b.contexts[0].count != 0 || b.contexts[1].count != 0 || b.overflow != 0 {
		dump := b.dump()
		atomic.StoreInt32(&b.state, stateLive)
		b.lock.Release()

		b.sink.Warn(dump)
		b.sink.Fatal(fmt.Sprintf("Destroy: attempted destroy on barrier %s while in use", b.name))
		return
	}

	atomic.StoreInt32(&b.state, stateDestroyed)
	b.lock.Release()

	b.destroyPrimitives()
	b.logger.Debug("barrier destroyed", zap.String("name", b.name), zap.Stringer("id", b.id))
}

// Enter blocks until this goroutine's round has Parties arrivals, then returns.  There is
// no timeout and no cancellation.  A goroutine must not enter a barrier it is already inside.
func (b *Barrier) Enter() {
	b.check("Enter")
	b.metrics.Arrivals.Add(1.0)

	b.lock.Acquire()
	defer b.lock.Release()

	b.metrics.Parked.Add(1.0)
	ctx := b.arrive()
	b.metrics.Parked.Add(-1.0)
	b.leave(ctx)
}

func (b *Barrier) other() int {
	return (b.current + 1) & 0x1
}

// arrive registers the caller in a context and returns once that context's round has been released.
// The lock must be held.
func (b *Barrier) arrive() *barrierContext {
	for {
		if !b.emptying {
			ctx := &b.contexts[b.current]
			ctx.count++
			if ctx.count == b.parties {
				b.release(ctx)
			} else {
				b.park(ctx)
			}

			return ctx
		}

		// an arrival while the current round is emptying joins the next round
		next := &b.contexts[b.other()]
		if next.count < b.parties {
			next.count++
			b.metrics.AbnormalArrivals.Add(1.0)
			b.park(next)
			return next
		}

		// the next round is already full, so wait for it to start and then try again
		b.overflow++
		b.park(next)
		b.overflow--
	}
}

// park waits on the context's condition variable until the context's round is released
func (b *Barrier) park(ctx *barrierContext) {
	for released := ctx.released; released == ctx.released; {
		ctx.condVar.Wait()
	}
}

// release starts emptying the given context, which must be the current one
func (b *Barrier) release(ctx *barrierContext) {
	b.emptying = true
	ctx.released++
	ctx.condVar.Broadcast()
	b.metrics.Releases.Add(1.0)
}

// leave removes the caller from ctx.  The last goroutine out of an emptying round hands the
// barrier over to the other context, releasing it at once if it already holds a full round.
func (b *Barrier) leave(ctx *barrierContext) {
	ctx.count--
	if ctx.count > 0 {
		return
	}

	b.emptying = false
	b.current = b.other()
	if next := &b.contexts[b.current]; next.count == b.parties {
		b.release(next)
	}
}
