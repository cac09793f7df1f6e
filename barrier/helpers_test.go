package barrier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/userlock/diag"
)

const testTimeout = 5 * time.Second

type snapshot struct {
	current  int
	emptying bool
	counts   [2]int
	overflow int
}

// snapshot reads the barrier's state under its lock
func (b *Barrier) snapshot() snapshot {
	b.lock.Acquire()
	defer b.lock.Release()
	return snapshot{
		current:  b.current,
		emptying: b.emptying,
		counts:   [2]int{b.contexts[0].count, b.contexts[1].count},
		overflow: b.overflow,
	}
}

// waitFor blocks until the barrier's state satisfies f
func waitFor(t *testing.T, b *Barrier, f func(snapshot) bool) {
	require.Eventually(t, func() bool { return f(b.snapshot()) }, testTimeout, time.Millisecond)
}

// simulateDrainer puts the barrier into the emptying state as though a released round still
// had one goroutine that has not yet woken.  The returned function lets that goroutine leave.
func simulateDrainer(t *testing.T, b *Barrier) (leave func()) {
	b.lock.Acquire()
	require.False(t, b.emptying)
	ctx := &b.contexts[b.current]
	require.Zero(t, ctx.count)
	ctx.count = 1
	b.emptying = true
	b.lock.Release()

	return func() {
		b.lock.Acquire()
		defer b.lock.Release()
		b.leave(ctx)
	}
}

// expectMisuse runs f and returns the text of the *diag.MisuseError it panics with
func expectMisuse(t *testing.T, f func()) (text string) {
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a misuse panic")
		me, ok := r.(*diag.MisuseError)
		require.True(t, ok, "unexpected panic value: %v", r)
		text = me.Text
	}()

	f()
	return
}

// returned reports whether the channel has been closed
func returned(c <-chan struct{}) bool {
	select {
	case <-c:
		return true
	default:
		return false
	}
}

// enterAsync calls Enter in a new goroutine, closing the returned channel once Enter returns
func enterAsync(b *Barrier) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Enter()
	}()

	return done
}

func requireReturned(t *testing.T, done ...<-chan struct{}) {
	for _, d := range done {
		select {
		case <-d:
		case <-time.After(testTimeout):
			require.FailNow(t, "Enter did not return")
		}
	}
}
