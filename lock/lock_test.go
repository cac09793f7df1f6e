package lock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type foreignLock struct{}

func (foreignLock) Name() string { return "foreign" }
func (foreignLock) Rank() Rank   { return 0 }
func (foreignLock) Acquire()     {}
func (foreignLock) Release()     {}

func TestDefaultFactory(t *testing.T) {
	assert := assert.New(t)
	assert.NotNil(DefaultFactory())
	assert.Equal(DefaultFactory(), DefaultFactory())
}

func TestNewExclLock(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	l, err := DefaultFactory().NewExclLock("test", Rank(0x1234))
	require.NoError(err)
	require.NotNil(l)

	assert.Equal("test", l.Name())
	assert.Equal(Rank(0x1234), l.Rank())

	l.Acquire()
	l.Release()

	Destroy(l)
	Destroy(l)
	assert.Panics(func() {
		l.Acquire()
	})
}

func testNewCondVarNilLock(t *testing.T) {
	cv, err := DefaultFactory().NewCondVar(nil)
	assert.Nil(t, cv)
	assert.Equal(t, ErrNilLock, err)
}

func testNewCondVarForeignLock(t *testing.T) {
	cv, err := DefaultFactory().NewCondVar(foreignLock{})
	assert.Nil(t, cv)
	assert.Equal(t, ErrForeignLock, err)
}

func testNewCondVarBroadcast(t *testing.T) {
	const waiters = 5

	var (
		require = require.New(t)

		l, lerr  = DefaultFactory().NewExclLock("broadcast", 0)
		cv, cerr = DefaultFactory().NewCondVar(l)

		ready   int
		wake    bool
		started sync.WaitGroup
		done    = make(chan struct{})
	)

	require.NoError(lerr)
	require.NoError(cerr)

	started.Add(waiters)
	finished := new(sync.WaitGroup)
	finished.Add(waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			defer finished.Done()
			l.Acquire()
			defer l.Release()
			ready++
			started.Done()
			for !wake {
				cv.Wait()
			}
		}()
	}

	started.Wait()
	l.Acquire()
	require.Equal(waiters, ready)
	wake = true
	cv.Broadcast()
	l.Release()

	go func() {
		finished.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		require.Fail("Broadcast did not wake every waiter")
	}
}

func testNewCondVarSignal(t *testing.T) {
	var (
		require = require.New(t)

		l, _  = DefaultFactory().NewExclLock("signal", 0)
		cv, _ = DefaultFactory().NewCondVar(l)

		wake   bool
		parked = make(chan struct{})
		result = make(chan struct{})
	)

	go func() {
		l.Acquire()
		defer l.Release()
		close(parked)
		for !wake {
			cv.Wait()
		}

		close(result)
	}()

	<-parked
	l.Acquire()
	wake = true
	cv.Signal()
	l.Release()

	select {
	case <-result:
	case <-time.After(5 * time.Second):
		require.Fail("Signal did not wake the waiter")
	}
}

func testNewCondVarDestroyed(t *testing.T) {
	var (
		l, _  = DefaultFactory().NewExclLock("destroyed", 0)
		cv, _ = DefaultFactory().NewCondVar(l)
	)

	Destroy(cv)
	Destroy(cv)

	l.Acquire()
	defer l.Release()
	assert.Panics(t, func() {
		cv.Wait()
	})
}

func TestNewCondVar(t *testing.T) {
	t.Run("NilLock", testNewCondVarNilLock)
	t.Run("ForeignLock", testNewCondVarForeignLock)
	t.Run("Broadcast", testNewCondVarBroadcast)
	t.Run("Signal", testNewCondVarSignal)
	t.Run("Destroyed", testNewCondVarDestroyed)
}

func TestDestroyNil(t *testing.T) {
	assert.NotPanics(t, func() {
		Destroy(nil)
		Destroy("not a destroyer")
	})
}

func TestDetectDeadlocks(t *testing.T) {
	defer DetectDeadlocks(true)

	DetectDeadlocks(false)
	l, err := DefaultFactory().NewExclLock("nodetect", 0)
	require.NoError(t, err)
	l.Acquire()
	l.Release()
}
