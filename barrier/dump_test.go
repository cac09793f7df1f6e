package barrier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/userlock/lock"
)

func TestDump(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	b, err := New(2, WithName("dumped"), WithRank(lock.Rank(0xBEEF)))
	require.NoError(err)
	defer b.Destroy()

	idle := b.Dump()
	assert.Contains(idle, "name dumped\n")
	assert.Contains(idle, "id "+b.ID().String()+"\n")
	assert.Contains(idle, "rank 0xBEEF\n")
	assert.Contains(idle, "lock dumped\n")
	assert.Contains(idle, "configured count 2\n")
	assert.Contains(idle, "current context 0\n")
	assert.Contains(idle, "emptying false\n")
	assert.Contains(idle, "context[0] count 0\n")
	assert.Contains(idle, "context[1] count 0\n")

	first := enterAsync(b)
	waitFor(t, b, func(s snapshot) bool { return s.counts[0] == 1 })
	assert.Contains(b.Dump(), "context[0] count 1\n")

	requireReturned(t, enterAsync(b), first)
	after := b.Dump()
	assert.Contains(after, "current context 1\n")
	assert.Contains(after, "context[0] released 1\n")
	assert.Contains(after, "context[1] released 0\n")
}
