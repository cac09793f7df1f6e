// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package barrier

import (
	"fmt"
	"strings"
)

// Dump returns a human readable snapshot of this barrier's identity, configuration, and
// live state.  It does not modify the barrier.
func (b *Barrier) Dump() string {
	b.check("Dump")
	b.lock.Acquire()
	defer b.lock.Release()
	return b.dump()
}

// dump requires the lock to be held
func (b *Barrier) dump() string {
	var o strings.Builder
	fmt.Fprintf(&o, "Barrier @ %p\n", b)
	fmt.Fprintf(&o, "\tname %s\n", b.name)
	fmt.Fprintf(&o, "\tid %s\n", b.id)
	fmt.Fprintf(&o, "\trank 0x%X\n", uint32(b.rank))
	fmt.Fprintf(&o, "\tlock %s\n", b.lock.Name())
	fmt.Fprintf(&o, "\tconfigured count %d\n", b.parties)
	fmt.Fprintf(&o, "\tcurrent context %d\n", b.current)
	fmt.Fprintf(&o, "\temptying %t\n", b.emptying)
	fmt.Fprintf(&o, "\toverflow %d\n", b.overflow)

	for i := range b.contexts {
		fmt.Fprintf(&o, "\tcontext[%d] count %d\n", i, b.contexts[i].count)
		fmt.Fprintf(&o, "\tcontext[%d] released %d\n", i, b.contexts[i].released)
	}

	return o.String()
}
