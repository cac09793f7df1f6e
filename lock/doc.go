// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package lock provides the mutual exclusion and condition variable primitives that the
higher level userlock primitives, e.g. barriers, are built on.

Locks carry a name and a rank for diagnostics.  The default Factory is backed by
github.com/sasha-s/go-deadlock, which reports lock order inversions and locks held for
too long.  Detection can be switched off process-wide with DetectDeadlocks.
*/
package lock
