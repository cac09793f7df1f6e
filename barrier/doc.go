// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package barrier provides a self-regenerating barrier.  A Barrier blocks a fixed number of
goroutines, its parties, until all of them have called Enter and then releases them
together.  The same Barrier is immediately usable for the next round; there is no reset.

Arrivals are tracked in two alternating contexts.  While one round is releasing its
goroutines, new arrivals are queued into the other context and become the next round
once the releasing round has fully drained.

Misuse, such as destroying a barrier that still has goroutines inside it, is reported
through a diag.Sink and is fatal.
*/
package barrier
