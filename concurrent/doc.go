// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package concurrent provides goroutine helpers for driving and observing userlock primitives.
*/
package concurrent
