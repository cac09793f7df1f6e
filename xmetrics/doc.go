// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package xmetrics provides the metric interfaces consumed by userlock primitives along with
Prometheus collectors for them.  The more general go-kit interfaces are used where possible.
*/
package xmetrics
