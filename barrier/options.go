// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package barrier

import (
	"github.com/go-kit/kit/metrics/discard"
	"github.com/xmidt-org/sallust"
	"github.com/xmidt-org/userlock/diag"
	"github.com/xmidt-org/userlock/lock"
	"github.com/xmidt-org/userlock/xmetrics"
	"go.uber.org/zap"
)

// Option is a configuration option for a Barrier
type Option func(*Barrier)

// WithName sets the diagnostic name of the barrier and its internal lock.  If unset or empty,
// a unique name is generated.
func WithName(name string) Option {
	return func(b *Barrier) {
		b.name = name
	}
}

// WithRank sets the rank of the barrier's internal lock
func WithRank(r lock.Rank) Option {
	return func(b *Barrier) {
		b.rank = r
	}
}

// WithFactory sets the lock.Factory used to create the barrier's lock and condition variables.
// If nil, lock.DefaultFactory() is used.
func WithFactory(f lock.Factory) Option {
	return func(b *Barrier) {
		if f != nil {
			b.factory = f
		} else {
			b.factory = lock.DefaultFactory()
		}
	}
}

// WithSink sets the diagnostics sink for warnings and fatal misuse.  If nil, diag.DefaultSink() is used.
func WithSink(s diag.Sink) Option {
	return func(b *Barrier) {
		if s != nil {
			b.sink = s
		} else {
			b.sink = diag.DefaultSink()
		}
	}
}

// WithLogger sets the logger for lifecycle events.  If nil, sallust.Default() is used.
func WithLogger(l *zap.Logger) Option {
	return func(b *Barrier) {
		if l != nil {
			b.logger = l
		} else {
			b.logger = sallust.Default()
		}
	}
}

// WithMetrics establishes the metrics for the barrier.  Any nil metric is discarded.
func WithMetrics(m xmetrics.BarrierMetrics) Option {
	return func(b *Barrier) {
		b.collectors = nil
		b.metrics = discardNil(m)
	}
}

// WithCollectors reports the barrier's metrics to a set of shared Prometheus collectors, labeled
// with the barrier's name.  If nil, metrics are discarded.
func WithCollectors(bc *xmetrics.BarrierCollectors) Option {
	return func(b *Barrier) {
		b.collectors = bc
		if bc == nil {
			b.metrics = discardNil(xmetrics.BarrierMetrics{})
		}
	}
}

func discardNil(m xmetrics.BarrierMetrics) xmetrics.BarrierMetrics {
	if m.Arrivals == nil {
		m.Arrivals = discard.NewCounter()
	}

	if m.AbnormalArrivals == nil {
		m.AbnormalArrivals = discard.NewCounter()
	}

	if m.Releases == nil {
		m.Releases = discard.NewCounter()
	}

	if m.Parked == nil {
		m.Parked = discard.NewGauge()
	}

	return m
}
