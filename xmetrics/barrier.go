// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xmetrics

import (
	"errors"

	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	ArrivalsCounter         = "arrivals"
	AbnormalArrivalsCounter = "abnormal_arrivals"
	ReleasesCounter         = "releases"
	ParkedGauge             = "parked"

	// NameLabel is the label holding a barrier's name
	NameLabel = "name"
)

// BarrierCollectors holds the Prometheus vectors shared by every barrier that reports to
// the same registry.  Each barrier gets its own label values via For.
type BarrierCollectors struct {
	Arrivals         *prometheus.CounterVec
	AbnormalArrivals *prometheus.CounterVec
	Releases         *prometheus.CounterVec
	Parked           *prometheus.GaugeVec
}

// NewBarrierCollectors creates and registers the barrier vectors.  If a collector is already
// registered, the existing one is reused.
func NewBarrierCollectors(o *Options) (*BarrierCollectors, error) {
	var (
		r         = o.registerer()
		namespace = o.namespace()
		subsystem = o.subsystem()

		bc = &BarrierCollectors{
			Arrivals: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      ArrivalsCounter,
				Help:      "The total number of calls to enter a barrier",
			}, []string{NameLabel}),
			AbnormalArrivals: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      AbnormalArrivalsCounter,
				Help:      "The total number of arrivals queued into the next round while a barrier was emptying",
			}, []string{NameLabel}),
			Releases: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      ReleasesCounter,
				Help:      "The total number of rounds released",
			}, []string{NameLabel}),
			Parked: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      ParkedGauge,
				Help:      "The number of goroutines currently inside a barrier",
			}, []string{NameLabel}),
		}
	)

	var err error
	if bc.Arrivals, err = registerCounterVec(r, bc.Arrivals); err != nil {
		return nil, err
	}

	if bc.AbnormalArrivals, err = registerCounterVec(r, bc.AbnormalArrivals); err != nil {
		return nil, err
	}

	if bc.Releases, err = registerCounterVec(r, bc.Releases); err != nil {
		return nil, err
	}

	if err = r.Register(bc.Parked); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}

		existing, ok := are.ExistingCollector.(*prometheus.GaugeVec)
		if !ok {
			return nil, err
		}

		bc.Parked = existing
	}

	return bc, nil
}

func registerCounterVec(r prometheus.Registerer, cv *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	err := r.Register(cv)
	if err == nil {
		return cv, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
			return existing, nil
		}
	}

	return nil, err
}

// BarrierMetrics is the set of metrics for one barrier
type BarrierMetrics struct {
	Arrivals         Adder
	AbnormalArrivals Adder
	Releases         Adder
	Parked           AddSetter
}

// For returns the go-kit metrics for the barrier with the given name
func (bc *BarrierCollectors) For(name string) BarrierMetrics {
	return BarrierMetrics{
		Arrivals:         kitprometheus.NewCounter(bc.Arrivals).With(NameLabel, name),
		AbnormalArrivals: kitprometheus.NewCounter(bc.AbnormalArrivals).With(NameLabel, name),
		Releases:         kitprometheus.NewCounter(bc.Releases).With(NameLabel, name),
		Parked:           kitprometheus.NewGauge(bc.Parked).With(NameLabel, name),
	}
}
