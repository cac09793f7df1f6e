// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultNamespace = "userlock"
	DefaultSubsystem = "barrier"
)

// Options is the configurable options for creating barrier collectors
type Options struct {
	// Namespace is the namespace for all collectors.  If not supplied, DefaultNamespace is used.
	Namespace string `json:"namespace" mapstructure:"namespace"`

	// Subsystem is the subsystem for all collectors.  If not supplied, DefaultSubsystem is used.
	Subsystem string `json:"subsystem" mapstructure:"subsystem"`

	// Registerer is where collectors will be registered.  If unset, a new, non-global
	// registry is created.
	Registerer prometheus.Registerer `json:"-" mapstructure:"-"`
}

func (o *Options) namespace() string {
	if o != nil && len(o.Namespace) > 0 {
		return o.Namespace
	}

	return DefaultNamespace
}

func (o *Options) subsystem() string {
	if o != nil && len(o.Subsystem) > 0 {
		return o.Subsystem
	}

	return DefaultSubsystem
}

func (o *Options) registerer() prometheus.Registerer {
	if o != nil && o.Registerer != nil {
		return o.Registerer
	}

	return prometheus.NewRegistry()
}
