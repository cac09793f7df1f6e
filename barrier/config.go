// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package barrier

import (
	"errors"

	"github.com/spf13/viper"
	"github.com/xmidt-org/userlock/lock"
)

const (
	// ConfigKey is the Viper subkey under which a barrier's configuration is normally stored
	ConfigKey = "barrier"

	DefaultParties = 1
)

// ErrInvalidParties is returned when configuration holds a party count less than 1
var ErrInvalidParties = errors.New("the party count must be positive")

// Config is the externally configurable part of a Barrier
type Config struct {
	// Name is the diagnostic name.  If empty, a unique name is generated.
	Name string `json:"name" mapstructure:"name"`

	// Rank is the rank of the barrier's internal lock
	Rank lock.Rank `json:"rank" mapstructure:"rank"`

	// Parties is the number of arrivals that release a round.  If unset, DefaultParties is used.
	Parties int `json:"parties" mapstructure:"parties"`
}

// Sub returns the standard child Viper, using ConfigKey, for this package.
// If passed nil, this function returns nil.
func Sub(v *viper.Viper) *viper.Viper {
	if v != nil {
		return v.Sub(ConfigKey)
	}

	return nil
}

// FromViper produces a Config from a (possibly nil) Viper instance.
// Callers should use FromViper(Sub(v)) if the standard subkey is desired.
func FromViper(v *viper.Viper) (*Config, error) {
	c := &Config{Parties: DefaultParties}
	if v != nil {
		if err := v.Unmarshal(c); err != nil {
			return nil, err
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks that this configuration can produce a Barrier
func (c Config) Validate() error {
	if c.Parties < 1 {
		return ErrInvalidParties
	}

	return nil
}

// NewFromConfig creates a Barrier from configuration.  Options are applied after the configured
// name and rank, so they take precedence.
func NewFromConfig(c Config, options ...Option) (*Barrier, error) {
	return New(
		c.Parties,
		append([]Option{WithName(c.Name), WithRank(c.Rank)}, options...)...,
	)
}
