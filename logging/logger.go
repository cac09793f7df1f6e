// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package logging configures the zap loggers used by userlock tools.
*/
package logging

import (
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options stores the configuration of a Logger
type Options struct {
	// Level is the minimum level to output: debug, info, warn, or error.  The empty string
	// is equivalent to info.  Any other string is a configuration error.
	Level string `json:"level" mapstructure:"level"`

	// Development switches to zap's development configuration, i.e. console encoding
	// and stack traces on warnings.
	Development bool `json:"development" mapstructure:"development"`

	// JSON forces JSON encoding, even for development loggers.
	JSON bool `json:"json" mapstructure:"json"`
}

func (o *Options) level() (zapcore.Level, error) {
	if o == nil || len(o.Level) == 0 {
		return zapcore.InfoLevel, nil
	}

	return zapcore.ParseLevel(o.Level)
}

func (o *Options) config() zap.Config {
	var c zap.Config
	if o != nil && o.Development {
		c = zap.NewDevelopmentConfig()
	} else {
		c = zap.NewProductionConfig()
	}

	if o != nil && o.JSON {
		c.Encoding = "json"
	}

	return c
}

// New creates a zap Logger from a set of options.  The options object can be nil, in which
// case a production logger at the info level is returned.
func New(o *Options) (*zap.Logger, error) {
	l, err := o.level()
	if err != nil {
		return nil, err
	}

	c := o.config()
	c.Level = zap.NewAtomicLevelAt(l)
	return c.Build()
}

// Default returns the logger used when nothing is configured.  It discards all output.
func Default() *zap.Logger {
	return sallust.Default()
}
