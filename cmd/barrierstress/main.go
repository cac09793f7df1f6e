// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// barrierstress drives a single barrier through a number of rounds and reports what happened.
package main

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/xmidt-org/userlock/barrier"
	"github.com/xmidt-org/userlock/concurrent"
	"github.com/xmidt-org/userlock/diag"
	"github.com/xmidt-org/userlock/lock"
	"github.com/xmidt-org/userlock/logging"
	"github.com/xmidt-org/userlock/xmetrics"
	"go.uber.org/zap"
)

const (
	applicationName = "barrierstress"

	FileFlag            = "file"
	PartiesFlag         = "parties"
	NameFlag            = "name"
	RankFlag            = "rank"
	GoroutinesFlag      = "goroutines"
	RoundsFlag          = "rounds"
	TimeoutFlag         = "timeout"
	LogLevelFlag        = "log-level"
	DetectDeadlocksFlag = "detect-deadlocks"
)

// configuration is everything that can be set through flags, the environment, or a file
type configuration struct {
	Barrier         barrier.Config  `mapstructure:"barrier"`
	Log             logging.Options `mapstructure:"log"`
	Rank            string          `mapstructure:"rank"`
	Goroutines      int             `mapstructure:"goroutines"`
	Rounds          int             `mapstructure:"rounds"`
	Timeout         time.Duration   `mapstructure:"timeout"`
	DetectDeadlocks bool            `mapstructure:"detect-deadlocks"`
}

type settings struct {
	barrier         barrier.Config
	goroutines      int
	rounds          int
	timeout         time.Duration
	detectDeadlocks bool
	logger          *zap.Logger
}

func newFlagSet(errorOutput io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(applicationName, pflag.ContinueOnError)
	fs.SetOutput(errorOutput)
	fs.StringP(FileFlag, "f", "", "an optional configuration file")
	fs.IntP(PartiesFlag, "p", barrier.DefaultParties, "the number of arrivals that release a round")
	fs.StringP(NameFlag, "n", "", "the diagnostic name of the barrier")
	fs.String(RankFlag, "0", "the lock rank of the barrier, decimal or 0x-prefixed hex")
	fs.IntP(GoroutinesFlag, "g", 0, "the number of goroutines, which must be a multiple of the party count (defaults to the party count)")
	fs.IntP(RoundsFlag, "r", 10, "the number of entries per goroutine; all goroutines share goroutines*rounds entries")
	fs.Duration(TimeoutFlag, 30*time.Second, "how long to wait for all goroutines to finish")
	fs.String(LogLevelFlag, "info", "the log level")
	fs.Bool(DetectDeadlocksFlag, true, "whether lock order and long hold detection is enabled")
	return fs
}

func newViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(applicationName)
	v.AutomaticEnv()

	bindings := map[string]string{
		barrier.ConfigKey + ".parties": PartiesFlag,
		barrier.ConfigKey + ".name":    NameFlag,
		logging.LoggingKey + ".level":  LogLevelFlag,
		GoroutinesFlag:                 GoroutinesFlag,
		RoundsFlag:                     RoundsFlag,
		TimeoutFlag:                    TimeoutFlag,
		RankFlag:                       RankFlag,
		DetectDeadlocksFlag:            DetectDeadlocksFlag,
	}

	for key, flag := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, err
		}
	}

	if file, _ := fs.GetString(FileFlag); len(file) > 0 {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// newSettings unmarshals the whole configuration at once.  Sub vipers do not see nested keys
// that are bound to flags, so the package level FromViper functions are not used here.
func newSettings(v *viper.Viper) (*settings, error) {
	var c configuration
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}

	if err := c.Barrier.Validate(); err != nil {
		return nil, err
	}

	rank, err := cast.ToUint32E(c.Rank)
	if err != nil {
		return nil, fmt.Errorf("invalid rank: %w", err)
	}

	c.Barrier.Rank = lock.Rank(rank)

	logger, err := logging.New(&c.Log)
	if err != nil {
		return nil, err
	}

	s := &settings{
		barrier:         c.Barrier,
		goroutines:      c.Goroutines,
		rounds:          c.Rounds,
		timeout:         c.Timeout,
		detectDeadlocks: c.DetectDeadlocks,
		logger:          logger,
	}

	if s.goroutines == 0 {
		s.goroutines = s.barrier.Parties
	}

	switch {
	case s.goroutines < 0 || s.goroutines%s.barrier.Parties != 0:
		return nil, fmt.Errorf("the goroutine count %d is not a multiple of the party count %d", s.goroutines, s.barrier.Parties)
	case s.rounds < 1:
		return nil, fmt.Errorf("the round count must be positive, got %d", s.rounds)
	case s.timeout <= 0:
		return nil, fmt.Errorf("the timeout must be positive, got %s", s.timeout)
	}

	return s, nil
}

func stress(s *settings, output io.Writer) error {
	lock.DetectDeadlocks(s.detectDeadlocks)

	registry := prometheus.NewRegistry()
	bc, err := xmetrics.NewBarrierCollectors(&xmetrics.Options{Registerer: registry})
	if err != nil {
		return err
	}

	b, err := barrier.NewFromConfig(
		s.barrier,
		barrier.WithLogger(s.logger),
		barrier.WithSink(diag.NewSink(s.logger)),
		barrier.WithCollectors(bc),
	)

	if err != nil {
		return err
	}

	var (
		entered int64
		start   = time.Now()
	)

	// goroutines draw entries from a shared pool.  The pool size is a multiple of the party count,
	// so every entry belongs to a full round no matter how the entries are spread out.
	wg := concurrent.SpawnTickets(s.goroutines, s.goroutines*s.rounds, func(int) {
		b.Enter()
		atomic.AddInt64(&entered, 1)
	})

	if !concurrent.WaitTimeout(wg, s.timeout) {
		fmt.Fprint(output, b.Dump())
		return fmt.Errorf("timed out after %s with %d of %d entries complete", s.timeout, atomic.LoadInt64(&entered), s.goroutines*s.rounds)
	}

	s.logger.Info(
		"stress complete",
		zap.String("name", b.Name()),
		zap.Int("goroutines", s.goroutines),
		zap.Int("rounds", s.rounds),
		zap.Duration("elapsed", time.Since(start)),
	)

	fmt.Fprint(output, b.Dump())
	families, err := registry.Gather()
	if err != nil {
		return err
	}

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			value := m.GetCounter().GetValue()
			if g := m.GetGauge(); g != nil {
				value = g.GetValue()
			}

			fmt.Fprintf(output, "%s %g\n", mf.GetName(), value)
		}
	}

	b.Destroy()
	return nil
}

func run(arguments []string, output, errorOutput io.Writer) int {
	fs := newFlagSet(errorOutput)
	if err := fs.Parse(arguments); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}

		return 1
	}

	v, err := newViper(fs)
	if err != nil {
		fmt.Fprintf(errorOutput, "Unable to read configuration: %s\n", err)
		return 1
	}

	s, err := newSettings(v)
	if err != nil {
		fmt.Fprintf(errorOutput, "Invalid configuration: %s\n", err)
		return 1
	}

	defer s.logger.Sync()
	if err := stress(s, output); err != nil {
		s.logger.Error("stress failed", zap.Error(err))
		fmt.Fprintf(errorOutput, "%s\n", err)
		return 2
	}

	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
