// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package diag is the diagnostics sink for userlock primitives.  Primitives report
warnings and fatal misuse through a Sink rather than returning errors, since misuse
indicates a defect in the embedding program.
*/
package diag

import (
	"strings"

	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// MisuseError is the panic value produced by a Sink's Fatal method
type MisuseError struct {
	Text string
}

func (me *MisuseError) Error() string {
	return me.Text
}

// Sink receives diagnostic text from primitives.
type Sink interface {
	// Warn reports diagnostic text.  It never affects control flow.
	Warn(text string)

	// Fatal reports an unrecoverable misuse.  Fatal never returns.
	Fatal(text string)
}

// NewSink creates a Sink that writes through the given logger.  If the logger is nil,
// sallust.Default() is used.
//
// The returned Sink's Fatal logs at the error level and then panics with a *MisuseError.
func NewSink(l *zap.Logger) Sink {
	if l == nil {
		l = sallust.Default()
	}

	return &sink{
		logger: l,
	}
}

var defaultSink = NewSink(nil)

// DefaultSink returns the process-wide Sink, which discards warnings and panics on Fatal
func DefaultSink() Sink {
	return defaultSink
}

type sink struct {
	logger *zap.Logger
}

func (s *sink) Warn(text string) {
	s.logger.Warn(strings.TrimRight(text, "\n"))
}

func (s *sink) Fatal(text string) {
	text = strings.TrimRight(text, "\n")
	s.logger.Error("fatal misuse", zap.String("diagnostic", text))
	panic(&MisuseError{Text: text})
}
