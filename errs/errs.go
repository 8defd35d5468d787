// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errs provides the error kinds raised by the kaks pipeline stages.
//
// Every failure in the pipeline is fatal. The kind of a failure is recoverable
// through any amount of wrapping with KindOf, and determines the exit code
// used when the command is run in strict mode.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	Other Kind = iota
	Usage
	UnreadableInput
	Format
	InternalStopCodon
	InsufficientSequences
	AlignerUnavailable
	AlignmentFailed
	ProjectionMismatch
	EstimatorUnavailable
	EstimatorRun
	UnsupportedVersion
)

var kindNames = [...]string{
	Other:                 "error",
	Usage:                 "usage error",
	UnreadableInput:       "unreadable input",
	Format:                "format error",
	InternalStopCodon:     "internal stop codon",
	InsufficientSequences: "insufficient sequences",
	AlignerUnavailable:    "aligner unavailable",
	AlignmentFailed:       "alignment failed",
	ProjectionMismatch:    "projection mismatch",
	EstimatorUnavailable:  "estimator unavailable",
	EstimatorRun:          "estimator run failed",
	UnsupportedVersion:    "unsupported version",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ExitCode returns the process exit code for the kind. Codes are distinct
// and non-zero for every kind.
func (k Kind) ExitCode() int {
	if k < 0 || int(k) >= len(kindNames) {
		return 1
	}
	return int(k) + 1
}

// Error is a pipeline failure.
type Error struct {
	Kind Kind
	Op   string // Component reporting the failure.
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	var s string
	if e.Op != "" {
		s = e.Op + ": "
	}
	s += e.Msg
	if e.Err != nil {
		if e.Msg != "" {
			s += ": "
		}
		s += e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an Error of kind k with a formatted message.
func New(k Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error of kind k wrapping err. The format may be empty.
func Wrap(k Kind, op string, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Op: op, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or Other.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}

// Is reports whether err has kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
