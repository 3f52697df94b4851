// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fmtio

import (
	"errors"
)

// Outcome classifies an operation result under fmtio's error taxonomy.
//
// OutcomeOK:       success.
// OutcomeNoData:   the stream ended for this format; a first-class result.
// OutcomeTimedOut: the handle's timeout expired; retry is up to the caller.
// OutcomeClosed:   the handle was closed before or during the operation.
// OutcomeFailure:  any other error, typically a transport failure passed
// through verbatim.
type Outcome uint8

const (
	OutcomeFailure Outcome = iota
	OutcomeOK
	OutcomeNoData
	OutcomeTimedOut
	OutcomeClosed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "OK"
	case OutcomeNoData:
		return "NoData"
	case OutcomeTimedOut:
		return "TimedOut"
	case OutcomeClosed:
		return "Closed"
	default:
		return "Failure"
	}
}

// IsNoData reports whether err carries the end-of-data semantic.
// It returns true for ErrNoData and wrappers (via errors.Is).
func IsNoData(err error) bool { return errors.Is(err, ErrNoData) }

// IsTimedOut reports whether err carries the timed-out semantic.
// It returns true for ErrTimedOut and wrappers (via errors.Is).
func IsTimedOut(err error) bool { return errors.Is(err, ErrTimedOut) }

// IsClosed reports whether err carries the closed-handle semantic.
// It returns true for ErrClosed and wrappers (via errors.Is).
func IsClosed(err error) bool { return errors.Is(err, ErrClosed) }

// IsNonFailure reports whether err should be treated as a non-failure in
// format-driven control flow: nil, ErrNoData, or ErrTimedOut.
//
// Typical usage: decide whether to keep a handle alive without logging an
// error or tearing the connection down.
func IsNonFailure(err error) bool { return err == nil || IsNoData(err) || IsTimedOut(err) }

// Classify maps err to an Outcome. Use when a compact switch is preferred.
//
// Note: classification depends solely on the error value the caller passes;
// standard library sentinels such as io.EOF are not reinterpreted.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	if IsNoData(err) {
		return OutcomeNoData
	}
	if IsTimedOut(err) {
		return OutcomeTimedOut
	}
	if IsClosed(err) {
		return OutcomeClosed
	}
	return OutcomeFailure
}
