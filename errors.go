// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fmtio

import (
	"errors"
	"fmt"
)

// fmtio threads three non-transport conditions through every read and write
// path, next to transport errors which always pass through unchanged.
//
// Mental model:
//   - ErrNoData: the stream has ended for this read format. Expected control
//     flow, not a failure; loop until you see it.
//   - ErrTimedOut: the handle's timeout expired before progress was possible.
//     Retryable, but never retried here.
//   - ErrClosed: the handle is closed; it stays closed.
//
// Notes:
//   - ErrNoData and end-of-stream are the same condition at the format level;
//     the transport-level io.EOF never escapes the buffering engine.
//   - A zero-length counted result before end-of-stream is not ErrNoData.

// ErrNoData means "no more data for this read format".
// It terminates counted, line and number reads and the line iterator.
// The all-remaining format never returns it.
var ErrNoData = errors.New("fmtio: no more data")

// ErrTimedOut means a transport-level wait exceeded the handle's timeout.
// Distinct from both failure and ErrNoData; the operation may be retried.
var ErrTimedOut = errors.New("fmtio: timed out")

// ErrClosed means the operation was attempted on a closed handle.
// Close is idempotent; everything else on a closed handle fails with this.
var ErrClosed = errors.New("fmtio: closed handle")

// FormatError reports a read-format token outside the stable format surface
// (a positive byte count, "line", "all" or "number"). It is produced at the
// API boundary, before any buffer state changes.
type FormatError struct {
	Token any
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("fmtio: invalid read format %#v", e.Token)
}
