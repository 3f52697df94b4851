// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fmtio

// LineIterator is a lazy, forward-only producer of the remaining lines of a
// stream, driven by the caller's loop. It is not restartable: once ErrNoData
// has been reported the sequence is over for the life of the handle.
//
// Typical loop:
//
//	it := s.Lines()
//	for {
//		line, err := it.Next()
//		if fmtio.IsNoData(err) {
//			break
//		}
//		if err != nil {
//			return err
//		}
//		// use line
//	}
type LineIterator struct {
	s       *Stream
	partial []byte
	done    bool
}

// Next returns the next line per the Line format. After the sequence ends
// every further call reports ErrNoData. Transport errors do not end the
// sequence: any bytes already consumed for the current line are retained by
// the iterator, and a retry (for example after ErrTimedOut) resumes mid-line
// without losing or reordering them. If the stream ends while a retained
// fragment is pending, the fragment is delivered as the final unterminated
// line.
func (it *LineIterator) Next() (string, error) {
	if it.done {
		return "", ErrNoData
	}
	line, err := it.s.ReadLine()
	if err != nil {
		if IsNoData(err) {
			it.done = true
			if len(it.partial) > 0 {
				line, it.partial = string(it.partial), nil
				return line, nil
			}
			return "", err
		}
		// Partial progress from the failed read resumes on retry.
		it.partial = append(it.partial, line...)
		return "", err
	}
	if len(it.partial) > 0 {
		// An empty rest means the terminator came right after the retained
		// fragment, so a trailing '\r' belongs to a split "\r\n".
		if k := len(it.partial); line == "" && it.partial[k-1] == '\r' {
			it.partial = it.partial[:k-1]
		}
		line, it.partial = string(it.partial)+line, nil
	}
	return line, nil
}
