// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fmtio

import (
	"bytes"
	"errors"
	"strconv"
)

type formatKind uint8

const (
	kindCount formatKind = iota
	kindLine
	kindAll
	kindNumber
)

// Format selects the semantics of one formatted read. The zero value is
// Count(0), a probe that distinguishes "stream still open" from end-of-data.
type Format struct {
	kind formatKind
	n    int
}

// Line reads one line. The '\n' terminator is stripped, together with an
// immediately preceding '\r'. A final unterminated line is delivered once;
// after that, and on an already-exhausted stream, the result is ErrNoData.
var Line = Format{kind: kindLine}

// All reads the full remainder of the stream, refilling until end-of-stream.
// It always succeeds: on an exhausted stream the result is empty, never
// ErrNoData.
var All = Format{kind: kindAll}

// Number reads the longest strictly numeric prefix (optional leading
// whitespace, optional sign, digits with optional fraction and exponent) and
// parses it as a float64. The first non-numeric byte is not consumed. When no
// valid prefix exists the result is ErrNoData and the buffer position is left
// untouched, so the caller can retry with another format.
var Number = Format{kind: kindNumber}

// Count reads exactly n bytes when that many arrive before end-of-stream.
// When the stream ends short, the remaining bytes are delivered once as a
// final partial chunk, and the next read reports ErrNoData.
func Count(n int) Format { return Format{kind: kindCount, n: n} }

func (f Format) String() string {
	switch f.kind {
	case kindLine:
		return "line"
	case kindAll:
		return "all"
	case kindNumber:
		return "number"
	default:
		return "count(" + strconv.Itoa(f.n) + ")"
	}
}

// ParseFormat validates an externally supplied read-format token. The stable
// token surface is a positive integer byte count or one of the strings
// "line", "all" and "number"; anything else is rejected with a FormatError
// before the buffers are touched.
func ParseFormat(token any) (Format, error) {
	switch v := token.(type) {
	case string:
		switch v {
		case "line":
			return Line, nil
		case "all":
			return All, nil
		case "number":
			return Number, nil
		}
	case int:
		if v > 0 {
			return Count(v), nil
		}
	case int64:
		if v > 0 {
			return Count(int(v)), nil
		}
	case uint:
		if v > 0 {
			return Count(int(v)), nil
		}
	}
	return Format{}, &FormatError{Token: token}
}

// Value is one result of a multi-specifier Read: a byte payload for counted,
// line and all-remaining formats, or a parsed number for the number format.
type Value struct {
	// Data holds the payload of a byte-producing format. Nil for numbers.
	Data []byte

	// Num holds the parsed number when IsNum is true.
	Num   float64
	IsNum bool
}

func (v Value) String() string {
	if v.IsNum {
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	}
	return string(v.Data)
}

// readFormat runs one format against the read buffer.
func readFormat(b *readBuffer, f Format) (Value, error) {
	switch f.kind {
	case kindCount:
		if f.n < 0 {
			return Value{}, &FormatError{Token: f.n}
		}
		p, err := readCounted(b, f.n)
		return Value{Data: p}, err
	case kindLine:
		p, err := readLine(b)
		return Value{Data: p}, err
	case kindAll:
		p, err := readAll(b)
		return Value{Data: p}, err
	case kindNumber:
		num, err := readNumber(b)
		return Value{Num: num, IsNum: true}, err
	}
	return Value{}, &FormatError{Token: f}
}

// readCounted returns up to n bytes. A non-empty partial result at
// end-of-stream is the last chunk; the exhausted stream reports ErrNoData on
// the following call, never silently with the partial data.
func readCounted(b *readBuffer, n int) ([]byte, error) {
	if n == 0 {
		// Probe: empty result while the stream is open, ErrNoData after.
		for b.buffered() == 0 {
			if b.exhausted() {
				return nil, ErrNoData
			}
			if _, err := b.fill(); err != nil {
				return nil, err
			}
		}
		return []byte{}, nil
	}
	out := make([]byte, 0, n)
	for len(out) < n {
		if b.buffered() == 0 {
			if b.eof {
				break
			}
			if _, err := b.fill(); err != nil {
				return out, err
			}
			continue
		}
		w := b.window()
		take := n - len(out)
		if take > len(w) {
			take = len(w)
		}
		out = append(out, w[:take]...)
		b.consume(take)
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}

// readLine assembles one line across refills, so lines longer than the
// window capacity still come back whole.
func readLine(b *readBuffer) ([]byte, error) {
	var out []byte
	for {
		w := b.window()
		if i := bytes.IndexByte(w, '\n'); i >= 0 {
			out = append(out, w[:i]...)
			b.consume(i + 1)
			if k := len(out); k > 0 && out[k-1] == '\r' {
				out = out[:k-1]
			}
			if out == nil {
				out = []byte{}
			}
			return out, nil
		}
		out = append(out, w...)
		b.consume(len(w))
		if b.eof {
			if len(out) == 0 {
				return nil, ErrNoData
			}
			// Final unterminated line, delivered exactly once.
			return out, nil
		}
		if _, err := b.fill(); err != nil {
			return out, err
		}
	}
}

// readAll drains the stream to end-of-stream, concatenating any partially
// buffered data with everything the transport still delivers.
func readAll(b *readBuffer) ([]byte, error) {
	out := []byte{}
	for {
		out = append(out, b.window()...)
		b.consume(b.buffered())
		if b.eof {
			return out, nil
		}
		if _, err := b.fill(); err != nil {
			return out, err
		}
	}
}

// readNumber scans the numeric grammar over the unread window, refilling
// while the candidate token still touches the window's end, so a number split
// across refills parses whole. Nothing is consumed unless a valid prefix is
// found.
func readNumber(b *readBuffer) (float64, error) {
	for {
		// The scan result is settled once the stream ended or the window is
		// at capacity; otherwise a refill may extend the token.
		final := b.eof || b.full()
		numStart, tokEnd, ok, more := scanNumber(b.window(), final)
		if more {
			if _, err := b.fill(); err != nil {
				return 0, err
			}
			continue
		}
		if !ok {
			return 0, ErrNoData
		}
		w := b.window()
		num, err := strconv.ParseFloat(string(w[numStart:tokEnd]), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, ErrNoData
		}
		b.consume(tokEnd)
		return num, nil
	}
}

func isNumSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// scanNumber matches the numeric grammar against w without consuming it.
// numStart/tokEnd delimit the parseable token (leading whitespace excluded
// from the token but included in tokEnd's base, so consuming tokEnd skips
// both). more means the scan ran off the window's end while the token could
// still grow; the caller refills and rescans.
func scanNumber(w []byte, final bool) (numStart, tokEnd int, ok, more bool) {
	i := 0
	for i < len(w) && isNumSpace(w[i]) {
		i++
	}
	numStart = i
	if i < len(w) && (w[i] == '+' || w[i] == '-') {
		i++
	}
	digits := 0
	for i < len(w) && isDigit(w[i]) {
		i++
		digits++
	}
	if i < len(w) && w[i] == '.' {
		i++
		for i < len(w) && isDigit(w[i]) {
			i++
			digits++
		}
	}
	best := -1
	if digits > 0 {
		best = i
	}
	if best >= 0 && i < len(w) && (w[i] == 'e' || w[i] == 'E') {
		j := i + 1
		if j < len(w) && (w[j] == '+' || w[j] == '-') {
			j++
		}
		expDigits := 0
		for j < len(w) && isDigit(w[j]) {
			j++
			expDigits++
		}
		if expDigits > 0 {
			// An incomplete exponent falls back to the mantissa, the way
			// strtod backtracks to the longest valid prefix.
			best = j
		}
		i = j
	}
	if i == len(w) && !final {
		return 0, 0, false, true
	}
	if best < 0 {
		return 0, 0, false, false
	}
	return numStart, best, true, false
}
