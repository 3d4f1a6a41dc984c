// Package frame adds message boundaries on top of a raw byte transport such
// as uart.Session. The transport itself never splits or joins messages; a
// Codec does.
package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	ErrFrameTooLarge   = errors.New("frame exceeds maximum size")
	ErrDelimiterInBody = errors.New("message contains the frame delimiter")
	ErrEmptyDelimiter  = errors.New("delimiter must not be empty")
)

// Codec turns messages into wire bytes and reassembles them from arbitrary
// receive chunks.
type Codec interface {
	Encode(msg []byte) ([]byte, error)
	// Decode consumes chunk and returns every message it completed. Partial
	// data is kept for the next call.
	Decode(chunk []byte) ([][]byte, error)
	Reset()
}

// Delimited frames messages with a trailing delimiter, "\n" by default
type Delimited struct {
	delim   []byte
	maxSize int
	buf     []byte
}

// NewDelimited returns a delimiter codec. maxSize bounds a pending message;
// 0 means 4096.
func NewDelimited(delim []byte, maxSize int) (*Delimited, error) {
	if len(delim) == 0 {
		return nil, ErrEmptyDelimiter
	}
	if maxSize <= 0 {
		maxSize = 4096
	}
	return &Delimited{delim: append([]byte(nil), delim...), maxSize: maxSize}, nil
}

// NewLines is NewDelimited("\n", 0)
func NewLines() *Delimited {
	d, _ := NewDelimited([]byte("\n"), 0)
	return d
}

func (d *Delimited) Encode(msg []byte) ([]byte, error) {
	if bytes.Contains(msg, d.delim) {
		return nil, ErrDelimiterInBody
	}
	if len(msg) > d.maxSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, len(msg), d.maxSize)
	}
	out := make([]byte, 0, len(msg)+len(d.delim))
	out = append(out, msg...)
	return append(out, d.delim...), nil
}

// Decode strips the delimiter from each returned message. When pending data
// grows past maxSize without a delimiter it is discarded and
// ErrFrameTooLarge returned alongside any messages already completed.
func (d *Delimited) Decode(chunk []byte) ([][]byte, error) {
	d.buf = append(d.buf, chunk...)

	var msgs [][]byte
	for {
		i := bytes.Index(d.buf, d.delim)
		if i < 0 {
			break
		}
		msgs = append(msgs, bytes.Clone(d.buf[:i]))
		d.buf = d.buf[i+len(d.delim):]
	}

	// a message of maxSize may still be waiting for the rest of its delimiter
	if len(d.buf) > d.maxSize+len(d.delim)-1 {
		d.buf = nil
		return msgs, ErrFrameTooLarge
	}
	return msgs, nil
}

func (d *Delimited) Reset() { d.buf = nil }

// MaxLengthPrefixed is the largest body a 2-byte length prefix can describe
const MaxLengthPrefixed = 0xFFFF

// LengthPrefixed frames messages with a 2-byte big-endian length
type LengthPrefixed struct {
	buf []byte
}

func NewLengthPrefixed() *LengthPrefixed { return &LengthPrefixed{} }

func (l *LengthPrefixed) Encode(msg []byte) ([]byte, error) {
	if len(msg) > MaxLengthPrefixed {
		return nil, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, len(msg), MaxLengthPrefixed)
	}
	out := make([]byte, 2, 2+len(msg))
	binary.BigEndian.PutUint16(out, uint16(len(msg)))
	return append(out, msg...), nil
}

func (l *LengthPrefixed) Decode(chunk []byte) ([][]byte, error) {
	l.buf = append(l.buf, chunk...)

	var msgs [][]byte
	for len(l.buf) >= 2 {
		n := int(binary.BigEndian.Uint16(l.buf))
		if len(l.buf) < 2+n {
			break
		}
		msgs = append(msgs, bytes.Clone(l.buf[2:2+n]))
		l.buf = l.buf[2+n:]
	}
	return msgs, nil
}

func (l *LengthPrefixed) Reset() { l.buf = nil }
