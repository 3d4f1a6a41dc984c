package frame

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelimitedSplitsAndJoins(t *testing.T) {
	d := NewLines()

	msgs, err := d.Decode([]byte("hel"))
	require.NoError(t, err)
	assert.Empty(t, msgs)

	msgs, err = d.Decode([]byte("lo\nwor"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("hello")}, msgs)

	msgs, err = d.Decode([]byte("ld\n\nbye\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("world"), {}, []byte("bye")}, msgs)
}

func TestDelimitedMultiByteDelimiter(t *testing.T) {
	d, err := NewDelimited([]byte("\r\n"), 0)
	require.NoError(t, err)

	wire, err := d.Encode([]byte("AT"))
	require.NoError(t, err)
	assert.Equal(t, []byte("AT\r\n"), wire)

	msgs, err := d.Decode([]byte("OK\r"))
	require.NoError(t, err)
	assert.Empty(t, msgs)
	msgs, err = d.Decode([]byte("\nERROR\r\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("OK"), []byte("ERROR")}, msgs)
}

func TestDelimitedEncodeRejects(t *testing.T) {
	d, err := NewDelimited([]byte("\n"), 4)
	require.NoError(t, err)

	_, err = d.Encode([]byte("a\nb"))
	assert.ErrorIs(t, err, ErrDelimiterInBody)

	_, err = d.Encode([]byte("12345"))
	assert.ErrorIs(t, err, ErrFrameTooLarge)

	_, err = NewDelimited(nil, 0)
	assert.ErrorIs(t, err, ErrEmptyDelimiter)
}

func TestDelimitedOverflowDropsPending(t *testing.T) {
	d, err := NewDelimited([]byte("\n"), 4)
	require.NoError(t, err)

	msgs, err := d.Decode([]byte("ok\ntoolong"))
	assert.ErrorIs(t, err, ErrFrameTooLarge)
	assert.Equal(t, [][]byte{[]byte("ok")}, msgs)

	msgs, err = d.Decode([]byte("next\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("next")}, msgs)
}

func TestDelimitedMaxSizeSplitInsideDelimiter(t *testing.T) {
	d, err := NewDelimited([]byte("\r\n"), 4)
	require.NoError(t, err)

	wire, err := d.Encode([]byte("abcd"))
	require.NoError(t, err)

	msgs, err := d.Decode(wire[:5])
	require.NoError(t, err)
	assert.Empty(t, msgs)

	msgs, err = d.Decode(wire[5:])
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("abcd")}, msgs)

	_, err = d.Decode([]byte("abcde\r"))
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestDelimitedReset(t *testing.T) {
	d := NewLines()
	_, err := d.Decode([]byte("partial"))
	require.NoError(t, err)
	d.Reset()

	msgs, err := d.Decode([]byte("x\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("x")}, msgs)
}

func TestLengthPrefixed(t *testing.T) {
	l := NewLengthPrefixed()

	wire, err := l.Encode([]byte("PING"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x04, 'P', 'I', 'N', 'G'}, wire)

	// byte-at-a-time delivery
	var got [][]byte
	for _, b := range wire {
		msgs, err := l.Decode([]byte{b})
		require.NoError(t, err)
		got = append(got, msgs...)
	}
	assert.Equal(t, [][]byte{[]byte("PING")}, got)

	// two frames, one chunk, binary body containing a newline
	a, _ := l.Encode([]byte{0x0a, 0x00})
	b, _ := l.Encode(nil)
	msgs, err := l.Decode(append(a, b...))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{0x0a, 0x00}, {}}, msgs)
}

func TestLengthPrefixedTooLarge(t *testing.T) {
	l := NewLengthPrefixed()
	_, err := l.Encode(bytes.Repeat([]byte{1}, MaxLengthPrefixed+1))
	assert.ErrorIs(t, err, ErrFrameTooLarge)

	wire, err := l.Encode(bytes.Repeat([]byte{1}, MaxLengthPrefixed))
	require.NoError(t, err)
	assert.Len(t, wire, MaxLengthPrefixed+2)
}
