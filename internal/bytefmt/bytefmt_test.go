package bytefmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		input   string
		want    []byte
		wantErr bool
	}{
		{"48656c6c6f", []byte("Hello"), false},
		{"48 65 6C 6C 6F", []byte("Hello"), false},
		{"0x48 0X65", []byte("He"), false},
		{"de:ad:be:ef", []byte{0xde, 0xad, 0xbe, 0xef}, false},
		{"486", nil, true},
		{"zz", nil, true},
	}

	for _, tt := range tests {
		got, err := ParseHex(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	empty, err := ParseHex("  ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestHex(t *testing.T) {
	assert.Equal(t, "50 49 4E 47", Hex([]byte("PING")))
	assert.Equal(t, "", Hex(nil))
}

func TestPrintable(t *testing.T) {
	assert.Equal(t, "OK··", Printable([]byte("OK\r\n"), 0))
	assert.Equal(t, "abc...", Printable([]byte("abcdef"), 3))
	assert.Equal(t, "abc", Printable([]byte("abc"), 3))
}

func TestPayload(t *testing.T) {
	data, err := Payload("AT", false, true)
	require.NoError(t, err)
	assert.Equal(t, []byte("AT\n"), data)

	data, err = Payload("4154", true, true)
	require.NoError(t, err)
	assert.Equal(t, []byte("AT"), data)

	_, err = Payload("4", true, false)
	assert.Error(t, err)
}
