package script

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHash = [20]byte{
	0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a,
	0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10, 0x11, 0x12, 0x13, 0x14,
}

func TestBuildP2PKH(t *testing.T) {
	got := BuildP2PKH(testHash)

	want := append([]byte{OpDup, OpHash160, 20}, testHash[:]...)
	want = append(want, OpEqualVerify, OpCheckSig)

	assert.Equal(t, want, got)
	assert.Len(t, got, 25)
}

func TestBuildP2SH(t *testing.T) {
	got := BuildP2SH(testHash)

	want := append([]byte{OpHash160, 20}, testHash[:]...)
	want = append(want, OpEqual)

	assert.Equal(t, want, got)
	assert.Len(t, got, 23)
}

func TestBuildNullData(t *testing.T) {
	assert.Equal(t, []byte{OpReturn, 0x00}, BuildNullData(nil))

	got := BuildNullData([]byte("hi"))
	assert.Equal(t, []byte{OpReturn, 0x02, 'h', 'i'}, got)
}

func TestPushBytesEncodingBoundaries(t *testing.T) {
	cases := []struct {
		length     int
		wantPrefix []byte
	}{
		{1, []byte{1}},
		{75, []byte{75}},
		{76, []byte{OpPushData1, 76}},
		{255, []byte{OpPushData1, 255}},
		{256, []byte{OpPushData2, 0x00, 0x01}},
		{65535, []byte{OpPushData2, 0xff, 0xff}},
		{65536, []byte{OpPushData4, 0x00, 0x00, 0x01, 0x00}},
	}

	for _, tc := range cases {
		data := bytes.Repeat([]byte{0xab}, tc.length)
		got := NewBuilder().PushBytes(data).Script()

		assert.Equal(t, tc.wantPrefix, got[:len(tc.wantPrefix)], "length %d", tc.length)
		assert.Equal(t, data, got[len(tc.wantPrefix):], "length %d", tc.length)
	}
}

func TestParsePushesRoundTrip(t *testing.T) {
	payloads := [][]byte{
		bytes.Repeat([]byte{0x01}, 72),  // DER signature size
		bytes.Repeat([]byte{0x02}, 33),  // compressed pubkey size
		bytes.Repeat([]byte{0x03}, 200), // needs OP_PUSHDATA1
	}

	b := NewBuilder()
	for _, p := range payloads {
		b.PushBytes(p)
	}

	got, err := ParsePushes(b.Script())
	require.NoError(t, err)
	assert.Equal(t, payloads, got)
}

func TestParsePushesRejectsOpcodes(t *testing.T) {
	_, err := ParsePushes(BuildP2PKH(testHash))
	assert.ErrorContains(t, err, "not a data push")
}

func TestParsePushesRejectsTruncated(t *testing.T) {
	// Declares a 5-byte push, supplies 2 bytes.
	_, err := ParsePushes([]byte{0x05, 0x01, 0x02})
	assert.Error(t, err)

	_, err = ParsePushes([]byte{OpPushData1})
	assert.Error(t, err)
}
