package crypto

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/btc-rawtx/pkg/chain"
)

func TestSigHashSplitRoundTrip(t *testing.T) {
	for _, base := range []SigHashType{SigHashAll, SigHashNone, SigHashSingle} {
		got, anyoneCanPay := SigHashFromU32(base.U32()).Split()
		assert.Equal(t, base, got)
		assert.False(t, anyoneCanPay)
	}
}

func TestSigHashFromU32(t *testing.T) {
	cases := []struct {
		raw  uint32
		want SigHashType
	}{
		{0x01, SigHashAll},
		{0x02, SigHashNone},
		{0x03, SigHashSingle},
		{0x81, SigHashAllAnyoneCanPay},
		{0x82, SigHashNoneAnyoneCanPay},
		{0x83, SigHashSingleAnyoneCanPay},

		// Decoding masks with 0x9f, wider than the traditional low
		// nibble. These cases pin that exact behavior.
		{0x1f, SigHashAll},                  // 0x1f survives the mask, unrecognized, falls back
		{0x41, SigHashAll},                  // 0x40 bit masked away
		{0x84, SigHashAllAnyoneCanPay},      // unrecognized with the 0x80 bit set
		{0x9f, SigHashAllAnyoneCanPay},      // full mask, unrecognized
		{0xa3, SigHashSingleAnyoneCanPay},   // 0x20 bit masked away
		{0x00, SigHashAll},                  // zero falls back
		{0xffffff81, SigHashAllAnyoneCanPay}, // only the low byte's masked bits matter
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, SigHashFromU32(tc.raw), "flag 0x%x", tc.raw)
	}
}

func TestSigHashSplitAnyoneCanPay(t *testing.T) {
	base, anyoneCanPay := SigHashSingleAnyoneCanPay.Split()
	assert.Equal(t, SigHashSingle, base)
	assert.True(t, anyoneCanPay)
}

// twoInTwoOutTx builds a deterministic transaction with two inputs and two
// outputs for digest property tests.
func twoInTwoOutTx(t *testing.T) *chain.Transaction {
	t.Helper()

	prevA, err := chainhash.NewHashFromStr(
		"4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b")
	require.NoError(t, err)
	prevB, err := chainhash.NewHashFromStr(
		"0000000000000000000000000000000000000000000000000000000000000001")
	require.NoError(t, err)

	return &chain.Transaction{
		Version: 2,
		Inputs: []chain.TransactionInput{
			{
				PreviousOutput: chain.OutPoint{Hash: *prevA, Index: 0},
				Sequence:       chain.SequenceFinal,
			},
			{
				PreviousOutput: chain.OutPoint{Hash: *prevB, Index: 3},
				Sequence:       chain.SequenceFinal - 1,
			},
		},
		Outputs: []chain.TransactionOutput{
			{Value: 50_000, ScriptPubKey: []byte{0x51}},
			{Value: 40_000, ScriptPubKey: []byte{0x52}},
		},
	}
}

var testPkScript = []byte{
	0x76, 0xa9, 0x14,
	0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a,
	0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10, 0x11, 0x12, 0x13, 0x14,
	0x88, 0xac,
}

func TestSignatureHashDeterministic(t *testing.T) {
	tx := twoInTwoOutTx(t)

	for _, flag := range []uint32{0x01, 0x02, 0x03, 0x81, 0x82, 0x83} {
		for index := range tx.Inputs {
			first := SignatureHash(tx, index, testPkScript, flag)
			second := SignatureHash(tx, index, testPkScript, flag)
			assert.Equal(t, first, second, "flag 0x%x index %d", flag, index)
		}
	}
}

func TestSignatureHashDoesNotMutate(t *testing.T) {
	tx := twoInTwoOutTx(t)
	before := tx.Serialize()

	SignatureHash(tx, 1, testPkScript, SigHashSingleAnyoneCanPay.U32())

	assert.True(t, bytes.Equal(before, tx.Serialize()))
}

func TestSignatureHashSingleBug(t *testing.T) {
	// Input index 1 with only one output: SIGHASH_SINGLE short-circuits
	// to the fixed digest regardless of everything else.
	tx := twoInTwoOutTx(t)
	tx.Outputs = tx.Outputs[:1]

	want := chainhash.Hash{0x01}
	assert.Equal(t, want, SignatureHash(tx, 1, testPkScript, SigHashSingle.U32()))

	// The rest of the transaction does not matter.
	tx.Version = 99
	tx.LockTime = 12345
	tx.Outputs[0].Value = 1
	assert.Equal(t, want, SignatureHash(tx, 1, testPkScript, SigHashSingle.U32()))

	// The anyone-can-pay variant short-circuits the same way.
	assert.Equal(t, want, SignatureHash(tx, 1, testPkScript, SigHashSingleAnyoneCanPay.U32()))
}

func TestSignatureHashAnyoneCanPayIsolation(t *testing.T) {
	tx := twoInTwoOutTx(t)
	flag := SigHashAllAnyoneCanPay.U32()

	before := SignatureHash(tx, 0, testPkScript, flag)

	// Mutating the sibling input must not affect the target's digest.
	tx.Inputs[1].PreviousOutput.Index = 42
	tx.Inputs[1].Sequence = 7
	assert.Equal(t, before, SignatureHash(tx, 0, testPkScript, flag))

	// Mutating the target input must.
	tx.Inputs[0].Sequence = 0
	assert.NotEqual(t, before, SignatureHash(tx, 0, testPkScript, flag))
}

func TestSignatureHashNoneIgnoresOutputs(t *testing.T) {
	tx := twoInTwoOutTx(t)
	flag := SigHashNone.U32()

	before := SignatureHash(tx, 0, testPkScript, flag)

	tx.Outputs[0].Value = 99
	tx.Outputs[1].ScriptPubKey = []byte{0xff, 0xff}
	assert.Equal(t, before, SignatureHash(tx, 0, testPkScript, flag))

	tx.Outputs = nil
	assert.Equal(t, before, SignatureHash(tx, 0, testPkScript, flag))
}

func TestSignatureHashSingleBlanksSiblingOutputs(t *testing.T) {
	tx := twoInTwoOutTx(t)
	flag := SigHashSingle.U32()

	before := SignatureHash(tx, 1, testPkScript, flag)

	// Output 0 is in the committed prefix but blanked to zero value and
	// empty script, so mutating it changes nothing.
	tx.Outputs[0].Value = 31337
	tx.Outputs[0].ScriptPubKey = []byte{0x6a}
	assert.Equal(t, before, SignatureHash(tx, 1, testPkScript, flag))

	// The matching output is committed as-is.
	tx.Outputs[1].Value++
	assert.NotEqual(t, before, SignatureHash(tx, 1, testPkScript, flag))
}

func TestSignatureHashSequenceZeroing(t *testing.T) {
	tx := twoInTwoOutTx(t)

	// Under Single/None, sibling sequences are zeroed, so a sibling
	// sequence change is invisible; under All it is committed.
	noneBefore := SignatureHash(tx, 0, testPkScript, SigHashNone.U32())
	allBefore := SignatureHash(tx, 0, testPkScript, SigHashAll.U32())

	tx.Inputs[1].Sequence = 12345

	assert.Equal(t, noneBefore, SignatureHash(tx, 0, testPkScript, SigHashNone.U32()))
	assert.NotEqual(t, allBefore, SignatureHash(tx, 0, testPkScript, SigHashAll.U32()))
}

func TestSignatureHashCommitsToFullFlag(t *testing.T) {
	tx := twoInTwoOutTx(t)

	// 0x41 decodes to All but the appended flag bytes differ, so the
	// digests must differ.
	assert.NotEqual(t,
		SignatureHash(tx, 0, testPkScript, 0x01),
		SignatureHash(tx, 0, testPkScript, 0x41))
}

func TestSignatureHashOutOfRangePanics(t *testing.T) {
	tx := twoInTwoOutTx(t)

	assert.Panics(t, func() {
		SignatureHash(tx, len(tx.Inputs), testPkScript, SigHashAll.U32())
	})
	assert.Panics(t, func() {
		SignatureHash(tx, -1, testPkScript, SigHashAll.U32())
	})
}
