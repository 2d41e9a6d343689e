package crypto

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/suffix-labs/btc-rawtx/pkg/chain"
)

// SigHashType is the signature-hash flag encoded in the last byte of a
// transaction signature. It controls which parts of the transaction the
// signature commits to.
type SigHashType uint32

// The consensus sighash flag values.
const (
	// SigHashAll signs all outputs.
	SigHashAll SigHashType = 0x01
	// SigHashNone signs no outputs; anyone can choose the destination.
	SigHashNone SigHashType = 0x02
	// SigHashSingle signs the output whose index matches this input's
	// index. If none exists, the digest is the fixed value
	// 01000000...00 — a consensus rule inherited from the original
	// implementation's out-of-range handling, so it must be reproduced.
	SigHashSingle SigHashType = 0x03

	// SigHashAnyoneCanPay is the modifier bit: only this input is signed,
	// so further inputs can be appended without invalidating the signature.
	SigHashAnyoneCanPay SigHashType = 0x80

	SigHashAllAnyoneCanPay    = SigHashAll | SigHashAnyoneCanPay
	SigHashNoneAnyoneCanPay   = SigHashNone | SigHashAnyoneCanPay
	SigHashSingleAnyoneCanPay = SigHashSingle | SigHashAnyoneCanPay
)

// sigHashDecodeMask selects the bits of a raw flag that participate in
// decoding. The width (0x9f rather than the low nibble) matches the
// historical consensus code and is pinned by regression tests.
const sigHashDecodeMask = 0x9f

// SigHashFromU32 decodes a raw 4-byte flag into a SigHashType.
//
// Unrecognized low-bit patterns fall back to SigHashAll; unrecognized
// patterns with the anyone-can-pay bit set fall back to
// SigHashAllAnyoneCanPay. Decoding never fails.
func SigHashFromU32(n uint32) SigHashType {
	masked := SigHashType(n & sigHashDecodeMask)
	switch masked {
	case SigHashAll, SigHashNone, SigHashSingle,
		SigHashAllAnyoneCanPay, SigHashNoneAnyoneCanPay, SigHashSingleAnyoneCanPay:
		return masked
	}
	if masked&SigHashAnyoneCanPay != 0 {
		return SigHashAllAnyoneCanPay
	}
	return SigHashAll
}

// Split breaks the flag into its base type and the anyone-can-pay modifier.
func (t SigHashType) Split() (SigHashType, bool) {
	return t &^ SigHashAnyoneCanPay, t&SigHashAnyoneCanPay != 0
}

// U32 converts the flag back to its 4-byte wire form.
func (t SigHashType) U32() uint32 {
	return uint32(t)
}

// SignatureHash computes the legacy per-input signature digest: the 32-byte
// value that the input's private key actually signs.
//
// scriptPubKey is the locking script of the output being spent by
// tx.Inputs[inputIndex]. sighash is the raw flag, decoded with
// SigHashFromU32; the full original flag (anyone-can-pay bit included) is
// appended to the digest preimage.
//
// The computation never mutates tx: it operates on a freshly built scratch
// transaction. An out-of-range inputIndex is a programming error and
// panics.
func SignatureHash(tx *chain.Transaction, inputIndex int, scriptPubKey []byte, sighash uint32) chainhash.Hash {
	if inputIndex < 0 || inputIndex >= len(tx.Inputs) {
		panic(fmt.Sprintf("sighash: input index %d out of range (have %d inputs)",
			inputIndex, len(tx.Inputs)))
	}

	base, anyoneCanPay := SigHashFromU32(sighash).Split()

	// The SIGHASH_SINGLE out-of-range case short-circuits to a fixed
	// digest instead of an error. Load-bearing consensus behavior.
	if base == SigHashSingle && inputIndex >= len(tx.Outputs) {
		return chainhash.Hash{0x01}
	}

	scratch := chain.Transaction{
		Version:  tx.Version,
		LockTime: tx.LockTime,
	}

	if anyoneCanPay {
		// Only the target input is committed to; its scriptSig becomes
		// the spent scriptPubKey.
		target := &tx.Inputs[inputIndex]
		scratch.Inputs = []chain.TransactionInput{{
			PreviousOutput: target.PreviousOutput,
			ScriptSig:      append([]byte(nil), scriptPubKey...),
			Sequence:       target.Sequence,
		}}
	} else {
		scratch.Inputs = make([]chain.TransactionInput, 0, len(tx.Inputs))
		for n := range tx.Inputs {
			in := &tx.Inputs[n]
			scratchIn := chain.TransactionInput{
				PreviousOutput: in.PreviousOutput,
				Sequence:       in.Sequence,
			}
			if n == inputIndex {
				scratchIn.ScriptSig = append([]byte(nil), scriptPubKey...)
			} else if base == SigHashSingle || base == SigHashNone {
				// Sibling sequences are zeroed so they stay malleable
				// under Single/None; the target keeps its own.
				scratchIn.Sequence = 0
			}
			scratch.Inputs = append(scratch.Inputs, scratchIn)
		}
	}

	switch base {
	case SigHashAll:
		scratch.Outputs = append([]chain.TransactionOutput(nil), tx.Outputs...)
	case SigHashSingle:
		// Outputs up to and including the matching index, with every
		// sibling in that prefix blanked to a zero-value, empty-script
		// output.
		scratch.Outputs = make([]chain.TransactionOutput, inputIndex+1)
		scratch.Outputs[inputIndex] = chain.TransactionOutput{
			Value:        tx.Outputs[inputIndex].Value,
			ScriptPubKey: append([]byte(nil), tx.Outputs[inputIndex].ScriptPubKey...),
		}
	case SigHashNone:
		// No outputs are committed to.
	}

	preimage := scratch.Serialize()
	preimage = binary.LittleEndian.AppendUint32(preimage, sighash)

	return chainhash.DoubleHashH(preimage)
}
