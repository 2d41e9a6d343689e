// Package chain defines the Bitcoin-family transaction data model and its
// canonical wire serialization.
//
// The types here mirror the pre-segwit transaction structure shared by
// Bitcoin and its derived networks:
//
//	Transaction
//	  ├── TransactionInput  (previous outpoint, scriptSig, sequence)
//	  └── TransactionOutput (value in satoshis, scriptPubKey)
//
// Hashes use chainhash.Hash, which stores the internal (little-endian) byte
// order; chainhash.NewHashFromStr performs the display-order reversal that
// block explorers and RPC interfaces use for txids.
package chain

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Sequence number constants.
//
// A transaction is only affected by its lock time when at least one input
// carries a sequence below SequenceFinal.
const (
	// SequenceFinal disables lock-time enforcement for an input.
	SequenceFinal uint32 = 0xffffffff

	// SequenceLockTimeDisableFlag disables relative lock-time (BIP 68)
	// semantics for an input when set.
	SequenceLockTimeDisableFlag uint32 = 1 << 31
)

// OutPoint identifies a specific output of a previous transaction.
type OutPoint struct {
	Hash  chainhash.Hash // txid of the funding transaction, internal byte order
	Index uint32         // output position within that transaction
}

// TransactionInput spends a previous output.
//
// ScriptSig starts out as a placeholder and is overwritten exactly once,
// by the signer, with the final unlocking script.
type TransactionInput struct {
	PreviousOutput OutPoint
	ScriptSig      []byte
	Sequence       uint32

	// Witness is carried for structural completeness but never serialized:
	// this model covers the legacy (pre-segwit) encoding only.
	Witness [][]byte
}

// TransactionOutput creates a new spendable output.
type TransactionOutput struct {
	Value        uint64 // satoshis
	ScriptPubKey []byte
}

// Transaction is a full Bitcoin-family transaction.
//
// It is mutable while unsigned; once every input's ScriptSig is final the
// value is treated as an immutable artifact.
type Transaction struct {
	Version  int32
	Inputs   []TransactionInput
	Outputs  []TransactionOutput
	LockTime uint32
}

// Hash returns the transaction id: dhash256 of the serialized transaction,
// in internal byte order. Use the chainhash String method for the
// display-order hex form.
func (tx *Transaction) Hash() chainhash.Hash {
	return chainhash.DoubleHashH(tx.Serialize())
}
