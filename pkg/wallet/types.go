// Package wallet builds and signs raw Bitcoin-family transactions.
//
// The flow has three steps, each a pure function over its arguments:
//
//  1. PrepareRawTx resolves output requests against the available input
//     credit.
//  2. CreateRawTx materializes an unsigned Transaction from input requests
//     and resolved outputs.
//  3. SignRawTx writes each input's final scriptSig and returns the
//     serialized transaction, ready for broadcast.
//
// Assembly and signing are synchronous and single-threaded: each input's
// digest depends on the still-unsigned state of its sibling inputs, so the
// per-input work must not be parallelized. Concurrent signing of
// independent transactions is safe as long as each call owns its
// Transaction and accounts exclusively.
package wallet

import (
	"github.com/suffix-labs/btc-rawtx/pkg/keys"
)

// TxInputReq describes a spendable previous output.
//
// Txid is the display-order hex string, as reported by explorers and RPC
// interfaces; it is reversed into internal byte order during assembly.
// Credit is the value of the referenced output in satoshis.
type TxInputReq struct {
	Txid    string
	Index   uint32
	Address string
	Credit  uint64
}

// TxOutputReq describes a desired payment: destination address and amount
// in satoshis.
type TxOutputReq struct {
	Address string
	Value   uint64
}

// TxOutput is a resolved transaction output target, either a payment to an
// address or an embedded data payload.
type TxOutput interface {
	txOutput()
}

// AddressOutput pays an amount to a decoded address.
type AddressOutput struct {
	Address keys.Address
	Amount  uint64
}

// ScriptDataOutput embeds an opaque payload in a zero-value null-data
// output.
type ScriptDataOutput struct {
	ScriptData []byte
}

func (AddressOutput) txOutput()    {}
func (ScriptDataOutput) txOutput() {}

// Account binds a signing key pair to the address it claims to own.
//
// The binding is caller-trusted: the wallet does not re-derive the address
// from the key pair, and a mismatched pair produces signatures the network
// will reject. Supplying a correct binding is a precondition.
type Account struct {
	KeyPair *keys.KeyPair
	Address keys.Address
}
