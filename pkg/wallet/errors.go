// Package wallet error taxonomy.
//
// Failures are a closed set of sentinel errors surfaced as result values;
// callers branch with errors.Is. Nothing here is retried internally: this
// is a pure computation layer with no transient failure modes, and a single
// malformed input aborts the whole build or sign operation. A half-signed
// transaction is not a meaningful artifact, so partial success is never
// reported.
package wallet

import "errors"

var (
	// ErrNotEnoughAmount is returned when the requested output total
	// exceeds the credit supplied by the inputs.
	ErrNotEnoughAmount = errors.New("total input amount less than total output amount")

	// ErrAddressParse is returned when an address string cannot be
	// decoded or classified.
	ErrAddressParse = errors.New("failed to parse address")

	// ErrTxidParse is returned when a previous transaction id is not
	// valid display-order hex.
	ErrTxidParse = errors.New("failed to parse txid")

	// ErrPrepareRawTx is returned when output preparation resolves to an
	// empty output list.
	ErrPrepareRawTx = errors.New("no outputs resolved")

	// ErrGreateRawTx is the transaction-assembly error: empty input or
	// output lists, or an account list that does not line up with the
	// transaction's inputs.
	ErrGreateRawTx = errors.New("failed to assemble raw transaction")

	// ErrNotSupportedAddressForm is returned when signing is requested
	// for an address kind other than pay-to-pubkey-hash. Script-hash
	// signing is rejected by design.
	ErrNotSupportedAddressForm = errors.New("unsupported address form for signing")

	// ErrSignRawTx is returned when producing a signature fails.
	ErrSignRawTx = errors.New("failed to sign raw transaction")
)
