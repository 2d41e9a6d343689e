package wallet

import (
	"fmt"

	"github.com/suffix-labs/btc-rawtx/pkg/chain"
	"github.com/suffix-labs/btc-rawtx/pkg/crypto"
	"github.com/suffix-labs/btc-rawtx/pkg/keys"
	"github.com/suffix-labs/btc-rawtx/pkg/script"
)

// SignRawTx signs every input of tx and returns the serialized, signed
// transaction.
//
// accounts[i] must be the economic owner of tx.Inputs[i]. Signing is
// all-or-nothing: the account list is validated in full — count and address
// kind — before any input is touched, so a rejected call leaves tx exactly
// as it was. Only pay-to-pubkey-hash accounts can sign; script-hash
// accounts are rejected.
//
// For each input, in increasing index order, the spent scriptPubKey is
// rebuilt from the account's address hash, the legacy digest is computed
// with SIGHASH_ALL, and the input's scriptSig becomes
//
//	<DER signature ‖ 0x01> <compressed pubkey>
//
// No field of tx other than the inputs' ScriptSig is modified.
func SignRawTx(tx *chain.Transaction, accounts []Account) ([]byte, error) {
	if len(tx.Inputs) == 0 || len(tx.Inputs) != len(accounts) {
		return nil, fmt.Errorf("%w: have %d inputs and %d accounts",
			ErrGreateRawTx, len(tx.Inputs), len(accounts))
	}

	// Validate every account before mutating anything: a failure below
	// must not leave a partially signed transaction.
	for i := range accounts {
		if accounts[i].Address.Kind != keys.P2PKH {
			return nil, fmt.Errorf("%w: account %d has kind %v",
				ErrNotSupportedAddressForm, i, accounts[i].Address.Kind)
		}
	}

	for i := range tx.Inputs {
		account := &accounts[i]

		pkScript := script.BuildP2PKH(account.Address.Hash)
		digest := crypto.SignatureHash(tx, i, pkScript, crypto.SigHashAll.U32())

		sig, err := account.KeyPair.Private().Sign(digest)
		if err != nil {
			return nil, fmt.Errorf("%w: input %d: %v", ErrSignRawTx, i, err)
		}
		sig = append(sig, byte(crypto.SigHashAll))

		tx.Inputs[i].ScriptSig = script.NewBuilder().
			PushBytes(sig).
			PushBytes(account.KeyPair.Public().Bytes()).
			Script()
	}

	return tx.Serialize(), nil
}
