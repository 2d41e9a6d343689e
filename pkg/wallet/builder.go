package wallet

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/suffix-labs/btc-rawtx/pkg/chain"
	"github.com/suffix-labs/btc-rawtx/pkg/keys"
	"github.com/suffix-labs/btc-rawtx/pkg/script"
)

// txVersion is the version stamped on assembled transactions.
const txVersion = 2

// PrepareRawTx resolves output requests against the credit supplied by the
// input requests.
//
// The input total must cover the output total; the difference is the
// implicit fee and no further fee policy is applied. Each request resolves
// to an AddressOutput for pay-to-pubkey-hash destinations. Script-hash
// destinations currently resolve to an empty data payload.
// TODO: build a proper P2SH scriptPubKey for script-hash destinations.
func PrepareRawTx(vins []TxInputReq, vouts []TxOutputReq) ([]TxOutput, error) {
	var totalOut uint64
	for _, out := range vouts {
		totalOut += out.Value
	}
	var totalIn uint64
	for _, in := range vins {
		totalIn += in.Credit
	}

	if totalIn < totalOut {
		return nil, fmt.Errorf("%w: inputs %d, outputs %d", ErrNotEnoughAmount, totalIn, totalOut)
	}

	outputs := make([]TxOutput, 0, len(vouts))
	for _, out := range vouts {
		addr, err := keys.ParseAddress(out.Address)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAddressParse, err)
		}

		switch addr.Kind {
		case keys.P2PKH:
			outputs = append(outputs, AddressOutput{Address: addr, Amount: out.Value})
		case keys.P2SH:
			outputs = append(outputs, ScriptDataOutput{ScriptData: []byte{}})
		}
	}

	if len(outputs) == 0 {
		return nil, ErrPrepareRawTx
	}

	return outputs, nil
}

// CreateRawTx assembles an unsigned transaction from input requests and
// resolved outputs.
//
// Each input carries a placeholder scriptSig rendered from its address kind;
// the signer overwrites it. Sequences are final unless a nonzero lockTime is
// requested, in which case they are final-minus-one so the lock time takes
// effect.
func CreateRawTx(vins []TxInputReq, vouts []TxOutput, lockTime uint32) (*chain.Transaction, error) {
	defaultSequence := chain.SequenceFinal
	if lockTime != 0 {
		defaultSequence = chain.SequenceFinal - 1
	}

	inputs := make([]chain.TransactionInput, 0, len(vins))
	for _, in := range vins {
		addrFrom, err := keys.ParseAddress(in.Address)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAddressParse, err)
		}

		var placeholder []byte
		switch addrFrom.Kind {
		case keys.P2PKH:
			placeholder = script.BuildP2PKH(addrFrom.Hash)
		case keys.P2SH:
			placeholder = script.BuildP2SH(addrFrom.Hash)
		}

		prevHash, err := parseTxid(in.Txid)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTxidParse, err)
		}

		inputs = append(inputs, chain.TransactionInput{
			PreviousOutput: chain.OutPoint{Hash: prevHash, Index: in.Index},
			ScriptSig:      placeholder,
			Sequence:       defaultSequence,
		})
	}

	outputs := make([]chain.TransactionOutput, 0, len(vouts))
	for _, out := range vouts {
		switch o := out.(type) {
		case AddressOutput:
			var pkScript []byte
			switch o.Address.Kind {
			case keys.P2PKH:
				pkScript = script.BuildP2PKH(o.Address.Hash)
			case keys.P2SH:
				pkScript = script.BuildP2SH(o.Address.Hash)
			}
			outputs = append(outputs, chain.TransactionOutput{
				Value:        o.Amount,
				ScriptPubKey: pkScript,
			})
		case ScriptDataOutput:
			outputs = append(outputs, chain.TransactionOutput{
				Value:        0,
				ScriptPubKey: script.BuildNullData(o.ScriptData),
			})
		}
	}

	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, fmt.Errorf("%w: empty input or output list", ErrGreateRawTx)
	}

	return &chain.Transaction{
		Version:  txVersion,
		Inputs:   inputs,
		Outputs:  outputs,
		LockTime: lockTime,
	}, nil
}

// parseTxid decodes a display-order txid hex string into internal byte
// order. chainhash pads short inputs, so the length is checked first.
func parseTxid(txid string) (chainhash.Hash, error) {
	if len(txid) != hex.EncodedLen(chainhash.HashSize) {
		return chainhash.Hash{}, fmt.Errorf("txid must be %d hex characters, got %d",
			hex.EncodedLen(chainhash.HashSize), len(txid))
	}
	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return chainhash.Hash{}, err
	}
	return *hash, nil
}
