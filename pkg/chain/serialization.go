package chain

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Wire format (legacy, pre-segwit):
//
//	version     int32, little-endian
//	tx_in count compactSize
//	tx_in       prevout hash (32) || prevout index (4) ||
//	            compactSize scriptSig length || scriptSig || sequence (4)
//	tx_out count compactSize
//	tx_out      value (8) || compactSize scriptPubKey length || scriptPubKey
//	lock_time   uint32, little-endian
//
// Signature digest computation and the final broadcast artifact both depend
// on this encoding being bit-exact.

// maxScriptLen bounds script lengths accepted by the decoder. Consensus
// limits scripts to 10000 bytes; anything larger is a malformed encoding.
const maxScriptLen = 10000

// Serialize encodes the transaction in the canonical wire format.
func (tx *Transaction) Serialize() []byte {
	var buf bytes.Buffer

	binary.Write(&buf, binary.LittleEndian, uint32(tx.Version))

	writeCompactSize(&buf, uint64(len(tx.Inputs)))
	for i := range tx.Inputs {
		in := &tx.Inputs[i]
		buf.Write(in.PreviousOutput.Hash[:])
		binary.Write(&buf, binary.LittleEndian, in.PreviousOutput.Index)
		writeCompactSize(&buf, uint64(len(in.ScriptSig)))
		buf.Write(in.ScriptSig)
		binary.Write(&buf, binary.LittleEndian, in.Sequence)
	}

	writeCompactSize(&buf, uint64(len(tx.Outputs)))
	for i := range tx.Outputs {
		out := &tx.Outputs[i]
		binary.Write(&buf, binary.LittleEndian, out.Value)
		writeCompactSize(&buf, uint64(len(out.ScriptPubKey)))
		buf.Write(out.ScriptPubKey)
	}

	binary.Write(&buf, binary.LittleEndian, tx.LockTime)

	return buf.Bytes()
}

// DeserializeTransaction decodes a transaction from the canonical wire
// format. The input must contain exactly one transaction; surplus bytes are
// rejected.
func DeserializeTransaction(raw []byte) (*Transaction, error) {
	r := bytes.NewReader(raw)

	tx, err := readTransaction(r)
	if err != nil {
		return nil, err
	}

	if r.Len() != 0 {
		return nil, fmt.Errorf("surplus %d bytes after transaction", r.Len())
	}

	return tx, nil
}

func readTransaction(r *bytes.Reader) (*Transaction, error) {
	tx := &Transaction{}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("failed to read version: %w", err)
	}
	tx.Version = int32(version)

	inputCount, err := readCompactSize(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input count: %w", err)
	}
	if inputCount > uint64(r.Len()) {
		return nil, fmt.Errorf("input count %d exceeds remaining data", inputCount)
	}

	tx.Inputs = make([]TransactionInput, 0, inputCount)
	for i := uint64(0); i < inputCount; i++ {
		in, err := readInput(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read input %d: %w", i, err)
		}
		tx.Inputs = append(tx.Inputs, *in)
	}

	outputCount, err := readCompactSize(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read output count: %w", err)
	}
	if outputCount > uint64(r.Len()) {
		return nil, fmt.Errorf("output count %d exceeds remaining data", outputCount)
	}

	tx.Outputs = make([]TransactionOutput, 0, outputCount)
	for i := uint64(0); i < outputCount; i++ {
		out, err := readOutput(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read output %d: %w", i, err)
		}
		tx.Outputs = append(tx.Outputs, *out)
	}

	if err := binary.Read(r, binary.LittleEndian, &tx.LockTime); err != nil {
		return nil, fmt.Errorf("failed to read lock time: %w", err)
	}

	return tx, nil
}

func readInput(r *bytes.Reader) (*TransactionInput, error) {
	in := &TransactionInput{}

	var hash chainhash.Hash
	if _, err := io.ReadFull(r, hash[:]); err != nil {
		return nil, fmt.Errorf("failed to read prevout hash: %w", err)
	}
	in.PreviousOutput.Hash = hash

	if err := binary.Read(r, binary.LittleEndian, &in.PreviousOutput.Index); err != nil {
		return nil, fmt.Errorf("failed to read prevout index: %w", err)
	}

	scriptSig, err := readScript(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read scriptSig: %w", err)
	}
	in.ScriptSig = scriptSig

	if err := binary.Read(r, binary.LittleEndian, &in.Sequence); err != nil {
		return nil, fmt.Errorf("failed to read sequence: %w", err)
	}

	return in, nil
}

func readOutput(r *bytes.Reader) (*TransactionOutput, error) {
	out := &TransactionOutput{}

	if err := binary.Read(r, binary.LittleEndian, &out.Value); err != nil {
		return nil, fmt.Errorf("failed to read value: %w", err)
	}

	script, err := readScript(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read scriptPubKey: %w", err)
	}
	out.ScriptPubKey = script

	return out, nil
}

func readScript(r *bytes.Reader) ([]byte, error) {
	length, err := readCompactSize(r)
	if err != nil {
		return nil, err
	}
	if length > maxScriptLen {
		return nil, fmt.Errorf("script length %d exceeds maximum %d", length, maxScriptLen)
	}

	script := make([]byte, length)
	if _, err := io.ReadFull(r, script); err != nil {
		return nil, fmt.Errorf("failed to read %d script bytes: %w", length, err)
	}

	return script, nil
}

// writeCompactSize writes a Bitcoin-style variable-length integer.
func writeCompactSize(w io.Writer, n uint64) {
	switch {
	case n < 253:
		w.Write([]byte{byte(n)})
	case n <= 0xffff:
		w.Write([]byte{253})
		binary.Write(w, binary.LittleEndian, uint16(n))
	case n <= 0xffffffff:
		w.Write([]byte{254})
		binary.Write(w, binary.LittleEndian, uint32(n))
	default:
		w.Write([]byte{255})
		binary.Write(w, binary.LittleEndian, n)
	}
}

// readCompactSize reads a Bitcoin-style variable-length integer.
func readCompactSize(r *bytes.Reader) (uint64, error) {
	prefix, err := r.ReadByte()
	if err != nil {
		return 0, err
	}

	switch prefix {
	case 253:
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return 0, err
		}
		return uint64(n), nil
	case 254:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return 0, err
		}
		return uint64(n), nil
	case 255:
		var n uint64
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return 0, err
		}
		return n, nil
	default:
		return uint64(prefix), nil
	}
}
