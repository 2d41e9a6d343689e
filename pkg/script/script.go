// Package script constructs and inspects Bitcoin-family script bytecode.
//
// Only the script shapes needed for transparent spending are covered:
// the standard P2PKH and P2SH locking templates, null-data (OP_RETURN)
// outputs, and push-only unlocking scripts of the form
// <signature ‖ sighash byte> <pubkey>.
//
// See: bitcoin/script/script.h for the opcode encoding.
package script

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Script opcodes used by the standard templates.
const (
	Op0           byte = 0x00
	OpPushData1   byte = 0x4c
	OpPushData2   byte = 0x4d
	OpPushData4   byte = 0x4e
	OpReturn      byte = 0x6a
	OpDup         byte = 0x76
	OpEqual       byte = 0x87
	OpEqualVerify byte = 0x88
	OpHash160     byte = 0xa9
	OpCheckSig    byte = 0xac
)

// maxDirectPush is the largest payload length encodable as a bare
// OP_PUSHBYTES_N opcode; longer payloads need an OP_PUSHDATA prefix.
const maxDirectPush = 75

// Builder assembles a script from opcodes and data pushes.
//
// The zero value is ready to use. Methods return the receiver so pushes
// can be chained.
type Builder struct {
	script []byte
}

// NewBuilder creates an empty script builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// PushOpcode appends a single opcode.
func (b *Builder) PushOpcode(op byte) *Builder {
	b.script = append(b.script, op)
	return b
}

// PushBytes appends a data push of the given payload, selecting the
// minimal push encoding for its length.
func (b *Builder) PushBytes(data []byte) *Builder {
	switch n := len(data); {
	case n <= maxDirectPush:
		b.script = append(b.script, byte(n))
	case n <= 0xff:
		b.script = append(b.script, OpPushData1, byte(n))
	case n <= 0xffff:
		b.script = append(b.script, OpPushData2, byte(n), byte(n>>8))
	default:
		b.script = append(b.script, OpPushData4)
		b.script = binary.LittleEndian.AppendUint32(b.script, uint32(n))
	}
	b.script = append(b.script, data...)
	return b
}

// Script returns the assembled bytecode.
func (b *Builder) Script() []byte {
	return b.script
}

// BuildP2PKH renders the pay-to-pubkey-hash locking template:
//
//	OP_DUP OP_HASH160 <hash160> OP_EQUALVERIFY OP_CHECKSIG
func BuildP2PKH(hash [20]byte) []byte {
	return NewBuilder().
		PushOpcode(OpDup).
		PushOpcode(OpHash160).
		PushBytes(hash[:]).
		PushOpcode(OpEqualVerify).
		PushOpcode(OpCheckSig).
		Script()
}

// BuildP2SH renders the pay-to-script-hash locking template:
//
//	OP_HASH160 <hash160> OP_EQUAL
func BuildP2SH(hash [20]byte) []byte {
	return NewBuilder().
		PushOpcode(OpHash160).
		PushBytes(hash[:]).
		PushOpcode(OpEqual).
		Script()
}

// BuildNullData renders a provably unspendable data-carrier output:
//
//	OP_RETURN <data>
func BuildNullData(data []byte) []byte {
	return NewBuilder().
		PushOpcode(OpReturn).
		PushBytes(data).
		Script()
}

// ParsePushes decodes a push-only script into its payloads, in order.
// Any opcode that is not a data push fails the parse. Signer output
// (scriptSig of the form <sig> <pubkey>) is push-only by construction.
func ParsePushes(script []byte) ([][]byte, error) {
	var pushes [][]byte

	r := bytes.NewReader(script)
	for r.Len() > 0 {
		op, _ := r.ReadByte()

		var length int
		switch {
		case op >= 1 && op <= maxDirectPush:
			length = int(op)
		case op == OpPushData1:
			b, err := r.ReadByte()
			if err != nil {
				return nil, fmt.Errorf("truncated OP_PUSHDATA1 length")
			}
			length = int(b)
		case op == OpPushData2:
			var n uint16
			if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
				return nil, fmt.Errorf("truncated OP_PUSHDATA2 length")
			}
			length = int(n)
		case op == OpPushData4:
			var n uint32
			if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
				return nil, fmt.Errorf("truncated OP_PUSHDATA4 length")
			}
			length = int(n)
		default:
			return nil, fmt.Errorf("opcode 0x%02x is not a data push", op)
		}

		if length > r.Len() {
			return nil, fmt.Errorf("push of %d bytes exceeds remaining %d", length, r.Len())
		}
		payload := make([]byte, length)
		r.Read(payload)
		pushes = append(pushes, payload)
	}

	return pushes, nil
}
