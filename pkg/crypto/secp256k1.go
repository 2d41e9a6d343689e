// Package crypto implements the signing core for transparent transactions:
// secp256k1 ECDSA keys and the legacy Bitcoin-family signature hash.
//
// Key formats:
//   - Private keys: raw 32 bytes (WIF handling lives with the network-aware
//     address model in pkg/keys)
//   - Public keys: compressed 33-byte format (0x02/0x03 prefix + x-coordinate)
//   - Signatures: DER-encoded, deterministic (RFC 6979), low-S
package crypto

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// PrivateKey wraps a secp256k1 private key.
//
// The scalar stays inside the wrapped key; it is never copied beyond the
// signing call.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// PublicKey wraps a secp256k1 public key.
type PublicKey struct {
	key *secp256k1.PublicKey
}

// PrivateKeyFromBytes creates a private key from its raw 32-byte form.
func PrivateKeyFromBytes(keyBytes []byte) (*PrivateKey, error) {
	if len(keyBytes) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(keyBytes))
	}

	key := secp256k1.PrivKeyFromBytes(keyBytes)
	if key.Key.IsZero() {
		return nil, fmt.Errorf("private key scalar is zero")
	}
	return &PrivateKey{key: key}, nil
}

// GeneratePrivateKey creates a new private key from a cryptographically
// secure randomness source.
func GeneratePrivateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// Sign creates a DER-encoded ECDSA signature over the 32-byte digest.
func (pk *PrivateKey) Sign(digest chainhash.Hash) ([]byte, error) {
	sig := ecdsa.Sign(pk.key, digest[:])
	return sig.Serialize(), nil
}

// PublicKey derives the public key.
func (pk *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{key: pk.key.PubKey()}
}

// Bytes returns the raw 32-byte private key.
func (pk *PrivateKey) Bytes() []byte {
	return pk.key.Serialize()
}

// Bytes returns the 33-byte compressed public key.
func (pub *PublicKey) Bytes() []byte {
	return pub.key.SerializeCompressed()
}

// ParsePublicKey parses a compressed public key.
func ParsePublicKey(pubKeyBytes []byte) (*PublicKey, error) {
	if len(pubKeyBytes) != 33 {
		return nil, fmt.Errorf("compressed public key must be 33 bytes, got %d", len(pubKeyBytes))
	}

	pubKey, err := secp256k1.ParsePubKey(pubKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return &PublicKey{key: pubKey}, nil
}

// VerifySignature verifies a DER-encoded ECDSA signature over a digest.
func VerifySignature(pub *PublicKey, digest chainhash.Hash, signature []byte) bool {
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(digest[:], pub.key)
}
