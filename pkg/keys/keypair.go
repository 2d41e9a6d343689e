package keys

import (
	"fmt"

	"github.com/btcsuite/btcutil/base58"

	"github.com/suffix-labs/btc-rawtx/pkg/crypto"
)

// KeyPair binds a secp256k1 private key to a network.
//
// Public keys are always used in their compressed form, so the derived
// address is the hash of the 33-byte compressed encoding.
type KeyPair struct {
	private *crypto.PrivateKey
	network Network
}

// NewKeyPair wraps an existing private key.
func NewKeyPair(private *crypto.PrivateKey, network Network) *KeyPair {
	return &KeyPair{private: private, network: network}
}

// Private returns the signing key.
func (kp *KeyPair) Private() *crypto.PrivateKey {
	return kp.private
}

// Public returns the public key.
func (kp *KeyPair) Public() *crypto.PublicKey {
	return kp.private.PublicKey()
}

// Network returns the chain the key pair is tagged with.
func (kp *KeyPair) Network() Network {
	return kp.network
}

// Address derives the P2PKH address of the compressed public key.
func (kp *KeyPair) Address() Address {
	return AddressFromPublicKey(kp.Public(), kp.network)
}

// WIF encodes the private key in Wallet Import Format:
//
//	Base58Check(version || key bytes || 0x01)
//
// The trailing 0x01 marks the key as belonging to a compressed public key.
func (kp *KeyPair) WIF() string {
	payload := append(kp.private.Bytes(), 0x01)
	return base58.CheckEncode(payload, kp.network.wifVersion())
}

// KeyPairFromWIF decodes a WIF-encoded private key.
//
// Both the 32-byte (uncompressed) and 33-byte (compressed-flagged) payloads
// are accepted; either way the resulting key pair uses compressed public
// keys, matching the rest of this module.
func KeyPairFromWIF(wif string) (*KeyPair, error) {
	payload, version, err := base58.CheckDecode(wif)
	if err != nil {
		return nil, fmt.Errorf("failed to decode WIF: %w", err)
	}

	var network Network
	switch version {
	case mainnetWIFVersion:
		network = Mainnet
	case testnetWIFVersion:
		network = Testnet
	default:
		return nil, fmt.Errorf("unknown WIF version byte 0x%02x", version)
	}

	switch len(payload) {
	case 32:
	case 33:
		if payload[32] != 0x01 {
			return nil, fmt.Errorf("invalid WIF compression flag 0x%02x", payload[32])
		}
		payload = payload[:32]
	default:
		return nil, fmt.Errorf("WIF payload must be 32 or 33 bytes, got %d", len(payload))
	}

	private, err := crypto.PrivateKeyFromBytes(payload)
	if err != nil {
		return nil, err
	}

	return &KeyPair{private: private, network: network}, nil
}
