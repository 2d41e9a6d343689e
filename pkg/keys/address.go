// Package keys implements the network-aware key and address model:
// Base58Check addresses (pay-to-pubkey-hash and pay-to-script-hash),
// WIF-encoded private keys, and key-pair generation.
//
// Address format: Base58Check(version byte || hash160). The version byte
// classifies both the network and the address kind.
package keys

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	"golang.org/x/crypto/ripemd160"

	"github.com/suffix-labs/btc-rawtx/pkg/crypto"
)

// Network tags keys and addresses with the chain they belong to.
type Network int

const (
	Mainnet Network = iota
	Testnet
)

func (n Network) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	default:
		return fmt.Sprintf("Network(%d)", int(n))
	}
}

// Base58Check version bytes per network.
const (
	mainnetP2PKHVersion byte = 0x00
	mainnetP2SHVersion  byte = 0x05
	mainnetWIFVersion   byte = 0x80

	testnetP2PKHVersion byte = 0x6f
	testnetP2SHVersion  byte = 0xc4
	testnetWIFVersion   byte = 0xef
)

func (n Network) p2pkhVersion() byte {
	if n == Testnet {
		return testnetP2PKHVersion
	}
	return mainnetP2PKHVersion
}

func (n Network) p2shVersion() byte {
	if n == Testnet {
		return testnetP2SHVersion
	}
	return mainnetP2SHVersion
}

func (n Network) wifVersion() byte {
	if n == Testnet {
		return testnetWIFVersion
	}
	return mainnetWIFVersion
}

// AddressKind classifies a decoded address.
type AddressKind int

const (
	// P2PKH is a pay-to-pubkey-hash address.
	P2PKH AddressKind = iota
	// P2SH is a pay-to-script-hash address.
	P2SH
)

func (k AddressKind) String() string {
	switch k {
	case P2PKH:
		return "P2PKH"
	case P2SH:
		return "P2SH"
	default:
		return fmt.Sprintf("AddressKind(%d)", int(k))
	}
}

// Address is a decoded Base58Check address.
type Address struct {
	Hash    [20]byte
	Kind    AddressKind
	Network Network
}

// ParseAddress decodes a Base58Check address string and classifies it by
// its version byte.
func ParseAddress(addr string) (Address, error) {
	payload, version, err := base58.CheckDecode(addr)
	if err != nil {
		return Address{}, fmt.Errorf("failed to decode address %q: %w", addr, err)
	}
	if len(payload) != ripemd160.Size {
		return Address{}, fmt.Errorf("address payload must be %d bytes, got %d",
			ripemd160.Size, len(payload))
	}

	a := Address{}
	copy(a.Hash[:], payload)

	switch version {
	case mainnetP2PKHVersion:
		a.Kind, a.Network = P2PKH, Mainnet
	case mainnetP2SHVersion:
		a.Kind, a.Network = P2SH, Mainnet
	case testnetP2PKHVersion:
		a.Kind, a.Network = P2PKH, Testnet
	case testnetP2SHVersion:
		a.Kind, a.Network = P2SH, Testnet
	default:
		return Address{}, fmt.Errorf("unknown address version byte 0x%02x", version)
	}

	return a, nil
}

// String renders the Base58Check form of the address.
func (a Address) String() string {
	version := a.Network.p2pkhVersion()
	if a.Kind == P2SH {
		version = a.Network.p2shVersion()
	}
	return base58.CheckEncode(a.Hash[:], version)
}

// AddressFromPublicKey derives the P2PKH address of a compressed public key.
func AddressFromPublicKey(pub *crypto.PublicKey, network Network) Address {
	return Address{
		Hash:    Hash160(pub.Bytes()),
		Kind:    P2PKH,
		Network: network,
	}
}

// Hash160 computes RIPEMD-160 over SHA-256, the hash committed to by
// P2PKH and P2SH scripts.
func Hash160(data []byte) [20]byte {
	sha := sha256.Sum256(data)

	r := ripemd160.New()
	r.Write(sha[:])

	var hash [20]byte
	copy(hash[:], r.Sum(nil))
	return hash
}
