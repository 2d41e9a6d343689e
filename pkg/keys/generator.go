package keys

import (
	"github.com/suffix-labs/btc-rawtx/pkg/crypto"
)

// Generator produces fresh key pairs.
type Generator interface {
	Generate() (*KeyPair, error)
}

// Random generates key pairs from the operating system's randomness source.
type Random struct {
	network Network
}

// NewRandom creates a Random generator for the given network.
func NewRandom(network Network) Random {
	return Random{network: network}
}

// Generate creates a new key pair.
func (r Random) Generate() (*KeyPair, error) {
	private, err := crypto.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return NewKeyPair(private, r.network), nil
}
