package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/btc-rawtx/pkg/crypto"
)

// keyPairOne wraps the private scalar 1, whose derived artifacts are
// well-known reference values.
func keyPairOne(t *testing.T, network Network) *KeyPair {
	t.Helper()

	keyBytes := make([]byte, 32)
	keyBytes[31] = 0x01

	private, err := crypto.PrivateKeyFromBytes(keyBytes)
	require.NoError(t, err)
	return NewKeyPair(private, network)
}

func TestKeyPairKnownVectors(t *testing.T) {
	kp := keyPairOne(t, Mainnet)

	assert.Equal(t, "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH", kp.Address().String())
	assert.Equal(t, "KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn", kp.WIF())
}

func TestKeyPairFromWIFRoundTrip(t *testing.T) {
	for _, network := range []Network{Mainnet, Testnet} {
		kp := keyPairOne(t, network)

		decoded, err := KeyPairFromWIF(kp.WIF())
		require.NoError(t, err, network)

		assert.Equal(t, network, decoded.Network())
		assert.Equal(t, kp.Private().Bytes(), decoded.Private().Bytes())
		assert.Equal(t, kp.Address(), decoded.Address())
	}
}

func TestKeyPairFromWIFRejectsGarbage(t *testing.T) {
	_, err := KeyPairFromWIF("not a wif")
	assert.Error(t, err)

	// Valid Base58Check, wrong version byte (a P2PKH address).
	_, err = KeyPairFromWIF("1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH")
	assert.Error(t, err)
}

func TestParseAddressClassification(t *testing.T) {
	kp := keyPairOne(t, Mainnet)

	addr, err := ParseAddress(kp.Address().String())
	require.NoError(t, err)
	assert.Equal(t, P2PKH, addr.Kind)
	assert.Equal(t, Mainnet, addr.Network)
	assert.Equal(t, kp.Address().Hash, addr.Hash)
}

func TestAddressStringParseRoundTrip(t *testing.T) {
	hash := Hash160([]byte("some script or key"))

	for _, tc := range []Address{
		{Hash: hash, Kind: P2PKH, Network: Mainnet},
		{Hash: hash, Kind: P2SH, Network: Mainnet},
		{Hash: hash, Kind: P2PKH, Network: Testnet},
		{Hash: hash, Kind: P2SH, Network: Testnet},
	} {
		parsed, err := ParseAddress(tc.String())
		require.NoError(t, err, "%v/%v", tc.Network, tc.Kind)
		assert.Equal(t, tc, parsed)
	}
}

func TestParseAddressRejectsGarbage(t *testing.T) {
	_, err := ParseAddress("")
	assert.Error(t, err)

	_, err = ParseAddress("0OIl")
	assert.Error(t, err)

	// Corrupt the checksum of a valid address.
	addr := keyPairOne(t, Mainnet).Address().String()
	corrupted := addr[:len(addr)-1] + "k"
	_, err = ParseAddress(corrupted)
	assert.Error(t, err)
}

func TestRandomGenerator(t *testing.T) {
	gen := NewRandom(Testnet)

	a, err := gen.Generate()
	require.NoError(t, err)
	b, err := gen.Generate()
	require.NoError(t, err)

	assert.Equal(t, Testnet, a.Network())
	assert.NotEqual(t, a.Address(), b.Address())

	// A generated key round-trips through WIF.
	decoded, err := KeyPairFromWIF(a.WIF())
	require.NoError(t, err)
	assert.Equal(t, a.Address(), decoded.Address())
}
