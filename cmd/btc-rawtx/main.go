// btc-rawtx CLI - raw transaction builder and signer
//
// This CLI exercises the btc-rawtx library: it generates keys, assembles
// unsigned transactions from UTXO references, signs them, and decodes raw
// transaction hex.
//
// Example usage:
//
//	# Generate a key pair
//	btc-rawtx keygen --testnet
//
//	# Parse a BIP 21 payment request
//	btc-rawtx parse-uri "bitcoin:1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH?amount=0.5"
//
//	# Build an unsigned transaction
//	btc-rawtx build --input txid:index:address:credit --output address:amount
//
//	# Build and sign in one step
//	btc-rawtx send --input txid:index:address:credit --output address:amount --key wif
//
//	# Decode raw transaction hex
//	btc-rawtx decode 0200000001...
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/suffix-labs/btc-rawtx/pkg/bip21"
	"github.com/suffix-labs/btc-rawtx/pkg/chain"
	"github.com/suffix-labs/btc-rawtx/pkg/keys"
	"github.com/suffix-labs/btc-rawtx/pkg/wallet"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "keygen":
		cmdKeygen(os.Args[2:])
	case "parse-uri":
		cmdParseURI()
	case "build":
		cmdBuild(os.Args[2:])
	case "send":
		cmdSend(os.Args[2:])
	case "decode":
		cmdDecode()
	case "version":
		cmdVersion()
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`btc-rawtx - raw transaction builder and signer

Usage:
  btc-rawtx <command> [options]

Commands:
  keygen [--testnet]           Generate a key pair (WIF + P2PKH address)
  parse-uri <uri>              Parse a BIP 21 payment request URI
  build                        Build an unsigned raw transaction
  send                         Build and sign a raw transaction
  decode <hex>                 Decode raw transaction hex
  version                      Show version information
  help                         Show this help message

Examples:
  # Generate a testnet key
  btc-rawtx keygen --testnet

  # Build an unsigned transaction (amounts in satoshis)
  btc-rawtx build \
    --input <txid>:<index>:<address>:<credit> \
    --output <address>:<amount> \
    --locktime 0

  # Build and sign; one --key per --input, in the same order
  btc-rawtx send \
    --input <txid>:<index>:<address>:<credit> \
    --output <address>:<amount> \
    --key <wif>`)
}

func cmdVersion() {
	fmt.Println("btc-rawtx v0.1.0")
	fmt.Println("Raw transaction builder and signer for Bitcoin-family networks")
}

func cmdKeygen(args []string) {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	testnet := fs.Bool("testnet", false, "generate a testnet key")
	fs.Parse(args)

	network := keys.Mainnet
	if *testnet {
		network = keys.Testnet
	}

	kp, err := keys.NewRandom(network).Generate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Key generation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Network: %s\n", network)
	fmt.Printf("WIF:     %s\n", kp.WIF())
	fmt.Printf("Address: %s\n", kp.Address())
}

func cmdParseURI() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Error: URI argument required")
		fmt.Fprintln(os.Stderr, "Usage: btc-rawtx parse-uri <uri>")
		os.Exit(1)
	}

	req, err := bip21.Parse(os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse URI: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Payment Request:")
	fmt.Printf("  Address: %s\n", req.Address)
	if req.Amount != nil {
		fmt.Printf("  Amount:  %d satoshis\n", *req.Amount)
	} else {
		fmt.Println("  Amount:  (payer specified)")
	}
	if req.Label != nil {
		fmt.Printf("  Label:   %s\n", *req.Label)
	}
	if req.Message != nil {
		fmt.Printf("  Message: %s\n", *req.Message)
	}
}

// stringList collects repeated flag values.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func cmdBuild(args []string) {
	var inputs, outputs stringList
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	fs.Var(&inputs, "input", "input as txid:index:address:credit (repeatable)")
	fs.Var(&outputs, "output", "output as address:amount (repeatable)")
	lockTime := fs.Uint("locktime", 0, "transaction lock time")
	fs.Parse(args)

	tx, err := buildTx(inputs, outputs, uint32(*lockTime))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Unsigned transaction (%d bytes):\n", len(tx.Serialize()))
	fmt.Println(hex.EncodeToString(tx.Serialize()))
}

func cmdSend(args []string) {
	var inputs, outputs, wifs stringList
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	fs.Var(&inputs, "input", "input as txid:index:address:credit (repeatable)")
	fs.Var(&outputs, "output", "output as address:amount (repeatable)")
	fs.Var(&wifs, "key", "WIF private key for the matching input (repeatable)")
	lockTime := fs.Uint("locktime", 0, "transaction lock time")
	fs.Parse(args)

	tx, err := buildTx(inputs, outputs, uint32(*lockTime))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
		os.Exit(1)
	}

	accounts := make([]wallet.Account, 0, len(wifs))
	for _, wif := range wifs {
		kp, err := keys.KeyPairFromWIF(wif)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Bad key: %v\n", err)
			os.Exit(1)
		}
		accounts = append(accounts, wallet.Account{
			KeyPair: kp,
			Address: kp.Address(),
		})
	}

	raw, err := wallet.SignRawTx(tx, accounts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sign failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Signed transaction %s (%d bytes):\n", tx.Hash(), len(raw))
	fmt.Println(hex.EncodeToString(raw))
}

func cmdDecode() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Error: hex argument required")
		fmt.Fprintln(os.Stderr, "Usage: btc-rawtx decode <hex>")
		os.Exit(1)
	}

	raw, err := hex.DecodeString(os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid hex: %v\n", err)
		os.Exit(1)
	}

	tx, err := chain.DeserializeTransaction(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode transaction: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Transaction %s\n", tx.Hash())
	fmt.Printf("  Version:   %d\n", tx.Version)
	fmt.Printf("  Lock time: %d\n", tx.LockTime)

	fmt.Printf("  Inputs (%d):\n", len(tx.Inputs))
	for i, in := range tx.Inputs {
		fmt.Printf("    %d: %s:%d sequence=0x%08x scriptSig=%x\n",
			i, in.PreviousOutput.Hash, in.PreviousOutput.Index, in.Sequence, in.ScriptSig)
	}

	fmt.Printf("  Outputs (%d):\n", len(tx.Outputs))
	for i, out := range tx.Outputs {
		fmt.Printf("    %d: %d satoshis scriptPubKey=%x\n", i, out.Value, out.ScriptPubKey)
	}
}

// buildTx parses the CLI input/output specs and runs the builder.
func buildTx(inputSpecs, outputSpecs []string, lockTime uint32) (*chain.Transaction, error) {
	vins := make([]wallet.TxInputReq, 0, len(inputSpecs))
	for _, spec := range inputSpecs {
		parts := strings.Split(spec, ":")
		if len(parts) != 4 {
			return nil, fmt.Errorf("input must be txid:index:address:credit, got %q", spec)
		}
		index, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad input index in %q: %w", spec, err)
		}
		credit, err := strconv.ParseUint(parts[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad input credit in %q: %w", spec, err)
		}
		vins = append(vins, wallet.TxInputReq{
			Txid:    parts[0],
			Index:   uint32(index),
			Address: parts[2],
			Credit:  credit,
		})
	}

	vouts := make([]wallet.TxOutputReq, 0, len(outputSpecs))
	for _, spec := range outputSpecs {
		parts := strings.Split(spec, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("output must be address:amount, got %q", spec)
		}
		amount, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad output amount in %q: %w", spec, err)
		}
		vouts = append(vouts, wallet.TxOutputReq{Address: parts[0], Value: amount})
	}

	resolved, err := wallet.PrepareRawTx(vins, vouts)
	if err != nil {
		return nil, err
	}

	return wallet.CreateRawTx(vins, resolved, lockTime)
}
