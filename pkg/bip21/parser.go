// Package bip21 implements the BIP 21 payment URI format.
//
// BIP 21 defines a URI scheme for requesting Bitcoin-family payments,
// suitable for QR codes and links:
//
//	bitcoin:<address>?amount=<btc>&label=<label>&message=<message>
//
// The amount parameter is written in whole-coin decimal units; this package
// converts it to satoshis with exact decimal arithmetic (no floating point
// on the money path).
//
// See: https://github.com/bitcoin/bips/blob/master/bip-0021.mediawiki
package bip21

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/suffix-labs/btc-rawtx/pkg/wallet"
)

// satoshisPerCoin is the number of satoshis in one whole coin.
const satoshisPerCoin = 100_000_000

// coinDecimals is the number of decimal places in a whole-coin amount.
const coinDecimals = 8

// PaymentRequest is a parsed BIP 21 payment URI.
type PaymentRequest struct {
	Address string  // destination address, Base58Check
	Amount  *uint64 // amount in satoshis, nil when the payer chooses
	Label   *string // optional recipient label
	Message *string // optional message to display to the payer
}

// Parse parses a BIP 21 payment URI.
//
// The "bitcoin:" scheme prefix is optional. Unknown query parameters are
// ignored, but required-unrecognized parameters ("req-" prefix) fail the
// parse per BIP 21.
func Parse(uri string) (*PaymentRequest, error) {
	uri = strings.TrimPrefix(uri, "bitcoin:")

	address, query, _ := strings.Cut(uri, "?")
	if address == "" {
		return nil, fmt.Errorf("payment URI has no address")
	}

	params, err := url.ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query: %w", err)
	}

	req := &PaymentRequest{Address: address}

	for key := range params {
		if strings.HasPrefix(key, "req-") {
			return nil, fmt.Errorf("unrecognized required parameter %q", key)
		}
	}

	if amountStr := params.Get("amount"); amountStr != "" {
		amount, err := parseAmount(amountStr)
		if err != nil {
			return nil, fmt.Errorf("invalid amount: %w", err)
		}
		req.Amount = &amount
	}

	if label := params.Get("label"); label != "" {
		req.Label = &label
	}

	if message := params.Get("message"); message != "" {
		req.Message = &message
	}

	return req, nil
}

// OutputRequest converts the payment request into a builder output request.
// A request without an amount cannot become an output.
func (pr *PaymentRequest) OutputRequest() (wallet.TxOutputReq, error) {
	if pr.Amount == nil {
		return wallet.TxOutputReq{}, fmt.Errorf("payment request for %s has no amount", pr.Address)
	}
	return wallet.TxOutputReq{
		Address: pr.Address,
		Value:   *pr.Amount,
	}, nil
}

// parseAmount converts a whole-coin decimal string to satoshis.
//
// At most 8 fractional digits are allowed; the integer and fractional parts
// are combined with integer arithmetic only.
func parseAmount(s string) (uint64, error) {
	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if len(fracPart) > coinDecimals {
		return 0, fmt.Errorf("amount %q has more than %d decimal places", s, coinDecimals)
	}

	var amount uint64
	for _, r := range intPart {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		digit := uint64(r - '0')
		if amount > (1<<64-1-digit)/10 {
			return 0, fmt.Errorf("amount %q overflows", s)
		}
		amount = amount*10 + digit
	}
	if amount > (1<<64-1)/satoshisPerCoin {
		return 0, fmt.Errorf("amount %q overflows", s)
	}
	amount *= satoshisPerCoin

	var frac uint64
	for _, r := range fracPart {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		frac = frac*10 + uint64(r-'0')
	}
	for i := len(fracPart); i < coinDecimals; i++ {
		frac *= 10
	}

	if amount > 1<<64-1-frac {
		return 0, fmt.Errorf("amount %q overflows", s)
	}
	return amount + frac, nil
}
