package main

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// gasDecimals is the precision of native GAS amounts.
const gasDecimals = 8

var errNonPositiveAmount = errors.New("amount must be positive")

// parseAmount converts decimal string like "1.5" into integer amount of the
// smallest units of asset with given precision.
func parseAmount(s string, decimals int) (*big.Int, error) {
	v, err := fixedn.FromString(s, decimals)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	if v.Sign() <= 0 {
		return nil, errNonPositiveAmount
	}

	return v, nil
}

func formatAmount(v *big.Int, decimals int) string {
	return fixedn.ToString(v, decimals)
}

// parseHash160 accepts either Neo address or LE hex string with optional 0x
// prefix.
func parseHash160(s string) (util.Uint160, error) {
	if s == "" {
		return util.Uint160{}, errors.New("empty address")
	}

	if h, err := address.StringToUint160(s); err == nil {
		return h, nil
	}

	h, err := util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid address %q: neither Neo address nor LE hex", s)
	}

	return h, nil
}
