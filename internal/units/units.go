// Package units converts token amounts between decimal strings and the
// fixed-point big integers contracts expect. The decimal count comes from
// the token contract except for native value, which is always 18.
package units

import (
	"fmt"
	"math/big"
	"strings"
)

// EtherDecimals is the fixed-point precision of native chain value.
const EtherDecimals = 18

// Parse converts a decimal string such as "1.5" into a fixed-point integer
// at the given precision. Fractional digits beyond the precision are
// rejected rather than silently truncated.
func Parse(amount string, decimals uint8) (*big.Int, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	// Only digits may remain; a second sign would survive SetString and
	// invert the explicit negation below.
	if !isDigits(whole) || !isDigits(frac) {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", amount, decimals)
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))

	v, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	if neg {
		v.Neg(v)
	}
	return v, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParsePositive is Parse with the additional constraint that the result be
// strictly greater than zero.
func ParsePositive(amount string, decimals uint8) (*big.Int, error) {
	v, err := Parse(amount, decimals)
	if err != nil {
		return nil, err
	}
	if v.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be greater than 0")
	}
	return v, nil
}

// Format renders a fixed-point integer as a decimal string at the given
// precision, trimming trailing fractional zeros ("1.50" -> "1.5",
// "1.00" -> "1.0").
func Format(v *big.Int, decimals uint8) string {
	if v == nil {
		v = new(big.Int)
	}

	s := new(big.Int).Abs(v).String()
	if len(s) <= int(decimals) {
		s = strings.Repeat("0", int(decimals)-len(s)+1) + s
	}
	split := len(s) - int(decimals)
	whole, frac := s[:split], s[split:]

	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		frac = "0"
	}

	out := whole
	if decimals > 0 {
		out = whole + "." + frac
	}
	if v.Sign() < 0 {
		out = "-" + out
	}
	return out
}

// ParseEther parses a native-value amount at 18 decimals.
func ParseEther(amount string) (*big.Int, error) {
	return Parse(amount, EtherDecimals)
}

// FormatEther formats wei as an ether decimal string.
func FormatEther(wei *big.Int) string {
	return Format(wei, EtherDecimals)
}
