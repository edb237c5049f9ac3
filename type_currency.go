package sharestax

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
)

// currencyCodeLength is the length of an ISO 4217 alphabetic code.
const currencyCodeLength = 3

// Currency is a validated ISO 4217 currency code such as "EUR" or "USD".
type Currency string

// ParseCurrency validates and normalizes a currency code.
//
// The code must be exactly three letters and known to the go-money
// currency registry. Lowercase input is accepted and uppercased.
func ParseCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != currencyCodeLength {
		return "", fmt.Errorf("currency code must be %d letters, got %q", currencyCodeLength, code)
	}
	if money.GetCurrency(code) == nil {
		return "", fmt.Errorf("unknown currency code %q", code)
	}
	return Currency(code), nil
}

// MustCurrency is like ParseCurrency but panics on error. For tests and constants.
func MustCurrency(code string) Currency {
	c, err := ParseCurrency(code)
	if err != nil {
		panic(err.Error())
	}
	return c
}

func (c Currency) String() string { return string(c) }
