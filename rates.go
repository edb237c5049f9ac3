package sharestax

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// ConversionRate is one configured exchange-rate pair. The rate
// converts one unit of Base into Quote units. The engine never
// converts amounts itself; the rates are only embedded in the report
// so its formulas can.
type ConversionRate struct {
	Base  Currency
	Quote Currency
	Rate  decimal.Decimal
}

// RatesTable is the currency-conversion configuration: the reporting
// target currency and the rate of every foreign currency seen in the
// data.
type RatesTable struct {
	Target Currency
	Rates  []ConversionRate
}

// Rate returns the configured rate for a quote currency. The target
// currency itself converts at 1.
func (t RatesTable) Rate(quote Currency) (decimal.Decimal, bool) {
	if quote == t.Target {
		return decimal.NewFromInt(1), true
	}
	for _, r := range t.Rates {
		if r.Quote == quote {
			return r.Rate, true
		}
	}
	return decimal.Decimal{}, false
}

// LoadRates reads the rates configuration.
//
// The format is a flat INI file with two sections:
//
//	[COMMON]
//	TARGET CURRENCY = EUR
//
//	[EXCHANGE RATES]
//	EUR/USD = 1.0545
//	EUR/GBP = 0.8591
//
// Every rate pair's base must equal the target currency.
func LoadRates(r io.Reader) (RatesTable, error) {
	var table RatesTable
	section := ""

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return RatesTable{}, fmt.Errorf("invalid rates config line %q", line)
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)

		switch section {
		case "COMMON":
			if key != "TARGET CURRENCY" {
				continue
			}
			target, err := ParseCurrency(value)
			if err != nil {
				return RatesTable{}, fmt.Errorf("invalid target currency: %w", err)
			}
			table.Target = target
		case "EXCHANGE RATES":
			baseCode, quoteCode, found := strings.Cut(key, "/")
			if !found {
				return RatesTable{}, fmt.Errorf("invalid rate pair %q, want BASE/QUOTE", key)
			}
			base, err := ParseCurrency(baseCode)
			if err != nil {
				return RatesTable{}, fmt.Errorf("rate pair %q: %w", key, err)
			}
			quote, err := ParseCurrency(quoteCode)
			if err != nil {
				return RatesTable{}, fmt.Errorf("rate pair %q: %w", key, err)
			}
			rate, err := decimal.NewFromString(value)
			if err != nil {
				return RatesTable{}, fmt.Errorf("rate pair %q: invalid rate %q: %w", key, value, err)
			}
			table.Rates = append(table.Rates, ConversionRate{Base: base, Quote: quote, Rate: rate})
		}
	}
	if err := scanner.Err(); err != nil {
		return RatesTable{}, fmt.Errorf("cannot read rates config: %w", err)
	}

	if table.Target == "" {
		return RatesTable{}, fmt.Errorf("rates config has no TARGET CURRENCY")
	}
	for _, r := range table.Rates {
		if r.Base != table.Target {
			return RatesTable{}, fmt.Errorf("rate pair %s/%s: base differs from target currency %s", r.Base, r.Quote, table.Target)
		}
	}
	return table, nil
}
