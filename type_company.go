package sharestax

import "fmt"

// UnknownCountry is the country of issuance used when a security's ISIN
// is not present in the export.
const UnknownCountry = "Unknown"

// Company identifies a traded security: its broker ticker, and, when the
// export carries instrument information, its ISIN and country of issuance.
//
// Equality is structural. Ticker case is preserved: brokers use mixed-case
// abridgements (e.g. "TKAd") that must not be folded together.
type Company struct {
	Ticker  string
	ISIN    string
	Country string
}

// NewCompany builds a Company from a ticker and optional ISIN.
// The country of issuance is resolved from the ISIN prefix; a company
// without an ISIN gets [UnknownCountry].
func NewCompany(ticker, isin string) (Company, error) {
	if ticker == "" {
		return Company{}, fmt.Errorf("company ticker must not be empty")
	}
	country := UnknownCountry
	if isin != "" {
		country = ISINCountry(isin)
	}
	return Company{Ticker: ticker, ISIN: isin, Country: country}, nil
}

func (c Company) String() string { return c.Ticker }

// CurrencyCompany is the composite key all executions are bucketed by:
// one production line of the report per (currency, company) pair.
type CurrencyCompany struct {
	Currency Currency
	Company  Company
}
