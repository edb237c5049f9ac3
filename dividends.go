package sharestax

import "fmt"

// MissingISIN marks dividend entries whose security information was
// absent from the export. The row is still reported, flagged for
// manual review.
const MissingISIN = "MISSING_ISIN_REQUIRES_ATTENTION"

// DividendIncome aggregates the dividend cash flow of one security over
// the reporting period: gross payments received and taxes withheld at
// source, in the payment currency. This is a parallel accounting path
// with no lot matching.
type DividendIncome struct {
	Symbol   string
	ISIN     string
	Country  string
	Currency Currency
	Gross    Money
	Taxes    Money
}

// Net returns the dividend amount after withheld taxes.
func (d DividendIncome) Net() Money { return d.Gross.Sub(d.Taxes) }

// Validate checks aggregate consistency. Entries flagged with
// [MissingISIN] skip the check: they are already marked for review.
func (d DividendIncome) Validate() error {
	if d.ISIN == MissingISIN {
		return nil
	}
	if d.Symbol == "" {
		return fmt.Errorf("dividend income entry without symbol")
	}
	if d.Gross.IsNegative() {
		return fmt.Errorf("dividend gross amount for %s is negative: %s", d.Symbol, d.Gross.Amount())
	}
	if d.Taxes.IsNegative() {
		return fmt.Errorf("dividend taxes for %s are negative: %s", d.Symbol, d.Taxes.Amount())
	}
	if d.Taxes.GreaterThan(d.Gross) {
		return fmt.Errorf("dividend taxes for %s (%s) exceed gross amount (%s)", d.Symbol, d.Taxes.Amount(), d.Gross.Amount())
	}
	return nil
}

// DividendIncomePerCompany maps a symbol to its aggregated dividend income.
type DividendIncomePerCompany map[string]*DividendIncome
