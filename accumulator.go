package sharestax

import (
	"fmt"
	"strings"

	"github.com/vkovalev/sharestax/date"
)

// GainAccumulator collects the fragments consumed during one matching
// iteration and finalizes them into an immutable [CapitalGainLine].
//
// All fragments added on one side must share a single trade date.
// Finalize returns the line and resets the accumulator to its initial
// state, so one accumulator serves a whole (currency, company) run.
type GainAccumulator struct {
	company  Company
	currency Currency

	sellDate       date.Date
	sellQuantities []Quantity
	sellTrades     []*TradeExecution

	buyDate       date.Date
	buyQuantities []Quantity
	buyTrades     []*TradeExecution
}

// NewGainAccumulator returns an empty accumulator for one pair.
func NewGainAccumulator(currency Currency, company Company) *GainAccumulator {
	return &GainAccumulator{company: company, currency: currency}
}

// Add records a consumed fragment on the execution's side.
//
// The first fragment on a side binds that side's trade date; a fragment
// with any other date fails with [ErrInconsistentDate].
func (a *GainAccumulator) Add(quantity Quantity, t *TradeExecution) error {
	day := t.Day()
	if t.Side() == Sell {
		if a.sellDate.IsZero() {
			a.sellDate = day
		} else if a.sellDate != day {
			return fmt.Errorf("%w: sell side bound to %s, got %s", ErrInconsistentDate, a.sellDate, day)
		}
		a.sellQuantities = append(a.sellQuantities, quantity)
		a.sellTrades = append(a.sellTrades, t)
		return nil
	}
	if a.buyDate.IsZero() {
		a.buyDate = day
	} else if a.buyDate != day {
		return fmt.Errorf("%w: buy side bound to %s, got %s", ErrInconsistentDate, a.buyDate, day)
	}
	a.buyQuantities = append(a.buyQuantities, quantity)
	a.buyTrades = append(a.buyTrades, t)
	return nil
}

// SoldQuantity sums the accumulated sell fragments.
func (a *GainAccumulator) SoldQuantity() Quantity { return sum(a.sellQuantities) }

// BoughtQuantity sums the accumulated buy fragments.
func (a *GainAccumulator) BoughtQuantity() Quantity { return sum(a.buyQuantities) }

func sum(qs []Quantity) Quantity {
	var total Quantity
	for _, q := range qs {
		total = total.Add(q)
	}
	return total
}

// Finalize validates the accumulated state, emits the capital gain line
// and resets the accumulator for the next iteration. The returned line
// owns its slices; nothing is shared with later accumulation cycles.
func (a *GainAccumulator) Finalize() (CapitalGainLine, error) {
	if !a.SoldQuantity().IsPositive() || !a.BoughtQuantity().IsPositive() {
		return CapitalGainLine{}, fmt.Errorf("%w: sold %s, bought %s", ErrEmptyFinalize, a.SoldQuantity(), a.BoughtQuantity())
	}
	line := CapitalGainLine{
		company:        a.company,
		currency:       a.currency,
		sellDate:       a.sellDate,
		sellQuantities: a.sellQuantities,
		sellTrades:     a.sellTrades,
		buyDate:        a.buyDate,
		buyQuantities:  a.buyQuantities,
		buyTrades:      a.buyTrades,
	}
	if err := line.validate(); err != nil {
		return CapitalGainLine{}, err
	}
	a.sellDate = date.Date{}
	a.sellQuantities = nil
	a.sellTrades = nil
	a.buyDate = date.Date{}
	a.buyQuantities = nil
	a.buyTrades = nil
	return line, nil
}

// CapitalGainLine is one fully quantity-balanced match between
// aggregated sell fragments and aggregated buy fragments: the unit the
// tax report is built from. It is immutable once finalized.
type CapitalGainLine struct {
	company  Company
	currency Currency

	sellDate       date.Date
	sellQuantities []Quantity
	sellTrades     []*TradeExecution

	buyDate       date.Date
	buyQuantities []Quantity
	buyTrades     []*TradeExecution
}

func (l CapitalGainLine) Company() Company    { return l.company }
func (l CapitalGainLine) Currency() Currency  { return l.currency }
func (l CapitalGainLine) SellDate() date.Date { return l.sellDate }
func (l CapitalGainLine) BuyDate() date.Date  { return l.buyDate }

// SellQuantity is the total quantity sold on the line.
func (l CapitalGainLine) SellQuantity() Quantity { return sum(l.sellQuantities) }

// BuyQuantity is the total quantity bought on the line.
func (l CapitalGainLine) BuyQuantity() Quantity { return sum(l.buyQuantities) }

// SellFragments returns the (quantity, execution) sell pairs in consumption order.
func (l CapitalGainLine) SellFragments() []QuantitatedTrade { return l.fragments(Sell) }

// BuyFragments returns the (quantity, execution) buy pairs in consumption order.
func (l CapitalGainLine) BuyFragments() []QuantitatedTrade { return l.fragments(Buy) }

func (l CapitalGainLine) fragments(side TradeSide) []QuantitatedTrade {
	qs, ts := l.sellQuantities, l.sellTrades
	if side == Buy {
		qs, ts = l.buyQuantities, l.buyTrades
	}
	parts := make([]QuantitatedTrade, len(qs))
	for i := range qs {
		parts[i] = QuantitatedTrade{Quantity: qs[i], Trade: ts[i]}
	}
	return parts
}

// SellProceeds is the total sale amount: Σ quantity×price per sell fragment.
func (l CapitalGainLine) SellProceeds() Money { return amount(l.currency, l.sellQuantities, l.sellTrades) }

// BuyCost is the total purchase amount: Σ quantity×price per buy fragment.
func (l CapitalGainLine) BuyCost() Money { return amount(l.currency, l.buyQuantities, l.buyTrades) }

func amount(currency Currency, qs []Quantity, ts []*TradeExecution) Money {
	total := M(0, string(currency))
	for i := range qs {
		total = total.Add(ts[i].Price().Mul(qs[i]))
	}
	return total
}

// Expense is the fee attributable to the line: each execution's fee
// prorated by the fraction of its total quantity consumed here, summed
// over both sides.
func (l CapitalGainLine) Expense() Money {
	total := M(0, string(l.currency))
	for i := range l.sellQuantities {
		t := l.sellTrades[i]
		total = total.Add(t.Fee().Mul(l.sellQuantities[i]).Div(t.Quantity()))
	}
	for i := range l.buyQuantities {
		t := l.buyTrades[i]
		total = total.Add(t.Fee().Mul(l.buyQuantities[i]).Div(t.Quantity()))
	}
	return total
}

// SellAmountFormula renders the sale amount as a spreadsheet expression,
// e.g. "0+10*7.875", keeping the per-fragment components visible in the
// report.
func (l CapitalGainLine) SellAmountFormula() string {
	var b strings.Builder
	b.WriteString("0")
	for i := range l.sellQuantities {
		fmt.Fprintf(&b, "+%s*%s", l.sellQuantities[i], l.sellTrades[i].Price().Amount())
	}
	return b.String()
}

// BuyAmountFormula renders the purchase amount as a spreadsheet expression.
func (l CapitalGainLine) BuyAmountFormula() string {
	var b strings.Builder
	b.WriteString("0")
	for i := range l.buyQuantities {
		fmt.Fprintf(&b, "+%s*%s", l.buyQuantities[i], l.buyTrades[i].Price().Amount())
	}
	return b.String()
}

// ExpenseFormula renders the prorated fee as a spreadsheet expression,
// e.g. "0+10*0.353848875/10+10*0.36225725/15".
func (l CapitalGainLine) ExpenseFormula() string {
	var b strings.Builder
	b.WriteString("0")
	for i := range l.sellQuantities {
		t := l.sellTrades[i]
		fmt.Fprintf(&b, "+%s*%s/%s", l.sellQuantities[i], t.Fee().Amount(), t.Quantity())
	}
	for i := range l.buyQuantities {
		t := l.buyTrades[i]
		fmt.Fprintf(&b, "+%s*%s/%s", l.buyQuantities[i], t.Fee().Amount(), t.Quantity())
	}
	return b.String()
}

func (l CapitalGainLine) validate() error {
	if !l.SellQuantity().Equal(l.BuyQuantity()) {
		return fmt.Errorf("%w: sold %s != bought %s", ErrUnbalancedLine, l.SellQuantity(), l.BuyQuantity())
	}
	if len(l.sellQuantities) != len(l.sellTrades) {
		return fmt.Errorf("%w: %d sell quantities for %d sell trades", ErrUnbalancedLine, len(l.sellQuantities), len(l.sellTrades))
	}
	if len(l.buyQuantities) != len(l.buyTrades) {
		return fmt.Errorf("%w: %d buy quantities for %d buy trades", ErrUnbalancedLine, len(l.buyQuantities), len(l.buyTrades))
	}
	return nil
}
