package sharestax

import (
	"fmt"
	"time"

	"github.com/vkovalev/sharestax/date"
)

// TimestampFormat is the execution timestamp layout used in broker exports.
const TimestampFormat = "2006-01-02, 15:04:05"

// TradeSide is the direction of an execution, derived from the sign of
// the raw quantity reported by the broker.
type TradeSide int

const (
	Buy TradeSide = iota
	Sell
)

func (s TradeSide) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// TradeExecution is a single recorded buy or sell of a security.
//
// The side is derived once at construction from the sign of the raw
// quantity; quantity and fee are stored as non-negative magnitudes.
// Executions are immutable after construction and shared by pointer
// across the fragments that consume them.
type TradeExecution struct {
	company  Company
	when     time.Time
	currency Currency
	quantity Quantity
	price    Money
	fee      Money
	side     TradeSide
}

// NewTradeExecution builds an execution from a raw (signed) quantity.
func NewTradeExecution(company Company, when time.Time, currency Currency, rawQuantity Quantity, price, fee Money) *TradeExecution {
	side := Buy
	if rawQuantity.IsNegative() {
		side = Sell
	}
	return &TradeExecution{
		company:  company,
		when:     when,
		currency: currency,
		quantity: rawQuantity.Abs(),
		price:    price,
		fee:      fee.Abs(),
		side:     side,
	}
}

func (t *TradeExecution) Company() Company   { return t.company }
func (t *TradeExecution) Time() time.Time    { return t.when }
func (t *TradeExecution) Day() date.Date     { return date.Of(t.when) }
func (t *TradeExecution) Currency() Currency { return t.currency }
func (t *TradeExecution) Quantity() Quantity { return t.quantity }
func (t *TradeExecution) Price() Money       { return t.price }
func (t *TradeExecution) Fee() Money         { return t.fee }
func (t *TradeExecution) Side() TradeSide    { return t.side }

func (t *TradeExecution) String() string {
	return fmt.Sprintf("%s %s %s@%s on %s", t.side, t.quantity, t.company.Ticker, t.price.Amount(), t.when.Format(TimestampFormat))
}

// QuantitatedTrade is a fragment: some or all of an execution's quantity.
// A single execution may be split across several fragments as the
// matching engine consumes it.
type QuantitatedTrade struct {
	Quantity Quantity
	Trade    *TradeExecution
}

// TradeCycle is the full set of buy and sell fragments for one
// (currency, company) pair awaiting matching, in arrival order.
// The matching engine consumes it destructively; after matching it
// holds only leftover fragments.
type TradeCycle struct {
	bought []QuantitatedTrade
	sold   []QuantitatedTrade
}

// Append adds a fresh whole-execution fragment on the execution's side.
func (c *TradeCycle) Append(t *TradeExecution) {
	part := QuantitatedTrade{Quantity: t.Quantity(), Trade: t}
	if t.Side() == Sell {
		c.sold = append(c.sold, part)
	} else {
		c.bought = append(c.bought, part)
	}
}

// Side returns the fragments of one side, in arrival order.
func (c *TradeCycle) Side(side TradeSide) []QuantitatedTrade {
	if side == Sell {
		return c.sold
	}
	return c.bought
}

// setSide replaces one side's fragments wholesale (used for leftovers).
func (c *TradeCycle) setSide(side TradeSide, parts []QuantitatedTrade) {
	if side == Sell {
		c.sold = parts
	} else {
		c.bought = parts
	}
}

func (c *TradeCycle) HasBought() bool { return len(c.bought) > 0 }
func (c *TradeCycle) HasSold() bool   { return len(c.sold) > 0 }
func (c *TradeCycle) IsEmpty() bool   { return !c.HasBought() && !c.HasSold() }

// Quantity sums the fragment quantities on one side.
func (c *TradeCycle) Quantity(side TradeSide) Quantity {
	var total Quantity
	for _, part := range c.Side(side) {
		total = total.Add(part.Quantity)
	}
	return total
}

// Validate checks that the cycle's executions actually belong to the
// (currency, company) pair it is filed under.
func (c *TradeCycle) Validate(currency Currency, company Company) error {
	for _, side := range []TradeSide{Sell, Buy} {
		for _, part := range c.Side(side) {
			if part.Trade.Currency() != currency || part.Trade.Company() != company {
				return fmt.Errorf("trade cycle for %s/%s holds foreign execution %v", currency, company, part.Trade)
			}
		}
	}
	return nil
}

// TradeCyclePerCompany maps each (currency, company) pair to its cycle.
type TradeCyclePerCompany map[CurrencyCompany]*TradeCycle

// CapitalGainLinesPerCompany maps each (currency, company) pair to its
// computed gain lines.
type CapitalGainLinesPerCompany map[CurrencyCompany][]CapitalGainLine
