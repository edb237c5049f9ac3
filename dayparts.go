package sharestax

import (
	"fmt"
	"time"

	"github.com/vkovalev/sharestax/date"
)

// TradePartsWithinDay holds the not yet consumed fragments of one
// (currency, company, side, day) bucket, ordered for FIFO consumption.
//
// The first push binds the bucket to its execution's company, currency,
// side and trade date; every later push must match all four. Fragments
// are removed earliest timestamp first; on exact timestamp ties the
// earlier-pushed fragment wins.
type TradePartsWithinDay struct {
	company  Company
	currency Currency
	side     TradeSide
	day      date.Date
	bound    bool

	times      []time.Time
	quantities []Quantity
	trades     []*TradeExecution
}

// Push appends a fragment to the bucket.
//
// The quantity must be positive and the execution non-nil. A fragment
// that does not match the bound key fails with [ErrIncompatibleFragment]
// and leaves the bucket untouched.
func (p *TradePartsWithinDay) Push(quantity Quantity, t *TradeExecution) error {
	if !quantity.IsPositive() {
		return fmt.Errorf("fragment quantity must be positive, got %s", quantity)
	}
	if t == nil {
		return fmt.Errorf("fragment execution must not be nil")
	}
	if !p.bound {
		p.company = t.Company()
		p.currency = t.Currency()
		p.side = t.Side()
		p.day = t.Day()
		p.bound = true
	} else if t.Company() != p.company || t.Currency() != p.currency || t.Side() != p.side || t.Day() != p.day {
		return fmt.Errorf("%w: bucket holds %s %s %s on %s, got %v",
			ErrIncompatibleFragment, p.side, p.currency, p.company.Ticker, p.day, t)
	}
	p.times = append(p.times, t.Time())
	p.quantities = append(p.quantities, quantity)
	p.trades = append(p.trades, t)
	return nil
}

// PopEarliest removes and returns the fragment with the smallest
// timestamp. It fails with [ErrEmptyPartition] on an empty bucket.
func (p *TradePartsWithinDay) PopEarliest() (QuantitatedTrade, error) {
	if len(p.times) == 0 {
		return QuantitatedTrade{}, fmt.Errorf("%w: %s %s on %s", ErrEmptyPartition, p.side, p.company.Ticker, p.day)
	}
	idx := 0
	for i := 1; i < len(p.times); i++ {
		if p.times[i].Before(p.times[idx]) {
			idx = i
		}
	}
	part := QuantitatedTrade{Quantity: p.quantities[idx], Trade: p.trades[idx]}
	p.times = append(p.times[:idx], p.times[idx+1:]...)
	p.quantities = append(p.quantities[:idx], p.quantities[idx+1:]...)
	p.trades = append(p.trades[:idx], p.trades[idx+1:]...)
	return part, nil
}

// Quantity sums all held fragment quantities.
func (p *TradePartsWithinDay) Quantity() Quantity {
	var total Quantity
	for _, q := range p.quantities {
		total = total.Add(q)
	}
	return total
}

// IsNotEmpty reports whether any quantity remains to consume.
func (p *TradePartsWithinDay) IsNotEmpty() bool { return p.Quantity().IsPositive() }

// Day returns the trade date the bucket is bound to.
func (p *TradePartsWithinDay) Day() date.Date { return p.day }

// Fragments returns the held fragments in insertion order.
func (p *TradePartsWithinDay) Fragments() []QuantitatedTrade {
	parts := make([]QuantitatedTrade, len(p.quantities))
	for i := range p.quantities {
		parts[i] = QuantitatedTrade{Quantity: p.quantities[i], Trade: p.trades[i]}
	}
	return parts
}

func (p *TradePartsWithinDay) String() string {
	return fmt.Sprintf("%s %s %s on %s: %d fragments, %s total",
		p.side, p.currency, p.company.Ticker, p.day, len(p.quantities), p.Quantity())
}
