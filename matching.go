package sharestax

import (
	"fmt"

	"github.com/vkovalev/sharestax/date"
)

// DayPartitionedTrades maps a trade date to the bucket of fragments
// executed on that day, for one (currency, company, side).
type DayPartitionedTrades map[date.Date]*TradePartsWithinDay

// SplitByDay partitions same-side fragments into per-day buckets.
// An empty input yields an empty map.
func SplitByDay(parts []QuantitatedTrade, side TradeSide) (DayPartitionedTrades, error) {
	buckets := make(DayPartitionedTrades)
	for _, part := range parts {
		if part.Trade.Side() != side {
			return nil, fmt.Errorf("%w: expected %s, got %v", ErrIncompatibleFragment, side, part.Trade)
		}
		day := part.Trade.Day()
		bucket, ok := buckets[day]
		if !ok {
			bucket = &TradePartsWithinDay{}
			buckets[day] = bucket
		}
		if err := bucket.Push(part.Quantity, part.Trade); err != nil {
			return nil, err
		}
	}
	return buckets, nil
}

// earliestDay returns the chronologically smallest date key.
func (d DayPartitionedTrades) earliestDay() date.Date {
	var min date.Date
	first := true
	for day := range d {
		if first || day.Before(min) {
			min = day
			first = false
		}
	}
	return min
}

// allocate drains exactly needed quantity from the bucket into the
// accumulator, earliest fragment first. A fragment larger than the
// remaining need is split: the consumed portion goes to the
// accumulator, the remainder is pushed back for a later line.
func allocate(needed Quantity, bucket *TradePartsWithinDay, acc *GainAccumulator) error {
	for needed.IsPositive() {
		part, err := bucket.PopEarliest()
		if err != nil {
			return err
		}
		needed = needed.Sub(part.Quantity)
		if !needed.IsNegative() {
			if err := acc.Add(part.Quantity, part.Trade); err != nil {
				return err
			}
			continue
		}
		// Partial consumption: keep the unconsumed remainder in the bucket.
		if err := acc.Add(part.Quantity.Add(needed), part.Trade); err != nil {
			return err
		}
		if err := bucket.Push(needed.Neg(), part.Trade); err != nil {
			return err
		}
		needed = Q(0)
	}
	return nil
}

// CompanyGains runs the FIFO matching engine for one (currency, company)
// pair, consuming the cycle.
//
// Both sides are partitioned by trade date, then the earliest-available
// sell bucket is matched against the earliest-available buy bucket (the
// two dates need not align) until one side runs out. Each iteration
// produces one gain line. Whatever remains unmatched is written back
// onto the cycle as leftover fragments.
func CompanyGains(cycle *TradeCycle, currency Currency, company Company) ([]CapitalGainLine, error) {
	if !cycle.HasSold() {
		return nil, fmt.Errorf("%w: buys without sells for %s/%s", ErrOneSidedCycle, currency, company.Ticker)
	}
	if !cycle.HasBought() {
		return nil, fmt.Errorf("%w: sells without buys for %s/%s", ErrOneSidedCycle, currency, company.Ticker)
	}

	sellDays, err := SplitByDay(cycle.Side(Sell), Sell)
	if err != nil {
		return nil, err
	}
	buyDays, err := SplitByDay(cycle.Side(Buy), Buy)
	if err != nil {
		return nil, err
	}

	acc := NewGainAccumulator(currency, company)
	var lines []CapitalGainLine

	for len(sellDays) > 0 && len(buyDays) > 0 {
		saleDate := sellDays.earliestDay()
		buyDate := buyDays.earliestDay()
		saleParts := sellDays[saleDate]
		buyParts := buyDays[buyDate]

		target := Min(saleParts.Quantity(), buyParts.Quantity())
		if err := allocate(target, saleParts, acc); err != nil {
			return nil, err
		}
		if err := allocate(target, buyParts, acc); err != nil {
			return nil, err
		}
		if !saleParts.IsNotEmpty() {
			delete(sellDays, saleDate)
		}
		if !buyParts.IsNotEmpty() {
			delete(buyDays, buyDate)
		}

		line, err := acc.Finalize()
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	cycle.setSide(Sell, leftover(sellDays))
	cycle.setSide(Buy, leftover(buyDays))
	return lines, nil
}

// leftover collects the unmatched fragments of the surviving buckets,
// in date order then timestamp order, for carry-forward.
func leftover(days DayPartitionedTrades) []QuantitatedTrade {
	var parts []QuantitatedTrade
	for len(days) > 0 {
		day := days.earliestDay()
		bucket := days[day]
		for bucket.IsNotEmpty() {
			part, err := bucket.PopEarliest()
			if err != nil {
				break
			}
			parts = append(parts, part)
		}
		delete(days, day)
	}
	return parts
}
