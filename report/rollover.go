package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/vkovalev/sharestax"
)

// rolloverHeader mirrors the Trades section of a broker export, so the
// rollover file can be re-ingested as input for the next period.
var rolloverHeader = []string{
	"Trades",
	"Header",
	"DataDiscriminator",
	"Asset Category",
	"Currency",
	"Symbol",
	"Date/Time",
	"Quantity",
	"T. Price",
	"C. Price",
	"Proceeds",
	"Comm/Fee",
}

// WriteRollover writes the unmatched leftover fragments as a Trades
// section CSV. Sell fragments are written with negative quantity so
// re-ingestion derives the same direction.
func WriteRollover(w io.Writer, leftovers sharestax.TradeCyclePerCompany) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rolloverHeader); err != nil {
		return fmt.Errorf("cannot write rollover header: %w", err)
	}

	for _, key := range sortedCycleKeys(leftovers) {
		cycle := leftovers[key]
		for _, side := range []sharestax.TradeSide{sharestax.Buy, sharestax.Sell} {
			for _, part := range cycle.Side(side) {
				quantity := part.Quantity
				if side == sharestax.Sell {
					quantity = quantity.Neg()
				}
				record := []string{
					"Trades",
					"Data",
					"Order",
					"Stocks",
					string(key.Currency),
					key.Company.Ticker,
					part.Trade.Time().Format(sharestax.TimestampFormat),
					quantity.String(),
					part.Trade.Price().Amount().String(),
					"",
					part.Trade.Price().Mul(part.Quantity).Amount().String(),
					part.Trade.Fee().Amount().String(),
				}
				if err := cw.Write(record); err != nil {
					return fmt.Errorf("cannot write rollover row for %s: %w", key.Company.Ticker, err)
				}
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func sortedCycleKeys(cycles sharestax.TradeCyclePerCompany) []sharestax.CurrencyCompany {
	keys := make([]sharestax.CurrencyCompany, 0, len(cycles))
	for key := range cycles {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Currency != keys[j].Currency {
			return keys[i].Currency < keys[j].Currency
		}
		return keys[i].Company.Ticker < keys[j].Company.Ticker
	})
	return keys
}
