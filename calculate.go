package sharestax

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// placeholderYear dates synthetic buys created for sells with no buy
// history. It is before any plausible execution, so FIFO consumes the
// placeholder first, and it is recognizable in the report.
const placeholderYear = 1900

// Calculate runs the FIFO matching engine over every (currency, company)
// pair and returns the gain lines and the leftover cycles.
//
// One-sided cycles never reach the engine: buy-only cycles are routed
// straight to leftover, and sell-only cycles get a synthetic zero-price
// placeholder buy so the full proceeds are taxed (the conservative
// reading when the purchase history is missing from the export).
//
// Pairs are processed in deterministic (currency, ticker) order. A
// failing pair does not stop the others; all pair errors are joined
// into the returned error.
func Calculate(cycles TradeCyclePerCompany, log zerolog.Logger) (CapitalGainLinesPerCompany, TradeCyclePerCompany, error) {
	gains := make(CapitalGainLinesPerCompany)
	leftovers := make(TradeCyclePerCompany)

	var errs []error
	for _, key := range sortedKeys(cycles) {
		cycle := cycles[key]
		pairLog := log.With().Str("currency", string(key.Currency)).Str("ticker", key.Company.Ticker).Logger()

		if err := cycle.Validate(key.Currency, key.Company); err != nil {
			errs = append(errs, err)
			pairLog.Error().Err(err).Msg("skipping inconsistent trade cycle")
			continue
		}

		if cycle.HasSold() && !cycle.HasBought() {
			placeholderBuy(cycle, key.Currency, key.Company)
			pairLog.Warn().Msg("created placeholder buy for sells without buy history")
		}
		if !cycle.HasSold() {
			leftovers[key] = cycle
			pairLog.Debug().Msg("no sells, routed whole cycle to leftover")
			continue
		}

		lines, err := CompanyGains(cycle, key.Currency, key.Company)
		if err != nil {
			errs = append(errs, fmt.Errorf("matching %s/%s: %w", key.Currency, key.Company.Ticker, err))
			pairLog.Error().Err(err).Msg("matching failed")
			continue
		}
		if !cycle.IsEmpty() {
			leftovers[key] = cycle
		}
		gains[key] = lines
		pairLog.Debug().Int("lines", len(lines)).Msg("matched")
	}

	return gains, leftovers, errors.Join(errs...)
}

// placeholderBuy appends a synthetic buy covering the total quantity
// sold, dated at the placeholder year with price and fee zero.
func placeholderBuy(cycle *TradeCycle, currency Currency, company Company) {
	total := cycle.Quantity(Sell)
	when := time.Date(placeholderYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	buy := NewTradeExecution(company, when, currency, total, M(0, string(currency)), M(0, string(currency)))
	cycle.Append(buy)
}

// IsPlaceholder reports whether an execution is a synthetic
// placeholder buy rather than real broker data.
func IsPlaceholder(t *TradeExecution) bool {
	return t.Side() == Buy && t.Time().Year() == placeholderYear
}

// IsPlaceholderBuy reports whether the line's purchase side is a
// synthetic placeholder. Report renderers flag such lines for manual
// cost-basis review.
func (l CapitalGainLine) IsPlaceholderBuy() bool {
	return l.buyDate.Year() == placeholderYear
}

func sortedKeys(cycles TradeCyclePerCompany) []CurrencyCompany {
	keys := make([]CurrencyCompany, 0, len(cycles))
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
