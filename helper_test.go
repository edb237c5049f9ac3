package sharestax

import (
	"time"
)

// Shared fixtures for the package tests.

var (
	acme = Company{Ticker: "ACME", ISIN: "US0000000018", Country: "United States"}
	zen  = Company{Ticker: "ZEN", ISIN: "DE0000000007", Country: "Germany"}
)

// usd is a helper for tests to create dollar money from const.
func usd(v float64) Money { return M(v, "USD") }

// at parses an execution timestamp in the broker export layout.
func at(s string) time.Time {
	t, err := time.ParseInLocation(TimestampFormat, s, time.UTC)
	if err != nil {
		panic(err.Error())
	}
	return t
}

// buy creates a buy execution for acme in USD.
func buy(when string, quantity, price, fee float64) *TradeExecution {
	return NewTradeExecution(acme, at(when), "USD", Q(quantity), usd(price), usd(fee))
}

// sell creates a sell execution for acme in USD.
func sell(when string, quantity, price, fee float64) *TradeExecution {
	return NewTradeExecution(acme, at(when), "USD", Q(-quantity), usd(price), usd(fee))
}

// cycleOf builds a trade cycle from whole executions in arrival order.
func cycleOf(execs ...*TradeExecution) *TradeCycle {
	cycle := &TradeCycle{}
	for _, e := range execs {
		cycle.Append(e)
	}
	return cycle
}
