// Package sharestax computes realized capital gains from brokerage
// trade executions for tax reporting.
//
// The core is a FIFO matching engine: for each (currency, company)
// pair, buy and sell executions are partitioned into per-day buckets,
// and the chronologically earliest sell bucket is drained against the
// chronologically earliest buy bucket until one side is exhausted.
// Each iteration yields one quantity-balanced [CapitalGainLine];
// whatever cannot be matched is carried forward as leftover for the
// next reporting period.
//
// Around the engine the package provides:
//   - Extraction of trade cycles and dividend income from raw
//     Interactive Brokers activity exports ([ParseIBExport]).
//   - Currency-conversion rate configuration for the report formulas
//     ([LoadRates]).
//   - Dividend income aggregation, a parallel accounting path with no
//     lot matching ([DividendIncome]).
//
// Rendering of the spreadsheet report and the leftover rollover file
// lives in the report subpackage; the stax command-line tool wires the
// pipeline together.
package sharestax
