package sharestax

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// This file parses raw Interactive Brokers activity exports. The file
// is a concatenation of sections, each introduced by a row whose first
// two cells are the section name and "Header", followed by "Data" rows
// with the same section name. Sections are collected raw in a single
// pass and processed afterwards, because the Financial Instrument
// Information section (which carries the ISINs) usually appears after
// the Trades section it enriches.

const (
	sectionInstruments = "Financial Instrument Information"
	sectionTrades      = "Trades"
	sectionDividends   = "Dividends"
	sectionWithholding = "Withholding Tax"

	markerHeader = "Header"
	markerData   = "Data"
)

// ExportData holds everything extracted from one broker export.
type ExportData struct {
	TradeCycles TradeCyclePerCompany
	Dividends   DividendIncomePerCompany
}

// instrumentInfo is a security's identity as listed in the export.
type instrumentInfo struct {
	isin    string
	country string
}

// dividendRow is a raw Dividends or Withholding Tax data row.
type dividendRow struct {
	currency    string
	description string
	amount      string
	withholding bool // row came from the Withholding Tax section
}

// tradeRow is a raw Trades data row.
type tradeRow struct {
	symbol   string
	currency string
	datetime string
	quantity string
	price    string
	fee      string
}

// ParseIBExport reads a raw Interactive Brokers activity CSV export and
// returns the trade cycles and dividend income it contains.
func ParseIBExport(r io.Reader, log zerolog.Logger) (*ExportData, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var (
		section     string
		tradeCols   map[string]int
		divCols     map[string]int
		whtCols     map[string]int
		instruments = make(map[string]instrumentInfo)
		trades      []tradeRow
		dividends   []dividendRow
	)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read export: %w", err)
		}
		if len(row) < 2 {
			continue
		}

		if row[1] == markerHeader {
			section = row[0]
			switch section {
			case sectionTrades:
				if tradeCols, err = indexColumns(row, "Symbol", "Currency", "Date/Time", "Quantity", "T. Price", "Comm/Fee"); err != nil {
					return nil, fmt.Errorf("trades section: %w", err)
				}
			case sectionDividends:
				if divCols, err = indexColumns(row, "Currency", "Description", "Amount"); err != nil {
					return nil, fmt.Errorf("dividends section: %w", err)
				}
			case sectionWithholding:
				if whtCols, err = indexColumns(row, "Currency", "Description", "Amount"); err != nil {
					return nil, fmt.Errorf("withholding tax section: %w", err)
				}
			}
			continue
		}
		if row[1] != markerData || row[0] != section {
			continue
		}

		switch section {
		case sectionInstruments:
			// Format: ...,Data,Stocks,Symbol,Description,Conid,Security ID,...
			if len(row) < 7 || row[2] != "Stocks" {
				continue
			}
			// A row may list several tickers for one instrument.
			for _, symbol := range strings.Split(row[3], ",") {
				symbol = strings.TrimSpace(symbol)
				isin := strings.TrimSpace(row[6])
				if symbol == "" || isin == "" {
					continue
				}
				instruments[symbol] = instrumentInfo{isin: isin, country: ISINCountry(isin)}
			}
		case sectionTrades:
			// Only stock order executions carry lot data.
			if len(row) < 4 || row[2] != "Order" || row[3] != "Stocks" {
				continue
			}
			tr := tradeRow{
				symbol:   cellAt(row, tradeCols["Symbol"]),
				currency: cellAt(row, tradeCols["Currency"]),
				datetime: cellAt(row, tradeCols["Date/Time"]),
				quantity: cellAt(row, tradeCols["Quantity"]),
				price:    cellAt(row, tradeCols["T. Price"]),
				fee:      cellAt(row, tradeCols["Comm/Fee"]),
			}
			if tr.symbol == "" || strings.TrimSpace(tr.datetime) == "" {
				continue
			}
			trades = append(trades, tr)
		case sectionDividends:
			dividends = append(dividends, dividendRow{
				currency:    cellAt(row, divCols["Currency"]),
				description: cellAt(row, divCols["Description"]),
				amount:      cellAt(row, divCols["Amount"]),
			})
		case sectionWithholding:
			dividends = append(dividends, dividendRow{
				currency:    cellAt(row, whtCols["Currency"]),
				description: cellAt(row, whtCols["Description"]),
				amount:      cellAt(row, whtCols["Amount"]),
				withholding: true,
			})
		}
	}

	if len(trades) == 0 {
		return nil, fmt.Errorf("no stock trades found in export")
	}

	cycles, err := processTrades(trades, instruments)
	if err != nil {
		return nil, err
	}
	income, err := processDividends(dividends, instruments, log)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("trades", len(trades)).
		Int("pairs", len(cycles)).
		Int("dividend_securities", len(income)).
		Msg("parsed broker export")
	return &ExportData{TradeCycles: cycles, Dividends: income}, nil
}

// indexColumns maps required column names to their index in a header row.
func indexColumns(header []string, names ...string) (map[string]int, error) {
	cols := make(map[string]int, len(names))
	for _, name := range names {
		found := -1
		for i, cell := range header {
			if cell == name {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("missing required column %q", name)
		}
		cols[name] = found
	}
	return cols, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// processTrades converts raw trade rows into trade cycles keyed by
// (currency, company), enriched with instrument information.
func processTrades(trades []tradeRow, instruments map[string]instrumentInfo) (TradeCyclePerCompany, error) {
	cycles := make(TradeCyclePerCompany)
	for _, tr := range trades {
		currency, err := ParseCurrency(tr.currency)
		if err != nil {
			return nil, fmt.Errorf("trade for %s: %w", tr.symbol, err)
		}
		company, err := NewCompany(tr.symbol, instruments[tr.symbol].isin)
		if err != nil {
			return nil, fmt.Errorf("trade row: %w", err)
		}
		when, err := time.ParseInLocation(TimestampFormat, tr.datetime, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("trade for %s: invalid timestamp %q: %w", tr.symbol, tr.datetime, err)
		}
		quantity, err := ParseQuantity(tr.quantity)
		if err != nil {
			return nil, fmt.Errorf("trade for %s: invalid quantity %q: %w", tr.symbol, tr.quantity, err)
		}
		price, err := ParseMoney(tr.price, currency)
		if err != nil {
			return nil, fmt.Errorf("trade for %s: invalid price %q: %w", tr.symbol, tr.price, err)
		}
		fee, err := ParseMoney(tr.fee, currency)
		if err != nil {
			return nil, fmt.Errorf("trade for %s: invalid fee %q: %w", tr.symbol, tr.fee, err)
		}

		key := CurrencyCompany{Currency: currency, Company: company}
		cycle, ok := cycles[key]
		if !ok {
			cycle = &TradeCycle{}
			cycles[key] = cycle
		}
		cycle.Append(NewTradeExecution(company, when, currency, quantity, price, fee))
	}
	return cycles, nil
}

// dividendSymbolRe extracts the leading ticker from a dividend
// description such as "NVDA(US67066G1040) Cash Dividend USD 0.04 per
// Share (Ordinary Dividend)".
var dividendSymbolRe = regexp.MustCompile(`^([A-Z0-9]+)(?:\s*\([A-Z0-9]+\))?\s+`)

// processDividends aggregates Dividends and Withholding Tax rows into
// per-security income entries. Subtotal rows (whose currency cell is
// not a valid code) are skipped.
func processDividends(rows []dividendRow, instruments map[string]instrumentInfo, log zerolog.Logger) (DividendIncomePerCompany, error) {
	income := make(DividendIncomePerCompany)
	for _, row := range rows {
		currency, err := ParseCurrency(row.currency)
		if err != nil {
			continue
		}
		m := dividendSymbolRe.FindStringSubmatch(row.description)
		if m == nil {
			log.Debug().Str("description", row.description).Msg("cannot extract symbol from dividend description")
			continue
		}
		symbol := m[1]

		amount, err := ParseMoney(row.amount, currency)
		if err != nil {
			return nil, fmt.Errorf("dividend for %s: invalid amount %q: %w", symbol, row.amount, err)
		}

		entry, ok := income[symbol]
		if !ok {
			info, found := instruments[symbol]
			isin, country := info.isin, info.country
			if !found || isin == "" {
				log.Error().Str("symbol", symbol).
					Msg("missing security information for dividend, entry flagged for manual review")
				isin, country = MissingISIN, "UNKNOWN_COUNTRY"
			}
			entry = &DividendIncome{
				Symbol:   symbol,
				ISIN:     isin,
				Country:  country,
				Currency: currency,
				Gross:    M(0, string(currency)),
				Taxes:    M(0, string(currency)),
			}
			income[symbol] = entry
		}

		if row.withholding || strings.Contains(row.description, "Tax") {
			// Withheld taxes come in negative; keep the magnitude.
			entry.Taxes = entry.Taxes.Add(amount.Abs())
		} else {
			entry.Gross = entry.Gross.Add(amount)
		}
		if err := entry.Validate(); err != nil {
			return nil, err
		}
	}
	return income, nil
}
