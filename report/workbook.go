// Package report renders the outputs of a capital gains run: the tax
// report workbook and the leftover rollover file for the next period.
package report

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/vkovalev/sharestax"
)

const (
	sheetName = "Reporting"

	headerRow1 = 1
	headerRow2 = 2
	startRow   = 3

	colCountryOfSource = 2
	colSaleDay         = 3
	colWHTCountry      = 11
	colExpenses        = 13
	colSymbol          = 15

	numberFormat = "0.000000"
)

var firstHeader = []string{
	"Beneficiary",
	"Country of Source",
	"SALE", "", "", "",
	"PURCHASE", "", "", "",
	"WITHOLDING TAX", "",
	"Expenses incurred with obtaining the capital gains", "",
	"Symbol",
	"Currency",
	"Sale amount",
	"Buy amount",
	"Expenses amount",
}

var secondHeader = []string{
	"", "",
	"Day", "Month", "Year", "Amount",
	"Day", "Month", "Year", "Amount",
	"Country", "Amount",
	"", "", "", "", "", "", "",
}

// WriteWorkbook writes the tax report workbook: one row per capital
// gain line with spreadsheet formulas converting each amount to the
// target currency, a rate table block, and a capital investment income
// section when dividend data is present.
func WriteWorkbook(path string, gains sharestax.CapitalGainLinesPerCompany, dividends sharestax.DividendIncomePerCompany, rates sharestax.RatesTable, log zerolog.Logger) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("cannot create report sheet: %w", err)
	}

	numStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(numberFormat)})
	if err != nil {
		return fmt.Errorf("cannot create number style: %w", err)
	}
	placeholderStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFFF0000"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("cannot create placeholder style: %w", err)
	}

	for i, h := range firstHeader {
		setCell(f, i+1, headerRow1, h)
	}
	for i, h := range secondHeader {
		setCell(f, i+1, headerRow2, h)
	}

	rateCells, err := writeRatesTable(f, len(firstHeader)+2, 1, rates)
	if err != nil {
		return err
	}

	row := startRow
	lineCount := 0
	for _, key := range sortedGainKeys(gains) {
		for _, line := range gains[key] {
			if line.Currency() != key.Currency {
				return fmt.Errorf("currency mismatch in gain line for %s: %s != %s", key.Company.Ticker, key.Currency, line.Currency())
			}
			rateCell, ok := rateCells[line.Currency()]
			if !ok {
				return fmt.Errorf("no conversion rate configured for %s", line.Currency())
			}

			setCell(f, colCountryOfSource, row, key.Company.Country)

			col := colSaleDay
			setCell(f, col, row, line.SellDate().Day())
			setCell(f, col+1, row, line.SellDate().Month().String())
			setCell(f, col+2, row, line.SellDate().Year())
			setFormula(f, col+3, row, fmt.Sprintf("%s*(%s)", rateCell, line.SellAmountFormula()))

			col += 4
			setCell(f, col, row, line.BuyDate().Day())
			setCell(f, col+1, row, line.BuyDate().Month().String())
			setCell(f, col+2, row, line.BuyDate().Year())
			setFormula(f, col+3, row, fmt.Sprintf("%s*(%s)", rateCell, line.BuyAmountFormula()))

			setCell(f, colWHTCountry, row, key.Company.Country)

			setFormula(f, colExpenses, row, fmt.Sprintf("%s*(%s)", rateCell, line.ExpenseFormula()))

			setCell(f, colSymbol, row, key.Company.Ticker)
			setCell(f, colSymbol+1, row, string(key.Currency))
			setFormula(f, colSymbol+2, row, line.SellAmountFormula())
			setFormula(f, colSymbol+3, row, line.BuyAmountFormula())
			setFormula(f, colSymbol+4, row, line.ExpenseFormula())

			styleRange(f, colExpenses, colSymbol+4, row, numStyle)
			if line.IsPlaceholderBuy() {
				styleRange(f, colSaleDay, colSymbol+4, row, placeholderStyle)
			}

			row++
			lineCount++
		}
	}

	if len(dividends) > 0 {
		if err := writeDividendSection(f, row+1, dividends, rateCells, numStyle); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("cannot save report workbook: %w", err)
	}
	log.Info().Str("path", path).Int("lines", lineCount).Int("dividend_securities", len(dividends)).Msg("wrote tax report")
	return nil
}

// writeRatesTable writes the currency exchange block and returns the
// absolute cell reference of each currency's rate, for use in formulas.
// The target currency itself converts at 1.
func writeRatesTable(f *excelize.File, col, row int, rates sharestax.RatesTable) (map[sharestax.Currency]string, error) {
	setCell(f, col, row, "Currency exchange rate")
	row++
	setCell(f, col, row, "Base/target")
	setCell(f, col+1, row, "Rate")

	cells := make(map[sharestax.Currency]string, len(rates.Rates)+1)
	write := func(quote sharestax.Currency, value string) error {
		row++
		setCell(f, col, row, fmt.Sprintf("%s/%s", rates.Target, quote))
		setCell(f, col+1, row, value)
		cell, err := excelize.CoordinatesToCellName(col+1, row, true)
		if err != nil {
			return fmt.Errorf("cannot build rate cell reference: %w", err)
		}
		cells[quote] = cell
		return nil
	}
	for _, r := range rates.Rates {
		if err := write(r.Quote, r.Rate.String()); err != nil {
			return nil, err
		}
	}
	if err := write(rates.Target, "1"); err != nil {
		return nil, err
	}
	return cells, nil
}

var dividendHeaders = []string{
	"Beneficiary\n(choose one)",
	"Type of capital income\n(choose one)",
	"Country of source",
	"ISIN",
	"Gross amount",
	"Withholding tax at source",
	"Withholding tax in Portugal\n(if any)",
	"",
	"Symbol",
	"Currency",
	"Original gross amount",
	"Original tax amount",
	"Net amount",
}

func writeDividendSection(f *excelize.File, row int, dividends sharestax.DividendIncomePerCompany, rateCells map[sharestax.Currency]string, numStyle int) error {
	setCell(f, 1, row, "5. CAPITAL INVESTMENT INCOME:")
	row += 2
	for i, h := range dividendHeaders {
		setCell(f, i+1, row, h)
	}
	row++

	symbols := make([]string, 0, len(dividends))
	for symbol := range dividends {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	for _, symbol := range symbols {
		d := dividends[symbol]
		rateCell, ok := rateCells[d.Currency]
		if !ok {
			return fmt.Errorf("no conversion rate configured for %s", d.Currency)
		}
		setCell(f, 2, row, "Dividends")
		setCell(f, 3, row, d.Country)
		setCell(f, 4, row, d.ISIN)
		setFormula(f, 5, row, fmt.Sprintf("%s*(%s)", rateCell, d.Gross.Amount()))
		setFormula(f, 6, row, fmt.Sprintf("%s*(%s)", rateCell, d.Taxes.Amount()))
		setCell(f, 9, row, symbol)
		setCell(f, 10, row, string(d.Currency))
		setCell(f, 11, row, d.Gross.Amount().String())
		setCell(f, 12, row, d.Taxes.Amount().String())
		setCell(f, 13, row, d.Net().Amount().String())
		styleRange(f, 5, 13, row, numStyle)
		row++
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value any) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return
	}
	_ = f.SetCellValue(sheetName, cell, value)
}

func setFormula(f *excelize.File, col, row int, formula string) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return
	}
	_ = f.SetCellFormula(sheetName, cell, formula)
}

func styleRange(f *excelize.File, fromCol, toCol, row int, style int) {
	from, err1 := excelize.CoordinatesToCellName(fromCol, row)
	to, err2 := excelize.CoordinatesToCellName(toCol, row)
	if err1 != nil || err2 != nil {
		return
	}
	_ = f.SetCellStyle(sheetName, from, to, style)
}

func strPtr(s string) *string { return &s }

func sortedGainKeys(gains sharestax.CapitalGainLinesPerCompany) []sharestax.CurrencyCompany {
	keys := make([]sharestax.CurrencyCompany, 0, len(gains))
	for key := range gains {
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
