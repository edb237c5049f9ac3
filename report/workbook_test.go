package report

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vkovalev/sharestax"
)

func eurRates() sharestax.RatesTable {
	return sharestax.RatesTable{
		Target: "EUR",
		Rates: []sharestax.ConversionRate{
			{Base: "EUR", Quote: "USD", Rate: decimal.RequireFromString("1.0545")},
		},
	}
}

func matchedGains(t *testing.T) (sharestax.CurrencyCompany, []sharestax.CapitalGainLine) {
	t.Helper()
	company, err := sharestax.NewCompany("ACME", "US0000000018")
	require.NoError(t, err)
	cycle := &sharestax.TradeCycle{}
	cycle.Append(execution("ACME", "US0000000018", "USD", "2021-05-18, 10:30:00", 15, 6.77, 0.36225725))
	cycle.Append(execution("ACME", "US0000000018", "USD", "2021-06-03, 14:05:12", -10, 7.875, 0.353848875))
	lines, err := sharestax.CompanyGains(cycle, "USD", company)
	require.NoError(t, err)
	return sharestax.CurrencyCompany{Currency: "USD", Company: company}, lines
}

func TestWriteWorkbook(t *testing.T) {
	key, lines := matchedGains(t)
	gains := sharestax.CapitalGainLinesPerCompany{key: lines}

	path := filepath.Join(t.TempDir(), "extract.xlsx")
	require.NoError(t, WriteWorkbook(path, gains, nil, eurRates(), zerolog.Nop()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	cell := func(ref string) string {
		v, err := f.GetCellValue(sheetName, ref)
		require.NoError(t, err)
		return v
	}
	formula := func(ref string) string {
		v, err := f.GetCellFormula(sheetName, ref)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Beneficiary", cell("A1"))
	assert.Equal(t, "Day", cell("C2"))

	// First gain line on the first data row.
	assert.Equal(t, "United States", cell("B3"))
	assert.Equal(t, "3", cell("C3"))
	assert.Equal(t, "June", cell("D3"))
	assert.Equal(t, "2021", cell("E3"))
	assert.Equal(t, "18", cell("G3"))
	assert.Equal(t, "May", cell("H3"))
	assert.Equal(t, "ACME", cell("O3"))
	assert.Equal(t, "USD", cell("P3"))
	assert.Equal(t, "0+10*7.875", formula("Q3"))
	assert.Equal(t, "0+10*6.77", formula("R3"))

	// Converted amounts reference the USD rate cell of the rate block.
	assert.Equal(t, "$V$3*(0+10*7.875)", formula("F3"))
	assert.Equal(t, "$V$3*(0+10*6.77)", formula("J3"))

	// Rate block: header, one configured pair, target at 1.
	assert.Equal(t, "Currency exchange rate", cell("U1"))
	assert.Equal(t, "EUR/USD", cell("U3"))
	assert.Equal(t, "1.0545", cell("V3"))
	assert.Equal(t, "EUR/EUR", cell("U4"))
	assert.Equal(t, "1", cell("V4"))
}

func TestWriteWorkbook_DividendSection(t *testing.T) {
	key, lines := matchedGains(t)
	gains := sharestax.CapitalGainLinesPerCompany{key: lines}
	dividends := sharestax.DividendIncomePerCompany{
		"ACME": {
			Symbol:   "ACME",
			ISIN:     "US0000000018",
			Country:  "United States",
			Currency: "USD",
			Gross:    sharestax.M(3, "USD"),
			Taxes:    sharestax.M(0.45, "USD"),
		},
	}

	path := filepath.Join(t.TempDir(), "extract.xlsx")
	require.NoError(t, WriteWorkbook(path, gains, dividends, eurRates(), zerolog.Nop()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	// One gain line ends on row 3, so the section title lands on row 5,
	// its headers on row 7 and the first entry on row 8.
	title, err := f.GetCellValue(sheetName, "A5")
	require.NoError(t, err)
	assert.Equal(t, "5. CAPITAL INVESTMENT INCOME:", title)

	kind, err := f.GetCellValue(sheetName, "B8")
	require.NoError(t, err)
	assert.Equal(t, "Dividends", kind)
	isin, err := f.GetCellValue(sheetName, "D8")
	require.NoError(t, err)
	assert.Equal(t, "US0000000018", isin)
	gross, err := f.GetCellFormula(sheetName, "E8")
	require.NoError(t, err)
	assert.Equal(t, "$V$3*(3)", gross)
	net, err := f.GetCellValue(sheetName, "M8")
	require.NoError(t, err)
	assert.Equal(t, "2.55", net)
}

func TestWriteWorkbook_MissingRateIsAnError(t *testing.T) {
	key, lines := matchedGains(t)
	gains := sharestax.CapitalGainLinesPerCompany{key: lines}
	rates := sharestax.RatesTable{Target: "EUR"}

	path := filepath.Join(t.TempDir(), "extract.xlsx")
	err := WriteWorkbook(path, gains, nil, rates, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conversion rate configured for USD")
}
