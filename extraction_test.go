package sharestax

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `Statement,Header,Field Name,Field Value
Statement,Data,BrokerName,Interactive Brokers
Trades,Header,DataDiscriminator,Asset Category,Currency,Symbol,Date/Time,Quantity,T. Price,C. Price,Proceeds,Comm/Fee,Basis,Realized P/L,Code
Trades,Data,Order,Stocks,USD,ACME,"2021-05-18, 10:30:00",15,6.77,6.80,-101.55,-0.36225725,101.91,0,O
Trades,Data,Order,Stocks,USD,ACME,"2021-06-03, 14:05:12",-10,7.875,7.90,78.75,-0.353848875,-67.94,10.45,C
Trades,Data,Order,Stocks,EUR,ZEN,"2021-07-01, 09:00:00",8,21.40,21.50,-171.20,-1.25,172.45,0,O
Trades,SubTotal,,Stocks,USD,ACME,,5,,,,,,,
Trades,Data,Order,Forex,USD,EUR.USD,"2021-07-02, 09:00:00",100,1.18,,,-2,,,
Financial Instrument Information,Header,Asset Category,Symbol,Description,Conid,Security ID,Listing Exch,Multiplier,Type
Financial Instrument Information,Data,Stocks,ACME,ACME CORP,12345,US0000000018,NYSE,1,COMMON
Financial Instrument Information,Data,Stocks,ZEN,ZEN SE,67890,DE0000000007,IBIS,1,COMMON
Dividends,Header,Currency,Date,Description,Amount
Dividends,Data,USD,2021-06-10,ACME(US0000000018) Cash Dividend USD 0.10 per Share (Ordinary Dividend),1.5
Dividends,Data,USD,2021-09-10,ACME(US0000000018) Cash Dividend USD 0.10 per Share (Ordinary Dividend),1.5
Dividends,Data,USD,2021-12-10,MYST Cash Dividend USD 0.05 per Share (Ordinary Dividend),0.5
Dividends,Data,Total,,,3.5
Withholding Tax,Header,Currency,Date,Description,Amount,Code
Withholding Tax,Data,USD,2021-06-10,ACME(US0000000018) Cash Dividend USD 0.10 per Share - US Tax,-0.23
Withholding Tax,Data,Total,,,-0.23,
`

func TestParseIBExport(t *testing.T) {
	data, err := ParseIBExport(strings.NewReader(sampleExport), zerolog.Nop())
	require.NoError(t, err)

	require.Len(t, data.TradeCycles, 2)
	acmeKey := CurrencyCompany{
		Currency: "USD",
		Company:  Company{Ticker: "ACME", ISIN: "US0000000018", Country: "United States"},
	}
	zenKey := CurrencyCompany{
		Currency: "EUR",
		Company:  Company{Ticker: "ZEN", ISIN: "DE0000000007", Country: "Germany"},
	}
	require.Contains(t, data.TradeCycles, acmeKey, "instrument info should enrich the trade with ISIN and country")
	require.Contains(t, data.TradeCycles, zenKey)

	cycle := data.TradeCycles[acmeKey]
	require.Len(t, cycle.Side(Buy), 1)
	require.Len(t, cycle.Side(Sell), 1)

	bought := cycle.Side(Buy)[0].Trade
	assert.True(t, bought.Quantity().Equal(Q(15)))
	assert.True(t, bought.Price().Equal(usd(6.77)))
	assert.True(t, bought.Fee().Equal(usd(0.36225725)), "fee should be stored as a magnitude")
	assert.Equal(t, "2021-05-18", bought.Day().String())

	sold := cycle.Side(Sell)[0].Trade
	assert.Equal(t, Sell, sold.Side())
	assert.True(t, sold.Quantity().Equal(Q(10)))

	// The forex execution and the subtotal row are not stock orders.
	assert.True(t, data.TradeCycles[zenKey].Quantity(Buy).Equal(Q(8)))
}

func TestParseIBExport_AggregatesDividends(t *testing.T) {
	data, err := ParseIBExport(strings.NewReader(sampleExport), zerolog.Nop())
	require.NoError(t, err)

	require.Contains(t, data.Dividends, "ACME")
	acmeDiv := data.Dividends["ACME"]
	assert.Equal(t, "US0000000018", acmeDiv.ISIN)
	assert.Equal(t, "United States", acmeDiv.Country)
	assert.True(t, acmeDiv.Gross.Equal(usd(3)), "Gross = %s, want 3", acmeDiv.Gross.Amount())
	assert.True(t, acmeDiv.Taxes.Equal(usd(0.23)), "Taxes = %s, want 0.23 magnitude", acmeDiv.Taxes.Amount())
	assert.True(t, acmeDiv.Net().Equal(usd(2.77)))
}

func TestParseIBExport_FlagsDividendWithoutInstrumentInfo(t *testing.T) {
	data, err := ParseIBExport(strings.NewReader(sampleExport), zerolog.Nop())
	require.NoError(t, err)

	require.Contains(t, data.Dividends, "MYST")
	assert.Equal(t, MissingISIN, data.Dividends["MYST"].ISIN)
}

func TestParseIBExport_NoStockTradesIsAnError(t *testing.T) {
	export := `Statement,Header,Field Name,Field Value
Dividends,Header,Currency,Date,Description,Amount
Dividends,Data,USD,2021-06-10,ACME(US0000000018) Cash Dividend USD 0.10 per Share (Ordinary Dividend),1.5
`
	_, err := ParseIBExport(strings.NewReader(export), zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no stock trades")
}
