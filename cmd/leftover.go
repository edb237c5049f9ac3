package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/vkovalev/sharestax"
)

// leftoverCmd holds the flags for the 'leftover' subcommand.
type leftoverCmd struct {
	source   string
	logLevel string
}

func (*leftoverCmd) Name() string     { return "leftover" }
func (*leftoverCmd) Synopsis() string { return "show fragments that would carry over to the next period" }
func (*leftoverCmd) Usage() string {
	return `stax leftover [-source <csv>]

  Runs the FIFO matching without writing any report and prints the
  unmatched fragments per (currency, company) pair.
`
}

func (c *leftoverCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.source, "source", env("SHARESTAX_SOURCE", "ib_export.csv"), "Broker activity export to process.")
	f.StringVar(&c.logLevel, "log", env("SHARESTAX_LOG", "warn"), "Log level (debug, info, warn, error).")
}

func (c *leftoverCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := newLogger(c.logLevel, true)

	source, err := os.Open(c.source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open source export: %v\n", err)
		return subcommands.ExitFailure
	}
	defer source.Close()

	data, err := sharestax.ParseIBExport(source, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot parse %q: %v\n", c.source, err)
		return subcommands.ExitFailure
	}

	_, leftovers, err := sharestax.Calculate(data.TradeCycles, log)
	if err != nil {
		log.Error().Err(err).Msg("some pairs failed to match")
	}

	if len(leftovers) == 0 {
		fmt.Println("No leftover fragments: all executions matched.")
		return subcommands.ExitSuccess
	}
	for key, cycle := range leftovers {
		for _, side := range []sharestax.TradeSide{sharestax.Sell, sharestax.Buy} {
			for _, part := range cycle.Side(side) {
				fmt.Printf("%s %s  %s %s of %v\n", key.Currency, key.Company.Ticker, side, part.Quantity, part.Trade)
			}
		}
	}
	if err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
