package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"github.com/vkovalev/sharestax"
	"github.com/vkovalev/sharestax/report"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	source   string
	out      string
	config   string
	logLevel string
	pretty   bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "compute FIFO capital gains and write the tax report" }
func (*reportCmd) Usage() string {
	return `stax report [-source <csv>] [-out <dir>] [-config <ini>]

  Parses a broker activity export, matches sells against buys FIFO, and
  writes the tax report workbook plus the leftover rollover file.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.source, "source", env("SHARESTAX_SOURCE", "ib_export.csv"), "Broker activity export to process.")
	f.StringVar(&c.out, "out", env("SHARESTAX_OUT", "."), "Directory for the generated report files.")
	f.StringVar(&c.config, "config", env("SHARESTAX_CONFIG", "config.ini"), "Currency conversion rates configuration.")
	f.StringVar(&c.logLevel, "log", env("SHARESTAX_LOG", "info"), "Log level (debug, info, warn, error).")
	f.BoolVar(&c.pretty, "pretty", true, "Human-readable log output.")
}

func (c *reportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := newLogger(c.logLevel, c.pretty)

	info, err := os.Stat(c.out)
	if err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "Output directory %q is not usable: %v\n", c.out, err)
		return subcommands.ExitUsageError
	}

	ratesFile, err := os.Open(c.config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open rates configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	rates, err := sharestax.LoadRates(ratesFile)
	ratesFile.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid rates configuration %q: %v\n", c.config, err)
		return subcommands.ExitFailure
	}

	source, err := os.Open(c.source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open source export: %v\n", err)
		return subcommands.ExitFailure
	}
	data, err := sharestax.ParseIBExport(source, log)
	source.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot parse %q: %v\n", c.source, err)
		return subcommands.ExitFailure
	}

	gains, leftovers, err := sharestax.Calculate(data.TradeCycles, log)
	if err != nil {
		// Calculate reports per-pair failures but still returns the
		// pairs that matched; surface the failures and keep going.
		log.Error().Err(err).Msg("some pairs failed to match")
	}

	rolloverPath := filepath.Join(c.out, "shares-leftover.csv")
	rollover, ferr := os.Create(rolloverPath)
	if ferr != nil {
		fmt.Fprintf(os.Stderr, "Cannot create rollover file: %v\n", ferr)
		return subcommands.ExitFailure
	}
	if werr := report.WriteRollover(rollover, leftovers); werr != nil {
		rollover.Close()
		fmt.Fprintf(os.Stderr, "Cannot write rollover file: %v\n", werr)
		return subcommands.ExitFailure
	}
	rollover.Close()
	log.Info().Str("path", rolloverPath).Int("pairs", len(leftovers)).Msg("wrote leftover rollover file")

	extractPath := filepath.Join(c.out, "extract.xlsx")
	if werr := report.WriteWorkbook(extractPath, gains, data.Dividends, rates, log); werr != nil {
		fmt.Fprintf(os.Stderr, "Cannot write report workbook: %v\n", werr)
		return subcommands.ExitFailure
	}

	if err != nil {
		return subcommands.ExitFailure
	}
	fmt.Println("Processing completed successfully!")
	return subcommands.ExitSuccess
}
