package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"FinScore/internal/domain/models"

	"github.com/google/subcommands"
)

type scanCmd struct {
	env      *Env
	universe string
	symbols  string
	strategy string
}

func (*scanCmd) Name() string     { return "scan" }
func (*scanCmd) Synopsis() string { return "score a universe or a symbol list for momentum" }
func (*scanCmd) Usage() string {
	return `finscore scan [-u <universe>] [-s SYM1,SYM2] [-strategy scan|classic]

  Runs a momentum scan and prints the ordered signals with their summary.
`
}

func (c *scanCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.universe, "u", "", "universe id (defaults to the configured one)")
	f.StringVar(&c.symbols, "s", "", "comma separated symbols, overrides -u")
	f.StringVar(&c.strategy, "strategy", "", "scoring strategy")
}

func (c *scanCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	req := models.ScanRequest{Universe: c.universe, Strategy: c.strategy}
	if c.symbols != "" {
		req.Symbols = strings.Split(c.symbols, ",")
	}
	return c.env.run(func(e Engine) (interface{}, error) {
		return e.ScanMomentum(ctx, req)
	})
}

type screenCmd struct {
	env    *Env
	minCap float64
	maxCap float64
	sector string
	cc     string
	exch   string
	limit  int
	sortBy string
}

func (*screenCmd) Name() string     { return "screen" }
func (*screenCmd) Synopsis() string { return "rank companies by fundamental quality and valuation" }
func (*screenCmd) Usage() string {
	return `finscore screen [-min <cap>] [-max <cap>] [-sector <s>] [-country <c>] [-exchange <e>] [-n <limit>] [-sort total|quality|valuation]

  Scores the screener candidates and prints them ranked.
`
}

func (c *screenCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.minCap, "min", 1e9, "minimum market cap")
	f.Float64Var(&c.maxCap, "max", 0, "maximum market cap (0 for none)")
	f.StringVar(&c.sector, "sector", "", "sector filter")
	f.StringVar(&c.cc, "country", "", "country filter")
	f.StringVar(&c.exch, "exchange", "", "exchange filter")
	f.IntVar(&c.limit, "n", 20, "number of results")
	f.StringVar(&c.sortBy, "sort", "total", "sort key: total, quality or valuation")
}

func (c *screenCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	req := models.ScreenRequest{
		MarketCapMin: c.minCap,
		MarketCapMax: c.maxCap,
		Sector:       c.sector,
		Country:      c.cc,
		Exchange:     c.exch,
		Limit:        c.limit,
		SortBy:       c.sortBy,
	}
	return c.env.run(func(e Engine) (interface{}, error) {
		return e.ScoreFundamentals(ctx, req)
	})
}

type indicatorsCmd struct {
	env      *Env
	symbol   string
	lookback int
	file     string
	stdin    io.Reader
}

func (*indicatorsCmd) Name() string     { return "indicators" }
func (*indicatorsCmd) Synopsis() string { return "compute the indicator snapshot of one series" }
func (*indicatorsCmd) Usage() string {
	return `finscore indicators (-s <symbol> [-lookback <days>] | -f <series.json>)

  Prints RSI, MACD, moving averages and the volume ratio at the latest bar.
  -f - reads the series from standard input.
`
}

func (c *indicatorsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "symbol to fetch")
	f.IntVar(&c.lookback, "lookback", 0, "days of history to fetch")
	f.StringVar(&c.file, "f", "", "JSON price series file")
}

func (c *indicatorsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	req := models.IndicatorsRequest{Symbol: c.symbol, LookbackDays: c.lookback}
	if c.file != "" {
		series, err := c.readSeries()
		if err != nil {
			fmt.Fprintf(c.env.Err, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		req.Series = series
	} else if c.symbol == "" {
		fmt.Fprintln(c.env.Err, "Error: -s or -f is required")
		return subcommands.ExitUsageError
	}
	return c.env.run(func(e Engine) (interface{}, error) {
		return e.ComputeIndicators(ctx, req)
	})
}

func (c *indicatorsCmd) readSeries() (*models.PriceSeries, error) {
	var r io.Reader
	if c.file == "-" {
		r = c.stdin
		if r == nil {
			r = os.Stdin
		}
	} else {
		fh, err := os.Open(c.file)
		if err != nil {
			return nil, err
		}
		defer fh.Close()
		r = fh
	}
	var s models.PriceSeries
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode series: %w", err)
	}
	return &s, nil
}

type universesCmd struct {
	env *Env
}

func (*universesCmd) Name() string     { return "universes" }
func (*universesCmd) Synopsis() string { return "list the configured symbol universes" }
func (*universesCmd) Usage() string {
	return `finscore universes
`
}

func (*universesCmd) SetFlags(*flag.FlagSet) {}

func (c *universesCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(func(e Engine) (interface{}, error) {
		return e.ListUniverses(), nil
	})
}
