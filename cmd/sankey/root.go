package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sure/internal/cashflow"
	"sure/internal/cli"
	"sure/internal/config"
	applog "sure/internal/log"
	"sure/internal/period"
)

type options struct {
	cfg    *config.Config
	period string
	pretty bool
	logger *applog.Logger
}

// newRootCmd builds the command. Flag defaults come from the environment
// through config.Load, so the CLI and the server agree on the same settings.
func newRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &options{cfg: config.Load()}
	cmd := &cobra.Command{
		Use:   "sankey",
		Short: "Print the cash-flow sankey data for a ledger seed",
		Long: "Loads a YAML ledger seed, aggregates income and expenses for the\n" +
			"selected period and prints the sankey nodes and links as JSON.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.logger = cli.SetupLogger(opts.cfg.LogLevel, errOut).WithComponent(applog.ComponentCLI)
			return run(cmd.Context(), out, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.cfg.LedgerSeedPath, "seed", opts.cfg.LedgerSeedPath, "path to the YAML ledger seed")
	flags.StringVar(&opts.period, "period", period.DefaultKey, fmt.Sprintf("period key, one of %v", period.Keys()))
	flags.StringVar(&opts.cfg.CategoryPalette, "palette", opts.cfg.CategoryPalette, "comma separated fallback colors for income categories")
	flags.StringVar(&opts.cfg.UncategorizedColor, "uncategorized-color", opts.cfg.UncategorizedColor, "color of the uncategorized and expense nodes")
	flags.StringVar(&opts.cfg.LogLevel, "log-level", opts.cfg.LogLevel, "log level written to stderr")
	flags.BoolVar(&opts.pretty, "pretty", false, "indent the JSON output")
	cmd.AddCommand(newPeriodsCmd(out))
	return cmd
}

func newPeriodsCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "periods",
		Short: "List the available period keys",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			for _, p := range period.All() {
				if _, err := fmt.Fprintf(out, "%-14s %-4s %s\n", p.Key, p.LabelShort, p.Label); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func run(ctx context.Context, out io.Writer, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// The CLI is strict where the server is lenient: a bad key is an error.
	p, err := period.FromKey(opts.period)
	if err != nil {
		var invalid *period.InvalidKeyError
		if errors.As(err, &invalid) {
			return fmt.Errorf("%w (valid keys: %v)", err, period.Keys())
		}
		return err
	}

	logger := opts.logger
	if logger == nil {
		logger = applog.New(applog.Config{Output: io.Discard})
	}
	store, err := cli.OpenLedger(logger, opts.cfg.LedgerSeedPath)
	if err != nil {
		return err
	}
	family, err := store.Family(ctx)
	if err != nil {
		return err
	}
	income, err := store.IncomeTotals(ctx, p)
	if err != nil {
		return fmt.Errorf("income totals: %w", err)
	}
	expense, err := store.ExpenseTotals(ctx, p)
	if err != nil {
		return fmt.Errorf("expense totals: %w", err)
	}

	data := cashflow.Build(income, expense, family.Currency, opts.cfg.SankeyOptions())

	enc := json.NewEncoder(out)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(struct {
		Period period.Period       `json:"cashflow_period"`
		Sankey cashflow.SankeyData `json:"cashflow_sankey_data"`
	}{p, data})
}
