package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/bcdannyboy/lattice/convergence"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/xhhuango/json"
)

func newConvergeCmd(loadConfig configLoader, logger *log.Logger) *cobra.Command {
	var (
		sigma    float64
		start    int
		points   int
		workers  int
		progress bool
	)

	cmd := &cobra.Command{
		Use:   "converge",
		Short: "Compare CRR lattice prices with Black-Scholes as the step count doubles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			params, err := pricingParams(cmd.Flags(), cfg.Pricing)
			if err != nil {
				return err
			}

			sweep := convergence.Config{
				Spot:     params.Spot,
				Strike:   params.Strike,
				Maturity: params.Maturity,
				Rate:     params.Rate,
				Sigma:    sigma,
				Kind:     params.Kind,
				Steps:    convergence.DoublingSteps(start, points),
				Workers:  workers,
				Logger:   logger,
			}
			if progress {
				sweep.Progress = cmd.ErrOrStderr()
			}

			report, err := convergence.Sweep(cmd.Context(), sweep)
			if err != nil {
				return err
			}

			asJSON, _ := cmd.Flags().GetBool("json")
			return writeReport(cmd.OutOrStdout(), asJSON, report)
		},
	}

	flags := cmd.Flags()
	flags.Float64("spot", 0, "Spot price of the underlying (S0).")
	flags.Float64("strike", 0, "Strike price (K).")
	flags.Float64("maturity", 0, "Time to maturity in years (T).")
	flags.Float64("rate", 0, "Continuously compounded risk-free rate (r).")
	flags.String("kind", "", "Option kind: call or put.")
	flags.Bool("json", false, "Print the report as JSON.")
	flags.Float64Var(&sigma, "sigma", 0.2, "Annualized volatility used for the CRR factors and Black-Scholes.")
	flags.IntVar(&start, "start", 25, "Smallest step count in the sweep.")
	flags.IntVar(&points, "points", 6, "Number of step counts, each double the previous.")
	flags.IntVar(&workers, "workers", 0, "Concurrent pricing workers (default: logical CPUs).")
	flags.BoolVar(&progress, "progress", false, "Show a progress bar on stderr.")
	return cmd
}

func writeReport(w io.Writer, asJSON bool, report convergence.Report) error {
	if asJSON {
		data, err := json.Marshal(report)
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Steps", "Lattice", "Error", "N x |Error|"})
	for _, p := range report.Points {
		table.Append([]string{
			strconv.Itoa(p.Steps),
			formatFloat(p.Price),
			formatFloat(p.Error),
			formatFloat(p.AbsError * float64(p.Steps)),
		})
	}
	table.Render()

	fmt.Fprintf(w, "Black-Scholes: %s\n", formatFloat(report.BlackScholes))
	if report.OrderEstimated {
		fmt.Fprintf(w, "Empirical order: %.3f\n", report.Order)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

