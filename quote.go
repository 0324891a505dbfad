package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bcdannyboy/lattice/models"
	"github.com/bcdannyboy/lattice/positions"
	"github.com/bcdannyboy/lattice/tradier"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/xhhuango/json"
)

type quoteOutput struct {
	Valuation  positions.Valuation `json:"valuation"`
	Method     string              `json:"volatility_method"`
	ByPeriod   map[string]float64  `json:"volatility_by_period"`
	Historical int                 `json:"history_days"`
}

func newQuoteCmd(loadConfig configLoader, logger *log.Logger) *cobra.Command {
	var (
		symbol     string
		strike     float64
		expiration string
		kind       string
		rate       float64
		steps      int
		method     string
		lookback   int
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a listed contract from Tradier market data",
		Long: `quote fetches the last price and daily history of the underlying from
Tradier, estimates volatility from the history and prices the contract on a
CRR lattice next to Black-Scholes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Tradier.Token == "" {
				return errors.New("TRADIER_KEY is required")
			}

			optionKind, err := models.ParseOptionKind(kind)
			if err != nil {
				return err
			}
			volMethod, err := models.ParseVolatilityMethod(method)
			if err != nil {
				return err
			}
			expiry, err := time.Parse("2006-01-02", expiration)
			if err != nil {
				return fmt.Errorf("parse expiration: %w", err)
			}

			client := tradier.NewClient(cfg.Tradier.BaseURL, cfg.Tradier.Token, nil)
			ctx := cmd.Context()
			now := time.Now()
			entry := logger.WithField("symbol", symbol)

			spot, err := client.GetLastPrice(ctx, symbol)
			if err != nil {
				return err
			}
			history, err := client.GetQuoteHistory(ctx, symbol, now.AddDate(0, 0, -lookback), now, "daily")
			if err != nil {
				return err
			}
			bars := history.Bars()
			entry.WithFields(log.Fields{"spot": spot, "bars": len(bars)}).Debug("fetched market data")

			sigma, err := models.EstimateVolatility(bars, volMethod)
			if err != nil {
				return err
			}
			byPeriod, err := models.VolatilityByPeriod(bars, volMethod)
			if err != nil {
				return err
			}

			valuation, err := positions.Evaluate(
				positions.Contract{Symbol: symbol, Kind: optionKind, Strike: strike, Expiration: expiry},
				positions.Market{Spot: spot, Rate: rate, Volatility: sigma},
				steps,
				now,
			)
			if err != nil {
				return err
			}

			return writeQuote(cmd.OutOrStdout(), asJSON, quoteOutput{
				Valuation:  valuation,
				Method:     string(volMethod),
				ByPeriod:   byPeriod,
				Historical: len(bars),
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&symbol, "symbol", "s", "", "Underlying symbol, e.g. SPY. This flag is required.")
	flags.Float64VarP(&strike, "strike", "k", 0, "Strike price. This flag is required.")
	flags.StringVarP(&expiration, "expiration", "e", "", "Expiration date in the format YYYY-MM-DD. This flag is required.")
	flags.StringVar(&kind, "kind", "call", "Option kind: call or put.")
	flags.Float64Var(&rate, "rate", 0.0379, "Continuously compounded risk-free rate.")
	flags.IntVar(&steps, "steps", 200, "Number of lattice steps.")
	flags.StringVar(&method, "method", string(models.YangZhang), "Volatility estimator: close, parkinson, garman-klass, rogers-satchell or yang-zhang.")
	flags.IntVar(&lookback, "lookback", 365, "Calendar days of history used for the volatility estimate.")
	flags.BoolVar(&asJSON, "json", false, "Print the valuation as JSON.")
	cmd.MarkFlagRequired("symbol")
	cmd.MarkFlagRequired("strike")
	cmd.MarkFlagRequired("expiration")
	return cmd
}

func writeQuote(w io.Writer, asJSON bool, out quoteOutput) error {
	if asJSON {
		data, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("marshal valuation: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	v := out.Valuation
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	table.AppendBulk([][]string{
		{"Contract", fmt.Sprintf("%s %s %g %s", v.Contract.Symbol, v.Contract.Kind, v.Contract.Strike, v.Contract.Expiration.Format("2006-01-02"))},
		{"Spot", formatFloat(v.Market.Spot)},
		{"Volatility (" + out.Method + ")", formatFloat(v.Market.Volatility)},
		{"Time to maturity", formatFloat(v.TimeToMaturity)},
		{"Steps", fmt.Sprint(v.Steps)},
		{"Risk-neutral q", formatFloat(v.RiskNeutralProb)},
		{"Lattice price", formatFloat(v.LatticePrice)},
		{"Black-Scholes", formatFloat(v.BlackScholesPrice)},
		{"Intrinsic", formatFloat(v.IntrinsicValue)},
		{"Extrinsic", formatFloat(v.ExtrinsicValue)},
	})
	if g := v.Greeks; g != nil {
		table.AppendBulk([][]string{
			{"Delta", formatFloat(g.Delta)},
			{"Gamma", formatFloat(g.Gamma)},
			{"Theta", formatFloat(g.Theta)},
			{"Vega", formatFloat(g.Vega)},
		})
	}
	table.Render()
	return nil
}
