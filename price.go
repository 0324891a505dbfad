package main

import (
	"fmt"
	"io"

	"github.com/bcdannyboy/lattice/config"
	"github.com/bcdannyboy/lattice/models"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/xhhuango/json"
)

type configLoader func() (config.Config, error)

type priceOutput struct {
	Model  string                `json:"model"`
	Params models.BinomialParams `json:"params"`
	Price  float64               `json:"price"`
}

func addPricingFlags(flags *pflag.FlagSet, withLattice bool) {
	flags.Float64("spot", 0, "Spot price of the underlying (S0).")
	flags.Float64("strike", 0, "Strike price (K).")
	flags.Float64("rate", 0, "Continuously compounded risk-free rate (r).")
	flags.Float64("up", 0, "Up factor per step (u). Down defaults to 1/u when only up is given.")
	flags.Float64("down", 0, "Down factor per step (d).")
	flags.String("kind", "", "Option kind: call or put.")
	flags.Bool("allow-arbitrage", false, "Price even when the risk-neutral probability falls outside (0, 1).")
	flags.Bool("json", false, "Print the result as JSON.")
	if withLattice {
		flags.Float64("maturity", 0, "Time to maturity in years (T).")
		flags.Int("steps", 0, "Number of lattice steps (N).")
	}
}

// pricingParams starts from the loaded configuration and applies every flag
// the user set explicitly.
func pricingParams(flags *pflag.FlagSet, p config.Pricing) (models.BinomialParams, error) {
	params := models.BinomialParams{
		Spot:     p.Spot,
		Strike:   p.Strike,
		Maturity: p.Maturity,
		Rate:     p.Rate,
		Steps:    p.Steps,
		Up:       p.Up,
		Down:     p.Down,
		Kind:     p.Kind,
	}

	floatFlags := map[string]*float64{
		"spot":     &params.Spot,
		"strike":   &params.Strike,
		"maturity": &params.Maturity,
		"rate":     &params.Rate,
		"up":       &params.Up,
		"down":     &params.Down,
	}
	for name, dst := range floatFlags {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			continue
		}
		v, err := flags.GetFloat64(name)
		if err != nil {
			return params, err
		}
		*dst = v
	}
	if flags.Changed("up") && !flags.Changed("down") && params.Up != 0 {
		params.Down = 1 / params.Up
	}

	if flags.Lookup("steps") != nil && flags.Changed("steps") {
		steps, err := flags.GetInt("steps")
		if err != nil {
			return params, err
		}
		params.Steps = steps
	}

	if flags.Changed("kind") {
		value, err := flags.GetString("kind")
		if err != nil {
			return params, err
		}
		if params.Kind, err = models.ParseOptionKind(value); err != nil {
			return params, err
		}
	}

	if flags.Lookup("allow-arbitrage") != nil {
		allow, err := flags.GetBool("allow-arbitrage")
		if err != nil {
			return params, err
		}
		params.AllowArbitrage = allow
	}
	return params, nil
}

func writePrice(w io.Writer, asJSON bool, out priceOutput) error {
	if !asJSON {
		_, err := fmt.Fprintln(w, out.Price)
		return err
	}

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newPriceCmd(loadConfig configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a European option on an N-step binomial lattice",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			params, err := pricingParams(cmd.Flags(), cfg.Pricing)
			if err != nil {
				return err
			}

			price, err := models.PriceBinomial(params)
			if err != nil {
				return err
			}

			asJSON, _ := cmd.Flags().GetBool("json")
			return writePrice(cmd.OutOrStdout(), asJSON, priceOutput{Model: "binomial", Params: params, Price: price})
		},
	}
	addPricingFlags(cmd.Flags(), true)
	return cmd
}

func newOnePeriodCmd(loadConfig configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "one-period",
		Short: "Price a European option over a single period of unit length",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			params, err := pricingParams(cmd.Flags(), cfg.Pricing)
			if err != nil {
				return err
			}
			params.Maturity, params.Steps = 1, 1

			price, err := models.PriceOnePeriod(params.Spot, params.Strike, params.Rate, params.Up, params.Down, params.Kind, params.AllowArbitrage)
			if err != nil {
				return err
			}

			asJSON, _ := cmd.Flags().GetBool("json")
			return writePrice(cmd.OutOrStdout(), asJSON, priceOutput{Model: "one-period", Params: params, Price: price})
		},
	}
	addPricingFlags(cmd.Flags(), false)
	return cmd
}
