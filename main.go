package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/bcdannyboy/lattice/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCmd(logger *log.Logger) *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	rootCmd := &cobra.Command{
		Use:   "lattice",
		Short: "Price European options on a binomial lattice",
		Long: `lattice values European calls and puts by backward induction through a
recombining binomial tree, with a one-period variant, a convergence sweep
against Black-Scholes and market-data driven quotes.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML file with pricing parameters and data source settings.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")

	loadConfig := func() (config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
		logger.WithField("config", configPath).Debug("configuration loaded")
		return cfg, nil
	}

	rootCmd.AddCommand(
		newPriceCmd(loadConfig),
		newOnePeriodCmd(loadConfig),
		newConvergeCmd(loadConfig, logger),
		newQuoteCmd(loadConfig, logger),
		newSlackCmd(loadConfig, logger),
	)
	return rootCmd
}

func main() {
	logger := log.New()
	logger.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(logger).ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Fatalf("error running command: %v", err)
	}
}
