package main

import (
	"errors"

	latticeslack "github.com/bcdannyboy/lattice/slack"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newSlackCmd(loadConfig configLoader, logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "slack",
		Short: "Serve /price and /help slash commands over Slack socket mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Slack.AppToken == "" || cfg.Slack.BotToken == "" {
				return errors.New("SLACK_APP_TOKEN and SLACK_BOT_TOKEN are required")
			}

			return latticeslack.NewSlackBot(cfg.Slack.AppToken, cfg.Slack.BotToken, logger).Start()
		},
	}
}
