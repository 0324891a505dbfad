package latticeslack

import (
	"log"

	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
)

type SlackBot struct {
	client       *slack.Client
	socketClient *socketmode.Client
	eventHandler *Handler
	logger       *logrus.Logger
}

func NewSlackBot(appToken, botToken string, logger *logrus.Logger) *SlackBot {
	client := slack.New(
		botToken,
		slack.OptionAppLevelToken(appToken),
	)

	socketClient := socketmode.New(
		client,
		socketmode.OptionDebug(logger.IsLevelEnabled(logrus.DebugLevel)),
		socketmode.OptionLog(log.New(logger.Writer(), "socketmode: ", log.Lshortfile)),
	)

	return &SlackBot{
		client:       client,
		socketClient: socketClient,
		eventHandler: NewHandler(logger),
		logger:       logger,
	}
}

// Start dispatches slash commands until the socket connection ends.
func (sb *SlackBot) Start() error {
	go func() {
		for evt := range sb.socketClient.Events {
			switch evt.Type {
			case socketmode.EventTypeConnected:
				sb.logger.Info("connected to slack")
			case socketmode.EventTypeSlashCommand:
				if err := sb.eventHandler.Handle(&evt, sb.socketClient); err != nil {
					sb.logger.WithError(err).Error("slash command failed")
				}
			}
		}
	}()

	return sb.socketClient.Run()
}
