package latticeslack

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
)

// Command answers one slash command with a reply for the channel.
type Command interface {
	Reply(cmd slack.SlashCommand) string
}

type Handler struct {
	commands map[string]Command
	logger   logrus.FieldLogger
}

func NewHandler(logger logrus.FieldLogger) *Handler {
	return &Handler{
		commands: map[string]Command{
			"/help":  NewHelpHandler(),
			"/price": NewPriceHandler(),
		},
		logger: logger,
	}
}

func (h *Handler) Handle(evt *socketmode.Event, client *socketmode.Client) error {
	data, ok := evt.Data.(slack.SlashCommand)
	if !ok {
		return fmt.Errorf("unexpected slash command payload %T", evt.Data)
	}
	client.Ack(*evt.Request)

	reply := h.Reply(data)
	_, _, err := client.PostMessage(data.ChannelID, slack.MsgOptionText(reply, false))
	return err
}

// Reply routes the command to its handler; unknown commands get the help text.
func (h *Handler) Reply(data slack.SlashCommand) string {
	h.logger.WithFields(logrus.Fields{
		"command": data.Command,
		"user":    data.UserName,
	}).Debug("handling slash command")

	cmd, ok := h.commands[data.Command]
	if !ok {
		cmd = h.commands["/help"]
	}
	return cmd.Reply(data)
}
